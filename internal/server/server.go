// Package server wires the HTTP surface: the live websocket endpoint, the
// authenticated REST API, and the public share preview.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/config"
	"github.com/cookaihq/cookai/internal/handler"
	"github.com/cookaihq/cookai/internal/handler/ai"
	"github.com/cookaihq/cookai/internal/handler/pantry"
	"github.com/cookaihq/cookai/internal/live"
	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/share"
	"github.com/cookaihq/cookai/internal/svc"
)

// Options holds optional server dependencies.
type Options struct {
	SvcCtx *svc.ServiceContext // pre-initialized service context
	Quiet  bool                // suppress request logging
}

// Run starts the server and blocks until the context is cancelled.
func Run(ctx context.Context, c config.Config, opts ...Options) error {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	svcCtx := o.SvcCtx
	if svcCtx == nil {
		var err error
		svcCtx, err = svc.NewServiceContext(ctx, c)
		if err != nil {
			return err
		}
		defer svcCtx.Close()
	}

	if c.IsReminderEnabled() {
		if err := svcCtx.Reminder.Start(c.Reminder.Schedule); err != nil {
			return err
		}
	}

	r := Router(svcCtx, o)

	// Note: ReadTimeout/WriteTimeout are intentionally omitted; they set
	// deadlines on the underlying net.Conn, which breaks long-lived hijacked
	// websocket connections. The live session enforces its own deadline.
	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", c.Port),
		Handler:     r,
		IdleTimeout: 120 * time.Second,
	}

	logging.Infof("server ready at http://localhost:%d", c.Port)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	logging.Infof("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Router builds the chi router. Split out so tests can mount it on httptest
// servers.
func Router(svcCtx *svc.ServiceContext, o Options) chi.Router {
	r := chi.NewRouter()

	if !o.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware())

	r.Get("/api/health", handler.HealthCheckHandler(svcCtx))

	// Live voice session. The gate does its own token check because browsers
	// cannot set headers on a websocket upgrade.
	r.Get("/ws", live.Handler(svcCtx.Verifier, svcCtx.Gemini, live.Options{
		SetupTimeout:    svcCtx.Config.SetupTimeout(),
		SessionDeadline: svcCtx.Config.SessionTimeLimit(),
		InputSampleRate: svcCtx.Config.Live.InputSampleRate,
	}))

	// Public share preview for crawlers and shared links.
	r.Get("/share/{token}", share.PreviewHandler(svcCtx.Store))

	// Authenticated API.
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(svcCtx.Verifier))

		r.Post("/scan-ingredients", ai.ScanIngredientsHandler(svcCtx))
		r.Post("/parse-grocery-text", ai.ParseGroceryTextHandler(svcCtx))
		r.Post("/parse-grocery-image", ai.ParseGroceryImageHandler(svcCtx))
		r.Post("/recipe-recommendations", ai.RecipeRecommendationsHandler(svcCtx))
		r.Post("/generate-recipe", ai.GenerateRecipeHandler(svcCtx))
		r.Post("/youtube-timestamps", ai.YouTubeTimestampsHandler(svcCtx))
		r.Post("/recipe-from-youtube", ai.RecipeFromYouTubeHandler(svcCtx))

		r.Get("/recipes", pantry.ListRecipesHandler(svcCtx))
		r.Post("/recipes", pantry.SaveRecipeHandler(svcCtx))
		r.Delete("/recipes/{id}", pantry.DeleteRecipeHandler(svcCtx))
		r.Post("/recipes/{id}/prepared", pantry.MarkRecipePreparedHandler(svcCtx))

		r.Get("/inventory", pantry.ListInventoryHandler(svcCtx))
		r.Post("/inventory", pantry.UpsertInventoryHandler(svcCtx))
		r.Delete("/inventory/{name}", pantry.DeleteInventoryHandler(svcCtx))

		r.Get("/settings", pantry.GetSettingsHandler(svcCtx))
		r.Put("/settings", pantry.SaveSettingsHandler(svcCtx))

		r.Post("/push-subscription", pantry.SavePushSubscriptionHandler(svcCtx))
		r.Delete("/push-subscription", pantry.DeletePushSubscriptionHandler(svcCtx))

		r.Post("/share", share.CreateHandler(svcCtx.Store))

		r.Post("/meal-reminder/trigger", handler.ReminderTriggerHandler(svcCtx))
	})

	return r
}

// corsMiddleware allows the hosted frontend to call the API from its own
// origin. Tokens ride in headers, not cookies, so a permissive policy is
// safe.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
