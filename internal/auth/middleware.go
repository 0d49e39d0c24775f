package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/logging"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for the verified user ID
	UserIDKey ContextKey = "userId"
	// UserEmailKey is the context key for the verified user email
	UserEmailKey ContextKey = "userEmail"
)

// RequireAuth returns chi middleware that verifies the Bearer token on every
// request and stores the identity in the request context.
func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputil.Unauthorized(w, "missing authentication token")
				return
			}
			id, err := v.Verify(r.Context(), token)
			if err != nil {
				logging.Infof("Auth rejected: %v", err)
				httputil.Unauthorized(w, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, id.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, id.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts a token from the ?token= query parameter or the
// Authorization header. Used by the WebSocket gate, where browsers cannot set
// headers on the upgrade request.
func TokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return bearerToken(r)
}

// UserID extracts the verified user ID from a request context.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
