package ai

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Build a recipe from a video transcript, step timestamps included
func RecipeFromYouTubeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RecipeFromYouTubeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		recipe, err := svcCtx.Gemini.RecipeFromYouTube(r.Context(), gemini.VideoRecipeRequest{
			VideoURL:     req.VideoURL,
			Summary:      req.Summary,
			Segments:     req.Segments,
			Dietary:      req.Dietary,
			Allergies:    req.Allergies,
			Alternatives: req.Alternatives,
		})
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, recipe)
	}
}
