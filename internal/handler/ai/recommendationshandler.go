package ai

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Recommend recipes for the ingredients on hand
func RecipeRecommendationsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RecipeRecommendationsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		recs, err := svcCtx.Gemini.RecipeRecommendations(r.Context(), req.Ingredients)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		if recs == nil {
			recs = []gemini.Recommendation{}
		}
		httputil.OkJSON(w, recs)
	}
}
