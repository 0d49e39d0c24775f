package ai

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Identify food ingredients in a photo
func ScanIngredientsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ScanIngredientsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		ingredients, err := svcCtx.Gemini.ScanIngredients(r.Context(), req.Image)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		if ingredients == nil {
			ingredients = []string{}
		}
		httputil.OkJSON(w, &types.ScanIngredientsResponse{Ingredients: ingredients})
	}
}
