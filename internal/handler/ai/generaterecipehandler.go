package ai

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Generate a full recipe from a short description
func GenerateRecipeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRecipeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		recipe, err := svcCtx.Gemini.GenerateRecipe(r.Context(), gemini.RecipeRequest{
			Description:  req.Description,
			Dietary:      req.Dietary,
			Allergies:    req.Allergies,
			Alternatives: req.Alternatives,
		})
		if err != nil {
			httputil.InternalError(w, "We couldn't create that recipe. Give it another try!")
			return
		}
		httputil.OkJSON(w, recipe)
	}
}
