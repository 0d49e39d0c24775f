package pantry

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// List the user's saved recipes
func ListRecipesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipes, err := svcCtx.Store.ListRecipes(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		if recipes == nil {
			recipes = []db.Recipe{}
		}
		httputil.OkJSON(w, recipes)
	}
}

// Save a recipe (creates when no id is given)
func SaveRecipeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SaveRecipeRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.Title == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "title is required")
			return
		}

		recipe := &db.Recipe{
			ID:          req.ID,
			UserID:      auth.UserID(r.Context()),
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
			Ingredients: req.Ingredients,
			Steps:       req.Steps,
		}
		if recipe.ID != "" {
			// Preserve the cooked timestamp across updates.
			existing, err := svcCtx.Store.GetRecipe(r.Context(), recipe.UserID, recipe.ID)
			if err != nil {
				httputil.InternalError(w, err.Error())
				return
			}
			if existing != nil {
				recipe.LastPreparedAt = existing.LastPreparedAt
				recipe.CreatedAt = existing.CreatedAt
			}
		}
		if err := svcCtx.Store.SaveRecipe(r.Context(), recipe); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, recipe)
	}
}

// Delete a recipe
func DeleteRecipeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httputil.PathVar(r, "id")
		if err := svcCtx.Store.DeleteRecipe(r.Context(), auth.UserID(r.Context()), id); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]bool{"ok": true})
	}
}

// Mark a recipe as cooked now
func MarkRecipePreparedHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		id := httputil.PathVar(r, "id")

		recipe, err := svcCtx.Store.GetRecipe(r.Context(), userID, id)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		if recipe == nil {
			httputil.NotFound(w, "recipe not found")
			return
		}
		if err := svcCtx.Store.MarkRecipePrepared(r.Context(), userID, id); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]bool{"ok": true})
	}
}
