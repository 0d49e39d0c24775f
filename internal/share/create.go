package share

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/httputil"
)

type createRequest struct {
	Recipe json.RawMessage `json:"recipe"`
}

type createResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// decodeRecipe validates that the snapshot is a JSON object and pulls the
// preview fields out of it.
func decodeRecipe(raw json.RawMessage, view *sharedRecipeView) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty recipe")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("recipe is not an object: %w", err)
	}
	var fields sharedRecipeView
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if fields.Title != "" {
		view.Title = fields.Title
	}
	view.Description = fields.Description
	view.Image = fields.Image
	return nil
}

// CreateHandler serves POST /api/share: snapshot a recipe under a fresh
// token and return the share URL.
func CreateHandler(store *db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "invalid request body")
			return
		}
		var view sharedRecipeView
		if err := decodeRecipe(req.Recipe, &view); err != nil {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "recipe must be a JSON object")
			return
		}

		token, err := store.CreateSharedRecipe(r.Context(), auth.UserID(r.Context()), req.Recipe)
		if err != nil {
			httputil.InternalError(w, "could not create share link")
			return
		}
		httputil.OkJSON(w, createResponse{
			Token: token,
			URL:   requestOrigin(r) + "/share/" + token,
		})
	}
}
