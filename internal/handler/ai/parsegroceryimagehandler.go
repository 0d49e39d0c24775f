package ai

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Parse a receipt or pantry photo into grocery items
func ParseGroceryImageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ParseGroceryImageRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		items, err := svcCtx.Gemini.ParseGroceryImage(r.Context(), req.Image)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		if items == nil {
			items = []gemini.GroceryItem{}
		}
		httputil.OkJSON(w, items)
	}
}
