package ai

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Parse free-form text into structured grocery items
func ParseGroceryTextHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ParseGroceryTextRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		items, err := svcCtx.Gemini.ParseGroceryText(r.Context(), req.Text)
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
