package pantry

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// List the user's inventory
func ListInventoryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svcCtx.Store.ListInventory(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		if items == nil {
			items = []db.InventoryItem{}
		}
		httputil.OkJSON(w, items)
	}
}

// Add or update an inventory item
func UpsertInventoryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.InventoryItemRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.Name == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := svcCtx.Store.UpsertInventoryItem(r.Context(), auth.UserID(r.Context()), req.Name, req.Quantity); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]bool{"ok": true})
	}
}

// Remove an inventory item by name
func DeleteInventoryHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := httputil.PathVar(r, "name")
		if err := svcCtx.Store.DeleteInventoryItem(r.Context(), auth.UserID(r.Context()), name); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]bool{"ok": true})
	}
}
