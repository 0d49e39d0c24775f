package pantry

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Register or refresh the user's push token
func SavePushSubscriptionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PushSubscriptionRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.FCMToken == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "fcmToken is required")
			return
		}
		if err := svcCtx.Store.UpsertPushSubscription(r.Context(), auth.UserID(r.Context()), req.FCMToken); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]bool{"ok": true})
	}
}

// Unsubscribe from push notifications
func DeletePushSubscriptionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svcCtx.Store.DeletePushSubscription(r.Context(), auth.UserID(r.Context())); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]bool{"ok": true})
	}
}
