package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Manually fire the reminder sweep. Pass {"utc_minutes": 480} to simulate
// 08:00 local for every user; omit to use real per-timezone time.
func ReminderTriggerHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional; an empty POST runs a normal sweep.
		var req types.TriggerRemindersRequest
		if err := httputil.ParseJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svcCtx.Reminder.Run(r.Context(), req.UTCMinutes)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, map[string]any{
			"ok":            true,
			"sent":          result.Sent,
			"errors":        result.Errors,
			"skipped":       result.Skipped,
			"error_details": result.ErrorDetails,
		})
	}
}
