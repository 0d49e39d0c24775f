package pantry

import (
	"net/http"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Fetch the user's settings (defaults when never saved)
func GetSettingsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svcCtx.Store.GetUserSettings(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, settings)
	}
}

// Save the user's settings; omitted fields keep their current value
func SaveSettingsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UserSettingsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		userID := auth.UserID(r.Context())
		settings, err := svcCtx.Store.GetUserSettings(r.Context(), userID)
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}

		if req.Timezone != "" {
			settings.Timezone = req.Timezone
		}
		if req.BreakfastReminderTime != "" {
			settings.BreakfastReminderTime = req.BreakfastReminderTime
		}
		if req.LunchReminderTime != "" {
			settings.LunchReminderTime = req.LunchReminderTime
		}
		if req.DinnerReminderTime != "" {
			settings.DinnerReminderTime = req.DinnerReminderTime
		}
		if req.BreakfastRecipeID != "" {
			settings.BreakfastRecipeID = req.BreakfastRecipeID
		}
		if req.LunchRecipeID != "" {
			settings.LunchRecipeID = req.LunchRecipeID
		}
		if req.DinnerRecipeID != "" {
			settings.DinnerRecipeID = req.DinnerRecipeID
		}
		if req.LikedRecipeIDs != nil {
			settings.LikedRecipeIDs = req.LikedRecipeIDs
		}

		if err := svcCtx.Store.SaveUserSettings(r.Context(), settings); err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, settings)
	}
}
