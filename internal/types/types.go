// Package types holds the request and response shapes of the REST API.
package types

import "github.com/cookaihq/cookai/internal/gemini"

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type ScanIngredientsRequest struct {
	Image string `json:"image"` // base64-encoded JPEG
}

type ScanIngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
}

type ParseGroceryTextRequest struct {
	Text string `json:"text"`
}

type ParseGroceryImageRequest struct {
	Image string `json:"image"` // base64-encoded JPEG
}

type RecipeRecommendationsRequest struct {
	Ingredients []string `json:"ingredients"`
}

type GenerateRecipeRequest struct {
	Description  string   `json:"description"`
	Dietary      []string `json:"dietary,omitempty"`
	Allergies    []string `json:"allergies,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// YouTubeTimestampsRequest accepts the URL under either key; older clients
// send videoUrl.
type YouTubeTimestampsRequest struct {
	URL      string `json:"url,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

type RecipeFromYouTubeRequest struct {
	VideoURL     string                     `json:"videoUrl"`
	Summary      string                     `json:"summary"`
	Segments     []gemini.TranscriptSegment `json:"segments"`
	Dietary      []string                   `json:"dietary,omitempty"`
	Allergies    []string                   `json:"allergies,omitempty"`
	Alternatives []string                   `json:"alternatives,omitempty"`
}

type SaveRecipeRequest struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
}

type InventoryItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

type UserSettingsRequest struct {
	Timezone              string   `json:"timezone,omitempty"`
	BreakfastReminderTime string   `json:"breakfastReminderTime,omitempty"`
	LunchReminderTime     string   `json:"lunchReminderTime,omitempty"`
	DinnerReminderTime    string   `json:"dinnerReminderTime,omitempty"`
	BreakfastRecipeID     string   `json:"breakfastRecipeId,omitempty"`
	LunchRecipeID         string   `json:"lunchRecipeId,omitempty"`
	DinnerRecipeID        string   `json:"dinnerRecipeId,omitempty"`
	LikedRecipeIDs        []string `json:"likedRecipeIds,omitempty"`
}

type PushSubscriptionRequest struct {
	FCMToken string `json:"fcmToken"`
}

// TriggerRemindersRequest optionally overrides every user's local clock with
// minutes since midnight, for testing reminder windows.
type TriggerRemindersRequest struct {
	UTCMinutes *int `json:"utc_minutes,omitempty"`
}
