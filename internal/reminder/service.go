// Package reminder sends meal-time push notifications. Each user gets a
// reminder when their local clock enters a meal window, carrying either their
// planned recipe or suggestions they can cook from their inventory.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/logging"
)

// Service runs the reminder check, either on its cron schedule or via the
// manual trigger endpoint.
type Service struct {
	store   *db.Store
	sender  Sender
	baseURL string

	cron *cron.Cron
	now  func() time.Time
}

// Result summarizes one reminder sweep.
type Result struct {
	Sent         int      `json:"sent"`
	Errors       int      `json:"errors"`
	Skipped      int      `json:"skipped"`
	ErrorDetails []string `json:"error_details"`
}

func NewService(store *db.Store, sender Sender, baseURL string) *Service {
	return &Service{
		store:   store,
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Start schedules the reminder sweep. The schedule should match the reminder
// window so each meal fires exactly once.
func (s *Service) Start(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		result, err := s.Run(ctx, nil)
		if err != nil {
			logging.Errorf("reminder: sweep failed: %v", err)
			return
		}
		if result.Sent > 0 || result.Errors > 0 {
			logging.Infof("reminder: sent=%d errors=%d skipped=%d", result.Sent, result.Errors, result.Skipped)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	s.cron.Start()
	logging.Infof("reminder: scheduled with %q", schedule)
	return nil
}

func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Run checks every subscribed user and sends reminders for meals whose window
// includes the current time in the user's timezone. overrideMinutes, when
// set, substitutes the local clock for every user; the trigger endpoint uses
// it for testing.
func (s *Service) Run(ctx context.Context, overrideMinutes *int) (*Result, error) {
	subs, err := s.store.ListPushSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result := &Result{ErrorDetails: []string{}}

	for _, sub := range subs {
		if strings.TrimSpace(sub.FCMToken) == "" {
			result.Skipped++
			continue
		}
		if err := s.remindUser(ctx, sub, now, overrideMinutes, result); err != nil {
			logging.Errorf("reminder: user %s: %v", sub.UserID, err)
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, fmt.Sprintf("%s: %v", sub.UserID, err))
		}
	}
	return result, nil
}

func (s *Service) remindUser(ctx context.Context, sub db.PushSubscription, now time.Time, overrideMinutes *int, result *Result) error {
	settings, err := s.store.GetUserSettings(ctx, sub.UserID)
	if err != nil {
		return err
	}

	minutes := localMinutes(now, settings.Timezone)
	if overrideMinutes != nil {
		minutes = *overrideMinutes
	}

	meal := mealDue(mealTimes{
		breakfast: parseTime(settings.BreakfastReminderTime),
		lunch:     parseTime(settings.LunchReminderTime),
		dinner:    parseTime(settings.DinnerReminderTime),
	}, minutes)
	if meal == "" {
		result.Skipped++
		return nil
	}

	body, linkPath := s.buildMessage(ctx, sub.UserID, settings, meal)

	err = s.sender.Send(ctx, Notification{
		Token: sub.FCMToken,
		Title: fmt.Sprintf("Time for %s!", strings.ToLower(meal)),
		Body:  body,
		Link:  s.baseURL + linkPath,
		Data:  map[string]string{"url": linkPath, "meal": meal},
	})
	if err != nil {
		return err
	}
	result.Sent++
	logging.Infof("reminder: sent %s reminder to user %s", meal, sub.UserID)
	return nil
}

// buildMessage prefers the recipe the user planned for this meal and falls
// back to inventory-based suggestions.
func (s *Service) buildMessage(ctx context.Context, userID string, settings *db.UserSettings, meal string) (body, linkPath string) {
	plannedID := ""
	switch meal {
	case "Breakfast":
		plannedID = settings.BreakfastRecipeID
	case "Lunch":
		plannedID = settings.LunchRecipeID
	case "Dinner":
		plannedID = settings.DinnerRecipeID
	}

	if plannedID != "" {
		if recipe, err := s.store.GetRecipe(ctx, userID, plannedID); err == nil && recipe != nil && recipe.Title != "" {
			return "You planned: " + recipe.Title, "/?open=recipe&id=" + plannedID
		}
	}

	titles := s.suggestionsFor(ctx, userID, settings.LikedRecipeIDs)
	if len(titles) > 0 {
		return "Suggested: " + strings.Join(titles, ", "), "/?open=suggestions"
	}
	return "Check your recipe suggestions.", "/?open=suggestions"
}

func (s *Service) suggestionsFor(ctx context.Context, userID string, likedIDs []string) []string {
	recipes, err := s.store.ListRecipes(ctx, userID)
	if err != nil {
		logging.Warnf("reminder: list recipes for %s: %v", userID, err)
		return nil
	}
	items, err := s.store.ListInventory(ctx, userID)
	if err != nil {
		logging.Warnf("reminder: list inventory for %s: %v", userID, err)
		return nil
	}

	var inventoryNames []string
	for _, item := range items {
		if name := strings.ToLower(strings.TrimSpace(item.Name)); name != "" {
			inventoryNames = append(inventoryNames, name)
		}
	}
	candidates := make([]candidateRecipe, 0, len(recipes))
	for _, r := range recipes {
		candidates = append(candidates, candidateRecipe{
			ID:             r.ID,
			Title:          r.Title,
			Ingredients:    r.Ingredients,
			LastPreparedAt: r.LastPreparedAt,
		})
	}
	return suggestedTitles(candidates, likedIDs, inventoryNames, 2)
}
