package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store wraps the single serialized SQLite connection.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PushSubscription maps a user to their push delivery token.
type PushSubscription struct {
	UserID    string    `json:"userId"`
	FCMToken  string    `json:"fcmToken"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSettings holds per-user reminder and planning preferences.
type UserSettings struct {
	UserID                string   `json:"userId"`
	Timezone              string   `json:"timezone"`
	BreakfastReminderTime string   `json:"breakfastReminderTime"`
	LunchReminderTime     string   `json:"lunchReminderTime"`
	DinnerReminderTime    string   `json:"dinnerReminderTime"`
	BreakfastRecipeID     string   `json:"breakfastRecipeId"`
	LunchRecipeID         string   `json:"lunchRecipeId"`
	DinnerRecipeID        string   `json:"dinnerRecipeId"`
	LikedRecipeIDs        []string `json:"likedRecipeIds"`
}

// DefaultUserSettings are the settings for a user who never saved any.
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:                userID,
		BreakfastReminderTime: "08:00",
		LunchReminderTime:     "13:00",
		DinnerReminderTime:    "19:00",
		LikedRecipeIDs:        []string{},
	}
}

// Recipe is one saved recipe.
type Recipe struct {
	ID             string     `json:"id"`
	UserID         string     `json:"-"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Image          string     `json:"image,omitempty"`
	Ingredients    []string   `json:"ingredients"`
	Steps          []string   `json:"steps"`
	LastPreparedAt *time.Time `json:"lastPreparedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// InventoryItem is one ingredient the user has at home.
type InventoryItem struct {
	ID       int64  `json:"id"`
	UserID   string `json:"-"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// SharedRecipe is a publicly shareable snapshot of a recipe.
type SharedRecipe struct {
	Token     string          `json:"token"`
	UserID    string          `json:"-"`
	Recipe    json.RawMessage `json:"recipe"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (s *Store) UpsertPushSubscription(ctx context.Context, userID, fcmToken string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO push_subscriptions (user_id, fcm_token, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET fcm_token = excluded.fcm_token, updated_at = CURRENT_TIMESTAMP`,
		userID, fcmToken)
	if err != nil {
		return fmt.Errorf("upsert push subscription: %w", err)
	}
	return nil
}

func (s *Store) DeletePushSubscription(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

func (s *Store) ListPushSubscriptions(ctx context.Context) ([]PushSubscription, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, fcm_token, updated_at FROM push_subscriptions`)
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	defer rows.Close()
	var subs []PushSubscription
	for rows.Next() {
		var sub PushSubscription
		if err := rows.Scan(&sub.UserID, &sub.FCMToken, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// GetUserSettings returns the user's settings, falling back to defaults when
// they never saved any.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (*UserSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT timezone, breakfast_reminder_time, lunch_reminder_time, dinner_reminder_time,
		       breakfast_recipe_id, lunch_recipe_id, dinner_recipe_id, liked_recipe_ids
		FROM user_settings WHERE user_id = ?`, userID)
	settings := &UserSettings{UserID: userID}
	var likedJSON string
	err := row.Scan(&settings.Timezone, &settings.BreakfastReminderTime, &settings.LunchReminderTime,
		&settings.DinnerReminderTime, &settings.BreakfastRecipeID, &settings.LunchRecipeID,
		&settings.DinnerRecipeID, &likedJSON)
	if err == sql.ErrNoRows {
		return DefaultUserSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user settings: %w", err)
	}
	if err := json.Unmarshal([]byte(likedJSON), &settings.LikedRecipeIDs); err != nil {
		settings.LikedRecipeIDs = []string{}
	}
	return settings, nil
}

func (s *Store) SaveUserSettings(ctx context.Context, settings *UserSettings) error {
	liked, err := json.Marshal(settings.LikedRecipeIDs)
	if err != nil {
		return fmt.Errorf("encode liked recipes: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, timezone, breakfast_reminder_time, lunch_reminder_time,
			dinner_reminder_time, breakfast_recipe_id, lunch_recipe_id, dinner_recipe_id, liked_recipe_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			timezone = excluded.timezone,
			breakfast_reminder_time = excluded.breakfast_reminder_time,
			lunch_reminder_time = excluded.lunch_reminder_time,
			dinner_reminder_time = excluded.dinner_reminder_time,
			breakfast_recipe_id = excluded.breakfast_recipe_id,
			lunch_recipe_id = excluded.lunch_recipe_id,
			dinner_recipe_id = excluded.dinner_recipe_id,
			liked_recipe_ids = excluded.liked_recipe_ids`,
		settings.UserID, settings.Timezone, settings.BreakfastReminderTime, settings.LunchReminderTime,
		settings.DinnerReminderTime, settings.BreakfastRecipeID, settings.LunchRecipeID,
		settings.DinnerRecipeID, string(liked))
	if err != nil {
		return fmt.Errorf("save user settings: %w", err)
	}
	return nil
}

// SaveRecipe inserts or updates a recipe, assigning an ID and creation time
// to new ones.
func (s *Store) SaveRecipe(ctx context.Context, recipe *Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	steps, err := json.Marshal(recipe.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, user_id, title, description, image, ingredients, steps, last_prepared_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			image = excluded.image,
			ingredients = excluded.ingredients,
			steps = excluded.steps,
			last_prepared_at = excluded.last_prepared_at`,
		recipe.ID, recipe.UserID, recipe.Title, recipe.Description, recipe.Image,
		string(ingredients), string(steps), recipe.LastPreparedAt, recipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}

func (s *Store) GetRecipe(ctx context.Context, userID, id string) (*Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, image, ingredients, steps, last_prepared_at, created_at
		FROM recipes WHERE user_id = ? AND id = ?`, userID, id)
	recipe, err := scanRecipe(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

func (s *Store) ListRecipes(ctx context.Context, userID string) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, image, ingredients, steps, last_prepared_at, created_at
		FROM recipes WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	var recipes []Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, rows.Err()
}

func (s *Store) DeleteRecipe(ctx context.Context, userID, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// MarkRecipePrepared stamps the recipe as cooked now, which feeds the
// reminder suggestion ranking.
func (s *Store) MarkRecipePrepared(ctx context.Context, userID, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET last_prepared_at = ? WHERE user_id = ? AND id = ?`,
		time.Now().UTC(), userID, id)
	if err != nil {
		return fmt.Errorf("mark recipe prepared: %w", err)
	}
	return nil
}

func scanRecipe(scan func(...any) error) (*Recipe, error) {
	var recipe Recipe
	var ingredients, steps string
	var prepared sql.NullTime
	if err := scan(&recipe.ID, &recipe.UserID, &recipe.Title, &recipe.Description, &recipe.Image,
		&ingredients, &steps, &prepared, &recipe.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &recipe.Ingredients); err != nil {
		recipe.Ingredients = []string{}
	}
	if err := json.Unmarshal([]byte(steps), &recipe.Steps); err != nil {
		recipe.Steps = []string{}
	}
	if prepared.Valid {
		t := prepared.Time
		recipe.LastPreparedAt = &t
	}
	return &recipe, nil
}

func (s *Store) UpsertInventoryItem(ctx context.Context, userID, name, quantity string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (user_id, name, quantity) VALUES (?, ?, ?)
		ON CONFLICT(user_id, name) DO UPDATE SET quantity = excluded.quantity`,
		userID, name, quantity)
	if err != nil {
		return fmt.Errorf("upsert inventory item: %w", err)
	}
	return nil
}

func (s *Store) ListInventory(ctx context.Context, userID string) ([]InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, quantity FROM inventory WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		var item InventoryItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) DeleteInventoryItem(ctx context.Context, userID, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM inventory WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// CreateSharedRecipe snapshots a recipe under a fresh share token.
func (s *Store) CreateSharedRecipe(ctx context.Context, userID string, recipe json.RawMessage) (string, error) {
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shared_recipes (token, user_id, recipe, created_at) VALUES (?, ?, ?, ?)`,
		token, userID, string(recipe), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("create shared recipe: %w", err)
	}
	return token, nil
}

func (s *Store) GetSharedRecipe(ctx context.Context, token string) (*SharedRecipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, recipe, created_at FROM shared_recipes WHERE token = ?`, token)
	var shared SharedRecipe
	var recipe string
	err := row.Scan(&shared.Token, &shared.UserID, &recipe, &shared.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shared recipe: %w", err)
	}
	shared.Recipe = json.RawMessage(recipe)
	return &shared, nil
}
