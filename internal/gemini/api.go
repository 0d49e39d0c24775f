package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/cookaihq/cookai/internal/logging"
)

// GroceryItem is one parsed grocery list entry.
type GroceryItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// Recommendation is one suggested recipe for a set of ingredients.
type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RecipeRequest describes what the user wants to cook plus their constraints.
type RecipeRequest struct {
	Description  string
	Dietary      []string
	Allergies    []string
	Alternatives []string
}

// Recipe is a complete generated recipe.
type Recipe struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PrepTime    string   `json:"prepTime"`
	CookTime    string   `json:"cookTime"`
	Difficulty  string   `json:"difficulty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// TranscriptSegment is one timestamped slice of a video transcription.
type TranscriptSegment struct {
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Speaker   string `json:"speaker,omitempty"`
}

// Transcript is a timestamped transcription of a video.
type Transcript struct {
	VideoURL  string              `json:"videoUrl"`
	Summary   string              `json:"summary"`
	Segments  []TranscriptSegment `json:"segments"`
	CreatedAt time.Time           `json:"createdAt"`
}

// VideoRecipeRequest builds a recipe out of an existing transcript.
type VideoRecipeRequest struct {
	VideoURL     string
	Summary      string
	Segments     []TranscriptSegment
	Dietary      []string
	Allergies    []string
	Alternatives []string
}

// VideoRecipeStep ties one instruction to the transcript timestamp where the
// chef performs it.
type VideoRecipeStep struct {
	Instruction string `json:"instruction"`
	Timestamp   string `json:"timestamp"`
}

// VideoRecipe is a recipe extracted from a cooking video.
type VideoRecipe struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	PrepTime    string            `json:"prepTime"`
	CookTime    string            `json:"cookTime"`
	Difficulty  string            `json:"difficulty"`
	Ingredients []string          `json:"ingredients"`
	Steps       []VideoRecipeStep `json:"steps"`
}

var groceryListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString},
			"quantity": {Type: genai.TypeString},
		},
		Required: []string{"name"},
	},
}

var recommendationsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":          {Type: genai.TypeString},
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
		},
		Required: []string{"id", "title", "description"},
	},
}

var recipeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"prepTime":    {Type: genai.TypeString},
		"cookTime":    {Type: genai.TypeString},
		"difficulty":  {Type: genai.TypeString},
		"ingredients": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"steps":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"title", "description", "prepTime", "cookTime", "difficulty", "ingredients", "steps"},
}

var transcriptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {Type: genai.TypeString, Description: "Brief summary of the video."},
		"segments": {
			Type:        genai.TypeArray,
			Description: "List of segments with timestamp and content.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"timestamp": {Type: genai.TypeString},
					"content":   {Type: genai.TypeString},
					"speaker":   {Type: genai.TypeString},
				},
				Required: []string{"timestamp", "content"},
			},
		},
	},
	Required: []string{"summary", "segments"},
}

var videoRecipeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
		"prepTime":    {Type: genai.TypeString},
		"cookTime":    {Type: genai.TypeString},
		"difficulty":  {Type: genai.TypeString},
		"ingredients": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"steps": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"instruction": {Type: genai.TypeString},
					"timestamp":   {Type: genai.TypeString},
				},
				Required: []string{"instruction", "timestamp"},
			},
		},
	},
	Required: []string{"title", "description", "prepTime", "cookTime", "difficulty", "ingredients", "steps"},
}

// ScanIngredients identifies the food items visible in a base64-encoded JPEG.
func (c *Client) ScanIngredients(ctx context.Context, imageB64 string) ([]string, error) {
	imageBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, fmt.Errorf("gemini: decode image: %w", err)
	}
	contents := []*genai.Content{{Parts: []*genai.Part{
		genai.NewPartFromBytes(imageBytes, "image/jpeg"),
		genai.NewPartFromText("Identify the food ingredients in this image. Return them as a simple comma-separated list."),
	}}}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: scan ingredients: %w", err)
	}
	var ingredients []string
	for _, part := range strings.Split(resp.Text(), ",") {
		if s := strings.TrimSpace(part); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	return ingredients, nil
}

// ParseGroceryText extracts structured grocery items from free-form text,
// inferring units when the user gave a bare number.
func (c *Client) ParseGroceryText(ctx context.Context, text string) ([]GroceryItem, error) {
	prompt := "The user wrote or spoke their grocery/ingredients list. " +
		"Extract every item into a JSON array. For each item include " +
		"\"name\" (string) and \"quantity\" (string) when they gave a number or amount.\n\n" +
		"Infer the unit for quantity when the user gives only a number:\n" +
		"- Liquids (milk, oil, water, juice): use ml or L (e.g. milk 100 -> \"100ml\", milk 1 -> \"1L\").\n" +
		"- Solids/dry goods (flour, sugar, rice): use g or kg (e.g. flour 500 -> \"500g\", rice 2 -> \"2kg\").\n" +
		"- Countable (eggs, apples, onions): number as-is (e.g. eggs 2 -> \"2\").\n" +
		"If the user already wrote a unit (e.g. \"500g\", \"1L\"), keep it. " +
		"Otherwise infer from the item type. Always output quantity with unit where appropriate. " +
		fmt.Sprintf("User input: %q", strings.TrimSpace(text))

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   groceryListSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: parse grocery text: %w", err)
	}
	return decodeGroceryItems(resp.Text()), nil
}

// ParseGroceryImage extracts grocery items from a photo of a receipt,
// shopping list, or pantry.
func (c *Client) ParseGroceryImage(ctx context.Context, imageB64 string) ([]GroceryItem, error) {
	imageBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, fmt.Errorf("gemini: decode image: %w", err)
	}
	contents := []*genai.Content{{Parts: []*genai.Part{
		genai.NewPartFromBytes(imageBytes, "image/jpeg"),
		genai.NewPartFromText("This image may show a receipt, shopping list, groceries, or pantry. " +
			"Extract every grocery or food item into a JSON array. Each element: " +
			"{\"name\": \"item name\", \"quantity\": \"optional qty\"}. " +
			"Return only the JSON array, e.g. [{\"name\":\"milk\",\"quantity\":\"2\"},{\"name\":\"eggs\"}]"),
	}}}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: parse grocery image: %w", err)
	}
	return decodeGroceryItems(stripFences(resp.Text())), nil
}

// decodeGroceryItems tolerates malformed model output by returning an empty
// list, matching the endpoints' lenient contract.
func decodeGroceryItems(raw string) []GroceryItem {
	var items []GroceryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logging.Warnf("gemini: undecodable grocery list: %v", err)
		return []GroceryItem{}
	}
	return items
}

// RecipeRecommendations suggests three recipes for the given ingredients.
func (c *Client) RecipeRecommendations(ctx context.Context, ingredients []string) ([]Recommendation, error) {
	prompt := fmt.Sprintf("Based on these ingredients: %s, recommend 3 recipes. "+
		"Provide a JSON array of objects with \"title\", \"description\", and \"id\" (random string).",
		strings.Join(ingredients, ", "))

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recommendationsSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: recipe recommendations: %w", err)
	}
	var recs []Recommendation
	if err := json.Unmarshal([]byte(resp.Text()), &recs); err != nil {
		return nil, fmt.Errorf("gemini: decode recommendations: %w", err)
	}
	return recs, nil
}

// GenerateRecipe creates a full recipe from a short description and the
// user's dietary constraints.
func (c *Client) GenerateRecipe(ctx context.Context, req RecipeRequest) (*Recipe, error) {
	prompt := fmt.Sprintf("The user wants to cook something. They said: %q%s\n\n",
		strings.TrimSpace(req.Description), constraintBlock(req.Dietary, req.Allergies, req.Alternatives)) +
		"Create a single, practical recipe they can follow. Return a JSON object with:\n" +
		"- title: short recipe title (e.g. \"Pasta Carbonara\")\n" +
		"- description: 1-2 sentence description of the dish\n" +
		"- prepTime: e.g. \"10 min\"\n" +
		"- cookTime: e.g. \"15 min\"\n" +
		"- difficulty: exactly one of \"Easy\", \"Medium\", \"Hard\"\n" +
		"- ingredients: array of strings with quantities (e.g. \"200g spaghetti\", \"2 eggs\", \"50g pancetta\")\n" +
		"- steps: array of strings, each one clear cooking instruction in order\n\n" +
		"If the description is vague (e.g. \"something quick\"), pick a popular, simple dish that fits. " +
		"Keep steps concise and actionable."

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recipeSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate recipe: %w", err)
	}
	var recipe Recipe
	if err := json.Unmarshal([]byte(resp.Text()), &recipe); err != nil {
		return nil, fmt.Errorf("gemini: decode recipe: %w", err)
	}
	return &recipe, nil
}

// ErrInvalidVideoURL marks URLs that are not YouTube watch links.
var ErrInvalidVideoURL = fmt.Errorf("invalid YouTube URL")

// NormalizeYouTubeURL reduces any accepted YouTube link form to the canonical
// watch URL.
func NormalizeYouTubeURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidVideoURL
	}
	var videoID string
	switch parsed.Hostname() {
	case "youtu.be":
		videoID = strings.SplitN(strings.TrimPrefix(parsed.Path, "/"), "/", 2)[0]
	case "youtube.com", "www.youtube.com":
		videoID = parsed.Query().Get("v")
	default:
		return "", ErrInvalidVideoURL
	}
	if videoID == "" {
		return "", ErrInvalidVideoURL
	}
	return "https://www.youtube.com/watch?v=" + videoID, nil
}

// YouTubeTimestamps has the model watch a video and produce a timestamped
// transcription with a summary.
func (c *Client) YouTubeTimestamps(ctx context.Context, videoURL string) (*Transcript, error) {
	normalized, err := NormalizeYouTubeURL(videoURL)
	if err != nil {
		return nil, err
	}
	prompt := "Process this video and generate a detailed transcription with timestamps.\n\n" +
		"Requirements:\n" +
		"1. Provide a brief summary of the entire video at the beginning.\n" +
		"2. For each segment, provide:\n" +
		"   - timestamp: in MM:SS format (e.g. \"00:00\", \"01:23\")\n" +
		"   - content: the spoken text or main point of that segment\n" +
		"   - speaker: if you can identify distinct speakers, label them (e.g. \"Speaker 1\", \"Host\"); otherwise omit.\n" +
		"3. Order segments by time."

	contents := []*genai.Content{{Parts: []*genai.Part{
		genai.NewPartFromURI(normalized, "video/mp4"),
		genai.NewPartFromText(prompt),
	}}}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   transcriptSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: youtube timestamps: %w", err)
	}
	var parsed struct {
		Summary  string              `json:"summary"`
		Segments []TranscriptSegment `json:"segments"`
	}
	if err := json.Unmarshal([]byte(resp.Text()), &parsed); err != nil {
		return nil, fmt.Errorf("gemini: decode transcript: %w", err)
	}
	if parsed.Segments == nil {
		parsed.Segments = []TranscriptSegment{}
	}
	return &Transcript{
		VideoURL:  normalized,
		Summary:   parsed.Summary,
		Segments:  parsed.Segments,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RecipeFromYouTube builds a recipe out of a video transcript, binding each
// step to the transcript timestamp it came from.
func (c *Client) RecipeFromYouTube(ctx context.Context, req VideoRecipeRequest) (*VideoRecipe, error) {
	var lines []string
	for _, s := range req.Segments {
		lines = append(lines, fmt.Sprintf("[%s] %s", s.Timestamp, s.Content))
	}

	prompt := fmt.Sprintf("You are given a video transcript with timestamps. Create a single recipe.%s\n\n",
		constraintBlock(req.Dietary, req.Allergies, req.Alternatives)) +
		fmt.Sprintf("Video summary: %s\n\n", req.Summary) +
		"Transcript segments (each line is \"[MM:SS] content\"):\n" +
		strings.Join(lines, "\n") + "\n\n" +
		"Return a JSON object with:\n" +
		"- title: short recipe title\n" +
		"- description: 1-2 sentence description\n" +
		"- prepTime: e.g. \"10 min\"\n" +
		"- cookTime: e.g. \"15 min\"\n" +
		"- difficulty: one of \"Easy\", \"Medium\", \"Hard\"\n" +
		"- ingredients: array of strings (e.g. \"2 eggs\", \"1 cup spinach\")\n" +
		"- steps: array of objects. Each object has:\n" +
		"  - instruction: one short, clear cooking instruction (what to do in this step)\n" +
		"  - timestamp: the EXACT MM:SS string from ONE of the transcript lines above that " +
		"corresponds to when this step happens. Pick the segment where the chef actually does " +
		"or introduces this action. Use the timestamp verbatim (e.g. \"01:29\", \"02:04\"). " +
		"This is critical so the video and recipe stay in sync.\n\n" +
		"Create one step per main action. Each step's timestamp must come from the transcript. " +
		"Order steps by the order of their timestamps."

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   videoRecipeSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: recipe from video: %w", err)
	}
	var recipe VideoRecipe
	if err := json.Unmarshal([]byte(resp.Text()), &recipe); err != nil {
		return nil, fmt.Errorf("gemini: decode video recipe: %w", err)
	}
	return &recipe, nil
}

func constraintBlock(dietary, allergies, alternatives []string) string {
	var parts []string
	if len(dietary) > 0 {
		parts = append(parts, fmt.Sprintf("Dietary: %s. The recipe must respect these.", strings.Join(dietary, ", ")))
	}
	if len(allergies) > 0 {
		parts = append(parts, fmt.Sprintf("Strictly avoid (allergies): %s. Do not include these ingredients.", strings.Join(allergies, ", ")))
	}
	if len(alternatives) > 0 {
		parts = append(parts, fmt.Sprintf("Use these substitutions where applicable: %s.", strings.Join(alternatives, "; ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\n\nImportant constraints:\n" + strings.Join(parts, "\n")
}
