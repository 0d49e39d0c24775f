// Package gemini adapts the Google generative AI service: the live streaming
// session behind the websocket proxy and the one-shot model calls behind the
// REST endpoints. The API key never leaves this process.
package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// Client wraps the generative AI SDK with the two models the app uses: a
// text/vision model for one-shot calls and a native-audio model for live
// sessions.
type Client struct {
	genai     *genai.Client
	model     string
	liveModel string
}

func New(ctx context.Context, apiKey, model, liveModel string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key not configured")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{genai: c, model: model, liveModel: liveModel}, nil
}

var jsonFence = regexp.MustCompile("```json?\\s*|\\s*```")

// stripFences removes markdown code fences the model sometimes wraps around
// JSON output.
func stripFences(s string) string {
	return strings.TrimSpace(jsonFence.ReplaceAllString(s, ""))
}
