package gemini

import (
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/cookaihq/cookai/internal/upstream"
)

func TestNormalizeYouTubeURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/watch?v=abc123", false},
		{"https://youtube.com/watch?v=abc123&t=10s", "https://www.youtube.com/watch?v=abc123", false},
		{"https://youtu.be/abc123", "https://www.youtube.com/watch?v=abc123", false},
		{"  https://youtu.be/abc123/extra  ", "https://www.youtube.com/watch?v=abc123", false},
		{"https://vimeo.com/12345", "", true},
		{"https://www.youtube.com/watch", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeYouTubeURL(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeYouTubeURL(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeYouTubeURL(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeYouTubeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[{\"name\":\"milk\"}]\n```": `[{"name":"milk"}]`,
		"```\n[]\n```":                        "[]",
		`[{"name":"eggs"}]`:                   `[{"name":"eggs"}]`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Fatalf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeGroceryItems(t *testing.T) {
	items := decodeGroceryItems(`[{"name":"milk","quantity":"1L"},{"name":"eggs"}]`)
	if len(items) != 2 || items[0].Quantity != "1L" || items[1].Name != "eggs" {
		t.Fatalf("items = %+v", items)
	}
	if items := decodeGroceryItems("not json"); len(items) != 0 {
		t.Fatalf("malformed output should yield empty list, got %+v", items)
	}
}

func TestLiveConfig(t *testing.T) {
	cfg := liveConfig(upstream.Config{
		Modalities:        []string{"AUDIO"},
		SystemInstruction: "be brief",
		Tools: []upstream.ToolDeclaration{{
			Name:       "add_to_cart",
			Parameters: map[string]any{"type": "OBJECT", "properties": map[string]any{"item": map[string]any{"type": "STRING"}}},
		}},
		SlidingWindow:       true,
		OutputTranscription: true,
		Voice:               "Puck",
	})

	if len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != genai.Modality("AUDIO") {
		t.Fatalf("modalities = %v", cfg.ResponseModalities)
	}
	if cfg.SystemInstruction == nil {
		t.Fatal("system instruction not set")
	}
	if len(cfg.Tools) != 1 || len(cfg.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("tools = %+v", cfg.Tools)
	}
	decl := cfg.Tools[0].FunctionDeclarations[0]
	if decl.Parameters == nil || decl.Parameters.Type != genai.TypeObject {
		t.Fatalf("parameters schema = %+v", decl.Parameters)
	}
	if cfg.ContextWindowCompression == nil || cfg.ContextWindowCompression.SlidingWindow == nil {
		t.Fatal("sliding window not set")
	}
	if cfg.OutputAudioTranscription == nil || cfg.InputAudioTranscription != nil {
		t.Fatal("transcription flags wrong")
	}
	if cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Puck" {
		t.Fatalf("voice = %+v", cfg.SpeechConfig)
	}
}

func TestConvertMessage(t *testing.T) {
	msg := &genai.LiveServerMessage{
		ServerContent: &genai.LiveServerContent{
			ModelTurn: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: []byte{1, 2}}},
				{Text: "ignored"},
			}},
			OutputTranscription: &genai.Transcription{Text: "hello"},
			TurnComplete:        true,
		},
		ToolCall: &genai.LiveServerToolCall{FunctionCalls: []*genai.FunctionCall{
			{ID: "7", Name: "f", Args: map[string]any{"a": 1}},
		}},
	}
	out := convertMessage(msg)
	if out.Content == nil || len(out.Content.Audio) != 1 {
		t.Fatalf("audio = %+v", out.Content)
	}
	if out.Content.OutputTranscription == nil || *out.Content.OutputTranscription != "hello" {
		t.Fatalf("transcription = %+v", out.Content)
	}
	if !out.Content.TurnComplete {
		t.Fatal("turn complete lost")
	}
	if out.ToolCall == nil || out.ToolCall.Calls[0].CallID != "7" {
		t.Fatalf("tool call = %+v", out.ToolCall)
	}
}

func TestConstraintBlock(t *testing.T) {
	if got := constraintBlock(nil, nil, nil); got != "" {
		t.Fatalf("empty constraints = %q", got)
	}
	got := constraintBlock([]string{"vegan"}, []string{"peanuts"}, nil)
	for _, want := range []string{"vegan", "peanuts", "Important constraints"} {
		if !strings.Contains(got, want) {
			t.Fatalf("constraint block %q missing %q", got, want)
		}
	}
}
