package live

import (
	"reflect"
	"testing"
)

func TestParseSetupConfigFull(t *testing.T) {
	raw := []byte(`{
		"responseModalities": ["AUDIO"],
		"systemInstruction": "be concise",
		"tools": [{"functionDeclarations": [
			{"name": "add_to_cart", "description": "adds an item", "parameters": {"type": "object"}}
		]}],
		"contextWindowCompression": {"slidingWindow": {}},
		"inputAudioTranscription": {},
		"outputAudioTranscription": {},
		"speechConfig": {"voiceConfig": {"prebuiltVoiceConfig": {"voiceName": "Puck"}}}
	}`)

	cfg := ParseSetupConfig(raw)

	if !reflect.DeepEqual(cfg.ResponseModalities, []string{"AUDIO"}) {
		t.Fatalf("modalities = %v", cfg.ResponseModalities)
	}
	if cfg.SystemInstruction != "be concise" {
		t.Fatalf("systemInstruction = %q", cfg.SystemInstruction)
	}
	if len(cfg.Tools) != 1 || cfg.Tools[0].Name != "add_to_cart" {
		t.Fatalf("tools = %+v", cfg.Tools)
	}
	if !cfg.SlidingWindow {
		t.Fatal("slidingWindow not detected")
	}
	if !cfg.InputTranscription || !cfg.OutputTranscription {
		t.Fatal("transcription flags not detected")
	}
	if cfg.Voice != "Puck" {
		t.Fatalf("voice = %q", cfg.Voice)
	}
}

func TestParseSetupConfigInstructionObject(t *testing.T) {
	cfg := ParseSetupConfig([]byte(`{"systemInstruction": {"parts": [{"text": "hi there"}]}}`))
	if cfg.SystemInstruction != "hi there" {
		t.Fatalf("systemInstruction = %q", cfg.SystemInstruction)
	}
}

func TestParseSetupConfigDefaults(t *testing.T) {
	cfg := ParseSetupConfig([]byte(`{}`))
	if !reflect.DeepEqual(cfg.ResponseModalities, []string{"AUDIO"}) {
		t.Fatalf("modalities = %v, want default AUDIO", cfg.ResponseModalities)
	}
	if cfg.SlidingWindow || cfg.InputTranscription || cfg.OutputTranscription {
		t.Fatal("flags should default off")
	}
}

// Malformed sub-fields must be skipped, never fatal.
func TestParseSetupConfigMalformedFields(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad modalities", `{"responseModalities": 42}`},
		{"bad instruction", `{"systemInstruction": 42}`},
		{"bad tools", `{"tools": "nope"}`},
		{"bad compression", `{"contextWindowCompression": []}`},
		{"bad speech", `{"speechConfig": []}`},
		{"not an object", `"just a string"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ParseSetupConfig([]byte(tc.raw))
			if !reflect.DeepEqual(cfg.ResponseModalities, []string{"AUDIO"}) {
				t.Fatalf("modalities = %v, want default", cfg.ResponseModalities)
			}
		})
	}
}

func TestSetupConfigUpstream(t *testing.T) {
	cfg := SetupConfig{
		ResponseModalities: []string{"AUDIO"},
		SystemInstruction:  "x",
		SlidingWindow:      true,
		Voice:              "Puck",
	}
	up := cfg.Upstream()
	if up.SystemInstruction != "x" || !up.SlidingWindow || up.Voice != "Puck" {
		t.Fatalf("upstream config = %+v", up)
	}
}
