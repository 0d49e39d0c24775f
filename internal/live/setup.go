package live

import (
	"encoding/json"

	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/upstream"
)

// SetupConfig is the parsed, immutable session configuration taken from the
// client's first frame.
type SetupConfig struct {
	ResponseModalities  []string
	SystemInstruction   string
	Tools               []upstream.ToolDeclaration
	SlidingWindow       bool
	InputTranscription  bool
	OutputTranscription bool
	Voice               string
}

// Upstream converts the parsed setup to the provider-neutral session config.
func (c SetupConfig) Upstream() upstream.Config {
	return upstream.Config{
		Modalities:          c.ResponseModalities,
		SystemInstruction:   c.SystemInstruction,
		Tools:               c.Tools,
		SlidingWindow:       c.SlidingWindow,
		InputTranscription:  c.InputTranscription,
		OutputTranscription: c.OutputTranscription,
		Voice:               c.Voice,
	}
}

// ParseSetupConfig builds a SetupConfig from the raw setup object. It is
// total: malformed sub-fields are logged and skipped, never fatal. An
// unreadable object yields the default audio-only config.
func ParseSetupConfig(raw []byte) SetupConfig {
	cfg := SetupConfig{ResponseModalities: []string{"AUDIO"}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		logging.Warnf("live: unreadable setup config, using defaults: %v", err)
		return cfg
	}

	if v, ok := fields["responseModalities"]; ok {
		var modalities []string
		if err := json.Unmarshal(v, &modalities); err != nil {
			logging.Warnf("live: skipping malformed responseModalities: %v", err)
		} else if len(modalities) > 0 {
			cfg.ResponseModalities = modalities
		}
	}

	if v, ok := fields["systemInstruction"]; ok {
		cfg.SystemInstruction = parseSystemInstruction(v)
	}

	if v, ok := fields["tools"]; ok {
		cfg.Tools = parseTools(v)
	}

	if v, ok := fields["contextWindowCompression"]; ok {
		var compression map[string]json.RawMessage
		if err := json.Unmarshal(v, &compression); err != nil {
			logging.Warnf("live: skipping malformed contextWindowCompression: %v", err)
		} else if _, ok := compression["slidingWindow"]; ok {
			cfg.SlidingWindow = true
		}
	}

	// Presence of the key enables the transcription, whatever its value.
	_, cfg.InputTranscription = fields["inputAudioTranscription"]
	_, cfg.OutputTranscription = fields["outputAudioTranscription"]

	if v, ok := fields["speechConfig"]; ok {
		cfg.Voice = parseVoice(v)
	}

	return cfg
}

// parseSystemInstruction accepts either a bare string or a content object of
// the form {"parts": [{"text": ...}]}.
func parseSystemInstruction(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		logging.Warnf("live: skipping malformed systemInstruction: %v", err)
		return ""
	}
	if len(content.Parts) == 0 {
		return ""
	}
	return content.Parts[0].Text
}

func parseTools(raw json.RawMessage) []upstream.ToolDeclaration {
	var blocks []struct {
		FunctionDeclarations []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			Parameters  map[string]any `json:"parameters"`
		} `json:"functionDeclarations"`
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		logging.Warnf("live: skipping malformed tools: %v", err)
		return nil
	}
	var decls []upstream.ToolDeclaration
	for _, block := range blocks {
		for _, fd := range block.FunctionDeclarations {
			decls = append(decls, upstream.ToolDeclaration{
				Name:        fd.Name,
				Description: fd.Description,
				Parameters:  fd.Parameters,
			})
		}
	}
	return decls
}

func parseVoice(raw json.RawMessage) string {
	var speech struct {
		VoiceConfig struct {
			PrebuiltVoiceConfig struct {
				VoiceName string `json:"voiceName"`
			} `json:"prebuiltVoiceConfig"`
		} `json:"voiceConfig"`
	}
	if err := json.Unmarshal(raw, &speech); err != nil {
		logging.Warnf("live: skipping malformed speechConfig: %v", err)
		return ""
	}
	return speech.VoiceConfig.PrebuiltVoiceConfig.VoiceName
}
