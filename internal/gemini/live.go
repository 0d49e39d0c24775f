package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/cookaihq/cookai/internal/upstream"
)

// Connect opens a live streaming session. *Client satisfies upstream.Client.
func (c *Client) Connect(ctx context.Context, cfg upstream.Config) (upstream.Session, error) {
	session, err := c.genai.Live.Connect(ctx, c.liveModel, liveConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("gemini: connect live session: %w", err)
	}
	return &liveSession{session: session}, nil
}

func liveConfig(cfg upstream.Config) *genai.LiveConnectConfig {
	out := &genai.LiveConnectConfig{}
	for _, m := range cfg.Modalities {
		out.ResponseModalities = append(out.ResponseModalities, genai.Modality(m))
	}
	if cfg.SystemInstruction != "" {
		out.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if len(cfg.Tools) > 0 {
		tool := &genai.Tool{}
		for _, decl := range cfg.Tools {
			tool.FunctionDeclarations = append(tool.FunctionDeclarations, &genai.FunctionDeclaration{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  schemaFromMap(decl.Parameters),
			})
		}
		out.Tools = []*genai.Tool{tool}
	}
	if cfg.SlidingWindow {
		out.ContextWindowCompression = &genai.ContextWindowCompressionConfig{
			SlidingWindow: &genai.SlidingWindow{},
		}
	}
	if cfg.InputTranscription {
		out.InputAudioTranscription = &genai.AudioTranscriptionConfig{}
	}
	if cfg.OutputTranscription {
		out.OutputAudioTranscription = &genai.AudioTranscriptionConfig{}
	}
	if cfg.Voice != "" {
		out.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	return out
}

// schemaFromMap converts a raw JSON schema, as the client sends it, into the
// SDK schema type. The wire formats match, so a marshal round trip suffices.
// Unconvertible schemas degrade to nil rather than failing the session.
func schemaFromMap(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var schema genai.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil
	}
	return &schema
}

type liveSession struct {
	session *genai.Session
	once    sync.Once
}

func (s *liveSession) SendAudio(data []byte, sampleRate int) error {
	return s.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			Data:     data,
			MIMEType: fmt.Sprintf("audio/pcm;rate=%d", sampleRate),
		},
	})
}

func (s *liveSession) SendContent(text string, final bool) error {
	return s.session.SendClientContent(genai.LiveClientContentInput{
		Turns:        []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		TurnComplete: &final,
	})
}

func (s *liveSession) SendToolResults(results []upstream.ToolResult) error {
	responses := make([]*genai.FunctionResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, &genai.FunctionResponse{
			ID:       r.CallID,
			Name:     r.Name,
			Response: r.Result,
		})
	}
	return s.session.SendToolResponse(genai.LiveToolResponseInput{FunctionResponses: responses})
}

func (s *liveSession) Receive() (*upstream.Message, error) {
	msg, err := s.session.Receive()
	if err != nil {
		// io.EOF passes through untouched as the clean-end signal.
		return nil, err
	}
	return convertMessage(msg), nil
}

func (s *liveSession) Close() error {
	var err error
	s.once.Do(func() { err = s.session.Close() })
	return err
}

func convertMessage(msg *genai.LiveServerMessage) *upstream.Message {
	out := &upstream.Message{SetupComplete: msg.SetupComplete != nil}
	if sc := msg.ServerContent; sc != nil {
		content := &upstream.ServerContent{
			TurnComplete: sc.TurnComplete,
			Interrupted:  sc.Interrupted,
		}
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					content.Audio = append(content.Audio, part.InlineData.Data)
				}
			}
		}
		if sc.InputTranscription != nil {
			text := sc.InputTranscription.Text
			content.InputTranscription = &text
		}
		if sc.OutputTranscription != nil {
			text := sc.OutputTranscription.Text
			content.OutputTranscription = &text
		}
		out.Content = content
	}
	if tc := msg.ToolCall; tc != nil && len(tc.FunctionCalls) > 0 {
		calls := make([]upstream.FunctionCall, 0, len(tc.FunctionCalls))
		for _, fc := range tc.FunctionCalls {
			calls = append(calls, upstream.FunctionCall{
				Name:   fc.Name,
				Args:   fc.Args,
				CallID: fc.ID,
			})
		}
		out.ToolCall = &upstream.ToolCall{Calls: calls}
	}
	return out
}
