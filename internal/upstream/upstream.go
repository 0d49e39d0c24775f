// Package upstream defines the capability surface of the generative
// conversational streaming service the live proxy forwards to. The concrete
// implementation lives in the gemini package; tests use stubs.
package upstream

import "context"

// Client opens streaming sessions against the upstream service.
type Client interface {
	Connect(ctx context.Context, cfg Config) (Session, error)
}

// Session is one bidirectional streaming conversation. Send methods are safe
// to call from separate goroutines (one writer per data class); Receive is
// called from a single reader and returns io.EOF when the stream ends
// cleanly. Close unblocks a pending Receive and is idempotent.
type Session interface {
	SendAudio(data []byte, sampleRate int) error
	SendContent(text string, final bool) error
	SendToolResults(results []ToolResult) error
	Receive() (*Message, error)
	Close() error
}

// Config is the translated session configuration handed to Connect.
// It is provider-neutral: the setup translator fills it from client JSON and
// the gemini adapter maps it onto the wire config.
type Config struct {
	Modalities          []string
	SystemInstruction   string
	Tools               []ToolDeclaration
	SlidingWindow       bool
	InputTranscription  bool
	OutputTranscription bool
	Voice               string
}

// ToolDeclaration describes one callable function exposed to the model.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolResult is one client-side function result sent back upstream.
type ToolResult struct {
	Name   string
	CallID string
	Result map[string]any
}

// Message is one inbound upstream event. Every optional substructure is an
// explicit nullable member; the receive pump matches them once, in a fixed
// order.
type Message struct {
	SetupComplete bool
	Content       *ServerContent
	ToolCall      *ToolCall
}

// ServerContent carries the model-turn payloads of a message.
type ServerContent struct {
	Audio               [][]byte
	InputTranscription  *string
	OutputTranscription *string
	TurnComplete        bool
	Interrupted         bool
}

// ToolCall carries the function invocations the model requests.
type ToolCall struct {
	Calls []FunctionCall
}

// FunctionCall is one requested client-side function invocation.
type FunctionCall struct {
	Name   string
	Args   map[string]any
	CallID string
}
