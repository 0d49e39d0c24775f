package live

import "github.com/cookaihq/cookai/internal/upstream"

// Event is the uniform internal representation of everything the upstream
// session produces. The receive pump is the single producer, the egress pump
// the single consumer.
type Event interface {
	eventType() string
}

// AudioOutEvent carries raw model audio (16-bit PCM mono, 24kHz).
type AudioOutEvent struct {
	Data []byte
}

func (AudioOutEvent) eventType() string { return "audio" }

// SetupCompleteEvent signals that the upstream session is ready.
type SetupCompleteEvent struct{}

func (SetupCompleteEvent) eventType() string { return "setup_complete" }

// ToolCallEvent carries function invocations the model requests from the
// client.
type ToolCallEvent struct {
	Calls []upstream.FunctionCall
}

func (ToolCallEvent) eventType() string { return "tool_call" }

// Direction tells which side of the conversation a transcript belongs to.
type Direction string

const (
	DirectionInput  Direction = "input"  // user speech
	DirectionOutput Direction = "output" // model speech
)

// TranscriptEvent carries an audio transcription fragment.
type TranscriptEvent struct {
	Direction Direction
	Text      string
}

func (TranscriptEvent) eventType() string { return "transcript" }

// TurnCompleteEvent marks the end of a model turn.
type TurnCompleteEvent struct{}

func (TurnCompleteEvent) eventType() string { return "turn_complete" }

// InterruptedEvent signals the model was interrupted by user speech.
type InterruptedEvent struct{}

func (InterruptedEvent) eventType() string { return "interrupted" }

// ErrorEvent carries a session error for the client. Terminal when emitted by
// the receive pump.
type ErrorEvent struct {
	Message string
}

func (ErrorEvent) eventType() string { return "error" }

// SessionEndedEvent is the terminal event on clean upstream exhaustion.
type SessionEndedEvent struct{}

func (SessionEndedEvent) eventType() string { return "session_ended" }

// ControlMessage is a client→upstream control frame handed from the ingress
// pump to the control forwarding pump.
type ControlMessage interface {
	controlMessage() string
}

// ContentTurn is a typed text turn from the client.
type ContentTurn struct {
	Text  string
	Final bool
}

func (ContentTurn) controlMessage() string { return "client_content" }

// ToolResponse carries one or more client-side function results.
type ToolResponse struct {
	Responses []FunctionResponse
}

func (ToolResponse) controlMessage() string { return "tool_response" }

// FunctionResponse is one client function result. A nil Result is forwarded
// as a generic success marker.
type FunctionResponse struct {
	Name   string
	CallID string
	Result map[string]any
}
