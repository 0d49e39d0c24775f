package live

import (
	"context"

	"github.com/cookaihq/cookai/internal/logging"
)

type transcriptPayload struct {
	Text string `json:"text"`
}

type serverContentPayload struct {
	InputTranscription  *transcriptPayload `json:"inputTranscription,omitempty"`
	OutputTranscription *transcriptPayload `json:"outputTranscription,omitempty"`
	TurnComplete        bool               `json:"turnComplete,omitempty"`
	Interrupted         bool               `json:"interrupted,omitempty"`
}

type wireFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
	ID   string         `json:"id"`
}

// writePump serializes events onto the client transport. It returns when the
// event channel closes, on a terminal event, on a write failure, or when the
// session context ends.
func writePump(ctx context.Context, t Transport, eventCh <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventCh:
			if !ok {
				return
			}
			if _, ended := ev.(SessionEndedEvent); ended {
				return
			}
			var err error
			if audio, ok := ev.(AudioOutEvent); ok {
				err = t.WriteBinary(audio.Data)
			} else {
				err = t.WriteJSON(marshalEvent(ev))
			}
			if err != nil {
				logging.Debugf("live: client write ended: %v", err)
				return
			}
		}
	}
}

// marshalEvent maps an event to its client wire object. Audio events are
// binary frames and never reach this function.
func marshalEvent(ev Event) any {
	switch e := ev.(type) {
	case SetupCompleteEvent:
		return map[string]bool{"setupComplete": true}
	case ToolCallEvent:
		calls := make([]wireFunctionCall, 0, len(e.Calls))
		for _, c := range e.Calls {
			calls = append(calls, wireFunctionCall{Name: c.Name, Args: c.Args, ID: c.CallID})
		}
		return map[string]any{"toolCall": map[string]any{"functionCalls": calls}}
	case TranscriptEvent:
		payload := serverContentPayload{}
		if e.Direction == DirectionInput {
			payload.InputTranscription = &transcriptPayload{Text: e.Text}
		} else {
			payload.OutputTranscription = &transcriptPayload{Text: e.Text}
		}
		return map[string]serverContentPayload{"serverContent": payload}
	case TurnCompleteEvent:
		return map[string]serverContentPayload{"serverContent": {TurnComplete: true}}
	case InterruptedEvent:
		return map[string]serverContentPayload{"serverContent": {Interrupted: true}}
	case ErrorEvent:
		return map[string]string{"error": e.Message}
	default:
		return map[string]string{"error": "unknown event"}
	}
}
