package live

import (
	"context"
	"errors"
	"io"

	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/upstream"
)

// receivePump drains the upstream session and normalizes every message into
// Events. It is the sole closer of eventCh and always finishes with exactly
// one terminal event: SessionEndedEvent when the upstream stream ends
// cleanly, ErrorEvent otherwise.
func receivePump(ctx context.Context, session upstream.Session, eventCh chan<- Event) {
	defer close(eventCh)
	for {
		msg, err := session.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				emit(ctx, eventCh, SessionEndedEvent{})
			} else {
				logging.Errorf("live: upstream receive failed: %v", err)
				emit(ctx, eventCh, ErrorEvent{Message: err.Error()})
			}
			return
		}
		for _, ev := range normalize(msg) {
			if !emit(ctx, eventCh, ev) {
				return
			}
		}
	}
}

// normalize flattens one upstream message into zero or more events. A single
// message can carry several substructures; they are emitted in a fixed order
// so clients observe a stable stream.
func normalize(msg *upstream.Message) []Event {
	var events []Event
	if content := msg.Content; content != nil {
		for _, chunk := range content.Audio {
			events = append(events, AudioOutEvent{Data: chunk})
		}
		if content.InputTranscription != nil {
			events = append(events, TranscriptEvent{Direction: DirectionInput, Text: *content.InputTranscription})
		}
		if content.OutputTranscription != nil {
			events = append(events, TranscriptEvent{Direction: DirectionOutput, Text: *content.OutputTranscription})
		}
		if content.TurnComplete {
			events = append(events, TurnCompleteEvent{})
		}
		if content.Interrupted {
			events = append(events, InterruptedEvent{})
		}
	}
	if msg.ToolCall != nil && len(msg.ToolCall.Calls) > 0 {
		events = append(events, ToolCallEvent{Calls: msg.ToolCall.Calls})
	}
	return events
}

func emit(ctx context.Context, eventCh chan<- Event, ev Event) bool {
	select {
	case eventCh <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
