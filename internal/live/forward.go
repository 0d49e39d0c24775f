package live

import (
	"context"

	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/upstream"
)

// forwardAudio streams client audio chunks to the upstream session. Send
// failures are logged and the chunk dropped so a transient upstream hiccup
// does not kill the session.
func forwardAudio(ctx context.Context, session upstream.Session, audioCh <-chan []byte, sampleRate int) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk := <-audioCh:
			if err := session.SendAudio(chunk, sampleRate); err != nil {
				logging.Warnf("live: audio forward failed: %v", err)
			}
		}
	}
}

// forwardControl relays typed turns and tool results to the upstream session.
func forwardControl(ctx context.Context, session upstream.Session, ctrlCh <-chan ControlMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ctrlCh:
			var err error
			switch m := msg.(type) {
			case ContentTurn:
				err = session.SendContent(m.Text, m.Final)
			case ToolResponse:
				err = session.SendToolResults(toolResults(m.Responses))
			}
			if err != nil {
				logging.Warnf("live: control forward failed: %v", err)
			}
		}
	}
}

// toolResults converts client function responses for the upstream session,
// substituting a generic success payload when the client sent none.
func toolResults(responses []FunctionResponse) []upstream.ToolResult {
	results := make([]upstream.ToolResult, 0, len(responses))
	for _, fr := range responses {
		result := fr.Result
		if result == nil {
			result = map[string]any{"result": "ok"}
		}
		results = append(results, upstream.ToolResult{
			Name:   fr.Name,
			CallID: fr.CallID,
			Result: result,
		})
	}
	return results
}
