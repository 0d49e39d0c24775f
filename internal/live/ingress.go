package live

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/cookaihq/cookai/internal/logging"
)

// readPump pulls frames off the client transport and routes them: binary
// frames (16-bit PCM, 16kHz) to the audio channel, recognized text frames to
// the control channel. Unrecognized text frames are dropped. A read failure
// means the client is gone, so the pump cancels the session.
func readPump(ctx context.Context, cancel context.CancelFunc, t Transport, audioCh chan<- []byte, ctrlCh chan<- ControlMessage) {
	defer cancel()
	for {
		messageType, data, err := t.ReadMessage()
		if err != nil {
			logging.Debugf("live: client read ended: %v", err)
			return
		}
		switch messageType {
		case websocket.BinaryMessage:
			select {
			case audioCh <- data:
			case <-ctx.Done():
				return
			}
		case websocket.TextMessage:
			msg, ok := parseControl(data)
			if !ok {
				continue
			}
			select {
			case ctrlCh <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

type wireFunctionResponse struct {
	Name     string         `json:"name"`
	ID       string         `json:"id"`
	Response map[string]any `json:"response"`
}

// parseControl interprets a client text frame. It returns false for frames
// that carry neither clientContent nor toolResponse.
func parseControl(data []byte) (ControlMessage, bool) {
	var env struct {
		ClientContent *struct {
			Turns        string `json:"turns"`
			TurnComplete bool   `json:"turnComplete"`
		} `json:"clientContent"`
		ToolResponse *struct {
			FunctionResponses json.RawMessage `json:"functionResponses"`
		} `json:"toolResponse"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		logging.Debugf("live: dropping unreadable client frame: %v", err)
		return nil, false
	}
	switch {
	case env.ClientContent != nil:
		return ContentTurn{Text: env.ClientContent.Turns, Final: env.ClientContent.TurnComplete}, true
	case env.ToolResponse != nil:
		return parseToolResponse(env.ToolResponse.FunctionResponses)
	default:
		return nil, false
	}
}

// parseToolResponse accepts functionResponses as either a single object or a
// list. A single object behaves exactly like a one-element list.
func parseToolResponse(raw json.RawMessage) (ControlMessage, bool) {
	var wire []wireFunctionResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		var single wireFunctionResponse
		if err := json.Unmarshal(raw, &single); err != nil {
			logging.Debugf("live: dropping unreadable toolResponse: %v", err)
			return nil, false
		}
		wire = []wireFunctionResponse{single}
	}
	responses := make([]FunctionResponse, 0, len(wire))
	for _, fr := range wire {
		responses = append(responses, FunctionResponse{
			Name:   fr.Name,
			CallID: fr.ID,
			Result: fr.Response,
		})
	}
	return ToolResponse{Responses: responses}, true
}
