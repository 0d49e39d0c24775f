package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/upstream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler gates the live endpoint: it verifies identity before letting any
// session exist, enforces the setup handshake window, then hands the
// connection to a Session.
//
// The token rides either the "token" query parameter or the Authorization
// header. A bad token still gets a websocket accept, but only long enough to
// deliver the auth close code.
func Handler(verifier auth.Verifier, client upstream.Client, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, authErr := verifier.Verify(r.Context(), auth.TokenFromRequest(r))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warnf("live: upgrade failed: %v", err)
			return
		}
		t := newWSTransport(conn)

		if authErr != nil {
			logging.Warnf("live: rejecting connection: %v", authErr)
			t.CloseWithCode(CloseAuthFailed, "authentication failed")
			return
		}

		sess := NewSession(t, client, identity.UserID, opts)
		runSession(r.Context(), sess, t, opts)
	}
}

// runSession performs the setup handshake and then drives the session.
func runSession(ctx context.Context, sess *Session, t Transport, opts Options) {
	sess.setState(StateAwaitingSetup)

	setup, ok := awaitSetup(t, opts.SetupTimeout)
	if !ok {
		sess.setState(StateClosed)
		return
	}

	sess.Run(ctx, setup)
}

// awaitSetup waits for the first client frame, which must be a text frame
// carrying a setup object, within the handshake window. On timeout or a
// malformed first frame the connection is closed with the setup failure code.
func awaitSetup(t Transport, timeout time.Duration) (SetupConfig, bool) {
	t.SetReadDeadline(time.Now().Add(timeout))
	messageType, data, err := t.ReadMessage()
	if err != nil {
		logging.Warnf("live: setup not received: %v", err)
		t.CloseWithCode(CloseSetupFailed, "setup timeout")
		return SetupConfig{}, false
	}
	t.SetReadDeadline(time.Time{})

	if messageType != websocket.TextMessage {
		t.CloseWithCode(CloseSetupFailed, "invalid setup message")
		return SetupConfig{}, false
	}
	var envelope struct {
		Setup json.RawMessage `json:"setup"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Setup == nil {
		t.CloseWithCode(CloseSetupFailed, "invalid setup message")
		return SetupConfig{}, false
	}
	return ParseSetupConfig(envelope.Setup), true
}
