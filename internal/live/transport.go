package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Application close codes sent to the client.
const (
	// CloseSetupFailed is sent when the setup handshake times out or the
	// first frame is not a setup message.
	CloseSetupFailed = 4000
	// CloseAuthFailed is sent when identity verification fails.
	CloseAuthFailed = 4001
)

const writeWait = 10 * time.Second

// Transport abstracts the client connection so the session machinery can be
// tested without a live socket.
type Transport interface {
	// ReadMessage blocks for the next client frame. messageType is one of
	// the websocket message type constants.
	ReadMessage() (messageType int, data []byte, err error)
	// WriteBinary sends a binary frame.
	WriteBinary(data []byte) error
	// WriteJSON sends v marshalled as a text frame.
	WriteJSON(v any) error
	// CloseWithCode sends a close frame with the given application code and
	// reason, then closes the connection.
	CloseWithCode(code int, reason string) error
	// SetReadDeadline bounds future ReadMessage calls. The zero time clears
	// the deadline.
	SetReadDeadline(t time.Time) error
	Close() error
}

// wsTransport adapts a gorilla connection to Transport. Writes are serialized
// because the session has two writers, the egress pump and the supervisor's
// best-effort error path.
type wsTransport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadMessage() (int, []byte, error) {
	return t.conn.ReadMessage()
}

func (t *wsTransport) WriteBinary(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (t *wsTransport) WriteJSON(v any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteJSON(v)
}

func (t *wsTransport) CloseWithCode(code int, reason string) error {
	t.writeMu.Lock()
	msg := websocket.FormatCloseMessage(code, reason)
	t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	t.writeMu.Unlock()
	return t.conn.Close()
}

func (t *wsTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
