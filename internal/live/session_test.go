package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/upstream"
)

func init() {
	logging.Disable()
}

type inFrame struct {
	messageType int
	data        []byte
}

// stubTransport is an in-memory Transport. Frames pushed to frames are served
// to ReadMessage; writes are recorded.
type stubTransport struct {
	frames chan inFrame
	done   chan struct{}
	once   sync.Once

	mu          sync.Mutex
	binary      [][]byte
	jsons       []string
	closeCode   int
	closeReason string
	deadline    time.Time
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		frames: make(chan inFrame, 16),
		done:   make(chan struct{}),
	}
}

func (t *stubTransport) ReadMessage() (int, []byte, error) {
	t.mu.Lock()
	deadline := t.deadline
	t.mu.Unlock()
	var timeout <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case f, ok := <-t.frames:
		if !ok {
			return 0, nil, errors.New("client disconnected")
		}
		return f.messageType, f.data, nil
	case <-timeout:
		return 0, nil, errors.New("read deadline exceeded")
	case <-t.done:
		return 0, nil, errors.New("transport closed")
	}
}

func (t *stubTransport) WriteBinary(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.binary = append(t.binary, data)
	return nil
}

func (t *stubTransport) WriteJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jsons = append(t.jsons, string(raw))
	return nil
}

func (t *stubTransport) CloseWithCode(code int, reason string) error {
	t.mu.Lock()
	t.closeCode = code
	t.closeReason = reason
	t.mu.Unlock()
	return t.Close()
}

func (t *stubTransport) SetReadDeadline(deadline time.Time) error {
	t.mu.Lock()
	t.deadline = deadline
	t.mu.Unlock()
	return nil
}

func (t *stubTransport) Close() error {
	t.once.Do(func() { close(t.done) })
	return nil
}

func (t *stubTransport) writtenJSON() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.jsons...)
}

type sentContent struct {
	text  string
	final bool
}

// stubSession is an in-memory upstream.Session fed through recvCh. Closing
// recvCh ends the stream with finalErr.
type stubSession struct {
	recvCh   chan *upstream.Message
	finalErr error
	done     chan struct{}
	once     sync.Once

	mu          sync.Mutex
	audio       [][]byte
	sampleRates []int
	contents    []sentContent
	toolResults [][]upstream.ToolResult
}

func newStubSession() *stubSession {
	return &stubSession{
		recvCh:   make(chan *upstream.Message, 16),
		finalErr: io.EOF,
		done:     make(chan struct{}),
	}
}

func (s *stubSession) SendAudio(data []byte, sampleRate int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, data)
	s.sampleRates = append(s.sampleRates, sampleRate)
	return nil
}

func (s *stubSession) SendContent(text string, final bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = append(s.contents, sentContent{text: text, final: final})
	return nil
}

func (s *stubSession) SendToolResults(results []upstream.ToolResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolResults = append(s.toolResults, results)
	return nil
}

func (s *stubSession) Receive() (*upstream.Message, error) {
	select {
	case msg, ok := <-s.recvCh:
		if !ok {
			return nil, s.finalErr
		}
		return msg, nil
	case <-s.done:
		return nil, errors.New("session closed")
	}
}

func (s *stubSession) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

type stubClient struct {
	session    *stubSession
	connectErr error

	mu     sync.Mutex
	config upstream.Config
}

func (c *stubClient) Connect(ctx context.Context, cfg upstream.Config) (upstream.Session, error) {
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	return c.session, nil
}

func testOptions() Options {
	return Options{
		SetupTimeout:    time.Second,
		SessionDeadline: 5 * time.Second,
		InputSampleRate: 16000,
	}
}

func runToClosed(t *testing.T, sess *Session, setup SetupConfig) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(context.Background(), setup)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish")
	}
	if got := sess.State(); got != StateClosed {
		t.Fatalf("state = %q, want %q", got, StateClosed)
	}
}

func countMatching(jsons []string, substr string) int {
	n := 0
	for _, j := range jsons {
		if strings.Contains(j, substr) {
			n++
		}
	}
	return n
}

func TestSessionHappyPath(t *testing.T) {
	transport := newStubTransport()
	up := newStubSession()
	client := &stubClient{session: up}

	transport.frames <- inFrame{messageType: websocket.BinaryMessage, data: []byte{1, 2, 3}}
	transport.frames <- inFrame{messageType: websocket.TextMessage, data: []byte(`{"clientContent":{"turns":"hi","turnComplete":true}}`)}

	hello := "hello"
	up.recvCh <- &upstream.Message{Content: &upstream.ServerContent{
		Audio:               [][]byte{{9, 9}},
		OutputTranscription: &hello,
	}}
	up.recvCh <- &upstream.Message{Content: &upstream.ServerContent{TurnComplete: true}}

	sess := NewSession(transport, client, "user-1", testOptions())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(context.Background(), SetupConfig{ResponseModalities: []string{"AUDIO"}})
	}()

	// Give the pumps a moment to deliver the client frames, then end the
	// stream cleanly.
	waitFor(t, func() bool {
		up.mu.Lock()
		defer up.mu.Unlock()
		return len(up.audio) == 1 && len(up.contents) == 1
	})
	close(up.recvCh)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish")
	}
	if got := sess.State(); got != StateClosed {
		t.Fatalf("state = %q, want %q", got, StateClosed)
	}

	jsons := transport.writtenJSON()
	if len(jsons) == 0 || jsons[0] != `{"setupComplete":true}` {
		t.Fatalf("first event = %v, want setupComplete", jsons)
	}
	if countMatching(jsons, `"outputTranscription":{"text":"hello"}`) != 1 {
		t.Fatalf("missing output transcription in %v", jsons)
	}
	if countMatching(jsons, `"turnComplete":true`) != 1 {
		t.Fatalf("missing turnComplete in %v", jsons)
	}
	transport.mu.Lock()
	binaryCount := len(transport.binary)
	transport.mu.Unlock()
	if binaryCount != 1 {
		t.Fatalf("binary frames = %d, want 1", binaryCount)
	}

	up.mu.Lock()
	defer up.mu.Unlock()
	if up.sampleRates[0] != 16000 {
		t.Fatalf("sample rate = %d, want 16000", up.sampleRates[0])
	}
	if up.contents[0] != (sentContent{text: "hi", final: true}) {
		t.Fatalf("content = %+v", up.contents[0])
	}
}

func TestSessionDeadline(t *testing.T) {
	transport := newStubTransport()
	up := newStubSession()
	client := &stubClient{session: up}

	opts := testOptions()
	opts.SessionDeadline = 100 * time.Millisecond

	sess := NewSession(transport, client, "user-1", opts)
	runToClosed(t, sess, SetupConfig{})

	jsons := transport.writtenJSON()
	if countMatching(jsons, "Session time limit reached") != 1 {
		t.Fatalf("want exactly one time limit error, got %v", jsons)
	}
}

func TestSessionUpstreamError(t *testing.T) {
	transport := newStubTransport()
	up := newStubSession()
	up.finalErr = errors.New("stream broke")
	close(up.recvCh)
	client := &stubClient{session: up}

	sess := NewSession(transport, client, "user-1", testOptions())
	runToClosed(t, sess, SetupConfig{})

	jsons := transport.writtenJSON()
	if countMatching(jsons, "stream broke") != 1 {
		t.Fatalf("want exactly one error event, got %v", jsons)
	}
}

func TestSessionCleanEnd(t *testing.T) {
	transport := newStubTransport()
	up := newStubSession()
	close(up.recvCh)
	client := &stubClient{session: up}

	sess := NewSession(transport, client, "user-1", testOptions())
	runToClosed(t, sess, SetupConfig{})

	jsons := transport.writtenJSON()
	if countMatching(jsons, `"error"`) != 0 {
		t.Fatalf("clean end must not produce errors, got %v", jsons)
	}
}

func TestSessionConnectFailure(t *testing.T) {
	transport := newStubTransport()
	client := &stubClient{connectErr: errors.New("no upstream")}

	sess := NewSession(transport, client, "user-1", testOptions())
	runToClosed(t, sess, SetupConfig{})

	jsons := transport.writtenJSON()
	if countMatching(jsons, "failed to connect") != 1 {
		t.Fatalf("want connect error, got %v", jsons)
	}
}

func TestSessionClientDisconnect(t *testing.T) {
	transport := newStubTransport()
	up := newStubSession()
	client := &stubClient{session: up}

	close(transport.frames)

	sess := NewSession(transport, client, "user-1", testOptions())
	runToClosed(t, sess, SetupConfig{})
}

func TestSessionToolRoundTrip(t *testing.T) {
	transport := newStubTransport()
	up := newStubSession()
	client := &stubClient{session: up}

	up.recvCh <- &upstream.Message{ToolCall: &upstream.ToolCall{Calls: []upstream.FunctionCall{
		{Name: "add_to_cart", Args: map[string]any{"item": "eggs"}, CallID: "call-1"},
	}}}
	transport.frames <- inFrame{
		messageType: websocket.TextMessage,
		data:        []byte(`{"toolResponse":{"functionResponses":{"name":"add_to_cart","id":"call-1"}}}`),
	}

	sess := NewSession(transport, client, "user-1", testOptions())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(context.Background(), SetupConfig{})
	}()

	waitFor(t, func() bool {
		up.mu.Lock()
		defer up.mu.Unlock()
		return len(up.toolResults) == 1
	})
	close(up.recvCh)
	<-done

	jsons := transport.writtenJSON()
	want := `{"toolCall":{"functionCalls":[{"name":"add_to_cart","args":{"item":"eggs"},"id":"call-1"}]}}`
	if countMatching(jsons, want) != 1 {
		t.Fatalf("missing tool call event in %v", jsons)
	}

	up.mu.Lock()
	defer up.mu.Unlock()
	got := up.toolResults[0]
	if len(got) != 1 || got[0].Name != "add_to_cart" || got[0].CallID != "call-1" {
		t.Fatalf("tool results = %+v", got)
	}
	if got[0].Result["result"] != "ok" {
		t.Fatalf("missing default result payload: %+v", got[0].Result)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
