package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/upstream"
)

// State is the session lifecycle phase.
type State string

const (
	StateConnecting    State = "connecting"
	StateAwaitingSetup State = "awaiting_setup"
	StateActive        State = "active"
	StateClosing       State = "closing"
	StateClosed        State = "closed"
)

const (
	audioChanSize   = 100
	controlChanSize = 16
	eventChanSize   = 200
)

// Options bound the session lifecycle.
type Options struct {
	SetupTimeout    time.Duration
	SessionDeadline time.Duration
	InputSampleRate int
}

// Session owns one client connection and its upstream counterpart. Run drives
// the five pumps and is the only place state transitions happen after setup.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	transport Transport
	client    upstream.Client
	opts      Options

	mu       sync.Mutex
	state    State
	upstream upstream.Session

	closeOnce sync.Once
}

func NewSession(t Transport, client upstream.Client, userID string, opts Options) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		transport: t,
		client:    client,
		opts:      opts,
		state:     StateConnecting,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run connects upstream with the given setup and pumps until the client
// disconnects, the upstream stream terminates, or the session deadline
// passes. It always leaves the session in StateClosed with both sides shut
// down.
func (s *Session) Run(ctx context.Context, setup SetupConfig) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.SessionDeadline)
	defer cancel()

	up, err := s.client.Connect(ctx, setup.Upstream())
	if err != nil {
		logging.Errorf("live: upstream connect failed for session %s: %v", s.ID, err)
		s.transport.WriteJSON(map[string]string{"error": "failed to connect to upstream session"})
		s.teardown(cancel, nil)
		return
	}
	s.mu.Lock()
	s.upstream = up
	s.state = StateActive
	s.mu.Unlock()
	logging.Infof("live: session %s active for user %s", s.ID, s.UserID)

	audioCh := make(chan []byte, audioChanSize)
	ctrlCh := make(chan ControlMessage, controlChanSize)
	eventCh := make(chan Event, eventChanSize)

	// The client expects readiness before any other event. The buffer is
	// empty here, so this never blocks.
	eventCh <- SetupCompleteEvent{}

	var wg sync.WaitGroup
	egressDone := make(chan struct{})
	wg.Add(5)
	go func() {
		defer wg.Done()
		readPump(ctx, cancel, s.transport, audioCh, ctrlCh)
	}()
	go func() {
		defer wg.Done()
		forwardAudio(ctx, up, audioCh, s.opts.InputSampleRate)
	}()
	go func() {
		defer wg.Done()
		forwardControl(ctx, up, ctrlCh)
	}()
	go func() {
		defer wg.Done()
		receivePump(ctx, up, eventCh)
	}()
	go func() {
		defer wg.Done()
		defer close(egressDone)
		writePump(ctx, s.transport, eventCh)
	}()

	select {
	case <-ctx.Done():
	case <-egressDone:
	}
	if ctx.Err() == context.DeadlineExceeded {
		// Best effort: the client may already be gone.
		s.transport.WriteJSON(map[string]string{"error": "Session time limit reached"})
		logging.Infof("live: session %s hit time limit", s.ID)
	}
	s.teardown(cancel, &wg)
}

// teardown is idempotent: cancel the pumps, close both ends, wait for the
// pumps to drain, and mark the session closed. Events still buffered when the
// egress pump stops are discarded.
func (s *Session) teardown(cancel context.CancelFunc, wg *sync.WaitGroup) {
	s.closeOnce.Do(func() {
		s.setState(StateClosing)
		cancel()
		s.mu.Lock()
		up := s.upstream
		s.mu.Unlock()
		if up != nil {
			up.Close()
		}
		s.transport.Close()
		if wg != nil {
			wg.Wait()
		}
		s.setState(StateClosed)
		logging.Infof("live: session %s closed", s.ID)
	})
}
