package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cookaihq/cookai/internal/logging"
)

// Notification is one push message bound for a user's device.
type Notification struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Link  string            `json:"link"`
	Data  map[string]string `json:"data,omitempty"`
}

// Sender delivers push notifications. Tests use a recording fake.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender records notifications in the log instead of delivering them.
// Used when no push gateway is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n Notification) error {
	logging.Infof("reminder (dry run): %s: %s", n.Title, n.Body)
	return nil
}

// WebhookSender posts notifications to an HTTP push gateway that holds the
// messaging credentials.
type WebhookSender struct {
	url  string
	http *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WebhookSender) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
