package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cookaihq/cookai/internal/logging"
)

// GoogleCertURL serves the rotating X.509 certificates Google signs Firebase
// ID tokens with.
const GoogleCertURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const certCacheTTL = time.Hour

// CertCache caches Google's public certificates keyed by key ID.
// Refreshes are double-checked under the mutex so concurrent callers trigger
// at most one fetch; a stale set is served when a refresh fails.
type CertCache struct {
	url  string
	ttl  time.Duration
	http *http.Client
	now  func() time.Time

	mu     sync.RWMutex
	certs  map[string]string
	expiry time.Time
}

// NewCertCache creates a cache fetching from url (GoogleCertURL in production).
func NewCertCache(url string) *CertCache {
	return &CertCache{
		url:  url,
		ttl:  certCacheTTL,
		http: &http.Client{Timeout: 10 * time.Second},
		now:  time.Now,
	}
}

// Get returns the PEM certificate for the given key ID, refreshing the cache
// when it has expired.
func (c *CertCache) Get(ctx context.Context, kid string) (string, error) {
	certs, err := c.all(ctx)
	if err != nil {
		return "", err
	}
	pem, ok := certs[kid]
	if !ok {
		return "", fmt.Errorf("unknown signing key %q", kid)
	}
	return pem, nil
}

// Invalidate drops the cached set so the next Get refetches.
func (c *CertCache) Invalidate() {
	c.mu.Lock()
	c.certs = nil
	c.expiry = time.Time{}
	c.mu.Unlock()
}

func (c *CertCache) all(ctx context.Context) (map[string]string, error) {
	c.mu.RLock()
	if c.certs != nil && c.now().Before(c.expiry) {
		certs := c.certs
		c.mu.RUnlock()
		return certs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check inside the lock: another goroutine may have refreshed.
	if c.certs != nil && c.now().Before(c.expiry) {
		return c.certs, nil
	}

	certs, err := c.fetch(ctx)
	if err != nil {
		if c.certs != nil {
			// Stale is better than nothing.
			logging.Errorf("cert refresh failed, serving stale set: %v", err)
			return c.certs, nil
		}
		return nil, err
	}

	c.certs = certs
	c.expiry = c.now().Add(c.ttl)
	logging.Infof("Refreshed Google public certificates (%d keys)", len(certs))
	return certs, nil
}

func (c *CertCache) fetch(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch certs: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch certs: %w", err)
	}
	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return nil, fmt.Errorf("decode certs: %w", err)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("cert endpoint returned no keys")
	}
	return certs, nil
}
