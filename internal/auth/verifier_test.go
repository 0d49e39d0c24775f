package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testProject = "cookai-test"

type testSigner struct {
	key     *rsa.PrivateKey
	kid     string
	certPEM string
}

func newTestSigner(t *testing.T, kid string) *testSigner {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return &testSigner{key: key, kid: kid, certPEM: string(certPEM)}
}

func (s *testSigner) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.kid
	signed, err := tok.SignedString(s.key)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func validClaims(uid string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   "https://securetoken.google.com/" + testProject,
		"aud":   testProject,
		"sub":   uid,
		"email": uid + "@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

// certServer serves the signer's cert the way Google's endpoint does and
// counts fetches.
func certServer(t *testing.T, s *testSigner, fetches *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			fetches.Add(1)
		}
		json.NewEncoder(w).Encode(map[string]string{s.kid: s.certPEM})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestVerifier(t *testing.T, s *testSigner) *FirebaseVerifier {
	srv := certServer(t, s, nil)
	return NewFirebaseVerifierWithCerts(testProject, NewCertCache(srv.URL))
}

func TestVerifyValidToken(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	v := newTestVerifier(t, signer)

	id, err := v.Verify(context.Background(), signer.sign(t, validClaims("user-42")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", id.UserID)
	}
	if id.Email != "user-42@example.com" {
		t.Errorf("Email = %q", id.Email)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	v := newTestVerifier(t, signer)

	claims := validClaims("user-42")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	if _, err := v.Verify(context.Background(), signer.sign(t, claims)); err == nil {
		t.Fatal("expired token should fail")
	}
}

func TestVerifyWrongAudience(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	v := newTestVerifier(t, signer)

	claims := validClaims("user-42")
	claims["aud"] = "other-project"
	if _, err := v.Verify(context.Background(), signer.sign(t, claims)); err == nil {
		t.Fatal("wrong audience should fail")
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	v := newTestVerifier(t, signer)

	claims := validClaims("user-42")
	claims["iss"] = "https://evil.example.com/" + testProject
	if _, err := v.Verify(context.Background(), signer.sign(t, claims)); err == nil {
		t.Fatal("wrong issuer should fail")
	}
}

func TestVerifyUnknownKey(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	other := newTestSigner(t, "kid-other")
	v := newTestVerifier(t, signer)

	// Token signed with a key the cert endpoint does not know about.
	if _, err := v.Verify(context.Background(), other.sign(t, validClaims("user-42"))); err == nil {
		t.Fatal("unknown signing key should fail")
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	v := newTestVerifier(t, signer)

	claims := validClaims("user-42")
	claims["sub"] = ""
	if _, err := v.Verify(context.Background(), signer.sign(t, claims)); err == nil {
		t.Fatal("empty subject should fail")
	}
}

func TestVerifyMissingToken(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	v := newTestVerifier(t, signer)

	if _, err := v.Verify(context.Background(), ""); err != ErrMissingToken {
		t.Fatalf("got %v, want ErrMissingToken", err)
	}
}

func TestCertCacheSingleFetch(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	var fetches atomic.Int32
	srv := certServer(t, signer, &fetches)
	v := NewFirebaseVerifierWithCerts(testProject, NewCertCache(srv.URL))

	for i := 0; i < 3; i++ {
		if _, err := v.Verify(context.Background(), signer.sign(t, validClaims("u"))); err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
	}
	if n := fetches.Load(); n != 1 {
		t.Errorf("cert endpoint fetched %d times, want 1", n)
	}
}

func TestCertCacheInvalidate(t *testing.T) {
	signer := newTestSigner(t, "kid-1")
	var fetches atomic.Int32
	srv := certServer(t, signer, &fetches)
	cache := NewCertCache(srv.URL)
	v := NewFirebaseVerifierWithCerts(testProject, cache)

	if _, err := v.Verify(context.Background(), signer.sign(t, validClaims("u"))); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate()
	if _, err := v.Verify(context.Background(), signer.sign(t, validClaims("u"))); err != nil {
		t.Fatal(err)
	}
	if n := fetches.Load(); n != 2 {
		t.Errorf("cert endpoint fetched %d times after invalidate, want 2", n)
	}
}

func TestCertCacheServesStaleOnError(t *testing.T) {
	signer := newTestSigner(t, "kid-1")

	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{signer.kid: signer.certPEM})
	}))
	defer srv.Close()

	cache := NewCertCache(srv.URL)
	cache.now = func() time.Time { return time.Now() }
	v := NewFirebaseVerifierWithCerts(testProject, cache)

	if _, err := v.Verify(context.Background(), signer.sign(t, validClaims("u"))); err != nil {
		t.Fatal(err)
	}

	// Expire the cache and make the endpoint fail: the stale set must serve.
	failing.Store(true)
	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := v.Verify(context.Background(), signer.sign(t, validClaims("u"))); err != nil {
		t.Fatalf("stale certs should have served: %v", err)
	}
}
