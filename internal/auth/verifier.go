package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified caller of a request or session.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Verifier checks an identity token and returns the caller it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ErrMissingToken is returned when no token was presented at all.
var ErrMissingToken = errors.New("missing auth token")

// FirebaseVerifier verifies Firebase ID tokens against Google's public
// X.509 certificates. No service-account credentials are required.
type FirebaseVerifier struct {
	projectID string
	certs     *CertCache
}

// NewFirebaseVerifier creates a verifier for the given Firebase project.
func NewFirebaseVerifier(projectID string) *FirebaseVerifier {
	return NewFirebaseVerifierWithCerts(projectID, NewCertCache(GoogleCertURL))
}

// NewFirebaseVerifierWithCerts allows injecting a cert cache (tests point it
// at a local endpoint).
func NewFirebaseVerifierWithCerts(projectID string, certs *CertCache) *FirebaseVerifier {
	return &FirebaseVerifier{projectID: projectID, certs: certs}
}

// Verify checks the token's signature against Google's rotating keys plus the
// standard Firebase claims: iss, aud, exp, and a non-empty sub.
func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	keyFunc := func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token missing key id")
		}
		pem, err := v.certs.Get(ctx, kid)
		if err != nil {
			return nil, err
		}
		return jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing subject (uid)")
	}

	id := &Identity{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}
