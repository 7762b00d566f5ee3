// Package auth supplies bearer tokens for outbound API calls. The token is
// opaque to this SDK beyond its use as a header value; the JWT provider only
// peeks at the exp claim so callers can refresh before the server rejects.
package auth

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenProvider yields the bearer token to attach to a request.
// ok is false when no token should be attached.
type TokenProvider interface {
	Token() (token string, ok bool)
}

// StaticTokenProvider always returns the same token.
type StaticTokenProvider struct {
	value string
}

// NewStaticTokenProvider wraps a fixed token. An empty token yields ok=false.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{value: strings.TrimSpace(token)}
}

func (p *StaticTokenProvider) Token() (string, bool) {
	if p.value == "" {
		return "", false
	}
	return p.value, true
}

// JWTTokenProvider holds a JWT and reports expiry from its unverified exp
// claim. Verification belongs to the server; the client only needs to know
// when to stop sending a token that will be rejected anyway.
type JWTTokenProvider struct {
	value  string
	expiry time.Time
	now    func() time.Time
}

// NewJWTTokenProvider parses the token's claims without verifying the
// signature. A token that does not parse as a JWT is still usable; it just
// has no known expiry.
func NewJWTTokenProvider(token string) *JWTTokenProvider {
	p := &JWTTokenProvider{value: strings.TrimSpace(token), now: time.Now}
	if p.value == "" {
		return p
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(p.value, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			p.expiry = exp.Time
		}
	}
	return p
}

// Token returns the token unless it is empty or known to be expired.
func (p *JWTTokenProvider) Token() (string, bool) {
	if p.value == "" || p.Expired() {
		return "", false
	}
	return p.value, true
}

// Expired reports whether the token carries an exp claim in the past.
func (p *JWTTokenProvider) Expired() bool {
	return !p.expiry.IsZero() && p.now().After(p.expiry)
}

// ExpiresAt returns the exp claim, zero when absent or unparsable.
func (p *JWTTokenProvider) ExpiresAt() time.Time {
	return p.expiry
}
