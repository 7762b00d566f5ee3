package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestStaticTokenProvider(t *testing.T) {
	if tok, ok := NewStaticTokenProvider("abc").Token(); !ok || tok != "abc" {
		t.Fatalf("expected token back, got %q ok=%v", tok, ok)
	}
	if _, ok := NewStaticTokenProvider("  ").Token(); ok {
		t.Fatalf("blank token should yield ok=false")
	}
}

func TestJWTTokenProviderReadsExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	p := NewJWTTokenProvider(signToken(t, jwt.MapClaims{"exp": exp.Unix()}))
	if p.Expired() {
		t.Fatalf("token should not be expired")
	}
	if !p.ExpiresAt().Equal(exp) {
		t.Fatalf("expiry mismatch: got %v want %v", p.ExpiresAt(), exp)
	}
	if _, ok := p.Token(); !ok {
		t.Fatalf("valid token should be returned")
	}
}

func TestJWTTokenProviderWithholdsExpiredToken(t *testing.T) {
	p := NewJWTTokenProvider(signToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}))
	if !p.Expired() {
		t.Fatalf("token should be expired")
	}
	if _, ok := p.Token(); ok {
		t.Fatalf("expired token must not be attached")
	}
}

func TestJWTTokenProviderOpaqueToken(t *testing.T) {
	p := NewJWTTokenProvider("not-a-jwt")
	if p.Expired() {
		t.Fatalf("opaque token has no known expiry")
	}
	if tok, ok := p.Token(); !ok || tok != "not-a-jwt" {
		t.Fatalf("opaque token should still be usable, got %q ok=%v", tok, ok)
	}
}
