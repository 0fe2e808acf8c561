package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signHS256(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTValidator_Validate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	validator := NewJWTValidator("secret")
	validator.now = func() time.Time { return now }

	valid := signHS256(t, "secret", Claims{
		Roles: []string{"admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	claims, err := validator.Validate(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "user-1" || len(claims.Roles) != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	expired := signHS256(t, "secret", jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	})
	if _, err := validator.Validate(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	wrongKey := signHS256(t, "other", jwt.RegisteredClaims{Subject: "user-1"})
	if _, err := validator.Validate(wrongKey); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}

	noSubject := signHS256(t, "secret", jwt.RegisteredClaims{ID: "x"})
	if _, err := validator.Validate(noSubject); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}

	if _, err := validator.Validate("  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	soon := now.Add(10 * time.Minute)

	short := signHS256(t, "k", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(soon)})
	if got := TokenExpiry(short, now, time.Hour); !got.Equal(soon) {
		t.Fatalf("expected exp claim %v, got %v", soon, got)
	}

	long := signHS256(t, "k", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour))})
	if got := TokenExpiry(long, now, time.Hour); !got.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected max age cap, got %v", got)
	}

	if got := TokenExpiry("opaque-token", now, time.Hour); !got.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected max age for opaque token, got %v", got)
	}
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/ws/setup?token=from-query", nil)
	if got := ExtractToken(req, ""); got != "from-query" {
		t.Fatalf("expected query token, got %q", got)
	}

	req.Header.Set("Authorization", "bearer  from-header ")
	if got := ExtractToken(req, ""); got != "from-header" {
		t.Fatalf("expected header token, got %q", got)
	}

	if got := ExtractBearerTokenFromHeader("Basic abc"); got != "" {
		t.Fatalf("expected empty token for basic auth, got %q", got)
	}
}
