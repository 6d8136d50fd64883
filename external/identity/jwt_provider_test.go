package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestResolveUser_ValidToken(t *testing.T) {
	provider := NewJWTProvider(testSecret, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	user, err := provider.ResolveUser(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" || user.Email != "user@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestResolveUser_IssuerChecked(t *testing.T) {
	provider := NewJWTProvider(testSecret, "journai")

	good := signToken(t, testSecret, jwt.MapClaims{"sub": "user-1", "iss": "journai"})
	if _, err := provider.ResolveUser(context.Background(), good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := signToken(t, testSecret, jwt.MapClaims{"sub": "user-1", "iss": "someone-else"})
	if _, err := provider.ResolveUser(context.Background(), bad); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestResolveUser_WrongSecretRejected(t *testing.T) {
	provider := NewJWTProvider(testSecret, "")
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1"})

	if _, err := provider.ResolveUser(context.Background(), token); err == nil {
		t.Fatal("expected error for wrong signature")
	}
}

func TestResolveUser_UnsignedTokenRejected(t *testing.T) {
	provider := NewJWTProvider(testSecret, "")
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	if _, err := provider.ResolveUser(context.Background(), token); err == nil {
		t.Fatal("expected error for alg=none token")
	}
}

func TestResolveUser_MissingSubjectRejected(t *testing.T) {
	provider := NewJWTProvider(testSecret, "")
	token := signToken(t, testSecret, jwt.MapClaims{"email": "user@example.com"})

	_, err := provider.ResolveUser(context.Background(), token)
	if !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestResolveUser_ExpiredTokenRejected(t *testing.T) {
	provider := NewJWTProvider(testSecret, "")
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := provider.ResolveUser(context.Background(), token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
