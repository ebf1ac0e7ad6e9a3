package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arvind/media-vault/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: "user-123", Username: "ravi", Email: "ravi@example.com"}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("super-secret")
	user := testUser()

	tok, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id mismatch: got %q want %q", claims.UserID, user.ID)
	}
	if claims.Username != user.Username {
		t.Fatalf("username mismatch: got %q want %q", claims.Username, user.Username)
	}
	if claims.Email != user.Email {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, user.Email)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 59*time.Minute || ttl > time.Hour {
		t.Fatalf("unexpected token ttl: %v", ttl)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := "secret"
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	tok, err := expired.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := NewTokenManager(secret).Verify(tok); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret").Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenManager("wrong-secret").Verify(tok); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestVerify_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	// alg=none must never pass even with a structurally valid payload.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := NewTokenManager("secret").Verify(tok); err == nil {
		t.Fatalf("expected error for alg=none token, got nil")
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("k").Verify("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
