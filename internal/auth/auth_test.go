package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	a := NewPasswordAuthenticator(store)
	a.cost = bcrypt.MinCost
	return a
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	user, err := a.Register(ctx, "Coach@Example.com", "Coach", "secret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "coach@example.com" {
		t.Errorf("Email = %q, want normalized", user.Email)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Error("password stored in clear")
	}

	got, err := a.Authenticate(ctx, "coach@example.com", "secret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate returned %s, want %s", got.ID, user.ID)
	}

	if _, err := a.Authenticate(ctx, "coach@example.com", "wrong!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)
	if _, err := a.Register(ctx, "taken@example.com", "", "secret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"short password", "new@example.com", "12345", ErrWeakPassword},
		{"six characters is enough", "six@example.com", "123456", nil},
		{"bad email", "not an email", "secret", ErrInvalidEmail},
		{"display name form", "Coach <coach@example.com>", "secret", ErrInvalidEmail},
		{"duplicate", "TAKEN@example.com", "secret", ErrEmailExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, "", tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestJWT(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	user := &models.User{ID: "acct-1", Email: "coach@example.com"}
	token, expiresAt, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expiresAt = %v, want one hour later", expiresAt)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.AccountID != "acct-1" || claims.Subject != "acct-1" || claims.Email != "coach@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	other := NewJWTManager("another-secret-another-secret-xx", time.Hour)
	other.now = m.now
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret error = %v, want ErrInvalidToken", err)
	}

	if _, err := m.Validate(token[:len(token)-2]); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token error = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Validate(strings.Repeat("x", 10)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}
