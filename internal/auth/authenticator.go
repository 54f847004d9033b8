// Package auth handles hosted-mode accounts: password registration and
// login, and the JWT sessions that carry the account ID to every RPC.
package auth

import (
	"context"

	"github.com/mmynk/invoicer/internal/models"
)

// Authenticator verifies who is calling. The credential format depends on
// the implementation.
type Authenticator interface {
	// Register creates a new account and returns it.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error
}
