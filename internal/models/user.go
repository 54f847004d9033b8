package models

import (
	"time"

	"github.com/google/uuid"
)

// LocalAccountID is the account every request runs as in local mode.
const LocalAccountID = "local"

// User represents a registered account in hosted mode. The user ID doubles
// as the tenant ID for all other records.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id" firestore:"id"`

	// Email is the login address (unique).
	Email string `json:"email" firestore:"email"`

	DisplayName string `json:"display_name" firestore:"displayName"`

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string `json:"-" firestore:"passwordHash"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at" firestore:"createdAt"`
	UpdatedAt int64 `json:"updated_at" firestore:"updatedAt"`
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// GmailToken is the stored OAuth token used to send mail on the account's
// behalf.
type GmailToken struct {
	AccessToken  string    `json:"access_token" firestore:"accessToken"`
	RefreshToken string    `json:"refresh_token" firestore:"refreshToken"`
	TokenType    string    `json:"token_type" firestore:"tokenType"`
	Expiry       time.Time `json:"expiry" firestore:"expiry"`
	ConnectedAt  time.Time `json:"connected_at" firestore:"connectedAt"`
}
