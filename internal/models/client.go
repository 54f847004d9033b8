package models

import (
	"strings"
	"time"
)

// Client is an entry in the client directory. Email is the natural key:
// two clients of one account never share a normalized email.
type Client struct {
	ID        string    `json:"id" firestore:"-"`
	AccountID string    `json:"account_id" firestore:"accountId"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at,omitempty" firestore:"updatedAt"`
}

// NormalizeEmail returns the form of an email address used for dedup:
// trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
