package invoicing

import (
	"errors"
	"fmt"

	"github.com/mmynk/invoicer/internal/storage"
)

var (
	// ErrProfileRequired is returned when an invoice is generated before the
	// issuer profile was ever saved.
	ErrProfileRequired = errors.New("profile not configured: save your business profile first")

	// ErrNotAuthenticated aborts any call made without an account.
	ErrNotAuthenticated = storage.ErrNotAuthenticated

	// ErrDraft is returned when a draft is rendered or sent.
	ErrDraft = errors.New("drafts cannot be rendered or sent")

	// ErrNoRecipient is returned when sending an invoice without a client email.
	ErrNoRecipient = errors.New("invoice has no client email")
)

// ValidationError reports a missing or invalid required field. Nothing is
// persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
