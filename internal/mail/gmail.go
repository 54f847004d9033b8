// Package mail delivers invoices through the Gmail API on behalf of each
// account, and manages the OAuth token that authorizes it.
package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

var (
	// ErrAuthExpired means the stored authorization was revoked or can no
	// longer be refreshed. The user must reconnect Gmail; retrying will not
	// help.
	ErrAuthExpired = errors.New("gmail authorization expired: reconnect Gmail")

	// ErrNotConnected means the account never connected Gmail.
	ErrNotConnected = errors.New("gmail is not connected")

	// ErrNotConfigured means the server has no OAuth client for Gmail.
	ErrNotConfigured = errors.New("gmail delivery is not configured on this server")
)

// Config is the OAuth client registered with Google.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint defaults to Google's OAuth endpoint.
	Endpoint oauth2.Endpoint
}

// Result is a successful send.
type Result struct {
	MessageID string
}

// Dispatcher sends mail as the account's Gmail user.
type Dispatcher struct {
	oauth  *oauth2.Config
	tokens storage.GmailTokenStore
	opts   []option.ClientOption
	now    func() time.Time
}

// NewDispatcher creates a Dispatcher. opts are passed to the Gmail client
// (e.g. option.WithEndpoint in tests).
func NewDispatcher(cfg Config, tokens storage.GmailTokenStore, opts ...option.ClientOption) *Dispatcher {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &Dispatcher{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gmail.GmailSendScope},
			Endpoint:     endpoint,
		},
		tokens: tokens,
		opts:   opts,
		now:    time.Now,
	}
}

// Configured reports whether an OAuth client is set.
func (d *Dispatcher) Configured() bool {
	return d.oauth.ClientID != "" && d.oauth.ClientSecret != ""
}

// AuthURL returns the consent page URL. Offline access with a forced prompt
// makes Google return a refresh token on every connect.
func (d *Dispatcher) AuthURL(state string) (string, error) {
	if !d.Configured() {
		return "", ErrNotConfigured
	}
	return d.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Connect exchanges the authorization code from the consent redirect and
// stores the resulting token for the account.
func (d *Dispatcher) Connect(ctx context.Context, accountID, code string) (*models.GmailToken, error) {
	if !d.Configured() {
		return nil, ErrNotConfigured
	}
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	tok, err := d.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	stored := fromOAuth(tok)
	stored.ConnectedAt = d.now()
	if err := d.tokens.SaveGmailToken(ctx, accountID, stored); err != nil {
		return nil, err
	}
	slog.Info("Gmail connected", "account_id", accountID)
	return stored, nil
}

// Disconnect forgets the account's token. Disconnecting twice is not an error.
func (d *Dispatcher) Disconnect(ctx context.Context, accountID string) error {
	err := d.tokens.DeleteGmailToken(ctx, accountID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	slog.Info("Gmail disconnected", "account_id", accountID)
	return nil
}

// Status returns the stored token, or nil when not connected.
func (d *Dispatcher) Status(ctx context.Context, accountID string) (*models.GmailToken, error) {
	return d.tokens.GetGmailToken(ctx, accountID)
}

// Send delivers msg from the account's mailbox. An expired access token is
// refreshed first and the refreshed token saved. ErrAuthExpired is returned
// when the refresh is rejected or Gmail answers 401.
func (d *Dispatcher) Send(ctx context.Context, accountID string, msg Message) (*Result, error) {
	stored, err := d.tokens.GetGmailToken(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrNotConnected
	}

	tok, err := d.freshToken(ctx, accountID, stored)
	if err != nil {
		return nil, err
	}

	raw, err := BuildMIME(msg)
	if err != nil {
		return nil, err
	}

	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(tok)),
	}, d.opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}

	sent, err := svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", ErrAuthExpired, err)
		}
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	slog.Info("Email sent", "account_id", accountID, "message_id", sent.Id)
	return &Result{MessageID: sent.Id}, nil
}

// freshToken refreshes an expired token and persists the new one.
func (d *Dispatcher) freshToken(ctx context.Context, accountID string, stored *models.GmailToken) (*oauth2.Token, error) {
	current := toOAuth(stored)
	if !current.Valid() && current.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token expired without a refresh token", ErrAuthExpired)
	}
	tok, err := d.oauth.TokenSource(ctx, current).Token()
	if err != nil {
		if refreshRejected(err) {
			return nil, fmt.Errorf("%w: %v", ErrAuthExpired, err)
		}
		return nil, fmt.Errorf("failed to refresh gmail token: %w", err)
	}

	if tok.AccessToken != current.AccessToken {
		refreshed := fromOAuth(tok)
		if refreshed.RefreshToken == "" {
			refreshed.RefreshToken = stored.RefreshToken
		}
		refreshed.ConnectedAt = stored.ConnectedAt
		if err := d.tokens.SaveGmailToken(ctx, accountID, refreshed); err != nil {
			// The send can still go out with the token in hand.
			slog.Warn("Failed to persist refreshed gmail token", "account_id", accountID, "error", err)
		}
	}
	return tok, nil
}

// refreshRejected reports whether Google refused the refresh token itself,
// as opposed to failing to answer.
func refreshRejected(err error) bool {
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		return false
	}
	if rerr.ErrorCode == "invalid_grant" {
		return true
	}
	if rerr.Response == nil {
		return false
	}
	return rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized
}

func toOAuth(t *models.GmailToken) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuth(t *oauth2.Token) *models.GmailToken {
	return &models.GmailToken{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
