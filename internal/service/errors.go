package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/export"
	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/internal/mail"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/render"
	"github.com/mmynk/invoicer/internal/storage"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	var ve *invoicing.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, calculator.ErrTooManyLines),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists),
		errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, mail.ErrAuthExpired):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, invoicing.ErrProfileRequired),
		errors.Is(err, render.ErrProfileMissing),
		errors.Is(err, invoicing.ErrDraft),
		errors.Is(err, invoicing.ErrNoRecipient),
		errors.Is(err, mail.ErrNotConnected),
		errors.Is(err, mail.ErrNotConfigured),
		errors.Is(err, export.ErrEmpty):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case storage.IsUnavailable(err):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs err at a level matching its code and converts it.
func fail(msg string, err error, args ...any) *connect.Error {
	ce := toConnectError(err)
	args = append(args, "code", ce.Code(), "error", err)
	switch ce.Code() {
	case connect.CodeInternal, connect.CodeUnavailable:
		slog.Error(msg, args...)
	default:
		slog.Warn(msg, args...)
	}
	return ce
}

// account returns the caller's account or an Unauthenticated error.
func account(ctx context.Context) (string, error) {
	id := middleware.GetAccountID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, storage.ErrNotAuthenticated)
	}
	return id, nil
}
