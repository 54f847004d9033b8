package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
	"github.com/mmynk/invoicer/pkg/api"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

func setupAuthServer(t *testing.T) (apiconnect.AuthServiceClient, apiconnect.InvoiceServiceClient) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-that-is-long-enough", time.Hour)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))
	// Only the interceptor matters here; the handler never runs unauthenticated.
	mux.Handle(apiconnect.NewInvoiceServiceHandler(&InvoiceService{},
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		apiconnect.NewInvoiceServiceClient(http.DefaultClient, server.URL)
}

func TestRegisterLoginAndCurrentUser(t *testing.T) {
	client, _ := setupAuthServer(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "Coach@Example.com",
		DisplayName: "Coach",
		Password:    "secret123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" || reg.Msg.User.ID == "" {
		t.Fatalf("expected token and user, got %+v", reg.Msg)
	}
	if reg.Msg.User.Email != "coach@example.com" {
		t.Errorf("email: expected normalized address, got %s", reg.Msg.User.Email)
	}

	login, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "coach@example.com",
		Password: "secret123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.ID != reg.Msg.User.ID {
		t.Errorf("login user: expected %s, got %s", reg.Msg.User.ID, login.Msg.User.ID)
	}

	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	me, err := client.GetCurrentUser(ctx, req)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.ID != reg.Msg.User.ID || me.Msg.User.DisplayName != "Coach" {
		t.Errorf("current user: got %+v", me.Msg.User)
	}

	_, err = client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)
}

func TestRegisterAndLogin_Rejected(t *testing.T) {
	client, _ := setupAuthServer(t)
	ctx := context.Background()

	_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "a@example.com", Password: "secret123"}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "A@example.com", Password: "secret123"}, connect.CodeAlreadyExists},
		{"short password", &api.RegisterRequest{Email: "b@example.com", Password: "123"}, connect.CodeInvalidArgument},
		{"bad email", &api.RegisterRequest{Email: "b-at-example", Password: "secret123"}, connect.CodeInvalidArgument},
		{"empty email", &api.RegisterRequest{Password: "secret123"}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Register(ctx, connect.NewRequest(tt.req))
			wantCode(t, err, tt.code)
		})
	}

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "a@example.com", Password: "wrong-password"}))
	wantCode(t, err, connect.CodeUnauthenticated)

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: "secret123"}))
	wantCode(t, err, connect.CodeUnauthenticated)
}

func TestRequireAuth(t *testing.T) {
	_, invoices := setupAuthServer(t)
	ctx := context.Background()

	_, err := invoices.ListInvoices(ctx, connect.NewRequest(&api.ListInvoicesRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)

	req := connect.NewRequest(&api.ListInvoicesRequest{})
	req.Header().Set("Authorization", "Bearer not-a-token")
	_, err = invoices.ListInvoices(ctx, req)
	wantCode(t, err, connect.CodeUnauthenticated)
}
