package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/pkg/api"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

// echoAuth answers every AuthService call with the account found in the
// context.
type echoAuth struct{}

func (echoAuth) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return connect.NewResponse(&api.RegisterResponse{User: &api.User{ID: GetAccountID(ctx)}}), nil
}

func (echoAuth) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return connect.NewResponse(&api.LoginResponse{User: &api.User{ID: GetAccountID(ctx)}}), nil
}

func (echoAuth) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{
		User: &api.User{ID: GetAccountID(ctx), Email: GetEmail(ctx)},
	}), nil
}

func newEchoServer(t *testing.T, interceptors ...connect.Interceptor) apiconnect.AuthServiceClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(echoAuth{}, connect.WithInterceptors(interceptors...)))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func TestLocalAccount(t *testing.T) {
	client := newEchoServer(t, LocalAccount(), LoggingInterceptor())

	resp, err := client.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.ID != models.LocalAccountID {
		t.Errorf("account: expected %q, got %q", models.LocalAccountID, resp.Msg.User.ID)
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret-0123456789", time.Hour)
	client := newEchoServer(t, RequireAuth(jwtManager))
	token, _, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "coach@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
		code   connect.Code
	}{
		{"valid token", "Bearer " + token, 0},
		{"lowercase scheme", "bearer " + token, 0},
		{"missing header", "", connect.CodeUnauthenticated},
		{"wrong scheme", "Basic " + token, connect.CodeUnauthenticated},
		{"garbage token", "Bearer abc.def.ghi", connect.CodeUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.GetCurrentUserRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			resp, err := client.GetCurrentUser(context.Background(), req)
			if tt.code != 0 {
				if connect.CodeOf(err) != tt.code {
					t.Fatalf("expected %v, got %v", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetCurrentUser failed: %v", err)
			}
			if resp.Msg.User.ID != "user-1" || resp.Msg.User.Email != "coach@example.com" {
				t.Errorf("unexpected user: %+v", resp.Msg.User)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret-0123456789", time.Hour)
	client := newEchoServer(t, OptionalAuth(jwtManager))

	resp, err := client.Login(context.Background(), connect.NewRequest(&api.LoginRequest{}))
	if err != nil {
		t.Fatalf("Login without token should pass: %v", err)
	}
	if resp.Msg.User.ID != "" {
		t.Errorf("expected no account, got %q", resp.Msg.User.ID)
	}

	req := connect.NewRequest(&api.LoginRequest{})
	req.Header().Set("Authorization", "Bearer expired-or-bogus")
	if _, err := client.Login(context.Background(), req); err != nil {
		t.Errorf("invalid token should be ignored: %v", err)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	registry := prometheus.NewRegistry()
	client := newEchoServer(t, MetricsInterceptor(metrics.New(registry)))

	if _, err := client.Login(context.Background(), connect.NewRequest(&api.LoginRequest{})); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if n, err := testutil.GatherAndCount(registry, "invoicer_rpc_duration_seconds"); err != nil || n != 1 {
		t.Errorf("rpc duration series = %d (%v), want 1", n, err)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request in the window should be rejected")
	}
	if rl.Remaining("10.0.0.1") != 0 {
		t.Errorf("remaining: expected 0, got %d", rl.Remaining("10.0.0.1"))
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients have their own window")
	}

	now = now.Add(time.Minute + time.Second)
	if rl.Remaining("10.0.0.1") != 2 {
		t.Errorf("remaining after window: expected 2, got %d", rl.Remaining("10.0.0.1"))
	}
	if !rl.Allow("10.0.0.1") {
		t.Error("request after the window should pass")
	}
	if _, ok := rl.requests["10.0.0.2"]; ok {
		t.Error("expired windows should be swept")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatal("a zero limit should disable limiting")
		}
	}
}

func TestRateLimitInterceptor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	client := newEchoServer(t, rl.Interceptor(apiconnect.AuthServiceLoginProcedure))
	ctx := context.Background()

	login := func(forwardedFor string) error {
		req := connect.NewRequest(&api.LoginRequest{})
		req.Header().Set("X-Forwarded-For", forwardedFor)
		_, err := client.Login(ctx, req)
		return err
	}

	if err := login("203.0.113.7"); err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	err := login("203.0.113.7, 10.0.0.1")
	if connect.CodeOf(err) != connect.CodeResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
	var ce *connect.Error
	if !errors.As(err, &ce) || ce.Meta().Get("Retry-After") == "" {
		t.Errorf("expected a Retry-After header, got %v", err)
	}
	if err := login("198.51.100.1"); err != nil {
		t.Errorf("another client should pass: %v", err)
	}

	// Procedures not listed are never limited.
	for i := 0; i < 3; i++ {
		if _, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{})); err != nil {
			t.Fatalf("Register %d failed: %v", i, err)
		}
	}
}
