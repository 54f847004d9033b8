package cli

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/invoicing"
	"github.com/mmynk/invoicer/internal/mail"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/render"
	"github.com/mmynk/invoicer/internal/service"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

// apiPrefix starts every Connect route.
const apiPrefix = "/invoicer.v1."

// newHandler wires every service onto one HTTP handler. Collectors are
// registered on registry and exposed on the metrics path.
func newHandler(c *config.Config, store storage.Store, registry *prometheus.Registry) http.Handler {
	mt := metrics.New(registry)

	profiles := invoicing.NewProfileCache(store, invoicing.DefaultProfileTTL)
	manager := invoicing.NewManager(store, profiles,
		invoicing.Config{DueDays: c.Invoices.DueDays, MaxLines: c.Invoices.MaxLines},
		invoicing.WithRenderer(render.NewPDF()),
		invoicing.WithMetrics(mt),
	)
	ledger := invoicing.NewLedger(store, nil, mt, c.Expenses.MaxPhotoBytes)
	directory := invoicing.NewDirectory(store, mt)

	dispatcher := mail.NewDispatcher(mail.Config{
		ClientID:     c.Gmail.ClientID,
		ClientSecret: c.Gmail.ClientSecret,
		RedirectURL:  c.Gmail.RedirectURL,
	}, store)
	var mailer service.Mailer
	if dispatcher.Configured() {
		mailer = dispatcher
	}

	jwtManager := auth.NewJWTManager(jwtSecret(c), c.Auth.TokenTTL)

	// Interceptors run outermost first; the account must be resolved before
	// the logging interceptor reads it.
	account := middleware.LocalAccount()
	authAccount := middleware.LocalAccount()
	if c.Mode == config.ModeHosted {
		account = middleware.RequireAuth(jwtManager)
		authAccount = middleware.OptionalAuth(jwtManager)
	}
	limiter := middleware.NewRateLimiter(c.Auth.LoginRateLimit, time.Minute)

	opts := connect.WithInterceptors(
		middleware.MetricsInterceptor(mt),
		account,
		middleware.LoggingInterceptor(),
	)
	authOpts := connect.WithInterceptors(
		middleware.MetricsInterceptor(mt),
		limiter.Interceptor(apiconnect.AuthServiceRegisterProcedure, apiconnect.AuthServiceLoginProcedure),
		authAccount,
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager), authOpts))
	mux.Handle(apiconnect.NewInvoiceServiceHandler(
		service.NewInvoiceService(manager, mailer, mt, c.Invoices.MaxLines), opts))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(ledger, nil), opts))
	mux.Handle(apiconnect.NewClientServiceHandler(service.NewClientService(directory), opts))
	mux.Handle(apiconnect.NewProfileServiceHandler(service.NewProfileService(profiles), opts))
	mux.Handle(apiconnect.NewGmailServiceHandler(service.NewGmailService(dispatcher), opts))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	if c.Metrics.Enabled {
		mux.Handle(c.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/", staticHandler(c.StaticPath))

	return h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})
}

// jwtSecret returns the configured secret. Local mode needs no stable
// secret, so a random one is used when none is set.
func jwtSecret(c *config.Config) string {
	if c.Auth.JWTSecret != "" {
		return c.Auth.JWTSecret
	}
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// staticHandler serves the front end, falling back to index.html for
// unknown paths.
func staticHandler(staticPath string) http.HandlerFunc {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		staticDir = staticPath
	}
	slog.Info("Serving static files", "path", staticDir)

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// loggingMiddleware logs plain HTTP requests. RPCs are logged by the
// Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			return
		}
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
