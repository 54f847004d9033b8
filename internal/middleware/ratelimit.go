package middleware

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"connectrpc.com/connect"
)

// RateLimiter is a fixed-window request limiter keyed by client address.
type RateLimiter struct {
	mu        sync.Mutex
	requests  map[string]*clientRequests
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientRequests struct {
	count     int
	windowEnd time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window for
// each client. A limit of zero or less disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]*clientRequests),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request from client and reports whether it is within
// the limit.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	req, ok := rl.requests[client]
	if !ok || now.After(req.windowEnd) {
		rl.requests[client] = &clientRequests{count: 1, windowEnd: now.Add(rl.window)}
		return true
	}
	if req.count >= rl.limit {
		return false
	}
	req.count++
	return true
}

// Remaining returns how many requests client may still make in its current window.
func (rl *RateLimiter) Remaining(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	req, ok := rl.requests[client]
	if !ok || rl.now().After(req.windowEnd) {
		return rl.limit
	}
	return max(rl.limit-req.count, 0)
}

// retryAfter returns the time left in client's window.
func (rl *RateLimiter) retryAfter(client string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	req, ok := rl.requests[client]
	if !ok {
		return 0
	}
	return max(req.windowEnd.Sub(rl.now()), 0)
}

// sweep drops expired windows at most once per window. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for client, req := range rl.requests {
		if now.After(req.windowEnd) {
			delete(rl.requests, client)
		}
	}
}

// Interceptor limits the listed procedures; other procedures pass through.
// Rejected calls fail with ResourceExhausted and a Retry-After header.
func (rl *RateLimiter) Interceptor(procedures ...string) connect.UnaryInterceptorFunc {
	limited := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		limited[p] = true
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !limited[req.Spec().Procedure] {
				return next(ctx, req)
			}
			client := clientAddr(req)
			if !rl.Allow(client) {
				err := connect.NewError(connect.CodeResourceExhausted, fmt.Errorf("too many requests, try again later"))
				secs := int(rl.retryAfter(client).Seconds()) + 1
				err.Meta().Set("Retry-After", fmt.Sprint(secs))
				return nil, err
			}
			return next(ctx, req)
		}
	}
}

// clientAddr returns the caller's address, preferring proxy headers.
func clientAddr(req connect.AnyRequest) string {
	if xff := req.Header().Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := req.Header().Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := req.Peer().Addr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
