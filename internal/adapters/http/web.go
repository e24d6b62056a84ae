// Package web serves the ClubConnect JSON API.
package web

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/hkdf"

	"clubconnect/internal/adapters/http/middleware"
	"clubconnect/internal/adapters/http/perf"
	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/application/clublock"
	"clubconnect/internal/application/orchestrators"
)

// Deps holds the services the handlers call.
type Deps struct {
	Store     clubstore.Store
	Locks     *clublock.Locker
	Directory orchestrators.UserDirectory
	Notifier  orchestrators.SlotFullNotifier // optional
	Collector *perf.Collector                // optional
}

// Options tunes the HTTP surface.
type Options struct {
	Secret             string // derives the CSRF key; required when Production
	Production         bool   // secure cookies
	RateLimitPerSecond int
	SlowRequestMs      int
	TrustedOrigins     []string
}

// DefaultRateLimitPerSecond applies when Options.RateLimitPerSecond is not set.
const DefaultRateLimitPerSecond = 20

// ErrSecretRequired is returned by NewMux in production without a secret.
var ErrSecretRequired = errors.New("a secret is required in production")

type server struct {
	deps     Deps
	sessions *middleware.SessionStore
	secure   bool
}

// NewMux wires routes and middleware. ctx bounds background work such as the
// rate limiter sweep.
// PRE: deps.Store, deps.Locks and deps.Directory are set
// POST: Returns the root handler or an error when the CSRF key cannot be derived
func NewMux(ctx context.Context, deps Deps, opts Options) (http.Handler, error) {
	key, err := csrfKey(opts.Secret, opts.Production)
	if err != nil {
		return nil, err
	}
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = DefaultRateLimitPerSecond
	}

	s := &server{
		deps:     deps,
		sessions: middleware.NewSessionStore(),
		secure:   opts.Production,
	}
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(ctx, opts.RateLimitPerSecond, time.Second)
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(key, opts.Production, opts.TrustedOrigins),
		middleware.Auth(s.sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Collector, opts.SlowRequestMs),
	), nil
}

// csrfKey derives a 32-byte key from secret. Without a secret outside
// production a random key is used, so CSRF tokens do not survive a restart.
func csrfKey(secret string, production bool) ([]byte, error) {
	if secret == "" {
		if production {
			return nil, ErrSecretRequired
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		slog.Warn("config_event", "event", "random_csrf_key", "reason", "no secret configured")
		return key, nil
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("clubconnect csrf")), key); err != nil {
		return nil, fmt.Errorf("derive csrf key: %w", err)
	}
	return key, nil
}
