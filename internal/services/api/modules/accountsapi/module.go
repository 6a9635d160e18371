// Package accountsapi exposes account registration and profile routes.
package accountsapi

import (
	"net/http"
	"time"

	"github.com/launchfolio/launchfolio/internal/auth/session"
	"github.com/launchfolio/launchfolio/internal/auth/storage"
	"github.com/launchfolio/launchfolio/internal/platform/id"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/accounts/"

// Module provides account routes.
type Module struct {
	store       storage.UserStore
	sessions    session.Config
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures a Module.
type Option func(*Module)

// WithClock overrides the module clock.
func WithClock(clock func() time.Time) Option {
	return func(m *Module) { m.clock = clock }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(m *Module) { m.idGenerator = gen }
}

// New returns an accounts module over the given user store and session
// configuration.
func New(store storage.UserStore, sessions session.Config, opts ...Option) Module {
	m := Module{
		store:       store,
		sessions:    sessions,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "accounts" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool { return m.store != nil }

// Mount wires account route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{module: m}
	mux.HandleFunc("POST "+Prefix+"register", h.handleRegister)
	mux.HandleFunc("GET "+Prefix+"me", h.handleMe)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
