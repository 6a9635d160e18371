// Package toursapi exposes the onboarding tour engine over JSON.
package toursapi

import (
	"net/http"

	"github.com/launchfolio/launchfolio/internal/services/api/module"
	"github.com/launchfolio/launchfolio/internal/tour"
	"github.com/launchfolio/launchfolio/internal/tour/storage"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/tours/"

// Module provides tour routes.
type Module struct {
	catalog *tour.Catalog
	runner  *tour.Runner
	store   storage.RunStateStore
}

// New returns a tours module over the given catalog, runner, and store.
func New(catalog *tour.Catalog, runner *tour.Runner, store storage.RunStateStore) Module {
	return Module{catalog: catalog, runner: runner, store: store}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "tours" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool {
	return m.catalog != nil && m.runner != nil && m.store != nil
}

// Mount wires tour route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{service: newService(m.catalog, m.runner, m.store)}
	mux.HandleFunc("GET "+Prefix+"{$}", h.handleList)
	mux.HandleFunc("GET "+Prefix+"state", h.handleState)
	mux.HandleFunc("POST "+Prefix+"{id}/start", h.handleStart)
	mux.HandleFunc("POST "+Prefix+"next", h.handleNext)
	mux.HandleFunc("POST "+Prefix+"previous", h.handlePrevious)
	mux.HandleFunc("POST "+Prefix+"skip", h.handleSkip)
	mux.HandleFunc("POST "+Prefix+"close", h.handleClose)
	mux.HandleFunc("POST "+Prefix+"complete", h.handleComplete)
	mux.HandleFunc("GET "+Prefix+"preferences", h.handleGetPreferences)
	mux.HandleFunc("PATCH "+Prefix+"preferences", h.handleUpdatePreferences)
	mux.HandleFunc("POST "+Prefix+"reset", h.handleReset)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
