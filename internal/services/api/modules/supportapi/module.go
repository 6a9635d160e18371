// Package supportapi exposes support tickets over JSON.
package supportapi

import (
	"net/http"

	"github.com/launchfolio/launchfolio/internal/services/api/module"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/support/"

// Module provides user-facing support ticket routes. Queue management
// lives in the admin service.
type Module struct {
	service *supportservice.Service
}

// New returns a support module over the given service.
func New(service *supportservice.Service) Module {
	return Module{service: service}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "support" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool { return m.service != nil }

// Mount wires support route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{service: m.service}
	mux.HandleFunc("POST "+Prefix+"tickets", h.handleOpen)
	mux.HandleFunc("GET "+Prefix+"tickets", h.handleList)
	mux.HandleFunc("GET "+Prefix+"tickets/{id}", h.handleGet)
	mux.HandleFunc("POST "+Prefix+"tickets/{id}/replies", h.handleReply)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
