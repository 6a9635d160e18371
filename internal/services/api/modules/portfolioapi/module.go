// Package portfolioapi exposes the investor transaction ledger and
// portfolio summary over JSON.
package portfolioapi

import (
	"net/http"

	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/portfolio/"

// Module provides portfolio routes.
type Module struct {
	service *portfolioservice.Service
}

// New returns a portfolio module over the given service.
func New(service *portfolioservice.Service) Module {
	return Module{service: service}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "portfolio" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool { return m.service != nil }

// Mount wires portfolio route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{service: m.service}
	mux.HandleFunc("GET "+Prefix+"transactions", h.handleHistory)
	mux.HandleFunc("GET "+Prefix+"summary", h.handleSummary)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
