// Package governanceapi exposes governance queries over JSON.
package governanceapi

import (
	"net/http"

	"github.com/launchfolio/launchfolio/internal/governance"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/governance/"

// Module provides governance info and voting power routes.
type Module struct {
	service *governance.Service
}

// New returns a governance module over the given service.
func New(service *governance.Service) Module {
	return Module{service: service}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "governance" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool { return m.service != nil }

// Mount wires governance route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{service: m.service}
	mux.HandleFunc("GET "+Prefix+"proposals/{id}", h.handleProposalInfo)
	mux.HandleFunc("GET "+Prefix+"proposals/{id}/power", h.handleVotingPower)
	mux.HandleFunc("GET "+Prefix+"eligibility", h.handleListEligibility)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
