// Package launchpadapi exposes offering proposals and investments over JSON.
package launchpadapi

import (
	"net/http"
	"time"

	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/launchpad/"

// Module provides launchpad routes.
type Module struct {
	service *launchpadservice.Service
	ledger  Ledger
}

// New returns a launchpad module over the given service. The ledger
// receives a transaction entry per distribution payout and may be nil.
func New(service *launchpadservice.Service, ledger Ledger) Module {
	return Module{service: service, ledger: ledger}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "launchpad" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool { return m.service != nil }

// Mount wires launchpad route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{service: m.service, ledger: m.ledger, now: time.Now}
	mux.HandleFunc("GET "+Prefix+"proposals", h.handleListProposals)
	mux.HandleFunc("POST "+Prefix+"proposals", h.handleCreateProposal)
	mux.HandleFunc("GET "+Prefix+"proposals/{id}", h.handleGetProposal)
	mux.HandleFunc("PATCH "+Prefix+"proposals/{id}", h.handleUpdateProposal)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/cancel", h.handleCancelProposal)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/invest", h.handleInvest)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/refund", h.handleRefund)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/issue-shares", h.handleIssueShares)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/distribute", h.handleDistribute)
	mux.HandleFunc("GET "+Prefix+"creators/{id}", h.handleCreatorProfile)
	mux.HandleFunc("GET "+Prefix+"stats", h.handleStats)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
