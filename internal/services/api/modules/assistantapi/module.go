// Package assistantapi exposes the AI assistant over JSON.
package assistantapi

import (
	"net/http"

	assistantservice "github.com/launchfolio/launchfolio/internal/assistant/service"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
)

// Prefix is the route prefix served by this module.
const Prefix = "/v1/assistant/"

// Module provides assistant chat and analysis routes.
type Module struct {
	service *assistantservice.Service
}

// New returns an assistant module over the given service.
func New(service *assistantservice.Service) Module {
	return Module{service: service}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "assistant" }

// Healthy reports whether the module can serve requests.
func (m Module) Healthy() bool { return m.service != nil }

// Mount wires assistant route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{service: m.service}
	mux.HandleFunc("POST "+Prefix+"chat", h.handleChat)
	mux.HandleFunc("GET "+Prefix+"conversations", h.handleListConversations)
	mux.HandleFunc("GET "+Prefix+"conversations/{id}", h.handleHistory)
	mux.HandleFunc("POST "+Prefix+"proposals/{id}/analysis", h.handleAnalyzeProposal)
	return module.Mount{Prefix: Prefix, Handler: mux}, nil
}
