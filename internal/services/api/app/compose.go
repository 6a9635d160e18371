// Package app composes feature modules into the public API handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
)

// ComposeInput carries the modules and shared middleware for composition.
type ComposeInput struct {
	Modules []module.Module
	// Verify resolves session tokens for authenticated routes. Requests
	// without a bearer token stay anonymous.
	Verify principal.Verifier
}

// Compose builds the root HTTP handler from feature modules. The returned
// handler serves every module under its own prefix plus a /healthz endpoint
// aggregating module health.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)
	var reporters []namedReporter

	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		mount, err := feature.Mount()
		if err != nil {
			return nil, fmt.Errorf("mount module %q: %w", feature.ID(), err)
		}
		prefix := mount.Prefix
		if err := validatePrefix(prefix); err != nil {
			return nil, fmt.Errorf("module %q has invalid prefix %q: %w", feature.ID(), prefix, err)
		}
		if mount.Handler == nil {
			return nil, fmt.Errorf("module %q has no handler", feature.ID())
		}
		if previous, ok := seen[prefix]; ok {
			return nil, fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
		}
		seen[prefix] = feature.ID()
		root.Handle(prefix, mount.Handler)

		if reporter, ok := feature.(module.HealthReporter); ok {
			reporters = append(reporters, namedReporter{id: feature.ID(), reporter: reporter})
		}
	}

	root.HandleFunc("GET /healthz", healthHandler(reporters))

	middleware := []httpx.Middleware{
		httpx.RequestID(),
		httpx.RecoverPanic(),
	}
	if input.Verify != nil {
		middleware = append(middleware, principal.Resolve(input.Verify))
	}
	return httpx.Chain(root, middleware...), nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if !strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix must end with /")
	}
	return nil
}

type namedReporter struct {
	id       string
	reporter module.HealthReporter
}

type healthView struct {
	Status  string            `json:"status"`
	Modules map[string]string `json:"modules"`
}

func healthHandler(reporters []namedReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := healthView{Status: "ok", Modules: make(map[string]string, len(reporters))}
		status := http.StatusOK
		for _, entry := range reporters {
			if entry.reporter.Healthy() {
				view.Modules[entry.id] = "ok"
				continue
			}
			view.Modules[entry.id] = "unavailable"
			view.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, status, view)
	}
}
