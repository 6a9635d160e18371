// Package module defines the feature contract used by API composition.
package module

import "net/http"

// Principal identifies the authenticated caller of an API request.
type Principal struct {
	UserID string
	Tier   string
	Admin  bool
}

// ResolvePrincipal resolves the authenticated principal for a request. The
// second return value is false for anonymous requests.
type ResolvePrincipal func(*http.Request) (Principal, bool)

// ResolveLocale returns the effective request locale for error messages.
type ResolveLocale func(*http.Request) string

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by API composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability. Modules with storage or provider dependencies
// implement this so composition can derive service health without
// centralizing client knowledge.
type HealthReporter interface {
	Healthy() bool
}
