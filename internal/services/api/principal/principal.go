// Package principal resolves the authenticated caller from session tokens.
package principal

import (
	"context"
	"net/http"
	"strings"

	"github.com/launchfolio/launchfolio/internal/auth/session"
	"github.com/launchfolio/launchfolio/internal/auth/user"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/services/api/httpx"
	"github.com/launchfolio/launchfolio/internal/services/api/module"
)

type contextKey struct{}

// Verifier checks a bearer token and returns its claims.
type Verifier func(token string) (session.Claims, error)

// NewVerifier builds a Verifier over a session config.
func NewVerifier(cfg session.Config) Verifier {
	return func(token string) (session.Claims, error) {
		return session.Verify(token, cfg)
	}
}

// FromContext returns the principal attached to ctx, if any.
func FromContext(ctx context.Context) (module.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(module.Principal)
	return p, ok
}

// WithPrincipal returns ctx carrying the given principal. Exposed for tests
// and for transports that authenticate outside HTTP middleware.
func WithPrincipal(ctx context.Context, p module.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromRequest resolves the principal attached to the request context.
func FromRequest(r *http.Request) (module.Principal, bool) {
	if r == nil {
		return module.Principal{}, false
	}
	return FromContext(r.Context())
}

// RequireCaller resolves the request principal, writing a session error when
// the request is anonymous. Handlers should return immediately on !ok.
func RequireCaller(w http.ResponseWriter, r *http.Request) (module.Principal, bool) {
	caller, ok := FromRequest(r)
	if !ok {
		httpx.WriteError(w, apperrors.New(apperrors.CodeSessionInvalid, "authentication required"), httpx.Locale(r))
	}
	return caller, ok
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Resolve verifies the request's bearer token and attaches the principal to
// the request context. Anonymous requests pass through unchanged; requests
// with an invalid token are rejected.
func Resolve(verify Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := verify(token)
			if err != nil {
				httpx.WriteError(w, err, httpx.Locale(r))
				return
			}
			p := module.Principal{
				UserID: claims.UserID,
				Tier:   user.TierLabel(claims.Tier),
				Admin:  claims.Admin,
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Require rejects requests without an authenticated principal.
func Require() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromRequest(r); !ok {
				httpx.WriteError(w, apperrors.New(apperrors.CodeSessionInvalid, "authentication required"), httpx.Locale(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose principal lacks the admin claim.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromRequest(r)
			if !ok {
				httpx.WriteError(w, apperrors.New(apperrors.CodeSessionInvalid, "authentication required"), httpx.Locale(r))
				return
			}
			if !p.Admin {
				httpx.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "operator access required"), httpx.Locale(r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
