package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/atelier-lms/atelier/internal/platform/httpx"
	"github.com/atelier-lms/atelier/internal/shared"
)

// PrincipalResolver validates raw bearer credentials. Resolution failure is
// terminal for the request; there is no retry.
type PrincipalResolver interface {
	Resolve(ctx context.Context, credentials string) (shared.Principal, error)
}

// Middleware guards HTTP routes with the authorization decision engine.
type Middleware struct {
	registry *Registry
	resolver PrincipalResolver
	logger   *slog.Logger
}

// NewMiddleware constructs the middleware around an immutable registry.
func NewMiddleware(registry *Registry, resolver PrincipalResolver, logger *slog.Logger) Middleware {
	return Middleware{registry: registry, resolver: resolver, logger: logger}
}

// Require guards a route with the named operation's descriptor. Absent
// credentials on a public operation yield the guest principal; invalid
// credentials are rejected even on public operations.
func (m Middleware) Require(operationID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, ok := m.registry.Lookup(operationID)
			if !ok {
				if m.logger != nil {
					m.logger.Error("authz unknown operation", slog.String("operation", operationID))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}

			credentials, present := bearerToken(r)
			var principal shared.Principal
			if !present {
				if !op.Public {
					httpx.RespondError(w, shared.UnauthorizedError("authentication required"))
					return
				}
				principal = shared.GuestPrincipal()
			} else {
				resolved, err := m.resolver.Resolve(r.Context(), credentials)
				if err != nil {
					httpx.RespondError(w, shared.UnauthorizedError("invalid credentials"))
					return
				}
				principal = resolved
			}

			if op.Policy == nil {
				if principal.IsGuest() && !op.Public {
					httpx.RespondError(w, shared.UnauthorizedError("authentication required"))
					return
				}
			} else if !op.Policy.Permits(principal) {
				httpx.RespondError(w, shared.ForbiddenError("insufficient role for %s", op.ID))
				return
			}

			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		// A present but unusable header counts as invalid credentials,
		// not as an anonymous request.
		return "", true
	}
	token := strings.TrimSpace(parts[1])
	return token, true
}
