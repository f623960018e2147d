package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-lms/atelier/internal/shared"
)

type stubResolver struct {
	principals map[string]shared.Principal
}

func (s *stubResolver) Resolve(ctx context.Context, credentials string) (shared.Principal, error) {
	p, ok := s.principals[credentials]
	if !ok {
		return shared.Principal{}, errors.New("token rejected")
	}
	return p, nil
}

func newTestMiddleware(t *testing.T) Middleware {
	t.Helper()
	registry, err := NewRegistry(
		Operation{ID: "things.list", Public: true, Policy: shared.Allow(shared.MatchPattern(regexp.MustCompile(`.*`)))},
		Operation{ID: "things.create", Policy: shared.Allow(shared.MatchAnyRole(shared.RoleAuthor, shared.RoleAdmin))},
		Operation{ID: "things.get"},
		Operation{ID: "things.comment", Policy: shared.Deny(shared.MatchRole(shared.RoleGuest))},
	)
	require.NoError(t, err)

	admin, err := shared.NewPrincipal(1, []shared.Role{shared.RoleAdmin})
	require.NoError(t, err)
	user, err := shared.NewPrincipal(2, []shared.Role{shared.RoleUser})
	require.NoError(t, err)

	resolver := &stubResolver{principals: map[string]shared.Principal{
		"admin-token": admin,
		"user-token":  user,
	}}
	return NewMiddleware(registry, resolver, nil)
}

func invoke(t *testing.T, mw Middleware, operation, authorization string) (*httptest.ResponseRecorder, *shared.Principal) {
	t.Helper()
	var seen *shared.Principal
	handler := mw.Require(operation)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := shared.PrincipalFromContext(r.Context()); ok {
			seen = &p
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequirePublicOperationAdmitsGuest(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, seen := invoke(t, mw, "things.list", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.True(t, seen.IsGuest())
	assert.True(t, seen.HasRole(shared.RoleGuest))
}

func TestRequireNonPublicOperationRejectsAnonymous(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, _ := invoke(t, mw, "things.get", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireInvalidCredentialsRejectedEvenOnPublic(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, _ := invoke(t, mw, "things.list", "Bearer bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireMalformedAuthorizationHeader(t *testing.T) {
	mw := newTestMiddleware(t)

	// A present but unusable header is invalid credentials, not anonymity.
	rec, _ := invoke(t, mw, "things.list", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePolicyDecision(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, seen := invoke(t, mw, "things.create", "Bearer admin-token")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(1), seen.ID)

	rec, _ = invoke(t, mw, "things.create", "Bearer user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireNilPolicyAdmitsAnyAuthenticated(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, seen := invoke(t, mw, "things.get", "Bearer user-token")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(2), seen.ID)
}

func TestRequireDenyModePolicy(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, _ := invoke(t, mw, "things.comment", "Bearer user-token")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireUnknownOperation(t *testing.T) {
	mw := newTestMiddleware(t)

	rec, _ := invoke(t, mw, "things.unknown", "Bearer admin-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(Operation{ID: "a"}, Operation{ID: "a"})
	assert.Error(t, err)

	_, err = NewRegistry(Operation{ID: ""})
	assert.Error(t, err)
}
