package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/atelier-lms/atelier/internal/shared"
)

const rolesClaim = "roles"

// TokenManager issues and verifies HS256 access tokens. It implements
// authz.PrincipalResolver for the authorization middleware.
type TokenManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret, issuer string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, accessTTL: accessTTL}
}

// AccessTTL returns the configured access-token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Issue signs an access token carrying the user's identity and roles.
func (m *TokenManager) Issue(user *User) (string, error) {
	now := time.Now()
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.String())
	}
	tok, err := jwt.NewBuilder().
		Issuer(m.issuer).
		Subject(strconv.FormatInt(user.ID, 10)).
		JwtID(uuid.NewString()).
		IssuedAt(now).
		Expiration(now.Add(m.accessTTL)).
		Claim(rolesClaim, roles).
		Build()
	if err != nil {
		return "", fmt.Errorf("auth: build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return string(signed), nil
}

// Resolve parses and validates a raw access token, returning the principal.
// Any failure (bad signature, expiry, unknown roles) is terminal for the
// request.
func (m *TokenManager) Resolve(ctx context.Context, credentials string) (shared.Principal, error) {
	tok, err := jwt.Parse([]byte(credentials),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithIssuer(m.issuer),
		jwt.WithValidate(true),
	)
	if err != nil {
		return shared.Principal{}, fmt.Errorf("auth: parse token: %w", err)
	}

	id, err := strconv.ParseInt(tok.Subject(), 10, 64)
	if err != nil {
		return shared.Principal{}, fmt.Errorf("auth: token subject %q: %w", tok.Subject(), err)
	}

	raw, ok := tok.Get(rolesClaim)
	if !ok {
		return shared.Principal{}, fmt.Errorf("auth: token missing roles claim")
	}
	names, ok := raw.([]any)
	if !ok {
		return shared.Principal{}, fmt.Errorf("auth: malformed roles claim")
	}
	roles := make([]shared.Role, 0, len(names))
	for _, n := range names {
		s, ok := n.(string)
		if !ok {
			return shared.Principal{}, fmt.Errorf("auth: malformed roles claim")
		}
		role, err := shared.ParseRole(s)
		if err != nil {
			return shared.Principal{}, err
		}
		roles = append(roles, role)
	}

	return shared.NewPrincipal(id, roles)
}
