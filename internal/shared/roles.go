package shared

import "fmt"

// Role identifies one of the fixed platform roles. The set is closed and
// carries no hierarchy: a policy that should admit admin must list admin.
type Role string

// Platform roles, least to most privileged by convention.
const (
	RoleGuest  Role = "guest"
	RoleUser   Role = "user"
	RolePro    Role = "pro"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// AllRoles lists every known role.
func AllRoles() []Role {
	return []Role{RoleGuest, RoleUser, RolePro, RoleAuthor, RoleAdmin}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RolePro, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a stored or claimed role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("shared: unknown role %q", s)
	}
	return r, nil
}

// Principal is the resolved caller of an operation. ID is zero for the
// synthetic guest. Roles is never empty.
type Principal struct {
	ID    int64
	Roles []Role
}

// NewPrincipal builds a principal for an authenticated user.
func NewPrincipal(id int64, roles []Role) (Principal, error) {
	if id <= 0 {
		return Principal{}, fmt.Errorf("shared: principal id must be positive, got %d", id)
	}
	if len(roles) == 0 {
		return Principal{}, fmt.Errorf("shared: principal %d has no roles", id)
	}
	for _, r := range roles {
		if !r.Valid() {
			return Principal{}, fmt.Errorf("shared: principal %d has unknown role %q", id, r)
		}
	}
	return Principal{ID: id, Roles: roles}, nil
}

// GuestPrincipal returns the synthetic principal used for anonymous access
// to public operations.
func GuestPrincipal() Principal {
	return Principal{Roles: []Role{RoleGuest}}
}

// IsGuest reports whether the principal carries no identity.
func (p Principal) IsGuest() bool {
	return p.ID == 0
}

// HasRole reports set membership of a role.
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SameUser reports whether two principals identify the same logical user.
// Role-set snapshots may differ across requests; identity is by ID only.
func (p Principal) SameUser(other Principal) bool {
	return p.ID != 0 && p.ID == other.ID
}
