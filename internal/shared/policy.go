package shared

import "regexp"

// PolicyMode selects how a matched role set translates into a decision.
type PolicyMode int

const (
	// PolicyAllow grants access iff the matcher matches.
	PolicyAllow PolicyMode = iota
	// PolicyDeny grants access iff the matcher does not match.
	PolicyDeny
)

// RoleMatcher tests a principal's role set. All matchers use OR semantics:
// one role in common is enough. Conjunctions cannot be expressed here and
// belong in use-case logic.
type RoleMatcher interface {
	Matches(p Principal) bool
}

type singleRoleMatcher struct {
	role Role
}

func (m singleRoleMatcher) Matches(p Principal) bool {
	return p.HasRole(m.role)
}

type roleListMatcher struct {
	roles []Role
}

func (m roleListMatcher) Matches(p Principal) bool {
	for _, r := range m.roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Matches(p Principal) bool {
	for _, r := range p.Roles {
		if m.re.MatchString(r.String()) {
			return true
		}
	}
	return false
}

// MatchRole matches principals holding the given role.
func MatchRole(role Role) RoleMatcher {
	return singleRoleMatcher{role: role}
}

// MatchAnyRole matches principals holding at least one of the given roles.
func MatchAnyRole(roles ...Role) RoleMatcher {
	return roleListMatcher{roles: roles}
}

// MatchPattern matches principals with at least one role name matching the
// expression.
func MatchPattern(re *regexp.Regexp) RoleMatcher {
	return patternMatcher{re: re}
}

// AccessPolicy is the declarative rule attached to an operation at
// registration time. Immutable for the process lifetime.
type AccessPolicy struct {
	Mode    PolicyMode
	Matcher RoleMatcher
}

// Allow builds an allow-mode policy.
func Allow(m RoleMatcher) *AccessPolicy {
	return &AccessPolicy{Mode: PolicyAllow, Matcher: m}
}

// Deny builds a deny-mode policy.
func Deny(m RoleMatcher) *AccessPolicy {
	return &AccessPolicy{Mode: PolicyDeny, Matcher: m}
}

// Permits evaluates the policy for a resolved principal.
func (p *AccessPolicy) Permits(principal Principal) bool {
	matched := p.Matcher.Matches(principal)
	if p.Mode == PolicyDeny {
		return !matched
	}
	return matched
}
