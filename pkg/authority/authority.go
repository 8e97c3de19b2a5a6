// pkg/authority/authority.go
package authority

import "strings"

const (
	// RolePrefix marks authorities derived from identity-provider roles.
	RolePrefix = "ROLE_"
	// ScopePrefix marks baseline authorities derived from the token scope claim.
	ScopePrefix = "SCOPE_"

	Admin = "ROLE_ADMIN"
	User  = "ROLE_USER"
)

// Set holds a caller's granted authorities.
type Set map[string]struct{}

func NewSet(authorities ...string) Set {
	s := Set{}
	for _, a := range authorities {
		s[a] = struct{}{}
	}
	return s
}

func (s Set) Has(authority string) bool {
	_, ok := s[authority]
	return ok
}

func (s Set) Add(authority string) { s[authority] = struct{}{} }

// List returns the authorities in unspecified order.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	return out
}

// Role normalizes a provider role name to an authority (uppercased, ROLE_-prefixed).
func Role(name string) string {
	return RolePrefix + strings.ToUpper(name)
}

// Extract derives the authority set from verified token claims.
//
// Baseline authorities come from the space-separated "scope" claim. Realm roles
// ("realm_access".roles) and client roles ("resource_access".<client>.roles)
// are added on top; the client id itself is discarded. Claim shapes that do not
// match are skipped, so Extract never fails: at worst the result is empty.
func Extract(claims map[string]any) Set {
	s := Set{}
	if sc, ok := claims["scope"].(string); ok {
		for _, scope := range strings.Fields(sc) {
			s.Add(ScopePrefix + scope)
		}
	}
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		addRoles(s, realm["roles"])
	}
	if clients, ok := claims["resource_access"].(map[string]any); ok {
		for _, access := range clients {
			if m, ok := access.(map[string]any); ok {
				addRoles(s, m["roles"])
			}
		}
	}
	return s
}

func addRoles(s Set, v any) {
	switch roles := v.(type) {
	case []any:
		for _, r := range roles {
			if name, ok := r.(string); ok {
				s.Add(Role(name))
			}
		}
	case []string:
		for _, name := range roles {
			s.Add(Role(name))
		}
	}
}
