// pkg/authority/caller.go
package authority

// Caller is the actor behind one request: a stable subject plus the
// authorities extracted from its verified token. The zero value is the
// anonymous caller.
type Caller struct {
	Subject       string
	Authorities   Set
	Authenticated bool
}

// Anonymous returns the unauthenticated caller.
func Anonymous() Caller {
	return Caller{Authorities: Set{}}
}

// FromClaims builds a Caller from verified token claims.
func FromClaims(subject string, claims map[string]any) Caller {
	return Caller{
		Subject:       subject,
		Authorities:   Extract(claims),
		Authenticated: subject != "",
	}
}

func (c Caller) HasAuthority(a string) bool {
	return c.Authorities != nil && c.Authorities.Has(a)
}

func (c Caller) IsAdmin() bool { return c.HasAuthority(Admin) }
