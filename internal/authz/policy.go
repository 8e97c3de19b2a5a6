// internal/authz/policy.go
package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sentra/pkg/authority"
)

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	Allow Decision = iota
	// Denied is surfaced as an authorization failure.
	Denied
	// NotFound masks resources the caller may not know exist.
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Denied:
		return "denied"
	default:
		return "not_found"
	}
}

// OpKind tags the operation being evaluated.
type OpKind int

const (
	OpListPublic OpKind = iota
	OpListMine
	OpListAll
	OpRead
	OpCreate
	OpUpdate
	OpDelete
	OpListByRole
)

func (k OpKind) String() string {
	switch k {
	case OpListPublic:
		return "list_public"
	case OpListMine:
		return "list_mine"
	case OpListAll:
		return "list_all"
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "list_by_role"
	}
}

// Operation identifies what the caller wants to do. RequiredRole is only
// meaningful for OpListByRole.
type Operation struct {
	Kind         OpKind
	RequiredRole string
}

// Target carries the persisted attributes policy decides over. Exists is false
// when the resource id is unknown; the remaining fields are then ignored.
// Attributes always come from the store, never from a request payload, so a
// caller cannot grant itself access by forging fields in a request body.
type Target struct {
	Exists bool
	Owner  string
	Public bool
}

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sentra_policy_decisions_total",
	Help: "Policy evaluations by operation and outcome.",
}, []string{"operation", "outcome"})

// Evaluate applies the access rules for op over (caller, target) and returns
// the decision. It is a pure function of its inputs apart from the decision
// counter.
func Evaluate(op Operation, caller authority.Caller, target Target) Decision {
	d := evaluate(op, caller, target)
	decisions.WithLabelValues(op.Kind.String(), d.String()).Inc()
	return d
}

func evaluate(op Operation, caller authority.Caller, target Target) Decision {
	switch op.Kind {
	case OpListPublic:
		return Allow
	case OpListMine, OpListAll, OpCreate:
		if !caller.Authenticated {
			return Denied
		}
		return Allow
	case OpRead:
		if !target.Exists {
			return NotFound
		}
		if target.Public || ownerOrAdmin(caller, target) {
			return Allow
		}
		// Masked: an unauthorized caller must not learn the id exists.
		return NotFound
	case OpUpdate, OpDelete:
		if !target.Exists {
			return NotFound
		}
		if ownerOrAdmin(caller, target) {
			return Allow
		}
		return Denied
	case OpListByRole:
		if caller.HasAuthority(op.RequiredRole) {
			return Allow
		}
		return Denied
	}
	return Denied
}

// Owner comparison is an exact string match on the token subject.
func ownerOrAdmin(caller authority.Caller, target Target) bool {
	if !caller.Authenticated {
		return false
	}
	return target.Owner == caller.Subject || caller.IsAdmin()
}
