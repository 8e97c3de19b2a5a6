// internal/resources/service.go
package resources

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"sentra/internal/authz"
	"sentra/pkg/authority"
)

// Service gates every store operation through the access policy. Decisions are
// always made against the persisted row, never the request payload.
type Service struct {
	store Store
	log   *zap.SugaredLogger
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// PublicResources requires no authentication.
func (s *Service) PublicResources(ctx context.Context) ([]Resource, error) {
	if d := authz.Evaluate(authz.Operation{Kind: authz.OpListPublic}, authority.Anonymous(), authz.Target{}); d != authz.Allow {
		return nil, ErrDenied
	}
	return s.store.ListPublic(ctx)
}

func (s *Service) AllResources(ctx context.Context, caller authority.Caller) ([]Resource, error) {
	if d := authz.Evaluate(authz.Operation{Kind: authz.OpListAll}, caller, authz.Target{}); d != authz.Allow {
		return nil, ErrUnauthenticated
	}
	return s.store.List(ctx)
}

func (s *Service) MyResources(ctx context.Context, caller authority.Caller) ([]Resource, error) {
	if d := authz.Evaluate(authz.Operation{Kind: authz.OpListMine}, caller, authz.Target{}); d != authz.Allow {
		return nil, ErrUnauthenticated
	}
	return s.store.ListByOwner(ctx, caller.Subject)
}

// GetByID masks private resources the caller may not see as not-found.
func (s *Service) GetByID(ctx context.Context, caller authority.Caller, id string) (Resource, error) {
	r, err := s.store.Get(ctx, id)
	target := authz.Target{Exists: err == nil, Owner: r.Owner, Public: r.Public}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Resource{}, err
	}
	switch authz.Evaluate(authz.Operation{Kind: authz.OpRead}, caller, target) {
	case authz.Allow:
		return r, nil
	default:
		return Resource{}, ErrNotFound
	}
}

// Create forces the caller as owner; any owner in the payload is ignored.
func (s *Service) Create(ctx context.Context, caller authority.Caller, r Resource) (Resource, error) {
	if d := authz.Evaluate(authz.Operation{Kind: authz.OpCreate}, caller, authz.Target{}); d != authz.Allow {
		return Resource{}, ErrUnauthenticated
	}
	r.ID = ""
	r.Owner = caller.Subject
	return s.store.Create(ctx, r)
}

// Update pins the id and preserves the persisted owner.
func (s *Service) Update(ctx context.Context, caller authority.Caller, id string, r Resource) (Resource, error) {
	existing, err := s.checkMutate(ctx, caller, authz.OpUpdate, id)
	if err != nil {
		return Resource{}, err
	}
	r.ID = id
	r.Owner = existing.Owner
	return s.store.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, caller authority.Caller, id string) error {
	if _, err := s.checkMutate(ctx, caller, authz.OpDelete, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ByRequiredRole lists resources gated on a specific authority.
func (s *Service) ByRequiredRole(ctx context.Context, caller authority.Caller, role string) ([]Resource, error) {
	op := authz.Operation{Kind: authz.OpListByRole, RequiredRole: authority.Role(role)}
	if d := authz.Evaluate(op, caller, authz.Target{}); d != authz.Allow {
		return nil, ErrDenied
	}
	return s.store.ListByRequiredRole(ctx, authority.Role(role))
}

func (s *Service) checkMutate(ctx context.Context, caller authority.Caller, kind authz.OpKind, id string) (Resource, error) {
	existing, err := s.store.Get(ctx, id)
	target := authz.Target{Exists: err == nil, Owner: existing.Owner, Public: existing.Public}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Resource{}, err
	}
	switch authz.Evaluate(authz.Operation{Kind: kind}, caller, target) {
	case authz.Allow:
		return existing, nil
	case authz.NotFound:
		return Resource{}, ErrNotFound
	default:
		return Resource{}, ErrDenied
	}
}
