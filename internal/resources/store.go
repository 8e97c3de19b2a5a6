// internal/resources/store.go
package resources

import "context"

// Store persists resources. Implementations: postgres (production) and memory
// (dev/tests). Get returns ErrNotFound for unknown ids.
type Store interface {
	List(ctx context.Context) ([]Resource, error)
	ListPublic(ctx context.Context) ([]Resource, error)
	ListByOwner(ctx context.Context, owner string) ([]Resource, error)
	ListByRequiredRole(ctx context.Context, role string) ([]Resource, error)
	Get(ctx context.Context, id string) (Resource, error)
	Create(ctx context.Context, r Resource) (Resource, error)
	Update(ctx context.Context, r Resource) (Resource, error)
	Delete(ctx context.Context, id string) error
}
