// internal/resources/model.go
package resources

import (
	"errors"
	"time"
)

// Resource is a protected domain entity. Policy only ever looks at Owner,
// Public and RequiredRole; the remaining fields are payload.
type Resource struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Owner        string    `json:"owner"`
	Public       bool      `json:"public"`
	RequiredRole string    `json:"requiredRole,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	ErrNotFound        = errors.New("resource not found")
	ErrDenied          = errors.New("access denied")
	ErrUnauthenticated = errors.New("authentication required")
)
