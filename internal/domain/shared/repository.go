package shared

import (
	"context"

	"github.com/google/uuid"
)

// Filter holds the paging, ordering and free-text search of a list query.
// A zero PageSize returns every row.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter lists newest first without paging
func DefaultFilter() Filter {
	return Filter{Page: 1, OrderBy: "created_at", OrderDir: "desc"}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// OwnedRepository is the persistence contract of the simple seller-owned
// records (bank deposits, salary payments, partners, employees). Every
// method is scoped to the owner.
type OwnedRepository[T any] interface {
	Create(ctx context.Context, entity *T) error

	// FindByIDForUser returns ErrNotFound when the record does not exist or
	// belongs to another user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*T, error)

	FindAllForUser(ctx context.Context, userID uuid.UUID, filter Filter) ([]T, error)

	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
