package assets

import (
	"context"

	"family-finance-go/internal/domain/access"
)

type Repository interface {
	List(ctx context.Context, scope access.Scope) ([]Asset, error)
	GetByID(ctx context.Context, id string) (*Asset, error)
	Create(ctx context.Context, asset *Asset) error
	Update(ctx context.Context, asset *Asset) error
}

// GroupLookup resolves a group's admin; it fails with a not found error for unknown groups.
type GroupLookup interface {
	GroupAdminID(ctx context.Context, groupID string) (string, error)
}
