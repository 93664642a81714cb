package documents

import (
	"context"
	"io"
	"time"

	"family-finance-go/internal/domain/access"
)

type Repository interface {
	List(ctx context.Context, scope access.Scope) ([]Document, error)
	GetByID(ctx context.Context, id string) (*Document, error)
	Create(ctx context.Context, document *Document) error
	Update(ctx context.Context, document *Document) error
	// ListExpiring returns documents expiring in [from, until] that were not reminded yet.
	ListExpiring(ctx context.Context, from, until time.Time) ([]Document, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
}

// BlobStore keeps document payloads. Keys are opaque to callers.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type GroupLookup interface {
	GroupAdminID(ctx context.Context, groupID string) (string, error)
}
