package identity

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	// Delete removes the user together with their grants, notifications and
	// owned groups. It returns the blob keys of documents removed with those groups.
	Delete(ctx context.Context, id string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// BlobRemover deletes stored document payloads.
type BlobRemover interface {
	Delete(ctx context.Context, key string) error
}
