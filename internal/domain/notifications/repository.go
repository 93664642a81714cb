package notifications

import "context"

type Repository interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	// GetForUser only matches rows owned by userID.
	GetForUser(ctx context.Context, id, userID string) (*Notification, error)
	Create(ctx context.Context, notification *Notification) error
	SetRead(ctx context.Context, id, userID string, read bool) error
	UserExists(ctx context.Context, userID string) (bool, error)
}
