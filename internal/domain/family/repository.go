package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	// ListGroupsForUser returns groups the user administers or holds a grant in.
	ListGroupsForUser(ctx context.Context, userID string) ([]Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroupName(ctx context.Context, id, name string) error
	// DeleteGroup removes the group and every row scoped to it. It returns the
	// blob keys of the removed documents.
	DeleteGroup(ctx context.Context, id string) ([]string, error)
	GetGrant(ctx context.Context, groupID, userID string) (*Grant, error)
	ListGrants(ctx context.Context, groupID string) ([]Grant, error)
	ListGrantsByUser(ctx context.Context, userID string) ([]Grant, error)
	UpsertGrant(ctx context.Context, grant *Grant) error
	UserExists(ctx context.Context, userID string) (bool, error)
}

type BlobRemover interface {
	Delete(ctx context.Context, key string) error
}
