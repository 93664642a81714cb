package family

import (
	"context"
	"errors"
	"strings"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/pkg/logger"
	"github.com/google/uuid"
)

const maxGroupNameLength = 255

type Service struct {
	repo   Repository
	engine *access.Engine
	blobs  BlobRemover
	log    logger.Logger
}

func NewService(repo Repository, engine *access.Engine, blobs BlobRemover, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		blobs:  blobs,
		log:    log,
	}
}

// CreateGroup creates a group administered by the caller. Only global admins may create groups.
func (s *Service) CreateGroup(ctx context.Context, caller access.Principal, name string) (*Group, error) {
	if !access.IsGlobalAdmin(caller) {
		return nil, ErrAdminOnly
	}
	name, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}

	group := Group{
		ID:      uuid.NewString(),
		Name:    name,
		AdminID: caller.UserID,
	}
	if err := s.repo.CreateGroup(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Service) ListGroups(ctx context.Context, caller access.Principal) ([]Group, error) {
	if access.IsGlobalAdmin(caller) {
		return s.repo.ListGroups(ctx)
	}
	return s.repo.ListGroupsForUser(ctx, caller.UserID)
}

func (s *Service) GetGroup(ctx context.Context, caller access.Principal, id string) (*Group, error) {
	group, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.engine.CanManageGroup(caller, group.AdminID) {
		return group, nil
	}

	_, err = s.repo.GetGrant(ctx, group.ID, caller.UserID)
	if errors.Is(err, ErrGrantNotFound) {
		return nil, ErrNoGroupAccess
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Service) RenameGroup(ctx context.Context, caller access.Principal, id, name string) (*Group, error) {
	var result Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetGroup(ctx, id)
		if err != nil {
			return err
		}
		if !s.engine.CanManageGroup(caller, group.AdminID) {
			return ErrNotGroupAdmin
		}
		name, err := validateGroupName(name)
		if err != nil {
			return err
		}
		if err := tx.UpdateGroupName(ctx, group.ID, name); err != nil {
			return err
		}
		group.Name = name
		result = *group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteGroup removes the group with its grants, assets, transactions and
// documents. Stored payloads are removed after the rows are gone.
func (s *Service) DeleteGroup(ctx context.Context, caller access.Principal, id string) error {
	var keys []string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetGroup(ctx, id)
		if err != nil {
			return err
		}
		if !s.engine.CanManageGroup(caller, group.AdminID) {
			return ErrNotGroupAdmin
		}
		keys, err = tx.DeleteGroup(ctx, group.ID)
		return err
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if s.blobs == nil {
			break
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.log.InternalError("groups.delete: remove document blob failed", err, "group_id", id, "key", key)
		}
	}
	return nil
}

// SetGrant replaces the permissions userID holds in groupID. Invalid input
// leaves any existing grant untouched.
func (s *Service) SetGrant(ctx context.Context, caller access.Principal, groupID, userID string, raw map[string]string) (*Grant, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanManageGroup(caller, group.AdminID) {
		return nil, ErrNotGroupAdmin
	}

	permissions, err := access.ParsePermissions(raw)
	if err != nil {
		return nil, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user_id", "user_id is required")
	}
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	grant := NewGrant(group.ID, userID, permissions)
	if err := s.repo.UpsertGrant(ctx, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (s *Service) GetGrant(ctx context.Context, caller access.Principal, groupID, userID string) (*Grant, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if caller.UserID != userID && !s.engine.CanManageGroup(caller, group.AdminID) {
		return nil, ErrNotGroupAdmin
	}
	return s.repo.GetGrant(ctx, group.ID, userID)
}

func (s *Service) ListGrants(ctx context.Context, caller access.Principal, groupID string) ([]Grant, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if s.engine.CanManageGroup(caller, group.AdminID) {
		return s.repo.ListGrants(ctx, group.ID)
	}

	// Members without manage rights only see their own row.
	grant, err := s.repo.GetGrant(ctx, group.ID, caller.UserID)
	if errors.Is(err, ErrGrantNotFound) {
		return nil, ErrNotGroupAdmin
	}
	if err != nil {
		return nil, err
	}
	return []Grant{*grant}, nil
}

func (s *Service) ListMyGrants(ctx context.Context, caller access.Principal) ([]Grant, error) {
	return s.repo.ListGrantsByUser(ctx, caller.UserID)
}

// GroupAdminID resolves the admin of a group for collaborators that notify or
// validate against it.
func (s *Service) GroupAdminID(ctx context.Context, groupID string) (string, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return "", err
	}
	return group.AdminID, nil
}

func validateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("name", "name is required")
	}
	if len([]rune(name)) > maxGroupNameLength {
		return "", apperr.Validation("name", "must be at most 255 characters")
	}
	return name, nil
}
