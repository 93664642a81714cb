package family

import (
	"context"
	"errors"
	"testing"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/pkg/logger"
)

type grantKey struct {
	groupID string
	userID  string
}

type fakeFamilyRepo struct {
	groups   map[string]*Group
	grants   map[grantKey]*Grant
	users    map[string]bool
	blobKeys map[string][]string
	upserts  int
}

func newFakeFamilyRepo() *fakeFamilyRepo {
	return &fakeFamilyRepo{
		groups:   make(map[string]*Group),
		grants:   make(map[grantKey]*Grant),
		users:    make(map[string]bool),
		blobKeys: make(map[string][]string),
	}
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) GetGroup(ctx context.Context, id string) (*Group, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	copied := *group
	return &copied, nil
}

func (r *fakeFamilyRepo) ListGroups(ctx context.Context) ([]Group, error) {
	result := make([]Group, 0, len(r.groups))
	for _, group := range r.groups {
		result = append(result, *group)
	}
	return result, nil
}

func (r *fakeFamilyRepo) ListGroupsForUser(ctx context.Context, userID string) ([]Group, error) {
	result := make([]Group, 0)
	for _, group := range r.groups {
		_, granted := r.grants[grantKey{group.ID, userID}]
		if group.AdminID == userID || granted {
			result = append(result, *group)
		}
	}
	return result, nil
}

func (r *fakeFamilyRepo) CreateGroup(ctx context.Context, group *Group) error {
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeFamilyRepo) UpdateGroupName(ctx context.Context, id, name string) error {
	group, ok := r.groups[id]
	if !ok {
		return ErrGroupNotFound
	}
	group.Name = name
	return nil
}

func (r *fakeFamilyRepo) DeleteGroup(ctx context.Context, id string) ([]string, error) {
	if _, ok := r.groups[id]; !ok {
		return nil, ErrGroupNotFound
	}
	delete(r.groups, id)
	for key := range r.grants {
		if key.groupID == id {
			delete(r.grants, key)
		}
	}
	return r.blobKeys[id], nil
}

func (r *fakeFamilyRepo) GetGrant(ctx context.Context, groupID, userID string) (*Grant, error) {
	grant, ok := r.grants[grantKey{groupID, userID}]
	if !ok {
		return nil, ErrGrantNotFound
	}
	copied := *grant
	return &copied, nil
}

func (r *fakeFamilyRepo) ListGrants(ctx context.Context, groupID string) ([]Grant, error) {
	result := make([]Grant, 0)
	for key, grant := range r.grants {
		if key.groupID == groupID {
			result = append(result, *grant)
		}
	}
	return result, nil
}

func (r *fakeFamilyRepo) ListGrantsByUser(ctx context.Context, userID string) ([]Grant, error) {
	result := make([]Grant, 0)
	for key, grant := range r.grants {
		if key.userID == userID {
			result = append(result, *grant)
		}
	}
	return result, nil
}

func (r *fakeFamilyRepo) UpsertGrant(ctx context.Context, grant *Grant) error {
	r.upserts++
	copied := *grant
	r.grants[grantKey{grant.GroupID, grant.UserID}] = &copied
	return nil
}

func (r *fakeFamilyRepo) UserExists(ctx context.Context, userID string) (bool, error) {
	return r.users[userID], nil
}

type fakeBlobs struct {
	deleted []string
}

func (b *fakeBlobs) Delete(ctx context.Context, key string) error {
	b.deleted = append(b.deleted, key)
	return nil
}

var (
	globalAdmin = access.Principal{UserID: "root", Role: access.RoleAdmin}
	groupOwner  = access.Principal{UserID: "owner", Role: access.RoleFamilyMember}
	member      = access.Principal{UserID: "member", Role: access.RoleFamilyMember}
	stranger    = access.Principal{UserID: "stranger", Role: access.RoleAccountant}
)

func newTestService(repo *fakeFamilyRepo, blobs *fakeBlobs) *Service {
	return NewService(repo, access.NewEngine(nil), blobs, logger.NewNop())
}

func seedGroup(repo *fakeFamilyRepo) {
	repo.groups["grp-1"] = &Group{ID: "grp-1", Name: "Smiths", AdminID: groupOwner.UserID}
	repo.users[groupOwner.UserID] = true
	repo.users[member.UserID] = true
	repo.users[stranger.UserID] = true
}

func TestCreateGroupRequiresGlobalAdmin(t *testing.T) {
	repo := newFakeFamilyRepo()
	svc := newTestService(repo, &fakeBlobs{})

	if _, err := svc.CreateGroup(context.Background(), member, "Smiths"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	group, err := svc.CreateGroup(context.Background(), globalAdmin, "  Smiths ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if group.AdminID != globalAdmin.UserID {
		t.Fatalf("expected caller to administer group, got %s", group.AdminID)
	}
	if group.Name != "Smiths" {
		t.Fatalf("expected trimmed name, got %q", group.Name)
	}

	if _, err := svc.CreateGroup(context.Background(), globalAdmin, "   "); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetGrantByGroupAdmin(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	svc := newTestService(repo, &fakeBlobs{})

	grant, err := svc.SetGrant(context.Background(), groupOwner, "grp-1", member.UserID, map[string]string{
		"assets":    "write",
		"documents": "read",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	levels := grant.Levels()
	if levels.Level(access.CategoryAssets) != access.LevelWrite {
		t.Fatalf("expected assets write, got %s", levels.Level(access.CategoryAssets))
	}
	if levels.Level(access.CategoryTransactions) != access.LevelNone {
		t.Fatalf("expected absent category to read as none")
	}
}

func TestSetGrantUpsertsSingleRow(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	svc := newTestService(repo, &fakeBlobs{})

	if _, err := svc.SetGrant(context.Background(), groupOwner, "grp-1", member.UserID, map[string]string{"assets": "write"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.SetGrant(context.Background(), groupOwner, "grp-1", member.UserID, map[string]string{"assets": "read"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	grants, _ := repo.ListGrants(context.Background(), "grp-1")
	if len(grants) != 1 {
		t.Fatalf("expected a single grant, got %d", len(grants))
	}
	if grants[0].Levels().Level(access.CategoryAssets) != access.LevelRead {
		t.Fatalf("expected latest permissions to win")
	}
}

func TestSetGrantRejectsNonManager(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	repo.grants[grantKey{"grp-1", member.UserID}] = ptrGrant(NewGrant("grp-1", member.UserID, access.Permissions{
		access.CategoryAssets:       access.LevelWrite,
		access.CategoryTransactions: access.LevelWrite,
		access.CategoryDocuments:    access.LevelWrite,
	}))
	svc := newTestService(repo, &fakeBlobs{})

	// A full write grant is still not group admin-ship.
	_, err := svc.SetGrant(context.Background(), member, "grp-1", stranger.UserID, map[string]string{"assets": "read"})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no writes")
	}
}

func TestSetGrantInvalidValueKeepsPriorGrant(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	repo.grants[grantKey{"grp-1", member.UserID}] = ptrGrant(NewGrant("grp-1", member.UserID, access.Permissions{
		access.CategoryAssets: access.LevelRead,
	}))
	svc := newTestService(repo, &fakeBlobs{})

	_, err := svc.SetGrant(context.Background(), groupOwner, "grp-1", member.UserID, map[string]string{"assets": "full"})
	verr, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "permissions.assets" {
		t.Fatalf("expected offending key in field, got %q", verr.Field)
	}

	_, err = svc.SetGrant(context.Background(), groupOwner, "grp-1", member.UserID, map[string]string{"vehicles": "read"})
	verr, ok = apperr.AsValidation(err)
	if !ok || verr.Field != "permissions.vehicles" {
		t.Fatalf("expected validation error on vehicles, got %v", err)
	}

	if repo.upserts != 0 {
		t.Fatalf("expected no writes, got %d", repo.upserts)
	}
	stored := repo.grants[grantKey{"grp-1", member.UserID}]
	if stored.Levels().Level(access.CategoryAssets) != access.LevelRead {
		t.Fatalf("expected prior grant unchanged")
	}
}

func TestSetGrantMissingGroupOrUser(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	svc := newTestService(repo, &fakeBlobs{})

	_, err := svc.SetGrant(context.Background(), globalAdmin, "missing", member.UserID, map[string]string{"assets": "read"})
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected group not found, got %v", err)
	}

	_, err = svc.SetGrant(context.Background(), globalAdmin, "grp-1", "ghost", map[string]string{"assets": "read"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestGetGroupVisibility(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	repo.grants[grantKey{"grp-1", member.UserID}] = ptrGrant(NewGrant("grp-1", member.UserID, access.Permissions{}))
	svc := newTestService(repo, &fakeBlobs{})

	for _, caller := range []access.Principal{globalAdmin, groupOwner, member} {
		if _, err := svc.GetGroup(context.Background(), caller, "grp-1"); err != nil {
			t.Fatalf("expected %s to see group, got %v", caller.UserID, err)
		}
	}
	if _, err := svc.GetGroup(context.Background(), stranger, "grp-1"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.GetGroup(context.Background(), stranger, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListGrantsOwnRowForMembers(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	repo.grants[grantKey{"grp-1", member.UserID}] = ptrGrant(NewGrant("grp-1", member.UserID, access.Permissions{access.CategoryAssets: access.LevelRead}))
	repo.grants[grantKey{"grp-1", stranger.UserID}] = ptrGrant(NewGrant("grp-1", stranger.UserID, access.Permissions{access.CategoryAssets: access.LevelRead}))
	svc := newTestService(repo, &fakeBlobs{})

	all, err := svc.ListGrants(context.Background(), groupOwner, "grp-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 grants for group admin, got %d", len(all))
	}

	own, err := svc.ListGrants(context.Background(), member, "grp-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(own) != 1 || own[0].UserID != member.UserID {
		t.Fatalf("expected only own grant, got %+v", own)
	}

	if _, err := svc.GetGrant(context.Background(), member, "grp-1", stranger.UserID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden reading another grant, got %v", err)
	}
}

func TestDeleteGroupRemovesBlobs(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	repo.blobKeys["grp-1"] = []string{"documents/grp-1/a.pdf"}
	blobs := &fakeBlobs{}
	svc := newTestService(repo, blobs)

	if err := svc.DeleteGroup(context.Background(), member, "grp-1"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.DeleteGroup(context.Background(), groupOwner, "grp-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.groups["grp-1"]; ok {
		t.Fatalf("expected group removed")
	}
	if len(blobs.deleted) != 1 {
		t.Fatalf("expected blob removed, got %v", blobs.deleted)
	}
}

func TestRenameGroup(t *testing.T) {
	repo := newFakeFamilyRepo()
	seedGroup(repo)
	svc := newTestService(repo, &fakeBlobs{})

	if _, err := svc.RenameGroup(context.Background(), stranger, "grp-1", "Joneses"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	group, err := svc.RenameGroup(context.Background(), groupOwner, "grp-1", "Joneses")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if group.Name != "Joneses" || repo.groups["grp-1"].Name != "Joneses" {
		t.Fatalf("expected rename to persist")
	}
}

func ptrGrant(g Grant) *Grant {
	return &g
}
