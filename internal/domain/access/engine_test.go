package access

import (
	"context"
	"errors"
	"testing"

	"family-finance-go/internal/domain/apperr"
)

type fakeGrantSource struct {
	grants map[string]map[string]Permissions
	calls  int
	err    error
}

func newFakeGrantSource() *fakeGrantSource {
	return &fakeGrantSource{grants: make(map[string]map[string]Permissions)}
}

func (f *fakeGrantSource) set(userID, groupID string, permissions Permissions) {
	if f.grants[userID] == nil {
		f.grants[userID] = make(map[string]Permissions)
	}
	f.grants[userID][groupID] = permissions
}

func (f *fakeGrantSource) GrantPermissions(ctx context.Context, userID, groupID string) (Permissions, bool, error) {
	f.calls++
	if f.err != nil {
		return nil, false, f.err
	}
	permissions, ok := f.grants[userID][groupID]
	return permissions, ok, nil
}

func (f *fakeGrantSource) GrantsByUser(ctx context.Context, userID string) (map[string]Permissions, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]Permissions)
	for groupID, permissions := range f.grants[userID] {
		result[groupID] = permissions
	}
	return result, nil
}

var member = Principal{UserID: "user-1", Role: RoleFamilyMember}

func TestAuthorizeNoGrantDeniesEverything(t *testing.T) {
	engine := NewEngine(newFakeGrantSource())

	for _, category := range Categories {
		for _, level := range []Level{LevelRead, LevelWrite} {
			err := engine.Authorize(context.Background(), member, "grp-1", category, level)
			if !errors.Is(err, apperr.ErrForbidden) {
				t.Fatalf("expected forbidden for %s/%s, got %v", category, level, err)
			}
		}
	}
}

func TestAuthorizeAccountantWithoutGrantDenied(t *testing.T) {
	engine := NewEngine(newFakeGrantSource())
	accountant := Principal{UserID: "acc-1", Role: RoleAccountant}

	err := engine.Authorize(context.Background(), accountant, "grp-1", CategoryTransactions, LevelRead)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeWriteGrantAllowsReadAndWrite(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-1", Permissions{CategoryAssets: LevelWrite})
	engine := NewEngine(grants)

	if err := engine.Authorize(context.Background(), member, "grp-1", CategoryAssets, LevelRead); err != nil {
		t.Fatalf("expected read allowed, got %v", err)
	}
	if err := engine.Authorize(context.Background(), member, "grp-1", CategoryAssets, LevelWrite); err != nil {
		t.Fatalf("expected write allowed, got %v", err)
	}
}

func TestAuthorizeReadGrantDeniesWrite(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-1", Permissions{CategoryDocuments: LevelRead})
	engine := NewEngine(grants)

	if err := engine.Authorize(context.Background(), member, "grp-1", CategoryDocuments, LevelRead); err != nil {
		t.Fatalf("expected read allowed, got %v", err)
	}
	err := engine.Authorize(context.Background(), member, "grp-1", CategoryDocuments, LevelWrite)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeMissingCategoryIsNone(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-1", Permissions{CategoryAssets: LevelWrite})
	engine := NewEngine(grants)

	err := engine.Authorize(context.Background(), member, "grp-1", CategoryTransactions, LevelRead)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for absent category, got %v", err)
	}
}

func TestAuthorizeExplicitNoneDenied(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-1", Permissions{CategoryAssets: LevelNone})
	engine := NewEngine(grants)

	err := engine.Authorize(context.Background(), member, "grp-1", CategoryAssets, LevelRead)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeGrantInOtherGroupDoesNotLeak(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-1", Permissions{CategoryAssets: LevelWrite})
	engine := NewEngine(grants)

	err := engine.Authorize(context.Background(), member, "grp-2", CategoryAssets, LevelRead)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeAdminBypassesGrants(t *testing.T) {
	grants := newFakeGrantSource()
	engine := NewEngine(grants)
	admin := Principal{UserID: "admin-1", Role: RoleAdmin}

	for _, category := range Categories {
		if err := engine.Authorize(context.Background(), admin, "any-group", category, LevelWrite); err != nil {
			t.Fatalf("expected admin allowed on %s, got %v", category, err)
		}
	}
	if grants.calls != 0 {
		t.Fatalf("expected no grant lookups for admin, got %d", grants.calls)
	}
}

func TestAuthorizeReadsGrantEveryCall(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-1", Permissions{CategoryAssets: LevelWrite})
	engine := NewEngine(grants)

	if err := engine.Authorize(context.Background(), member, "grp-1", CategoryAssets, LevelWrite); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}

	grants.set("user-1", "grp-1", Permissions{CategoryAssets: LevelRead})
	err := engine.Authorize(context.Background(), member, "grp-1", CategoryAssets, LevelWrite)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected downgraded grant to deny write, got %v", err)
	}
}

func TestAuthorizePropagatesStorageErrors(t *testing.T) {
	grants := newFakeGrantSource()
	grants.err = apperr.Storage(errors.New("connection reset"))
	engine := NewEngine(grants)

	err := engine.Authorize(context.Background(), member, "grp-1", CategoryAssets, LevelRead)
	if !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("storage failure must not read as forbidden")
	}
}

func TestCanManageGroup(t *testing.T) {
	engine := NewEngine(newFakeGrantSource())

	if !engine.CanManageGroup(Principal{UserID: "owner", Role: RoleFamilyMember}, "owner") {
		t.Fatalf("expected group admin to manage")
	}
	if !engine.CanManageGroup(Principal{UserID: "root", Role: RoleAdmin}, "owner") {
		t.Fatalf("expected global admin to manage")
	}
	if engine.CanManageGroup(Principal{UserID: "user-1", Role: RoleFamilyMember}, "owner") {
		t.Fatalf("expected plain member to be refused")
	}
	if engine.CanManageGroup(Principal{Role: RoleFamilyMember}, "") {
		t.Fatalf("expected empty ids never to match")
	}
}

func TestScope(t *testing.T) {
	grants := newFakeGrantSource()
	grants.set("user-1", "grp-b", Permissions{CategoryAssets: LevelRead})
	grants.set("user-1", "grp-a", Permissions{CategoryAssets: LevelNone})
	grants.set("user-1", "grp-c", Permissions{CategoryTransactions: LevelWrite})
	grants.set("user-2", "grp-d", Permissions{CategoryAssets: LevelWrite})
	engine := NewEngine(grants)

	// Any grant row makes the group listable, including none or a missing key.
	scope, err := engine.Scope(context.Background(), member, CategoryAssets)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if scope.All {
		t.Fatalf("expected restricted scope")
	}
	if len(scope.GroupIDs) != 3 || scope.GroupIDs[0] != "grp-a" || scope.GroupIDs[1] != "grp-b" || scope.GroupIDs[2] != "grp-c" {
		t.Fatalf("unexpected groups: %v", scope.GroupIDs)
	}
	if scope.Contains("grp-d") {
		t.Fatalf("expected other users' groups excluded")
	}

	scope, err = engine.Scope(context.Background(), Principal{UserID: "user-3", Role: RoleAccountant}, CategoryDocuments)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !scope.Empty() {
		t.Fatalf("expected empty scope without grants, got %v", scope.GroupIDs)
	}

	scope, err = engine.Scope(context.Background(), Principal{UserID: "root", Role: RoleAdmin}, CategoryDocuments)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !scope.All || !scope.Contains("anything") {
		t.Fatalf("expected admin scope to cover everything")
	}
}

func TestLevelPermits(t *testing.T) {
	cases := []struct {
		effective Level
		required  Level
		want      bool
	}{
		{LevelNone, LevelRead, false},
		{LevelNone, LevelNone, false},
		{LevelRead, LevelRead, true},
		{LevelRead, LevelWrite, false},
		{LevelWrite, LevelRead, true},
		{LevelWrite, LevelWrite, true},
		{Level("full"), LevelRead, false},
	}
	for _, tc := range cases {
		if got := LevelPermits(tc.effective, tc.required); got != tc.want {
			t.Fatalf("LevelPermits(%s, %s) = %v, want %v", tc.effective, tc.required, got, tc.want)
		}
	}
}
