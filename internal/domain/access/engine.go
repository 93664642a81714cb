package access

import (
	"context"
	"sort"

	"family-finance-go/internal/domain/apperr"
)

// GrantSource reads permission grants. Implementations must hit the store on
// every call: grants may change between requests.
type GrantSource interface {
	// GrantPermissions returns the grant for (user, group); ok is false when no row exists.
	GrantPermissions(ctx context.Context, userID, groupID string) (Permissions, bool, error)
	// GrantsByUser returns every grant the user holds, keyed by group id.
	GrantsByUser(ctx context.Context, userID string) (map[string]Permissions, error)
}

type Engine struct {
	grants GrantSource
}

func NewEngine(grants GrantSource) *Engine {
	return &Engine{grants: grants}
}

// IsGlobalAdmin reports whether the role-based escape hatch applies.
func IsGlobalAdmin(p Principal) bool {
	return p.Role == RoleAdmin
}

// IsGroupAdmin reports whether p owns the group administered by adminID.
func IsGroupAdmin(p Principal, adminID string) bool {
	return p.UserID != "" && p.UserID == adminID
}

// LevelPermits: none never permits; write subsumes read.
func LevelPermits(effective, required Level) bool {
	if effective == LevelNone || !effective.Valid() || !required.Valid() {
		return false
	}
	return effective.rank() >= required.rank()
}

// Authorize returns nil when p may access category in groupID at the required
// level and an apperr.ErrForbidden error otherwise. Lookup failures are returned as is.
func (e *Engine) Authorize(ctx context.Context, p Principal, groupID string, category Category, required Level) error {
	if IsGlobalAdmin(p) {
		return nil
	}

	permissions, ok, err := e.grants.GrantPermissions(ctx, p.UserID, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("no grant in group")
	}
	if !permissions.Allows(category, required) {
		return apperr.Forbidden("insufficient " + string(category) + " permission")
	}
	return nil
}

// CanManageGroup is the narrower path used for grant management and group
// maintenance: global admin or the group's own admin. Category grants do not count.
func (e *Engine) CanManageGroup(p Principal, adminID string) bool {
	return IsGlobalAdmin(p) || IsGroupAdmin(p, adminID)
}

// Scope resolves the groups p may list category rows from: every group where p
// holds a grant, whatever its level for category. Get still applies the level.
func (e *Engine) Scope(ctx context.Context, p Principal, category Category) (Scope, error) {
	if IsGlobalAdmin(p) {
		return Scope{All: true}, nil
	}

	grants, err := e.grants.GrantsByUser(ctx, p.UserID)
	if err != nil {
		return Scope{}, err
	}

	groupIDs := make([]string, 0, len(grants))
	for groupID := range grants {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Strings(groupIDs)

	return Scope{GroupIDs: groupIDs}, nil
}
