package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/internal/domain/identity"
)

type fakeResolver map[string]*identity.User

func (f fakeResolver) ResolveActive(ctx context.Context, id string) (*identity.User, error) {
	user, ok := f[id]
	if !ok {
		return nil, identity.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, identity.ErrAccountDisabled
	}
	return user, nil
}

func testUser() identity.User {
	return identity.User{ID: "user-1", Email: "jane@example.com", Role: access.RoleAccountant, IsActive: true}
}

func TestIssueAndParseAccess(t *testing.T) {
	manager := NewTokenManager("secret", "family-finance", time.Minute, time.Hour)

	pair, err := manager.IssuePair(testUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	principal, err := manager.ParseAccess(pair.Access)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if principal.UserID != "user-1" || principal.Role != access.RoleAccountant {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	manager := NewTokenManager("secret", "family-finance", time.Minute, time.Hour)
	pair, err := manager.IssuePair(testUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = manager.ParseAccess(pair.Refresh)
	if !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected wrong token type, got %v", err)
	}
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated kind, got %v", err)
	}
}

func TestParseAccessRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", "family-finance", time.Minute, time.Hour)
	verifier := NewTokenManager("secret-b", "family-finance", time.Minute, time.Hour)

	pair, err := issuer.IssuePair(testUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := verifier.ParseAccess(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, err := verifier.ParseAccess("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseAccessRejectsExpired(t *testing.T) {
	manager := NewTokenManager("secret", "family-finance", time.Minute, time.Hour)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	pair, err := manager.IssuePair(testUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	manager.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := manager.ParseAccess(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestRefreshReloadsUser(t *testing.T) {
	manager := NewTokenManager("secret", "family-finance", time.Minute, time.Hour)
	user := testUser()
	pair, err := manager.IssuePair(user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	promoted := user
	promoted.Role = access.RoleAdmin
	resolver := fakeResolver{"user-1": &promoted}

	refreshed, _, err := manager.Refresh(context.Background(), pair.Refresh, resolver)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	principal, err := manager.ParseAccess(refreshed.Access)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if principal.Role != access.RoleAdmin {
		t.Fatalf("expected reloaded role, got %s", principal.Role)
	}

	if _, _, err := manager.Refresh(context.Background(), pair.Access, resolver); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected access token to be refused, got %v", err)
	}

	promoted.IsActive = false
	if _, _, err := manager.Refresh(context.Background(), pair.Refresh, resolver); !errors.Is(err, identity.ErrAccountDisabled) {
		t.Fatalf("expected disabled account, got %v", err)
	}
}
