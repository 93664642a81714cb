package notifications

import (
	"context"
	"strings"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the caller's own notifications, newest first.
func (s *Service) List(ctx context.Context, caller access.Principal, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListByUser(ctx, caller.UserID, unreadOnly)
}

// MarkRead flips the read flag on one of the caller's notifications. Rows owned
// by someone else are reported as missing, admins included.
func (s *Service) MarkRead(ctx context.Context, caller access.Principal, id string, read bool) (*Notification, error) {
	notification, err := s.repo.GetForUser(ctx, id, caller.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRead(ctx, notification.ID, caller.UserID, read); err != nil {
		return nil, err
	}
	notification.IsRead = read
	return notification, nil
}

func (s *Service) Send(ctx context.Context, caller access.Principal, userID, message string, kind Type) (*Notification, error) {
	if !access.IsGlobalAdmin(caller) {
		return nil, ErrAdminOnly
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
	return s.Notify(ctx, userID, message, kind)
}

// Notify stores a notification for userID without any caller check. It backs
// alerts and reminders raised by the system itself.
func (s *Service) Notify(ctx context.Context, userID, message string, kind Type) (*Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("message", "message cannot be empty")
	}
	if !kind.Valid() {
		return nil, apperr.Validation("type", "invalid notification type: "+string(kind))
	}

	notification := Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Message: message,
		Type:    kind,
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}
