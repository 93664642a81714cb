// Package jobs holds background workers started alongside the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"family-finance-go/internal/domain/documents"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/pkg/logger"
)

type ExpiringDocuments interface {
	ExpiringBetween(ctx context.Context, from, until time.Time) ([]documents.Document, error)
	MarkReminded(ctx context.Context, id string, at time.Time) error
}

type GroupLookup interface {
	GroupAdminID(ctx context.Context, groupID string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, message string, kind notifications.Type) (*notifications.Notification, error)
}

// ExpiryReminder notifies group admins about documents expiring within the
// lookahead window. Each document is reminded at most once per expiry date.
type ExpiryReminder struct {
	documents ExpiringDocuments
	groups    GroupLookup
	notifier  Notifier
	interval  time.Duration
	lookahead time.Duration
	log       logger.Logger
	now       func() time.Time
}

func NewExpiryReminder(docs ExpiringDocuments, groups GroupLookup, notifier Notifier, interval, lookahead time.Duration, log logger.Logger) *ExpiryReminder {
	return &ExpiryReminder{
		documents: docs,
		groups:    groups,
		notifier:  notifier,
		interval:  interval,
		lookahead: lookahead,
		log:       log,
		now:       time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (r *ExpiryReminder) Run(ctx context.Context) {
	r.log.Info("jobs.reminders: started", "interval", r.interval.String(), "lookahead", r.lookahead.String())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
			r.log.InternalError("jobs.reminders: sweep failed", err)
		}

		select {
		case <-ctx.Done():
			r.log.Info("jobs.reminders: stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep sends the due reminders and returns how many were sent. A failure on
// one document is logged and does not stop the rest.
func (r *ExpiryReminder) Sweep(ctx context.Context) (int, error) {
	now := r.now().UTC()
	due, err := r.documents.ExpiringBetween(ctx, now, now.Add(r.lookahead))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, document := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if err := r.remind(ctx, document, now); err != nil {
			r.log.InternalError("jobs.reminders: remind failed", err, "document_id", document.ID, "group_id", document.GroupID)
			continue
		}
		sent++
	}
	if sent > 0 {
		r.log.Info("jobs.reminders: reminders sent", "count", sent)
	}
	return sent, nil
}

func (r *ExpiryReminder) remind(ctx context.Context, document documents.Document, now time.Time) error {
	adminID, err := r.groups.GroupAdminID(ctx, document.GroupID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Document %q expires on %s.", document.Name, document.ExpiryDate.Format(time.DateOnly))
	if _, err := r.notifier.Notify(ctx, adminID, message, notifications.TypeReminder); err != nil {
		return err
	}
	return r.documents.MarkReminded(ctx, document.ID, now)
}
