package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxCategoryLength = 100

// numeric(15,2)
var maxAmount = decimal.New(1, 13)

type Service struct {
	repo     Repository
	assets   AssetLookup
	groups   GroupLookup
	engine   *access.Engine
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, assets AssetLookup, groups GroupLookup, engine *access.Engine, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		assets:   assets,
		groups:   groups,
		engine:   engine,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, caller access.Principal) ([]Transaction, error) {
	scope, err := s.engine.Scope(ctx, caller, access.CategoryTransactions)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []Transaction{}, nil
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, caller access.Principal, id string) (*Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, transaction.GroupID, access.CategoryTransactions, access.LevelRead); err != nil {
		return nil, err
	}
	return transaction, nil
}

// Create records a transaction against an asset of the target group. An
// unusual transaction raises an alert for the group admin.
func (s *Service) Create(ctx context.Context, caller access.Principal, input CreateInput) (*Transaction, error) {
	groupID := strings.TrimSpace(input.GroupID)
	if groupID == "" {
		return nil, apperr.Validation("group_id", "group_id is required")
	}
	adminID, err := s.groups.GroupAdminID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, groupID, access.CategoryTransactions, access.LevelWrite); err != nil {
		return nil, err
	}

	assetID := strings.TrimSpace(input.AssetID)
	if assetID == "" {
		return nil, apperr.Validation("asset_id", "asset_id is required")
	}
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.GroupID != groupID {
		return nil, apperr.Validation("asset_id", "asset does not belong to the target group")
	}

	if input.Amount == nil {
		return nil, apperr.Validation("amount", "amount is required")
	}
	date := s.now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	transaction := Transaction{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		GroupID:     groupID,
		Amount:      *input.Amount,
		Category:    trimOptional(input.Category),
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		IsUnusual:   input.IsUnusual,
	}
	if err := validate(&transaction); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &transaction); err != nil {
		return nil, err
	}

	if transaction.IsUnusual {
		s.alert(ctx, adminID, &transaction)
	}
	return &transaction, nil
}

func (s *Service) Update(ctx context.Context, caller access.Principal, id string, input UpdateInput) (*Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, transaction.GroupID, access.CategoryTransactions, access.LevelWrite); err != nil {
		return nil, err
	}

	wasUnusual := transaction.IsUnusual
	if input.Amount != nil {
		transaction.Amount = *input.Amount
	}
	if input.Category.Set {
		transaction.Category = trimOptional(input.Category.Value)
	}
	if input.Description != nil {
		transaction.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		transaction.Date = input.Date.UTC()
	}
	if input.IsUnusual != nil {
		transaction.IsUnusual = *input.IsUnusual
	}
	if err := validate(transaction); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	if transaction.IsUnusual && !wasUnusual {
		adminID, err := s.groups.GroupAdminID(ctx, transaction.GroupID)
		if err != nil {
			s.log.InternalError("transactions.update: resolve group admin failed", err, "transaction_id", transaction.ID)
		} else {
			s.alert(ctx, adminID, transaction)
		}
	}
	return transaction, nil
}

func (s *Service) alert(ctx context.Context, adminID string, transaction *Transaction) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("Unusual transaction of %s flagged: %s", transaction.Amount.StringFixed(2), transaction.Description)
	if _, err := s.notifier.Notify(ctx, adminID, message, notifications.TypeAlert); err != nil {
		s.log.InternalError("transactions.alert: notify group admin failed", err,
			"transaction_id", transaction.ID,
			"group_id", transaction.GroupID,
		)
	}
}

func validate(transaction *Transaction) error {
	if !transaction.Amount.Equal(transaction.Amount.Round(2)) {
		return apperr.Validation("amount", "at most 2 decimal places are allowed")
	}
	if transaction.Amount.Abs().GreaterThanOrEqual(maxAmount) {
		return apperr.Validation("amount", "at most 13 digits before the decimal point are allowed")
	}
	if transaction.Description == "" {
		return apperr.Validation("description", "description is required")
	}
	if transaction.Category != nil && len([]rune(*transaction.Category)) > maxCategoryLength {
		return apperr.Validation("category", "must be at most 100 characters")
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
