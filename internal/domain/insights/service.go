package insights

import (
	"context"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/notifications"
	"family-finance-go/internal/domain/transactions"
	"github.com/shopspring/decimal"
)

var DefaultBudgetRatio = decimal.RequireFromString("0.8")

type Service struct {
	repo          Repository
	engine        *access.Engine
	notifications NotificationLister
	budgetRatio   decimal.Decimal
}

func NewService(repo Repository, engine *access.Engine, notifications NotificationLister, budgetRatio decimal.Decimal) *Service {
	if !budgetRatio.IsPositive() {
		budgetRatio = DefaultBudgetRatio
	}
	return &Service{
		repo:          repo,
		engine:        engine,
		notifications: notifications,
		budgetRatio:   budgetRatio,
	}
}

// Budget sums income and expenses over every transaction the caller may read.
func (s *Service) Budget(ctx context.Context, caller access.Principal) (Budget, error) {
	rows, err := s.visibleAmounts(ctx, caller)
	if err != nil {
		return Budget{}, err
	}
	return ComputeBudget(rows, s.budgetRatio), nil
}

func (s *Service) Trend(ctx context.Context, caller access.Principal) (Trend, error) {
	rows, err := s.visibleAmounts(ctx, caller)
	if err != nil {
		return nil, err
	}
	return ComputeTrend(rows), nil
}

func (s *Service) Dashboard(ctx context.Context, caller access.Principal) (Dashboard, error) {
	result := Dashboard{
		TotalAssetValue:     decimal.Zero,
		RecentTransactions:  []transactions.Transaction{},
		UnreadNotifications: []notifications.Notification{},
	}

	assetScope, err := s.engine.Scope(ctx, caller, access.CategoryAssets)
	if err != nil {
		return Dashboard{}, err
	}
	if !assetScope.Empty() {
		values, err := s.repo.AssetValues(ctx, assetScope)
		if err != nil {
			return Dashboard{}, err
		}
		result.TotalAssetValue = decimal.Sum(decimal.Zero, values...)
	}

	txScope, err := s.engine.Scope(ctx, caller, access.CategoryTransactions)
	if err != nil {
		return Dashboard{}, err
	}
	if !txScope.Empty() {
		recent, err := s.repo.RecentTransactions(ctx, txScope, recentTransactionsLimit)
		if err != nil {
			return Dashboard{}, err
		}
		result.RecentTransactions = recent
	}

	unread, err := s.notifications.List(ctx, caller, true)
	if err != nil {
		return Dashboard{}, err
	}
	result.UnreadNotifications = unread

	return result, nil
}

func (s *Service) visibleAmounts(ctx context.Context, caller access.Principal) ([]AmountRow, error) {
	scope, err := s.engine.Scope(ctx, caller, access.CategoryTransactions)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return nil, nil
	}
	return s.repo.TransactionAmounts(ctx, scope)
}

func ComputeBudget(rows []AmountRow, ratio decimal.Decimal) Budget {
	income := decimal.Zero
	expense := decimal.Zero
	for _, row := range rows {
		switch {
		case row.Amount.IsPositive():
			income = income.Add(row.Amount)
		case row.Amount.IsNegative():
			expense = expense.Add(row.Amount)
		}
	}
	return Budget{
		TotalIncome:       income,
		TotalExpense:      expense,
		RecommendedBudget: income.Mul(ratio),
	}
}

func ComputeTrend(rows []AmountRow) Trend {
	trend := make(Trend)
	for _, row := range rows {
		category := UncategorizedBucket
		if row.Category != nil && *row.Category != "" {
			category = *row.Category
		}
		month := row.Date.UTC().Format("2006-01")

		months, ok := trend[category]
		if !ok {
			months = make(map[string]decimal.Decimal)
			trend[category] = months
		}
		months[month] = months[month].Add(row.Amount)
	}
	return trend
}
