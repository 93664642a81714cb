package assets

import (
	"context"
	"strings"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxNameLength      = 255
	maxAPISourceLength = 100
)

// numeric(15,2)
var maxValue = decimal.New(1, 13)

type Service struct {
	repo   Repository
	groups GroupLookup
	engine *access.Engine
}

func NewService(repo Repository, groups GroupLookup, engine *access.Engine) *Service {
	return &Service{repo: repo, groups: groups, engine: engine}
}

func (s *Service) List(ctx context.Context, caller access.Principal) ([]Asset, error) {
	scope, err := s.engine.Scope(ctx, caller, access.CategoryAssets)
	if err != nil {
		return nil, err
	}
	if scope.Empty() {
		return []Asset{}, nil
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, caller access.Principal, id string) (*Asset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, asset.GroupID, access.CategoryAssets, access.LevelRead); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *Service) Create(ctx context.Context, caller access.Principal, input CreateInput) (*Asset, error) {
	groupID := strings.TrimSpace(input.GroupID)
	if groupID == "" {
		return nil, apperr.Validation("group_id", "group_id is required")
	}
	if _, err := s.groups.GroupAdminID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, groupID, access.CategoryAssets, access.LevelWrite); err != nil {
		return nil, err
	}

	asset := Asset{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Type:      input.Type,
		Name:      strings.TrimSpace(input.Name),
		Value:     input.Value,
		APISource: trimOptional(input.APISource),
	}
	if err := validate(&asset); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *Service) Update(ctx context.Context, caller access.Principal, id string, input UpdateInput) (*Asset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, caller, asset.GroupID, access.CategoryAssets, access.LevelWrite); err != nil {
		return nil, err
	}

	if input.Type != nil {
		asset.Type = *input.Type
	}
	if input.Name != nil {
		asset.Name = strings.TrimSpace(*input.Name)
	}
	if input.Value != nil {
		asset.Value = *input.Value
	}
	if input.APISource.Set {
		asset.APISource = trimOptional(input.APISource.Value)
	}
	if err := validate(asset); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func validate(asset *Asset) error {
	if !asset.Type.Valid() {
		return apperr.Validation("type", "invalid asset type: "+string(asset.Type))
	}
	if asset.Name == "" {
		return apperr.Validation("name", "name is required")
	}
	if len([]rune(asset.Name)) > maxNameLength {
		return apperr.Validation("name", "must be at most 255 characters")
	}
	if asset.Value.LessThan(decimal.Zero) {
		return apperr.Validation("value", "value must be non-negative")
	}
	if !asset.Value.Equal(asset.Value.Round(2)) {
		return apperr.Validation("value", "at most 2 decimal places are allowed")
	}
	if asset.Value.GreaterThanOrEqual(maxValue) {
		return apperr.Validation("value", "at most 13 digits before the decimal point are allowed")
	}
	if asset.APISource != nil && len([]rune(*asset.APISource)) > maxAPISourceLength {
		return apperr.Validation("api_source", "must be at most 100 characters")
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
