package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction belongs to one asset; GroupID repeats that asset's group so
// reads can be scoped without a join.
type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	AssetID     string          `gorm:"type:uuid;index;not null"`
	GroupID     string          `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Category    *string         `gorm:"size:100"`
	Description string          `gorm:"type:text;not null"`
	Date        time.Time       `gorm:"not null;index"`
	IsUnusual   bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	GroupID     string
	AssetID     string
	Amount      *decimal.Decimal
	Category    *string
	Description string
	Date        *time.Time
	IsUnusual   bool
}

type OptionalNullableString struct {
	Set   bool
	Value *string
}

type UpdateInput struct {
	Amount      *decimal.Decimal
	Category    OptionalNullableString
	Description *string
	Date        *time.Time
	IsUnusual   *bool
}
