package assets

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeBankAccount Type = "bank_account"
	TypeProperty    Type = "property"
	TypeBusiness    Type = "business"
	TypeSecurity    Type = "security"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBankAccount, TypeProperty, TypeBusiness, TypeSecurity:
		return true
	default:
		return false
	}
}

type Asset struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	GroupID     string          `gorm:"type:uuid;index;not null"`
	Type        Type            `gorm:"type:varchar(50);not null"`
	Name        string          `gorm:"size:255;not null"`
	Value       decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	APISource   *string         `gorm:"size:100"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	LastUpdated time.Time       `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	GroupID   string
	Type      Type
	Name      string
	Value     decimal.Decimal
	APISource *string
}

type OptionalNullableString struct {
	Set   bool
	Value *string
}

type UpdateInput struct {
	Type      *Type
	Name      *string
	Value     *decimal.Decimal
	APISource OptionalNullableString
}
