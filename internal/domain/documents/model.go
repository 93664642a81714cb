package documents

import (
	"io"
	"time"
)

// MaxUploadSize caps a single document payload.
const MaxUploadSize int64 = 10 << 20

type Type string

const (
	TypeWill    Type = "will"
	TypePolicy  Type = "policy"
	TypeTaxForm Type = "tax_form"
)

func (t Type) Valid() bool {
	switch t {
	case TypeWill, TypePolicy, TypeTaxForm:
		return true
	default:
		return false
	}
}

type Document struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	GroupID     string     `gorm:"type:uuid;index;not null"`
	Name        string     `gorm:"size:255;not null"`
	FileKey     string     `gorm:"size:512;not null"`
	ContentType string     `gorm:"size:127;not null"`
	Size        int64      `gorm:"not null"`
	Type        Type       `gorm:"type:varchar(20);not null"`
	ExpiryDate  *time.Time `gorm:"type:date;index"`
	RemindedAt  *time.Time
	UploadedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// WithURL pairs a document with a reference the client can fetch the payload from.
type WithURL struct {
	Document
	URL string
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreateInput struct {
	GroupID    string
	Name       string
	Type       Type
	ExpiryDate *time.Time
	File       Upload
}

type OptionalNullableDate struct {
	Set   bool
	Value *time.Time
}

type UpdateInput struct {
	Name       *string
	Type       *Type
	ExpiryDate OptionalNullableDate
}
