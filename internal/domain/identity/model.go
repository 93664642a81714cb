package identity

import (
	"time"

	"family-finance-go/internal/domain/access"
)

type User struct {
	ID           string      `gorm:"type:uuid;primaryKey"`
	Email        string      `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string      `gorm:"type:text;not null"`
	FirstName    string      `gorm:"size:150;not null"`
	LastName     string      `gorm:"size:150;not null"`
	Role         access.Role `gorm:"type:varchar(20);not null"`
	IsActive     bool        `gorm:"not null"`
	DateJoined   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime"`
}

func (u User) Principal() access.Principal {
	return access.Principal{UserID: u.ID, Role: u.Role}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      access.Role
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Password  *string
	Role      *access.Role
	IsActive  *bool
}
