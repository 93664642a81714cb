package family

import (
	"time"

	"family-finance-go/internal/domain/access"
	"gorm.io/datatypes"
)

type Group struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	AdminID   string    `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Group) TableName() string {
	return "family_groups"
}

// Grant holds the category levels one user has inside one group.
// There is at most one grant per (group, user).
type Grant struct {
	GroupID     string                                 `gorm:"type:uuid;primaryKey"`
	UserID      string                                 `gorm:"type:uuid;primaryKey;index"`
	Permissions datatypes.JSONType[access.Permissions] `gorm:"not null"`
	CreatedAt   time.Time                              `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                              `gorm:"autoUpdateTime"`
}

func (Grant) TableName() string {
	return "permission_grants"
}

func NewGrant(groupID, userID string, permissions access.Permissions) Grant {
	return Grant{
		GroupID:     groupID,
		UserID:      userID,
		Permissions: datatypes.NewJSONType(permissions),
	}
}

// Levels returns a copy of the stored permissions; absent categories read as none.
func (g Grant) Levels() access.Permissions {
	return g.Permissions.Data().Clone()
}
