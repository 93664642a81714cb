package notifications

import "time"

type Type string

const (
	TypeReminder Type = "reminder"
	TypeAlert    Type = "alert"
)

func (t Type) Valid() bool {
	return t == TypeReminder || t == TypeAlert
}

type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Message   string    `gorm:"type:text;not null"`
	Type      Type      `gorm:"type:varchar(20);not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
