package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID      uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_org"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_receiver"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null"`

	SenderName string `gorm:"type:varchar(255)"`
	Message    string `gorm:"type:text;not null"`
	Type       string `gorm:"type:varchar(30);not null;default:'general'"`
	IsRead     bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

const TypeLeaveStatus = "leave_status"
