package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile owns total_leaves_balance. The column is written by exactly one
// path: the approval re-evaluation debit in the leave module. Submission,
// rejection and deletion never touch it.
type Profile struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_profiles_org"`
	TeamID *uuid.UUID `gorm:"type:uuid;index"`

	FullName string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);uniqueIndex:uq_profile_email;not null"`
	Role     string `gorm:"type:varchar(30);not null;default:'EMPLOYEE'"`

	TotalLeavesBalance int `gorm:"type:int;not null;default:0"`
	MonthlyLeaveQuota  int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_profiles_deleted_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
