package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRequest is the persisted request row. DurationWeekdays and LopDays are
// the tentative split until the request is approved, then frozen.
// SelectedDates is set only for specific-date requests; FromDate/ToDate then
// span the first and last selected date for display.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_org_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_status"`

	LeaveType     string     `gorm:"type:varchar(30);not null;default:'CASUAL'"`
	FromDate      time.Time  `gorm:"type:date;not null"`
	ToDate        time.Time  `gorm:"type:date;not null"`
	SelectedDates DateList   `gorm:"type:jsonb"`
	Reason        string     `gorm:"type:text"`

	Status           string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_org_status,idx_leave_requests_employee_status"`
	DurationWeekdays int    `gorm:"type:int;not null;default:0"`
	LopDays          int    `gorm:"type:int;not null;default:0"`

	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// TotalRequested is the frozen day count of the request: weekdays for range
// requests, every selected date for specific-date requests. The approval
// re-evaluation redistributes paid vs LOP across exactly this many days.
func (l *LeaveRequest) TotalRequested() int {
	return l.DurationWeekdays + l.LopDays
}

// IsSpecificDates reports whether the request was submitted as an explicit
// date list rather than a contiguous range.
func (l *LeaveRequest) IsSpecificDates() bool {
	return len(l.SelectedDates) > 0
}
