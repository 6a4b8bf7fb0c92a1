package profile

type CreateProfileRequest struct {
	FullName           string `json:"full_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Role               string `json:"role" binding:"omitempty,oneof=EMPLOYEE TEAM_LEAD HR"`
	TeamID             string `json:"team_id" binding:"omitempty,uuid"`
	TotalLeavesBalance int    `json:"total_leaves_balance" binding:"min=0"`
	MonthlyLeaveQuota  int    `json:"monthly_leave_quota" binding:"min=0"`
}

type UpdateProfileRequest struct {
	FullName          string `json:"full_name" binding:"required"`
	Role              string `json:"role" binding:"omitempty,oneof=EMPLOYEE TEAM_LEAD HR"`
	TeamID            string `json:"team_id" binding:"omitempty,uuid"`
	MonthlyLeaveQuota int    `json:"monthly_leave_quota" binding:"min=0"`
}

type ProfileResponse struct {
	ID                 string  `json:"id"`
	OrgID              string  `json:"org_id"`
	TeamID             *string `json:"team_id,omitempty"`
	FullName           string  `json:"full_name"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	TotalLeavesBalance int     `json:"total_leaves_balance"`
	MonthlyLeaveQuota  int     `json:"monthly_leave_quota"`
}

// BalanceSummaryResponse backs the approver's live preview: what the stored
// balance is, how much of it other pending requests already claim, and what
// is actually left for a new allocation.
type BalanceSummaryResponse struct {
	EmployeeID         string `json:"employee_id"`
	TotalLeavesBalance int    `json:"total_leaves_balance"`
	PendingPaidDays    int    `json:"pending_paid_days"`
	EffectiveBalance   int    `json:"effective_balance"`
}
