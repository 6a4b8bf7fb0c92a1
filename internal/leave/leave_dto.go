package leave

type ApplyLeaveRequest struct {
	LeaveType     string   `json:"leave_type" binding:"required,oneof=CASUAL SICK EARNED LOSS_OF_PAY"`
	FromDate      string   `json:"from_date"`
	ToDate        string   `json:"to_date"`
	SelectedDates []string `json:"selected_dates"`
	Reason        string   `json:"reason"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

type DayEntryResponse struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type LeaveResponse struct {
	ID               string             `json:"id"`
	OrgID            string             `json:"org_id"`
	EmployeeID       string             `json:"employee_id"`
	LeaveType        string             `json:"leave_type"`
	FromDate         string             `json:"from_date"`
	ToDate           string             `json:"to_date"`
	SelectedDates    []string           `json:"selected_dates,omitempty"`
	Reason           string             `json:"reason"`
	Status           string             `json:"status"`
	DurationWeekdays int                `json:"duration_weekdays"`
	LopDays          int                `json:"lop_days"`
	DecidedBy        *string            `json:"decided_by,omitempty"`
	DecidedAt        *string            `json:"decided_at,omitempty"`
	Breakdown        []DayEntryResponse `json:"breakdown,omitempty"`
}
