package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

// LeaveDecidedEvent is published through the outbox when an approver resolves
// a leave request. LopDays carries the final split so downstream consumers can
// tell the requester how many days were converted to loss of pay.
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	OrgID      string    `json:"org_id"`
	DecidedBy  string    `json:"decided_by"`
	Status     string    `json:"status"`
	FromDate   string    `json:"from_date"`
	ToDate     string    `json:"to_date"`
	PaidDays   int       `json:"paid_days"`
	LopDays    int       `json:"lop_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
