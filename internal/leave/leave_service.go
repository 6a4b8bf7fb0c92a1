package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"talent-ops/internal/calendar"
	"talent-ops/internal/events"
	leaveerrors "talent-ops/internal/leave/errors"
	"talent-ops/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// maxDebitAttempts bounds the optimistic re-read loop when the balance
// compare-and-swap loses a race against a concurrent approval.
const maxDebitAttempts = 3

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, orgID, actorID string, req ApplyLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, orgID string) ([]LeaveResponse, error)
	GetForEmployee(ctx context.Context, orgID, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, orgID, id string) (LeaveResponse, error)
	Decide(ctx context.Context, orgID, actorID, id string, req DecisionRequest) (LeaveResponse, error)
	Delete(ctx context.Context, orgID, actorID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Submit(ctx context.Context, orgID, actorID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("org_id", orgID),
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("selected_dates", len(req.SelectedDates)),
	)

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidOrgID
	}
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l := &LeaveRequest{
		ID:         uuid.New(),
		OrgID:      orgUUID,
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if len(req.SelectedDates) > 0 {
		dates, err := NewDateList(req.SelectedDates)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
		}
		if len(dates) == 0 {
			return LeaveResponse{}, leaveerrors.ErrEmptyDateSelection
		}
		parsed, err := dates.Dates()
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
		}
		l.SelectedDates = dates
		l.FromDate = parsed[0]
		l.ToDate = parsed[len(parsed)-1]
	} else {
		if req.FromDate == "" || req.ToDate == "" {
			return LeaveResponse{}, leaveerrors.ErrEmptyDateSelection
		}
		from, err := parseDate(req.FromDate)
		if err != nil {
			return LeaveResponse{}, err
		}
		to, err := parseDate(req.ToDate)
		if err != nil {
			return LeaveResponse{}, err
		}
		if from.After(to) {
			return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
		}
		l.FromDate = from
		l.ToDate = to
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Tentative split only. Submission never debits the balance; the
	// authoritative split is recomputed at approval time.
	effective, err := s.effectiveBalance(ctx, qtx, actorID, nil)
	if err != nil {
		s.logger.Error("submit leave effective balance failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	var split Split
	if l.IsSpecificDates() {
		parsed, err := l.SelectedDates.Dates()
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
		}
		split = AllocateDates(parsed, effective)
	} else {
		split = AllocateRange(l.FromDate, l.ToDate, effective)
	}
	l.DurationWeekdays = split.PaidDays
	l.LopDays = split.LopDays

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.Int("paid_days", split.PaidDays),
		zap.Int("lop_days", split.LopDays),
	)

	return mapToResponse(*l, false), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetForEmployee(ctx context.Context, orgID, employeeID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByEmployee(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, true), nil
}

// Decide resolves a pending request. Rejection only flips the status. Approval
// re-runs the allocation against the balance as it stands now, which may have
// shrunk or grown since submission: the tentative split from Submit is a
// preview, this is the decision of record.
func (s *service) Decide(ctx context.Context, orgID, actorID, id string, req DecisionRequest) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("org_id", orgID),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Decision),
	)

	if _, err := uuid.Parse(orgID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidOrgID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if req.Decision != DecisionApprove && req.Decision != DecisionReject {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyResolved
	}

	if req.Decision == DecisionApprove {
		finalPaid, finalLop, err := s.reevaluate(ctx, qtx, l)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.Status = StatusApproved
		l.DurationWeekdays = finalPaid
		l.LopDays = finalLop
	} else {
		l.Status = StatusRejected
	}
	l.DecidedBy = &actorUUID
	now := time.Now().UTC()
	l.DecidedAt = &now

	updated, err := qtx.UpdateDecision(ctx, l)
	if err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !updated {
		// Another approver resolved it first; the rollback also discards any
		// balance debit staged in this transaction.
		return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyResolved
	}

	s.stageDecisionEvent(ctx, tx, l, actorID)

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.Int("paid_days", l.DurationWeekdays),
		zap.Int("lop_days", l.LopDays),
	)

	return mapToResponse(*l, false), nil
}

// reevaluate computes the final split and performs the balance debit. The day
// count requested never changes after submission; only the paid/LOP division
// is redistributed against the balance as read now. The debit is a
// compare-and-swap on the read value so two concurrent approvals for the same
// employee can never both consume the same days.
func (s *service) reevaluate(ctx context.Context, qtx Repository, l *LeaveRequest) (int, int, error) {
	employeeID := l.EmployeeID.String()
	leaveID := l.ID.String()
	totalRequested := l.TotalRequested()

	for attempt := 1; attempt <= maxDebitAttempts; attempt++ {
		balance, err := qtx.GetTotalLeavesBalance(ctx, employeeID)
		if err != nil {
			return 0, 0, err
		}
		pendingOthers, err := qtx.SumPendingPaidDays(ctx, employeeID, &leaveID)
		if err != nil {
			return 0, 0, err
		}

		effective := EffectiveBalance(balance, pendingOthers)
		finalPaid := totalRequested
		if effective < finalPaid {
			finalPaid = effective
		}
		finalLop := totalRequested - finalPaid

		if finalPaid == 0 {
			return finalPaid, finalLop, nil
		}

		debited, err := qtx.DebitBalance(ctx, employeeID, balance, finalPaid)
		if err != nil {
			return 0, 0, err
		}
		if debited {
			return finalPaid, finalLop, nil
		}

		s.logger.Warn("balance debit lost race, retrying",
			zap.String("leave_id", leaveID),
			zap.String("employee_id", employeeID),
			zap.Int("attempt", attempt),
		)
	}

	return 0, 0, leaveerrors.ErrBalanceConflict
}

// stageDecisionEvent writes the decision event to the outbox in the same
// transaction. Notification delivery is fire-and-forget: a staging failure is
// logged and swallowed, it never blocks the decision itself.
func (s *service) stageDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, actorID string) {
	if s.outbox == nil {
		return
	}

	event := events.LeaveDecidedEvent{
		EventType:  "leave_decided",
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		OrgID:      l.OrgID.String(),
		DecidedBy:  actorID,
		Status:     l.Status,
		FromDate:   l.FromDate.Format(calendar.DateLayout),
		ToDate:     l.ToDate.Format(calendar.DateLayout),
		PaidDays:   l.DurationWeekdays,
		LopDays:    l.LopDays,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave decided event failed", zap.Error(err))
		return
	}

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("stage leave decided event failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) Delete(ctx context.Context, orgID, actorID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrLeaveAlreadyResolved
	}
	if l.EmployeeID.String() != actorID {
		return leaveerrors.ErrNotRequestOwner
	}

	// No balance refund: nothing was debited at submission, so there is
	// nothing to give back.
	if err := qtx.Delete(ctx, orgID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// effectiveBalance reads the stored balance and subtracts the paid-day totals
// of the employee's pending requests. Never negative, never cached.
func (s *service) effectiveBalance(ctx context.Context, qtx Repository, employeeID string, excludeID *string) (int, error) {
	balance, err := qtx.GetTotalLeavesBalance(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	pendingPaid, err := qtx.SumPendingPaidDays(ctx, employeeID, excludeID)
	if err != nil {
		return 0, err
	}
	return EffectiveBalance(balance, pendingPaid), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(calendar.DateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest, withBreakdown bool) LeaveResponse {
	resp := LeaveResponse{
		ID:               l.ID.String(),
		OrgID:            l.OrgID.String(),
		EmployeeID:       l.EmployeeID.String(),
		LeaveType:        l.LeaveType,
		FromDate:         l.FromDate.Format(calendar.DateLayout),
		ToDate:           l.ToDate.Format(calendar.DateLayout),
		SelectedDates:    l.SelectedDates,
		Reason:           l.Reason,
		Status:           l.Status,
		DurationWeekdays: l.DurationWeekdays,
		LopDays:          l.LopDays,
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	if withBreakdown {
		resp.Breakdown = mapBreakdown(l)
	}
	return resp
}

func mapBreakdown(l LeaveRequest) []DayEntryResponse {
	var entries []DayEntry
	if l.IsSpecificDates() {
		dates, err := l.SelectedDates.Dates()
		if err != nil {
			return nil
		}
		entries = DatesBreakdown(dates, l.DurationWeekdays)
	} else {
		entries = RangeBreakdown(l.FromDate, l.ToDate, l.DurationWeekdays)
	}

	resp := make([]DayEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = DayEntryResponse{
			Date:   e.Date.Format(calendar.DateLayout),
			Status: string(e.Status),
		}
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l, false)
	}
	return resp
}
