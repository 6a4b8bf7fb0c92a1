package leave

import (
	"context"
	"database/sql"
	"errors"

	"talent-ops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByOrg(ctx context.Context, orgID string) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, orgID, employeeID string) ([]LeaveRequest, error)
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*LeaveRequest, error)
	Delete(ctx context.Context, orgID, id string) error

	// SumPendingPaidDays returns the paid-day total of the employee's pending
	// requests, optionally excluding the request currently being re-evaluated.
	SumPendingPaidDays(ctx context.Context, employeeID string, excludeID *string) (int, error)

	// GetTotalLeavesBalance reads the stored balance. A missing profile row
	// reads as zero: on absent data the engine fails toward loss of pay,
	// never toward granting paid leave.
	GetTotalLeavesBalance(ctx context.Context, employeeID string) (int, error)

	// DebitBalance decrements the balance only if it still holds the value
	// the caller read (compare-and-swap). Returns false when the update lost
	// a concurrent race and the caller must re-read and retry.
	DebitBalance(ctx context.Context, employeeID string, expected, debit int) (bool, error)

	// UpdateDecision finalizes a pending request in one conditional update.
	// Returns false when the row was no longer pending.
	UpdateDecision(ctx context.Context, l *LeaveRequest) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("from_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, orgID, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Order("from_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) SumPendingPaidDays(ctx context.Context, employeeID string, excludeID *string) (int, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusPending)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var total sql.NullInt64
	if err := db.Select("SUM(duration_weekdays)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

func (r *repository) GetTotalLeavesBalance(ctx context.Context, employeeID string) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).
		Table("profiles").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Select("total_leaves_balance").
		Take(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return balance, err
}

func (r *repository) DebitBalance(ctx context.Context, employeeID string, expected, debit int) (bool, error) {
	query := `
UPDATE profiles
SET total_leaves_balance = total_leaves_balance - $1,
	updated_at = NOW()
WHERE id = $2
	AND total_leaves_balance = $3
	AND deleted_at IS NULL
`
	exec, err := r.execer()
	if err != nil {
		return false, err
	}

	res, err := exec.ExecContext(ctx, query, debit, employeeID, expected)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) UpdateDecision(ctx context.Context, l *LeaveRequest) (bool, error) {
	query := `
UPDATE leave_requests
SET status = $2,
	duration_weekdays = $3,
	lop_days = $4,
	decided_by = $5,
	decided_at = NOW(),
	updated_at = NOW()
WHERE id = $1
	AND status = $6
	AND deleted_at IS NULL
`
	exec, err := r.execer()
	if err != nil {
		return false, err
	}

	res, err := exec.ExecContext(ctx, query,
		l.ID, l.Status, l.DurationWeekdays, l.LopDays, l.DecidedBy, StatusPending,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) execer() (interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	return r.db.DB()
}
