package profile

import (
	"context"
	"database/sql"

	"talent-ops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=profile_repo.go -destination=mock/profile_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Profile) error
	FindAllByOrg(ctx context.Context, orgID string) ([]Profile, error)
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, orgID, id string) error
	FindRole(ctx context.Context, orgID, id string) (string, error)

	// SumPendingPaidDays reads the paid-day total of the employee's pending
	// leave requests for the effective-balance preview.
	SumPendingPaidDays(ctx context.Context, employeeID string) (int, error)
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

func (r *repository) Create(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("full_name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Delete(&Profile{}, "id = ?", id).Error
}

func (r *repository) FindRole(ctx context.Context, orgID, id string) (string, error) {
	var role string
	err := r.db.WithContext(ctx).
		Model(&Profile{}).
		Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		Select("role").
		Take(&role).Error
	return role, err
}

func (r *repository) SumPendingPaidDays(ctx context.Context, employeeID string) (int, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Where("employee_id = ?", employeeID).
		Where("status = ?", "PENDING").
		Where("deleted_at IS NULL").
		Select("SUM(duration_weekdays)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}
