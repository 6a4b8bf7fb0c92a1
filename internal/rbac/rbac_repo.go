package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(orgID string) ([]EmployeeRoleRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type EmployeeRoleRow struct {
	EmployeeID string
	Role       string
}

func (r *repository) GetEmployeeRoles(orgID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow

	err := r.db.
		Table("profiles").
		Select("profiles.id AS employee_id, profiles.role").
		Where("profiles.org_id = ? AND profiles.deleted_at IS NULL", orgID).
		Scan(&result).Error

	return result, err
}
