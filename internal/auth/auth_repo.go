package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetProfileRef resolves the employee profile an account is linked to.
	GetProfileRef(ctx context.Context, employeeID uuid.UUID) (*ProfileRef, error)
}

// ProfileRef is the slice of the profile row the auth flow needs.
type ProfileRef struct {
	ID    uuid.UUID
	OrgID uuid.UUID
	Role  string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetProfileRef(ctx context.Context, employeeID uuid.UUID) (*ProfileRef, error) {
	var ref ProfileRef
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.id, profiles.org_id, profiles.role").
		Where("profiles.id = ? AND profiles.deleted_at IS NULL", employeeID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// resolveEffectiveRole prefers the role on the profile row over the one frozen
// on the account at registration time, so role changes take effect on the next
// login without touching the users table.
func (r *repository) resolveEffectiveRole(ctx context.Context, user *User) error {
	if user.EmployeeID == nil || *user.EmployeeID == uuid.Nil {
		if user.Role == "" {
			user.Role = "EMPLOYEE"
		}
		user.Role = strings.ToUpper(strings.TrimSpace(user.Role))
		return nil
	}

	var roleName string
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.role").
		Where("profiles.id = ?", *user.EmployeeID).
		Where("profiles.org_id = ?", user.OrgID).
		Where("profiles.deleted_at IS NULL").
		Limit(1).
		Scan(&roleName).Error
	if err != nil {
		return err
	}

	if strings.TrimSpace(roleName) == "" {
		roleName = user.Role
	}
	if strings.TrimSpace(roleName) == "" {
		roleName = "EMPLOYEE"
	}
	user.Role = strings.ToUpper(strings.TrimSpace(roleName))
	return nil
}
