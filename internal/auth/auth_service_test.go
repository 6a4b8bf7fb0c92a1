package auth_test

import (
	"context"
	"errors"
	"testing"

	"talent-ops/internal/auth"
	autherrors "talent-ops/internal/auth/errors"
	"talent-ops/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthRepository struct {
	createFn        func(ctx context.Context, user *auth.User) error
	getByEmailFn    func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	getProfileRefFn func(ctx context.Context, employeeID uuid.UUID) (*auth.ProfileRef, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, errors.New("not found")
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}

func (f *fakeAuthRepository) GetProfileRef(ctx context.Context, employeeID uuid.UUID) (*auth.ProfileRef, error) {
	if f.getProfileRefFn != nil {
		return f.getProfileRefFn(ctx, employeeID)
	}
	return nil, errors.New("not found")
}

type fakeRBACService struct {
	loadOrgPolicyFn func(orgID string) error
}

func (f *fakeRBACService) LoadOrgPolicy(orgID string) error {
	if f.loadOrgPolicyFn != nil {
		return f.loadOrgPolicyFn(orgID)
	}
	return nil
}

func (f *fakeRBACService) Enforce(req rbac.EnforceRequest) (bool, error) {
	return true, nil
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	employeeID := uuid.New()
	orgID := uuid.New()
	user := &auth.User{
		ID:         uuid.New(),
		OrgID:      orgID,
		EmployeeID: &employeeID,
		Email:      "lead@example.com",
		Password:   string(pw),
		Role:       "TEAM_LEAD",
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, user.Email, email)
				return user, nil
			},
		}
		loaded := ""
		rbacSvc := &fakeRBACService{loadOrgPolicyFn: func(orgID string) error {
			loaded = orgID
			return nil
		}}
		service := auth.NewService(repo, rbacSvc)

		token, refreshToken, resp, err := service.Login(ctx, user.Email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, orgID.String(), resp.OrgID)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.Equal(t, "TEAM_LEAD", resp.Role)
		assert.Equal(t, orgID.String(), loaded)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		service := auth.NewService(repo, &fakeRBACService{})

		_, _, _, err := service.Login(ctx, user.Email, "wrongpass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		service := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, _, _, err := service.Login(ctx, "ghost@example.com", password)

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		orgID := uuid.New()
		eID := uuid.New()
		req := auth.RegisterRequest{
			EmployeeID: eID.String(),
			Email:      "user@example.com",
			Name:       "Dian Kusuma",
			Password:   "password123",
		}

		var created *auth.User
		repo := &fakeAuthRepository{
			getProfileRefFn: func(ctx context.Context, employeeID uuid.UUID) (*auth.ProfileRef, error) {
				assert.Equal(t, eID, employeeID)
				return &auth.ProfileRef{ID: eID, OrgID: orgID, Role: "EMPLOYEE"}, nil
			},
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		service := auth.NewService(repo, &fakeRBACService{})

		resp, err := service.Register(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, req.Email, resp.Email)
		assert.Equal(t, orgID.String(), resp.OrgID)
		assert.Equal(t, "EMPLOYEE", resp.Role)
		assert.NotNil(t, created)
		assert.NotEqual(t, req.Password, created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(req.Password)))
	})

	t.Run("negative profile not found", func(t *testing.T) {
		service := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, err := service.Register(ctx, auth.RegisterRequest{
			EmployeeID: uuid.New().String(),
			Email:      "user@example.com",
			Name:       "Ghost",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		eID := uuid.New()
		repo := &fakeAuthRepository{
			getProfileRefFn: func(ctx context.Context, employeeID uuid.UUID) (*auth.ProfileRef, error) {
				return &auth.ProfileRef{ID: eID, OrgID: uuid.New(), Role: "EMPLOYEE"}, nil
			},
			createFn: func(ctx context.Context, user *auth.User) error {
				return errors.New("duplicate key value")
			},
		}
		service := auth.NewService(repo, &fakeRBACService{})

		_, err := service.Register(ctx, auth.RegisterRequest{
			EmployeeID: eID.String(),
			Email:      "dup@example.com",
			Name:       "Dup",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	employeeID := uuid.New()
	user := &auth.User{
		ID:         uuid.New(),
		OrgID:      uuid.New(),
		EmployeeID: &employeeID,
		Email:      "lead@example.com",
		Password:   "irrelevant",
		Role:       "TEAM_LEAD",
	}

	t.Run("success round trip", func(t *testing.T) {
		pw, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(pw)

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, user.ID, id)
				return user, nil
			},
		}
		service := auth.NewService(repo, &fakeRBACService{})

		_, refreshToken, _, err := service.Login(ctx, user.Email, "password123")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := service.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		service := auth.NewService(&fakeAuthRepository{}, &fakeRBACService{})

		_, _, _, err := service.RefreshToken(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}
