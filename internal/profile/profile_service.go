package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	profileerrors "talent-ops/internal/profile/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ProfileOptionsKeyPrefix = "profiles:options:"

func GetProfileOptionsKey(orgID string) string {
	return ProfileOptionsKeyPrefix + orgID
}

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, orgID string, req CreateProfileRequest) (ProfileResponse, error)
	GetAll(ctx context.Context, orgID string) ([]ProfileResponse, error)
	GetOptions(ctx context.Context, orgID string) ([]ProfileResponse, error)
	GetByID(ctx context.Context, orgID, id string) (ProfileResponse, error)
	Update(ctx context.Context, orgID, id string, req UpdateProfileRequest) (ProfileResponse, error)
	Delete(ctx context.Context, orgID, id string) error
	BalanceSummary(ctx context.Context, orgID, id string) (BalanceSummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, orgID string, req CreateProfileRequest) (ProfileResponse, error) {
	s.logger.Debug("create profile requested",
		zap.String("org_id", orgID),
		zap.String("email", req.Email),
	)

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidOrgID
	}

	p := &Profile{
		ID:                 uuid.New(),
		OrgID:              orgUUID,
		FullName:           req.FullName,
		Email:              req.Email,
		Role:               req.Role,
		TotalLeavesBalance: req.TotalLeavesBalance,
		MonthlyLeaveQuota:  req.MonthlyLeaveQuota,
	}
	if p.Role == "" {
		p.Role = "EMPLOYEE"
	}
	if req.TeamID != "" {
		teamUUID, err := uuid.Parse(req.TeamID)
		if err != nil {
			return ProfileResponse{}, profileerrors.ErrInvalidProfileID
		}
		p.TeamID = &teamUUID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create profile persist failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, orgID)
	s.logger.Info("create profile success",
		zap.String("profile_id", p.ID.String()),
		zap.String("org_id", orgID),
	)

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]ProfileResponse, error) {
	profiles, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(profiles), nil
}

// GetOptions serves the member pickers in the UI. Master data, so it is
// cached for an hour and deduplicated with singleflight while cold.
func (s *service) GetOptions(ctx context.Context, orgID string) ([]ProfileResponse, error) {
	cacheKey := GetProfileOptionsKey(orgID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []ProfileResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		profiles, err := s.repo.FindAllByOrg(ctx, orgID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(profiles)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]ProfileResponse), nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (ProfileResponse, error) {
	p, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, orgID, id string, req UpdateProfileRequest) (ProfileResponse, error) {
	p, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	p.FullName = req.FullName
	if req.Role != "" {
		p.Role = req.Role
	}
	p.MonthlyLeaveQuota = req.MonthlyLeaveQuota
	if req.TeamID != "" {
		teamUUID, err := uuid.Parse(req.TeamID)
		if err != nil {
			return ProfileResponse{}, profileerrors.ErrInvalidProfileID
		}
		p.TeamID = &teamUUID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update profile persist failed",
			zap.String("profile_id", id),
			zap.Error(err),
		)
		return ProfileResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, orgID)
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, orgID, id string) error {
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidateOptions(ctx, orgID)
	return nil
}

// BalanceSummary is deliberately uncached: the pending aggregate must always
// be recomputed from current data so the approver's preview is as fresh as
// the query that produced it. Singleflight only collapses identical
// concurrent reads.
func (s *service) BalanceSummary(ctx context.Context, orgID, id string) (BalanceSummaryResponse, error) {
	v, err, _ := s.sf.Do("balance:"+id, func() (interface{}, error) {
		p, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
		if err != nil {
			return BalanceSummaryResponse{}, mapRepositoryError(err)
		}

		pendingPaid, err := s.repo.SumPendingPaidDays(ctx, id)
		if err != nil {
			return BalanceSummaryResponse{}, err
		}

		effective := p.TotalLeavesBalance - pendingPaid
		if effective < 0 {
			effective = 0
		}

		return BalanceSummaryResponse{
			EmployeeID:         id,
			TotalLeavesBalance: p.TotalLeavesBalance,
			PendingPaidDays:    pendingPaid,
			EffectiveBalance:   effective,
		}, nil
	})
	if err != nil {
		return BalanceSummaryResponse{}, err
	}
	return v.(BalanceSummaryResponse), nil
}

func (s *service) invalidateOptions(ctx context.Context, orgID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetProfileOptionsKey(orgID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("invalidate profile options cache failed",
			zap.String("org_id", orgID),
			zap.Error(err),
		)
	}
}

func mapToResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:                 p.ID.String(),
		OrgID:              p.OrgID.String(),
		FullName:           p.FullName,
		Email:              p.Email,
		Role:               p.Role,
		TotalLeavesBalance: p.TotalLeavesBalance,
		MonthlyLeaveQuota:  p.MonthlyLeaveQuota,
	}
	if p.TeamID != nil {
		v := p.TeamID.String()
		resp.TeamID = &v
	}
	return resp
}

func mapToListResponse(profiles []Profile) []ProfileResponse {
	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = mapToResponse(p)
	}
	return resp
}
