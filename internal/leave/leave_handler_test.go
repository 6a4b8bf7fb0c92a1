package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talent-ops/internal/leave"
	leaveerrors "talent-ops/internal/leave/errors"
	"talent-ops/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn         func(ctx context.Context, orgID, actorID string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	getAllFn         func(ctx context.Context, orgID string) ([]leave.LeaveResponse, error)
	getForEmployeeFn func(ctx context.Context, orgID, employeeID string) ([]leave.LeaveResponse, error)
	getByIDFn        func(ctx context.Context, orgID, id string) (leave.LeaveResponse, error)
	decideFn         func(ctx context.Context, orgID, actorID, id string, req leave.DecisionRequest) (leave.LeaveResponse, error)
	deleteFn         func(ctx context.Context, orgID, actorID, id string) error
}

func (f *fakeLeaveService) Submit(ctx context.Context, orgID, actorID string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, orgID, actorID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, orgID string) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, orgID)
}
func (f *fakeLeaveService) GetForEmployee(ctx context.Context, orgID, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getForEmployeeFn(ctx, orgID, employeeID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, orgID, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, orgID, id)
}
func (f *fakeLeaveService) Decide(ctx context.Context, orgID, actorID, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
	return f.decideFn(ctx, orgID, actorID, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, orgID, actorID, id string) error {
	return f.deleteFn(ctx, orgID, actorID, id)
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		orgID := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, oid, aid string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, orgID, oid)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "CASUAL", req.LeaveType)
				return leave.LeaveResponse{
					ID:               uuid.New().String(),
					OrgID:            oid,
					EmployeeID:       aid,
					LeaveType:        req.LeaveType,
					FromDate:         req.FromDate,
					ToDate:           req.ToDate,
					Status:           leave.StatusPending,
					DurationWeekdays: 2,
					LopDays:          3,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"CASUAL","from_date":"2024-01-08","to_date":"2024-01-12","reason":"Family event"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("org_id", orgID)
		c.Set("employee_id", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusPending, got.Status)
		assert.Equal(t, 2, got.DurationWeekdays)
		assert.Equal(t, 3, got.LopDays)
	})

	t.Run("success uses user_id_validated fallback", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, oid, aid string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				return leave.LeaveResponse{ID: uuid.New().String(), Status: leave.StatusPending}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"SICK","from_date":"2024-01-08","to_date":"2024-01-08"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("org_id", uuid.New().String())
		c.Set("user_id_validated", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"SABBATICAL","from_date":"2024-01-08","to_date":"2024-01-12"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative service error masked as internal", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, oid, aid string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("create failed")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"CASUAL","from_date":"2024-01-08","to_date":"2024-01-12"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("org_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success without filter", func(t *testing.T) {
		orgID := uuid.New().String()
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, oid string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, orgID, oid)
				return []leave.LeaveResponse{
					{ID: uuid.New().String(), OrgID: oid, LeaveType: "SICK", Status: leave.StatusPending},
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)
		c.Set("org_id", orgID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})

	t.Run("success with employee filter", func(t *testing.T) {
		orgID := uuid.New().String()
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			getForEmployeeFn: func(ctx context.Context, oid, eid string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, orgID, oid)
				assert.Equal(t, employeeID, eid)
				return nil, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?employee_id="+employeeID, nil)
		c.Set("org_id", orgID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, oid string) ([]leave.LeaveResponse, error) {
				return nil, errors.New("db error")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)
		c.Set("org_id", uuid.New().String())

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	t.Run("approve success", func(t *testing.T) {
		orgID := uuid.New().String()
		approverID := uuid.New().String()
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, oid, aid, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, orgID, oid)
				assert.Equal(t, approverID, aid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.DecisionApprove, req.Decision)
				return leave.LeaveResponse{ID: id, OrgID: oid, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/decision", strings.NewReader(`{"decision":"approve"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("org_id", orgID)
		c.Set("employee_id", approverID)

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("negative decision outside enum", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/123/decision", strings.NewReader(`{"decision":"defer"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "123"}}

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative balance conflict surfaces 503", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, oid, aid, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrBalanceConflict
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/123/decision", strings.NewReader(`{"decision":"approve"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "123"}}
		c.Set("org_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Decide(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
	})

	t.Run("negative already resolved surfaces conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, oid, aid, id string, req leave.DecisionRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveAlreadyResolved
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/123/decision", strings.NewReader(`{"decision":"reject"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "123"}}
		c.Set("org_id", uuid.New().String())
		c.Set("employee_id", uuid.New().String())

		h.Decide(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		orgID := uuid.New().String()
		actorID := uuid.New().String()
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, oid, aid, id string) error {
				assert.Equal(t, orgID, oid)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, leaveID, id)
				return nil
			},
		}

		h := leave.NewHandler(svc)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("org_id", orgID)
			c.Set("employee_id", actorID)
			c.Next()
		})
		r.DELETE("/leaves/:id", h.Delete)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/leaves/"+leaveID, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative non-owner gets forbidden", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, oid, aid, id string) error {
				return leaveerrors.ErrNotRequestOwner
			},
		}

		h := leave.NewHandler(svc)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("org_id", uuid.New().String())
			c.Set("employee_id", uuid.New().String())
			c.Next()
		})
		r.DELETE("/leaves/:id", h.Delete)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/leaves/"+uuid.New().String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}
