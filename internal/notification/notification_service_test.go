package notification_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"talent-ops/internal/events"
	"talent-ops/internal/leave"
	"talent-ops/internal/notification"
	notificationerrors "talent-ops/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepository struct {
	createFn            func(ctx context.Context, n *notification.Notification) error
	findAllByReceiverFn func(ctx context.Context, orgID, receiverID string) ([]notification.Notification, error)
	markReadFn          func(ctx context.Context, orgID, receiverID, id string) (bool, error)
}

func (f *fakeNotificationRepository) WithTx(tx *sql.Tx) notification.Repository { return f }

func (f *fakeNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepository) FindAllByReceiver(ctx context.Context, orgID, receiverID string) ([]notification.Notification, error) {
	if f.findAllByReceiverFn != nil {
		return f.findAllByReceiverFn(ctx, orgID, receiverID)
	}
	return nil, nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, orgID, receiverID, id string) (bool, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, orgID, receiverID, id)
	}
	return true, nil
}

func TestNotificationService_Send(t *testing.T) {
	t.Run("success defaults type to general", func(t *testing.T) {
		var created *notification.Notification
		repo := &fakeNotificationRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				created = n
				return nil
			},
		}
		svc := notification.NewService(repo)

		resp, err := svc.Send(context.Background(), uuid.New().String(), notification.SendNotificationRequest{
			ReceiverID: uuid.New().String(),
			SenderID:   uuid.New().String(),
			SenderName: "Ana Silva",
			Message:    "Welcome aboard",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "general", created.Type)
		assert.Equal(t, "Welcome aboard", resp.Message)
	})

	t.Run("negative invalid receiver id", func(t *testing.T) {
		svc := notification.NewService(&fakeNotificationRepository{})

		_, err := svc.Send(context.Background(), uuid.New().String(), notification.SendNotificationRequest{
			ReceiverID: "not-a-uuid",
			SenderID:   uuid.New().String(),
			Message:    "hello",
		})

		assert.ErrorIs(t, err, notificationerrors.ErrInvalidReceiverID)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markReadFn: func(ctx context.Context, orgID, receiverID, id string) (bool, error) {
				return true, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkRead(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String())

		assert.NoError(t, err)
	})

	t.Run("negative not owned or missing", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markReadFn: func(ctx context.Context, orgID, receiverID, id string) (bool, error) {
				return false, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkRead(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String())

		assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})

	t.Run("negative repo failure", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markReadFn: func(ctx context.Context, orgID, receiverID, id string) (bool, error) {
				return false, errors.New("db down")
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkRead(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String())

		assert.Error(t, err)
		assert.NotErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})
}

func TestNotificationService_RecordLeaveDecision(t *testing.T) {
	orgID := uuid.New().String()
	employeeID := uuid.New().String()
	approverID := uuid.New().String()

	t.Run("approved with loss of pay names the converted days", func(t *testing.T) {
		var created *notification.Notification
		repo := &fakeNotificationRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				created = n
				return nil
			},
		}
		svc := notification.NewService(repo)

		_, err := svc.RecordLeaveDecision(context.Background(), events.LeaveDecidedEvent{
			OrgID:      orgID,
			EmployeeID: employeeID,
			DecidedBy:  approverID,
			Status:     leave.StatusApproved,
			FromDate:   "2024-01-08",
			ToDate:     "2024-01-12",
			PaidDays:   2,
			LopDays:    3,
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, notification.TypeLeaveStatus, created.Type)
		assert.Equal(t, employeeID, created.ReceiverID.String())
		assert.Equal(t,
			"Your leave request for 2024-01-08 to 2024-01-12 has been Approved. Note: 3 days were processed as Loss of Pay due to insufficient balance.",
			created.Message,
		)
	})

	t.Run("fully paid approval omits the loss of pay note", func(t *testing.T) {
		msg := notification.LeaveDecisionMessage(events.LeaveDecidedEvent{
			Status:   leave.StatusApproved,
			FromDate: "2024-01-08",
			ToDate:   "2024-01-12",
			PaidDays: 5,
		})
		assert.Equal(t, "Your leave request for 2024-01-08 to 2024-01-12 has been Approved.", msg)
	})

	t.Run("single day request uses a single date", func(t *testing.T) {
		msg := notification.LeaveDecisionMessage(events.LeaveDecidedEvent{
			Status:   leave.StatusApproved,
			FromDate: "2024-01-08",
			ToDate:   "2024-01-08",
			PaidDays: 1,
		})
		assert.Equal(t, "Your leave request for 2024-01-08 has been Approved.", msg)
	})

	t.Run("rejection never mentions loss of pay", func(t *testing.T) {
		msg := notification.LeaveDecisionMessage(events.LeaveDecidedEvent{
			Status:   leave.StatusRejected,
			FromDate: "2024-01-08",
			ToDate:   "2024-01-12",
			LopDays:  3,
		})
		assert.Equal(t, "Your leave request for 2024-01-08 to 2024-01-12 has been Rejected.", msg)
	})
}
