package notification

import (
	"context"
	"fmt"
	"time"

	"talent-ops/internal/events"
	"talent-ops/internal/leave"
	notificationerrors "talent-ops/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Send(ctx context.Context, orgID string, req SendNotificationRequest) (NotificationResponse, error)
	GetForReceiver(ctx context.Context, orgID, receiverID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, orgID, receiverID, id string) error

	// RecordLeaveDecision materializes the requester-facing message for a
	// resolved leave request. Invoked by the Kafka consumer, so delivery is
	// asynchronous and can never block or roll back the decision itself.
	RecordLeaveDecision(ctx context.Context, event events.LeaveDecidedEvent) (NotificationResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Send(ctx context.Context, orgID string, req SendNotificationRequest) (NotificationResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidOrgID
	}
	receiverUUID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidReceiverID
	}
	senderUUID, err := uuid.Parse(req.SenderID)
	if err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidReceiverID
	}

	n := &Notification{
		ID:         uuid.New(),
		OrgID:      orgUUID,
		ReceiverID: receiverUUID,
		SenderID:   senderUUID,
		SenderName: req.SenderName,
		Message:    req.Message,
		Type:       req.Type,
	}
	if n.Type == "" {
		n.Type = "general"
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification failed", zap.Error(err))
		return NotificationResponse{}, err
	}

	return mapToResponse(*n), nil
}

func (s *service) GetForReceiver(ctx context.Context, orgID, receiverID string) ([]NotificationResponse, error) {
	notifications, err := s.repo.FindAllByReceiver(ctx, orgID, receiverID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, orgID, receiverID, id string) error {
	updated, err := s.repo.MarkRead(ctx, orgID, receiverID, id)
	if err != nil {
		return err
	}
	if !updated {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (s *service) RecordLeaveDecision(ctx context.Context, event events.LeaveDecidedEvent) (NotificationResponse, error) {
	return s.Send(ctx, event.OrgID, SendNotificationRequest{
		ReceiverID: event.EmployeeID,
		SenderID:   event.DecidedBy,
		SenderName: "Team Lead",
		Message:    LeaveDecisionMessage(event),
		Type:       TypeLeaveStatus,
	})
}

// LeaveDecisionMessage composes the requester-facing text. When days were
// converted to loss of pay at approval time, the message must say how many.
func LeaveDecisionMessage(event events.LeaveDecidedEvent) string {
	dates := event.FromDate
	if event.ToDate != event.FromDate {
		dates = fmt.Sprintf("%s to %s", event.FromDate, event.ToDate)
	}

	verdict := "Rejected"
	if event.Status == leave.StatusApproved {
		verdict = "Approved"
	}

	msg := fmt.Sprintf("Your leave request for %s has been %s.", dates, verdict)
	if event.Status == leave.StatusApproved && event.LopDays > 0 {
		msg += fmt.Sprintf(" Note: %d days were processed as Loss of Pay due to insufficient balance.", event.LopDays)
	}
	return msg
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID.String(),
		OrgID:      n.OrgID.String(),
		ReceiverID: n.ReceiverID.String(),
		SenderID:   n.SenderID.String(),
		SenderName: n.SenderName,
		Message:    n.Message,
		Type:       n.Type,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
}
