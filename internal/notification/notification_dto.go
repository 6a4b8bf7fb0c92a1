package notification

type SendNotificationRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	SenderID   string `json:"sender_id" binding:"required,uuid"`
	SenderName string `json:"sender_name"`
	Message    string `json:"message" binding:"required"`
	Type       string `json:"type" binding:"omitempty,oneof=general leave_status announcement"`
}

type NotificationResponse struct {
	ID         string `json:"id"`
	OrgID      string `json:"org_id"`
	ReceiverID string `json:"receiver_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}
