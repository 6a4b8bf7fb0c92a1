package notification

import (
	"context"
	"database/sql"

	"talent-ops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindAllByReceiver(ctx context.Context, orgID, receiverID string) ([]Notification, error)
	MarkRead(ctx context.Context, orgID, receiverID, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindAllByReceiver(ctx context.Context, orgID, receiverID string) ([]Notification, error) {
	var notifications []Notification
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *repository) MarkRead(ctx context.Context, orgID, receiverID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(orgID)).
		Where("receiver_id = ?", receiverID).
		Where("id = ?", id).
		Update("is_read", true)
	return res.RowsAffected == 1, res.Error
}
