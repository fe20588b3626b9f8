package postgres

import (
	"context"

	notificationDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/notification"
	"github.com/airotrack/fieldops/internal/notification"
	"gorm.io/gorm"
)

// NotificationRepository persists notifications using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) All(ctx context.Context) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *NotificationRepository) Insert(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(notification.ToDataModel(n)).Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
