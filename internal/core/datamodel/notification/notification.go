package notification

import "time"

// Notification is the remote-store representation of a user notification.
// Rows are only ever inserted or have their read flag flipped.
type Notification struct {
	ID          string    `gorm:"primaryKey"`
	RecipientID string    `gorm:"column:recipient_id;index"`
	AuthorName  string    `gorm:"column:author_name"`
	Title       string    `gorm:"column:title"`
	Message     string    `gorm:"column:message"`
	IsRead      bool      `gorm:"column:is_read;default:false"`
	RelatedID   string    `gorm:"column:related_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
