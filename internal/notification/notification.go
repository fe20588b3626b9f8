package notification

import (
	"time"

	notificationDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/notification"
)

// Notification informs a technician that someone else changed one of
// their records. Created only by the dispatcher; afterwards the read flag
// is the sole mutable field.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	AuthorName  string    `json:"authorName"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"isRead"`
	RelatedID   string    `json:"relatedId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (n *Notification) Clone() *Notification {
	clone := *n
	return &clone
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		AuthorName:  n.AuthorName,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		AuthorName:  n.AuthorName,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt,
	}
}

func FromDataModelSlice(ns []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(ns))
	for i, n := range ns {
		result[i] = FromDataModel(n)
	}
	return result
}
