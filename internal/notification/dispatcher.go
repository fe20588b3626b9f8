package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/airotrack/fieldops/internal/core/events"
	"github.com/google/uuid"
)

// Repository is the remote persistence contract for notifications.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

// Store is the local optimistic view of the notification collection,
// implemented by the coordinator state. Offline reports whether the
// remote store is currently unreachable; the dispatcher then keeps its
// writes local only.
type Store interface {
	PrependNotification(n *Notification)
	NotificationByID(id string) *Notification
	MarkNotificationRead(id string) bool
	MarkAllNotificationsRead(recipientID string) []string
	Offline() bool
}

// SuppressedActor identifies the account whose mutations never produce
// notifications, matched by id or by exact display name.
type SuppressedActor struct {
	ID   string
	Name string
}

func (s SuppressedActor) Matches(actorID, actorName string) bool {
	return (s.ID != "" && actorID == s.ID) || (s.Name != "" && actorName == s.Name)
}

// Dispatcher turns privileged cross-technician mutations into user-facing
// notifications. Persistence is fire-and-forget: a failed remote write is
// logged and the local copy stays.
type Dispatcher struct {
	suppressed SuppressedActor
	store      Store
	repo       Repository
	logger     *slog.Logger
}

func NewDispatcher(suppressed SuppressedActor, store Store, repo Repository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		suppressed: suppressed,
		store:      store,
		repo:       repo,
		logger:     logger,
	}
}

// Register subscribes the dispatcher to all mutation events on the bus.
func (d *Dispatcher) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeServiceMutated, d.handleMutation)
	bus.Subscribe(events.EventTypeReimbursementMutated, d.handleMutation)
	bus.Subscribe(events.EventTypeTrackerMutated, d.handleMutation)
}

func (d *Dispatcher) handleMutation(ctx context.Context, event events.Event) error {
	mutation, ok := event.(*events.RecordMutated)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}
	d.Dispatch(ctx, mutation)
	return nil
}

// Dispatch applies the suppression rules and, when none hold, creates the
// notification for the record's owning technician.
func (d *Dispatcher) Dispatch(ctx context.Context, m *events.RecordMutated) {
	if d.suppressed.Matches(m.ActorID, m.ActorName) {
		return
	}
	if m.ActorID == m.OwnerID {
		return
	}
	if m.OwnerID == "" {
		return
	}

	title, message := shape(m)
	n := &Notification{
		ID:          uuid.NewString(),
		RecipientID: m.OwnerID,
		AuthorName:  m.ActorName,
		Title:       title,
		Message:     message,
		RelatedID:   m.RecordID,
		CreatedAt:   time.Now(),
	}

	d.store.PrependNotification(n)

	if d.skipPersist() {
		return
	}
	if err := d.repo.Insert(ctx, n); err != nil {
		d.logger.Error("notification persist failed",
			"notification_id", n.ID, "recipient_id", n.RecipientID, "error", err)
	}
}

// MarkRead flips one notification's read flag. Already-read notifications
// are a no-op, including against the remote store.
func (d *Dispatcher) MarkRead(ctx context.Context, id string) {
	if !d.store.MarkNotificationRead(id) {
		return
	}
	if d.skipPersist() {
		return
	}
	if err := d.repo.MarkRead(ctx, id); err != nil {
		d.logger.Error("mark-read persist failed", "notification_id", id, "error", err)
	}
}

// MarkAllRead flips every unread notification of one recipient.
func (d *Dispatcher) MarkAllRead(ctx context.Context, recipientID string) {
	changed := d.store.MarkAllNotificationsRead(recipientID)
	if len(changed) == 0 || d.skipPersist() {
		return
	}
	if err := d.repo.MarkAllRead(ctx, recipientID); err != nil {
		d.logger.Error("mark-all-read persist failed", "recipient_id", recipientID, "error", err)
	}
}

func (d *Dispatcher) skipPersist() bool {
	return d.repo == nil || d.store.Offline()
}

func shape(m *events.RecordMutated) (title, message string) {
	var entity string
	switch m.EventType() {
	case events.EventTypeServiceMutated:
		entity = "Service"
	case events.EventTypeReimbursementMutated:
		entity = "Reimbursement"
	case events.EventTypeTrackerMutated:
		entity = "Tracker"
	}

	switch m.Kind {
	case events.MutationCreated:
		title = entity + " added"
		message = fmt.Sprintf("%s added %s %s for you", m.ActorName, lower(entity), m.Label)
	case events.MutationDeleted:
		title = entity + " removed"
		message = fmt.Sprintf("%s removed %s %s", m.ActorName, lower(entity), m.Label)
	case events.MutationStatusChanged:
		title = entity + " status changed"
		message = fmt.Sprintf("%s changed the status of %s %s", m.ActorName, lower(entity), m.Label)
	case events.MutationOwnerTransferred:
		title = entity + " transferred to you"
		message = fmt.Sprintf("%s transferred %s %s to you", m.ActorName, lower(entity), m.Label)
	default:
		title = entity + " updated"
		message = fmt.Sprintf("%s updated %s %s", m.ActorName, lower(entity), m.Label)
	}
	return title, message
}

func lower(entity string) string {
	switch entity {
	case "Service":
		return "service"
	case "Reimbursement":
		return "reimbursement"
	case "Tracker":
		return "tracker"
	}
	return entity
}
