package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeServiceMutated       = "service.mutated"
	EventTypeReimbursementMutated = "reimbursement.mutated"
	EventTypeTrackerMutated       = "tracker.mutated"
)

type MutationKind string

const (
	MutationCreated          MutationKind = "created"
	MutationUpdated          MutationKind = "updated"
	MutationDeleted          MutationKind = "deleted"
	MutationStatusChanged    MutationKind = "status_changed"
	MutationOwnerTransferred MutationKind = "owner_transferred"
)

// RecordMutated announces that an entity belonging to a technician was
// changed. Label carries the entity's distinguishing attribute (customer
// and plate for services, description for reimbursements, model and IMEI
// for trackers) so subscribers never need to look the record up again.
type RecordMutated struct {
	BaseEvent
	Kind      MutationKind `json:"kind"`
	ActorID   string       `json:"actor_id"`
	ActorName string       `json:"actor_name"`
	OwnerID   string       `json:"owner_id"`
	RecordID  string       `json:"record_id"`
	Label     string       `json:"label"`
}

func newRecordMutated(eventType string, kind MutationKind, actorID, actorName, ownerID, recordID, label string) *RecordMutated {
	return &RecordMutated{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			Timestamp: time.Now(),
		},
		Kind:      kind,
		ActorID:   actorID,
		ActorName: actorName,
		OwnerID:   ownerID,
		RecordID:  recordID,
		Label:     label,
	}
}

func NewServiceMutated(kind MutationKind, actorID, actorName, ownerID, recordID, label string) *RecordMutated {
	return newRecordMutated(EventTypeServiceMutated, kind, actorID, actorName, ownerID, recordID, label)
}

func NewReimbursementMutated(kind MutationKind, actorID, actorName, ownerID, recordID, label string) *RecordMutated {
	return newRecordMutated(EventTypeReimbursementMutated, kind, actorID, actorName, ownerID, recordID, label)
}

func NewTrackerMutated(kind MutationKind, actorID, actorName, ownerID, recordID, label string) *RecordMutated {
	return newRecordMutated(EventTypeTrackerMutated, kind, actorID, actorName, ownerID, recordID, label)
}
