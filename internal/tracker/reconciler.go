package tracker

import (
	"log/slog"

	"github.com/airotrack/fieldops/internal/service"
	"github.com/google/uuid"
)

// Change is one tracker state transition derived from a service mutation.
// Created marks units that did not exist before (auto-received returns).
type Change struct {
	Tracker *Tracker
	Created bool
}

// Reconciler derives tracker status transitions from service mutations.
// It is pure over its inputs: callers pass the current tracker collection
// and apply/persist the returned changes themselves.
type Reconciler struct {
	logger *slog.Logger
}

func NewReconciler(logger *slog.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// PlanSave computes the transitions for a service create or update.
// prev is nil on create. Rules run in order:
//
//  1. release: the previous install IMEI, when set and different from the
//     new one, frees its tracker back to AVAILABLE.
//  2. claim: a new or changed install IMEI that matches an AVAILABLE
//     tracker marks it INSTALLED with the service date. An IMEI that
//     matches nothing is left unreconciled; no unit is created here.
//  3. returned: removed-device fields mark the matching tracker RETURNED,
//     inheriting the given model/company and the owning technician. An
//     unknown removed IMEI auto-receives a brand-new RETURNED unit.
func (r *Reconciler) PlanSave(prev, next *service.Service, trackers []*Tracker) []Change {
	var changes []Change

	prevIMEI := ""
	if prev != nil {
		prevIMEI = prev.IMEI
	}

	if prevIMEI != "" && prevIMEI != next.IMEI {
		if t := findByIMEI(trackers, prevIMEI); t != nil {
			released := t.Clone()
			released.Status = StatusAvailable
			released.InstallationDate = ""
			changes = append(changes, Change{Tracker: released})
			r.logger.Info("tracker released",
				"tracker_id", released.ID, "imei", prevIMEI, "service_id", next.ID)
		}
	}

	if next.IMEI != "" && next.IMEI != prevIMEI {
		if t := findByIMEI(trackers, next.IMEI); t != nil && t.Status == StatusAvailable {
			claimed := t.Clone()
			claimed.Status = StatusInstalled
			claimed.InstallationDate = next.Date
			changes = append(changes, Change{Tracker: claimed})
			r.logger.Info("tracker claimed",
				"tracker_id", claimed.ID, "imei", next.IMEI, "service_id", next.ID)
		} else if t == nil {
			// Referenced but unknown to inventory: intentionally not
			// auto-created, unlike the removed-device path below.
			r.logger.Warn("install IMEI not found in inventory",
				"imei", next.IMEI, "service_id", next.ID)
		}
	}

	if next.RemovedIMEI != "" && next.RemovedModel != "" {
		changes = append(changes, r.planReturn(next, trackers))
	}

	return changes
}

// PlanDelete computes the transitions for a service deletion: a non-empty
// install IMEI releases its tracker back to AVAILABLE.
func (r *Reconciler) PlanDelete(deleted *service.Service, trackers []*Tracker) []Change {
	if deleted.IMEI == "" {
		return nil
	}
	t := findByIMEI(trackers, deleted.IMEI)
	if t == nil {
		return nil
	}
	released := t.Clone()
	released.Status = StatusAvailable
	released.InstallationDate = ""
	r.logger.Info("tracker released on service delete",
		"tracker_id", released.ID, "imei", released.IMEI, "service_id", deleted.ID)
	return []Change{{Tracker: released}}
}

func (r *Reconciler) planReturn(svc *service.Service, trackers []*Tracker) Change {
	company := svc.RemovedCompany
	if company == "" {
		company = svc.Company
	}

	if t := findByIMEI(trackers, svc.RemovedIMEI); t != nil {
		returned := t.Clone()
		returned.Status = StatusReturned
		returned.Model = svc.RemovedModel
		returned.Company = company
		returned.TechnicianID = svc.TechnicianID
		returned.TechnicianName = svc.TechnicianName
		returned.InstallationDate = ""
		r.logger.Info("tracker marked returned",
			"tracker_id", returned.ID, "imei", returned.IMEI, "service_id", svc.ID)
		return Change{Tracker: returned}
	}

	received := &Tracker{
		ID:             uuid.NewString(),
		Date:           svc.Date,
		Model:          svc.RemovedModel,
		IMEI:           svc.RemovedIMEI,
		Company:        company,
		Status:         StatusReturned,
		TechnicianID:   svc.TechnicianID,
		TechnicianName: svc.TechnicianName,
	}
	r.logger.Info("returned tracker auto-received",
		"tracker_id", received.ID, "imei", received.IMEI, "service_id", svc.ID)
	return Change{Tracker: received, Created: true}
}

func findByIMEI(trackers []*Tracker, imei string) *Tracker {
	for _, t := range trackers {
		if t.IMEI == imei {
			return t
		}
	}
	return nil
}

// FindDuplicateIMEI returns the tracker whose IMEI equals imei but whose
// id differs from selfID, or nil. Used to reject duplicate IMEIs before
// any stock-affecting write.
func FindDuplicateIMEI(trackers []*Tracker, imei, selfID string) *Tracker {
	for _, t := range trackers {
		if t.IMEI == imei && t.ID != selfID {
			return t
		}
	}
	return nil
}
