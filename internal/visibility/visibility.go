// Package visibility projects the full record sets into what one viewer
// may see. Pure functions, re-derived on every read.
package visibility

import (
	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
)

// ownerScope resolves the technician id a projection is restricted to:
// the viewer themselves for technicians, the inspected technician during
// an administrator drill-down, or "" for no restriction.
func ownerScope(viewer *user.User, inspectedID string) (string, bool) {
	if !viewer.IsManager() {
		return viewer.ID, true
	}
	if inspectedID != "" {
		return inspectedID, true
	}
	return "", false
}

func Services(viewer *user.User, inspectedID string, all []*service.Service) []*service.Service {
	owner, restricted := ownerScope(viewer, inspectedID)
	if !restricted {
		return all
	}
	visible := make([]*service.Service, 0, len(all))
	for _, s := range all {
		if s.TechnicianID == owner {
			visible = append(visible, s)
		}
	}
	return visible
}

func Reimbursements(viewer *user.User, inspectedID string, all []*reimbursement.Reimbursement) []*reimbursement.Reimbursement {
	owner, restricted := ownerScope(viewer, inspectedID)
	if !restricted {
		return all
	}
	visible := make([]*reimbursement.Reimbursement, 0, len(all))
	for _, r := range all {
		if r.TechnicianID == owner {
			visible = append(visible, r)
		}
	}
	return visible
}

// Trackers restricts the list for technicians only. The drill-down
// selector deliberately does not pre-filter the tracker list; the
// inventory screen applies its own technician filter.
func Trackers(viewer *user.User, all []*tracker.Tracker) []*tracker.Tracker {
	if viewer.IsManager() {
		return all
	}
	visible := make([]*tracker.Tracker, 0, len(all))
	for _, t := range all {
		if t.TechnicianID == viewer.ID {
			visible = append(visible, t)
		}
	}
	return visible
}
