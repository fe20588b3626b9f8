// Package reporting holds the financial business rules: pure functions
// over record collections plus a (month, year) window. No state, no I/O.
package reporting

import (
	"time"

	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
)

// TechnicianCancelPenalty is the flat deduction applied per service
// cancelled by the technician. Cancellations by the customer or dispatch
// cost nothing.
const TechnicianCancelPenalty = 50.0

// InPeriod reports whether the calendar day falls inside the selected
// month. The day is anchored at local noon so a timezone offset can never
// shift it across a month boundary.
func InPeriod(date string, month time.Month, year int) bool {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return false
	}
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
	return noon.Month() == month && noon.Year() == year
}

// NetRevenue is the period's completed-service income minus the flat
// penalty for each technician-cancelled service.
func NetRevenue(services []*service.Service, month time.Month, year int) float64 {
	var gross, penalties float64
	for _, s := range services {
		if !InPeriod(s.Date, month, year) {
			continue
		}
		switch {
		case s.Status == service.StatusCompleted:
			gross += s.Value
		case s.Status == service.StatusCancelled && s.CancelledBy == service.CancelledByTechnician:
			penalties += TechnicianCancelPenalty
		}
	}
	return gross - penalties
}

// ReimbursableTotal sums what is actually owed for the period's claims,
// applying the 50% vehicle-maintenance split.
func ReimbursableTotal(claims []*reimbursement.Reimbursement, month time.Month, year int) float64 {
	var total float64
	for _, r := range claims {
		if !InPeriod(r.Date, month, year) {
			continue
		}
		total += r.ReimbursableAmount()
	}
	return total
}

// AvailableTrackers counts AVAILABLE stock visible to the viewer: their
// own units for a technician, the inspected technician's during an
// administrator drill-down, or the whole stock otherwise.
func AvailableTrackers(trackers []*tracker.Tracker, viewer *user.User, inspectedID string) int {
	count := 0
	for _, t := range trackers {
		if t.Status != tracker.StatusAvailable {
			continue
		}
		if !viewer.IsManager() {
			if t.TechnicianID != viewer.ID {
				continue
			}
		} else if inspectedID != "" && t.TechnicianID != inspectedID {
			continue
		}
		count++
	}
	return count
}

// Stats is the dashboard summary for one period.
type Stats struct {
	Total             int                     `json:"total"`
	Completed         int                     `json:"completed"`
	Cancelled         int                     `json:"cancelled"`
	NetRevenue        float64                 `json:"netRevenue"`
	AvailableTrackers int                     `json:"availableTrackers"`
	ByCompany         map[service.Company]int `json:"byCompany"`
	ByType            map[service.Type]int    `json:"byType"`
}

// PeriodStats recomputes every aggregate from scratch; nothing is
// memoized across period changes.
func PeriodStats(
	services []*service.Service,
	trackers []*tracker.Tracker,
	viewer *user.User,
	inspectedID string,
	month time.Month,
	year int,
) Stats {
	stats := Stats{
		ByCompany: make(map[service.Company]int),
		ByType:    make(map[service.Type]int),
	}
	for _, s := range services {
		if !InPeriod(s.Date, month, year) {
			continue
		}
		stats.Total++
		switch s.Status {
		case service.StatusCompleted:
			stats.Completed++
		case service.StatusCancelled:
			stats.Cancelled++
		}
		stats.ByCompany[s.Company]++
		stats.ByType[s.Type]++
	}
	stats.NetRevenue = NetRevenue(services, month, year)
	stats.AvailableTrackers = AvailableTrackers(trackers, viewer, inspectedID)
	return stats
}
