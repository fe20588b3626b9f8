package reporting_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/reporting"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
)

var _ = Describe("Reporting", func() {
	technician := &user.User{ID: "3", Name: "José Técnico", Role: user.RoleTechnician, IsActive: true}
	admin := &user.User{ID: "2", Name: "Mariana Admin", Role: user.RoleAdmin, IsActive: true}

	Describe("InPeriod", func() {
		It("accepts a day inside the month", func() {
			Expect(reporting.InPeriod("2024-01-08", time.January, 2024)).To(BeTrue())
		})

		It("rejects a day in another month", func() {
			Expect(reporting.InPeriod("2024-02-01", time.January, 2024)).To(BeFalse())
		})

		It("keeps the first day of the month inside it", func() {
			Expect(reporting.InPeriod("2024-01-01", time.January, 2024)).To(BeTrue())
		})

		It("keeps the last day of the month inside it", func() {
			Expect(reporting.InPeriod("2024-01-31", time.January, 2024)).To(BeTrue())
		})

		It("rejects malformed dates", func() {
			Expect(reporting.InPeriod("08/01/2024", time.January, 2024)).To(BeFalse())
		})
	})

	Describe("NetRevenue", func() {
		newService := func(date string, status service.Status, value float64, cancelledBy service.CancelledBy) *service.Service {
			return &service.Service{
				Date:        date,
				Status:      status,
				Value:       value,
				CancelledBy: cancelledBy,
			}
		}

		It("sums completed services in the period", func() {
			services := []*service.Service{
				newService("2024-01-08", service.StatusCompleted, 50, ""),
				newService("2024-01-10", service.StatusCompleted, 80, ""),
				newService("2024-02-01", service.StatusCompleted, 999, ""),
			}

			Expect(reporting.NetRevenue(services, time.January, 2024)).To(Equal(130.0))
		})

		It("deducts the flat penalty for each technician cancellation", func() {
			services := []*service.Service{
				newService("2024-01-08", service.StatusCompleted, 200, ""),
				newService("2024-01-09", service.StatusCancelled, 70, service.CancelledByTechnician),
				newService("2024-01-10", service.StatusCancelled, 70, service.CancelledByTechnician),
			}

			Expect(reporting.NetRevenue(services, time.January, 2024)).To(Equal(100.0))
		})

		It("charges nothing for customer or dispatch cancellations", func() {
			services := []*service.Service{
				newService("2024-01-08", service.StatusCompleted, 200, ""),
				newService("2024-01-09", service.StatusCancelled, 70, service.CancelledByCustomer),
				newService("2024-01-10", service.StatusCancelled, 70, service.CancelledByDispatch),
			}

			Expect(reporting.NetRevenue(services, time.January, 2024)).To(Equal(200.0))
		})

		It("can go negative when penalties exceed income", func() {
			services := []*service.Service{
				newService("2024-01-09", service.StatusCancelled, 70, service.CancelledByTechnician),
			}

			Expect(reporting.NetRevenue(services, time.January, 2024)).To(Equal(-50.0))
		})
	})

	Describe("ReimbursableTotal", func() {
		It("halves vehicle maintenance and keeps everything else whole", func() {
			claims := []*reimbursement.Reimbursement{
				{Date: "2024-01-05", Type: reimbursement.TypeFuel, Value: 100},
				{Date: "2024-01-06", Type: reimbursement.TypeVehicleMaintenance, Value: 300},
				{Date: "2024-02-06", Type: reimbursement.TypeFuel, Value: 999},
			}

			Expect(reporting.ReimbursableTotal(claims, time.January, 2024)).To(Equal(250.0))
		})
	})

	Describe("AvailableTrackers", func() {
		trackers := []*tracker.Tracker{
			{ID: "t1", Status: tracker.StatusAvailable, TechnicianID: "3"},
			{ID: "t2", Status: tracker.StatusAvailable, TechnicianID: "4"},
			{ID: "t3", Status: tracker.StatusInstalled, TechnicianID: "3"},
			{ID: "t4", Status: tracker.StatusReturned, TechnicianID: "3"},
		}

		It("counts only the technician's own available stock", func() {
			Expect(reporting.AvailableTrackers(trackers, technician, "")).To(Equal(1))
		})

		It("counts the whole stock for an administrator", func() {
			Expect(reporting.AvailableTrackers(trackers, admin, "")).To(Equal(2))
		})

		It("restricts an administrator drill-down to the inspected technician", func() {
			Expect(reporting.AvailableTrackers(trackers, admin, "4")).To(Equal(1))
		})
	})

	Describe("PeriodStats", func() {
		It("recomputes totals, outcomes and breakdowns for the period", func() {
			services := []*service.Service{
				{Date: "2024-01-08", Status: service.StatusCompleted, Value: 50, Company: service.CompanyAiroclube, Type: service.TypeInstall},
				{Date: "2024-01-09", Status: service.StatusCompleted, Value: 50, Company: service.CompanyAirotracker, Type: service.TypeMaintenance},
				{Date: "2024-01-10", Status: service.StatusCancelled, Value: 50, Company: service.CompanyAiroclube, Type: service.TypeInstall, CancelledBy: service.CancelledByTechnician},
				{Date: "2024-03-10", Status: service.StatusCompleted, Value: 50, Company: service.CompanyCartrac, Type: service.TypeRemoval},
			}
			trackers := []*tracker.Tracker{
				{ID: "t1", Status: tracker.StatusAvailable, TechnicianID: "2"},
			}

			stats := reporting.PeriodStats(services, trackers, admin, "", time.January, 2024)

			Expect(stats.Total).To(Equal(3))
			Expect(stats.Completed).To(Equal(2))
			Expect(stats.Cancelled).To(Equal(1))
			Expect(stats.NetRevenue).To(Equal(50.0))
			Expect(stats.AvailableTrackers).To(Equal(1))
			Expect(stats.ByCompany).To(HaveKeyWithValue(service.CompanyAiroclube, 2))
			Expect(stats.ByCompany).To(HaveKeyWithValue(service.CompanyAirotracker, 1))
			Expect(stats.ByType).To(HaveKeyWithValue(service.TypeInstall, 2))
			Expect(stats.ByType).ToNot(HaveKey(service.TypeRemoval))
		})
	})
})
