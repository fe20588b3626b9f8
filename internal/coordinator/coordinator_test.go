package coordinator_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/coordinator"
	"github.com/airotrack/fieldops/internal/core/events"
	"github.com/airotrack/fieldops/internal/notification"
	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
)

var _ = Describe("Coordinator", func() {
	var (
		ctx       context.Context
		state     *coordinator.State
		services  *mockServiceRepo
		trackers  *mockTrackerRepo
		claims    *mockReimbursementRepo
		users     *mockUserRepo
		notifRepo *mockNotificationRepo
		coord     *coordinator.Coordinator
	)

	master := &user.User{ID: "1", Name: "Alex Master", Role: user.RoleMaster, IsActive: true}
	admin := &user.User{ID: "2", Name: "Mariana Admin", Role: user.RoleAdmin, IsActive: true}
	technician := &user.User{ID: "3", Name: "José Técnico", Role: user.RoleTechnician, IsActive: true}
	otherTech := &user.User{ID: "4", Name: "Lucas Silva", Role: user.RoleTechnician, IsActive: true}

	ghost := notification.SuppressedActor{ID: "master_main", Name: "ADM"}

	seed := func() {
		state.ReplaceAll(
			[]*service.Service{},
			[]*tracker.Tracker{
				{ID: "t1", Date: "2024-01-01", Model: "Suntech 310", IMEI: "111111", Company: service.CompanyAiroclube, Status: tracker.StatusAvailable, TechnicianID: "3", TechnicianName: "José Técnico"},
				{ID: "t2", Date: "2024-01-01", Model: "Nonus N4", IMEI: "222222", Company: service.CompanyCartrac, Status: tracker.StatusInstalled, TechnicianID: "3", TechnicianName: "José Técnico"},
			},
			[]*reimbursement.Reimbursement{},
			[]*notification.Notification{},
			[]*user.User{master.Clone(), admin.Clone(), technician.Clone(), otherTech.Clone()},
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		state = coordinator.NewState()
		services = &mockServiceRepo{}
		trackers = &mockTrackerRepo{}
		claims = &mockReimbursementRepo{}
		users = &mockUserRepo{}
		notifRepo = &mockNotificationRepo{}

		bus := events.NewEventBus(logger)
		dispatcher := notification.NewDispatcher(ghost, state, notifRepo, logger)
		dispatcher.Register(bus)

		repos := coordinator.Repositories{
			Services:       services,
			Trackers:       trackers,
			Reimbursements: claims,
			Users:          users,
			Notifications:  notifRepo,
		}
		coord = coordinator.New(state, repos, tracker.NewReconciler(logger), dispatcher, bus, ghost, false, logger)
		seed()
	})

	validServiceDTO := func() service.SaveServiceDTO {
		return service.SaveServiceDTO{
			Date:         "2024-01-08",
			CustomerName: "ALBERTO MAIA ALVES",
			Neighborhood: "Centro",
			Type:         service.TypeInstall,
			Company:      service.CompanyAiroclube,
			Vehicle:      "Onix",
			Plate:        "LUY2565",
			Value:        50,
			Status:       service.StatusCompleted,
			TechnicianID: "3",
		}
	}

	Describe("SaveService", func() {
		It("creates the record, resolves the technician name and persists it", func() {
			svc, err := coord.SaveService(ctx, technician, validServiceDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(svc.ID).ToNot(BeEmpty())
			Expect(svc.TechnicianName).To(Equal("José Técnico"))
			Expect(services.inserts).To(Equal(1))
			Expect(state.ServiceByID(svc.ID)).ToNot(BeNil())
		})

		It("defaults ownership to the acting technician", func() {
			dto := validServiceDTO()
			dto.TechnicianID = ""

			svc, err := coord.SaveService(ctx, technician, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(svc.TechnicianID).To(Equal("3"))
		})

		It("rejects a technician writing into a colleague's agenda", func() {
			dto := validServiceDTO()
			dto.TechnicianID = "4"

			_, err := coord.SaveService(ctx, technician, dto)

			Expect(errors.Is(err, internal.ErrNotRecordOwner)).To(BeTrue())
		})

		It("rejects an invalid payload before touching any state", func() {
			dto := validServiceDTO()
			dto.Status = service.StatusCancelled

			_, err := coord.SaveService(ctx, technician, dto)

			Expect(errors.Is(err, internal.ErrMissingCancellation)).To(BeTrue())
			Expect(state.Services()).To(BeEmpty())
			Expect(services.inserts).To(BeZero())
		})

		It("claims the installed tracker as a side effect", func() {
			dto := validServiceDTO()
			dto.IMEI = "111111"

			_, err := coord.SaveService(ctx, technician, dto)

			Expect(err).ToNot(HaveOccurred())
			unit := state.TrackerByID("t1")
			Expect(unit.Status).To(Equal(tracker.StatusInstalled))
			Expect(unit.InstallationDate).To(Equal("2024-01-08"))
			Expect(trackers.updates).To(Equal(1))
		})

		It("auto-receives an unknown removed unit", func() {
			dto := validServiceDTO()
			dto.Type = service.TypeRemoval
			dto.RemovedIMEI = "333333"
			dto.RemovedModel = "Lumiar LT32"

			_, err := coord.SaveService(ctx, technician, dto)

			Expect(err).ToNot(HaveOccurred())
			received := state.TrackerByIMEI("333333")
			Expect(received).ToNot(BeNil())
			Expect(received.Status).To(Equal(tracker.StatusReturned))
			Expect(trackers.inserts).To(Equal(1))
		})

		It("rolls the service back on a failed write but keeps the tracker side effects", func() {
			services.insertError = errors.New("connection refused")
			dto := validServiceDTO()
			dto.IMEI = "111111"

			_, err := coord.SaveService(ctx, technician, dto)

			Expect(err).To(HaveOccurred())
			Expect(state.Services()).To(BeEmpty())
			Expect(state.TrackerByID("t1").Status).To(Equal(tracker.StatusInstalled))
		})

		It("notifies the owner when a manager books the visit", func() {
			_, err := coord.SaveService(ctx, admin, validServiceDTO())

			Expect(err).ToNot(HaveOccurred())
			inbox := state.NotificationsForRecipient("3")
			Expect(inbox).To(HaveLen(1))
			Expect(inbox[0].Title).To(Equal("Service added"))
			Expect(notifRepo.inserts).To(Equal(1))
		})

		It("stays silent when the technician books their own visit", func() {
			_, err := coord.SaveService(ctx, technician, validServiceDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(state.NotificationsForRecipient("3")).To(BeEmpty())
		})
	})

	Describe("DeleteService", func() {
		var saved *service.Service

		BeforeEach(func() {
			dto := validServiceDTO()
			dto.IMEI = "111111"
			var err error
			saved, err = coord.SaveService(ctx, technician, dto)
			Expect(err).ToNot(HaveOccurred())
		})

		It("removes the record and releases its tracker", func() {
			err := coord.DeleteService(ctx, technician, saved.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(state.ServiceByID(saved.ID)).To(BeNil())
			Expect(state.TrackerByID("t1").Status).To(Equal(tracker.StatusAvailable))
			Expect(services.deletes).To(Equal(1))
		})

		It("rejects a technician deleting a colleague's record", func() {
			err := coord.DeleteService(ctx, otherTech, saved.ID)
			Expect(errors.Is(err, internal.ErrNotRecordOwner)).To(BeTrue())
		})

		It("fails for an unknown id", func() {
			err := coord.DeleteService(ctx, technician, "missing")
			Expect(errors.Is(err, internal.ErrServiceNotFound)).To(BeTrue())
		})

		It("restores the record when the remote delete fails", func() {
			services.deleteError = errors.New("connection refused")

			err := coord.DeleteService(ctx, technician, saved.ID)

			Expect(err).To(HaveOccurred())
			Expect(state.ServiceByID(saved.ID)).ToNot(BeNil())
		})
	})

	Describe("SaveTracker", func() {
		validDTO := func() tracker.SaveTrackerDTO {
			return tracker.SaveTrackerDTO{
				Date:    "2024-01-10",
				Model:   "Suntech 8310",
				IMEI:    "999999",
				Company: service.CompanyAiroclube,
			}
		}

		It("receives a new unit as available stock owned by the actor", func() {
			unit, err := coord.SaveTracker(ctx, technician, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(unit.Status).To(Equal(tracker.StatusAvailable))
			Expect(unit.TechnicianID).To(Equal("3"))
			Expect(trackers.inserts).To(Equal(1))
		})

		It("rejects a duplicate IMEI", func() {
			dto := validDTO()
			dto.IMEI = "111111"

			_, err := coord.SaveTracker(ctx, technician, dto)

			Expect(errors.Is(err, internal.ErrDuplicateIMEI)).To(BeTrue())
			Expect(trackers.inserts).To(BeZero())
		})

		It("lets an edit keep its own IMEI", func() {
			dto := tracker.SaveTrackerDTO{ID: "t1", Date: "2024-01-10", Model: "Suntech 310", IMEI: "111111", Company: service.CompanyAiroclube}

			_, err := coord.SaveTracker(ctx, technician, dto)

			Expect(err).ToNot(HaveOccurred())
		})

		It("refuses to edit a unit that already left stock", func() {
			dto := tracker.SaveTrackerDTO{ID: "t2", Date: "2024-01-10", Model: "Nonus N4", IMEI: "222222", Company: service.CompanyCartrac}

			_, err := coord.SaveTracker(ctx, technician, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeTrackerInUse))
		})

		It("notifies the new owner of a transfer", func() {
			dto := tracker.SaveTrackerDTO{ID: "t1", Date: "2024-01-01", Model: "Suntech 310", IMEI: "111111", Company: service.CompanyAiroclube, TechnicianID: "4"}

			unit, err := coord.SaveTracker(ctx, admin, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(unit.TechnicianID).To(Equal("4"))
			Expect(unit.TechnicianName).To(Equal("Lucas Silva"))
			inbox := state.NotificationsForRecipient("4")
			Expect(inbox).To(HaveLen(1))
			Expect(inbox[0].Title).To(Equal("Tracker transferred to you"))
		})

		It("forbids a technician transferring stock to a colleague", func() {
			dto := tracker.SaveTrackerDTO{ID: "t1", Date: "2024-01-01", Model: "Suntech 310", IMEI: "111111", Company: service.CompanyAiroclube, TechnicianID: "4"}

			_, err := coord.SaveTracker(ctx, technician, dto)

			Expect(errors.Is(err, internal.ErrNotRecordOwner)).To(BeTrue())
		})

		It("rolls back the unit when the remote write fails", func() {
			trackers.insertError = errors.New("connection refused")

			_, err := coord.SaveTracker(ctx, technician, validDTO())

			Expect(err).To(HaveOccurred())
			Expect(state.TrackerByIMEI("999999")).To(BeNil())
		})
	})

	Describe("DeleteTracker", func() {
		It("removes an available unit", func() {
			err := coord.DeleteTracker(ctx, technician, "t1")

			Expect(err).ToNot(HaveOccurred())
			Expect(state.TrackerByID("t1")).To(BeNil())
			Expect(trackers.deletes).To(Equal(1))
		})

		It("refuses to remove an installed unit", func() {
			err := coord.DeleteTracker(ctx, technician, "t2")

			Expect(errors.Is(err, internal.ErrTrackerInUse)).To(BeTrue())
			Expect(state.TrackerByID("t2")).ToNot(BeNil())
		})

		It("fails for an unknown id", func() {
			err := coord.DeleteTracker(ctx, technician, "missing")
			Expect(errors.Is(err, internal.ErrTrackerNotFound)).To(BeTrue())
		})
	})

	Describe("SaveReimbursement", func() {
		validDTO := func() reimbursement.SaveReimbursementDTO {
			return reimbursement.SaveReimbursementDTO{
				Date:        "2024-01-08",
				Type:        reimbursement.TypeFuel,
				Description: "Gasolina para deslocamento",
				Value:       100,
			}
		}

		It("forces a technician's new claim to pending regardless of the payload", func() {
			dto := validDTO()
			dto.Status = reimbursement.StatusApproved

			claim, err := coord.SaveReimbursement(ctx, technician, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(claim.Status).To(Equal(reimbursement.StatusPending))
			Expect(claim.TechnicianID).To(Equal("3"))
		})

		It("lets a manager set the workflow status directly", func() {
			dto := validDTO()
			dto.Status = reimbursement.StatusApproved
			dto.TechnicianID = "3"

			claim, err := coord.SaveReimbursement(ctx, admin, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(claim.Status).To(Equal(reimbursement.StatusApproved))
		})

		Context("with an existing claim awaiting confirmation", func() {
			var existing *reimbursement.Reimbursement

			BeforeEach(func() {
				dto := validDTO()
				dto.Status = reimbursement.StatusAwaitingConfirmation
				dto.TechnicianID = "3"
				var err error
				existing, err = coord.SaveReimbursement(ctx, admin, dto)
				Expect(err).ToNot(HaveOccurred())
			})

			It("lets the owner confirm receipt of the payout", func() {
				dto := validDTO()
				dto.ID = existing.ID
				dto.Status = reimbursement.StatusPaid

				claim, err := coord.SaveReimbursement(ctx, technician, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(claim.Status).To(Equal(reimbursement.StatusPaid))
			})

			It("blocks any other status move by the owner", func() {
				dto := validDTO()
				dto.ID = existing.ID
				dto.Status = reimbursement.StatusRejected

				_, err := coord.SaveReimbursement(ctx, technician, dto)

				Expect(errors.Is(err, internal.ErrForbiddenRole)).To(BeTrue())
			})

			It("blocks a colleague from touching the claim at all", func() {
				dto := validDTO()
				dto.ID = existing.ID
				dto.Status = reimbursement.StatusPaid

				_, err := coord.SaveReimbursement(ctx, otherTech, dto)

				Expect(errors.Is(err, internal.ErrNotRecordOwner)).To(BeTrue())
			})
		})

		It("notifies the owner when a manager approves", func() {
			created, err := coord.SaveReimbursement(ctx, technician, validDTO())
			Expect(err).ToNot(HaveOccurred())

			dto := validDTO()
			dto.ID = created.ID
			dto.TechnicianID = "3"
			dto.Status = reimbursement.StatusApproved
			_, err = coord.SaveReimbursement(ctx, admin, dto)

			Expect(err).ToNot(HaveOccurred())
			inbox := state.NotificationsForRecipient("3")
			Expect(inbox).To(HaveLen(1))
			Expect(inbox[0].Title).To(Equal("Reimbursement status changed"))
		})

		It("rolls back on a failed write", func() {
			claims.insertError = errors.New("connection refused")

			_, err := coord.SaveReimbursement(ctx, technician, validDTO())

			Expect(err).To(HaveOccurred())
			Expect(state.Reimbursements()).To(BeEmpty())
		})
	})

	Describe("SaveUser", func() {
		validDTO := func() user.SaveUserDTO {
			return user.SaveUserDTO{
				Name:     "Novo Técnico",
				Phone:    "11988887777",
				Password: "123",
				Role:     user.RoleTechnician,
			}
		}

		It("requires the master role", func() {
			_, err := coord.SaveUser(ctx, admin, validDTO())
			Expect(errors.Is(err, internal.ErrForbiddenRole)).To(BeTrue())
		})

		It("creates an active account", func() {
			created, err := coord.SaveUser(ctx, master, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).ToNot(BeEmpty())
			Expect(created.IsActive).To(BeTrue())
			Expect(users.inserts).To(Equal(1))
		})

		It("rejects an update for an unknown id", func() {
			dto := validDTO()
			dto.ID = "missing"

			_, err := coord.SaveUser(ctx, master, dto)

			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("rejects a phone number already in use", func() {
			state.UpsertUser(&user.User{ID: "3", Name: "José Técnico", Phone: "11911112222", Role: user.RoleTechnician, IsActive: true})
			dto := validDTO()
			dto.Phone = "11911112222"

			_, err := coord.SaveUser(ctx, master, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("keeps the stored password when the payload leaves it blank", func() {
			state.UpsertUser(&user.User{ID: "3", Name: "José Técnico", Phone: "119", Password: "123", Role: user.RoleTechnician, IsActive: true})
			dto := user.SaveUserDTO{ID: "3", Name: "José Técnico", Phone: "119", Role: user.RoleTechnician}

			updated, err := coord.SaveUser(ctx, master, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Password).To(Equal("123"))
		})

		Context("with the reserved account in state", func() {
			BeforeEach(func() {
				state.UpsertUser(&user.User{ID: "master_main", Name: "ADM", Phone: "00000000000", Password: "29031992", Role: user.RoleMaster, IsActive: true})
			})

			It("refuses to suspend it", func() {
				inactive := false
				dto := user.SaveUserDTO{ID: "master_main", Name: "ADM", Phone: "00000000000", Role: user.RoleMaster, IsActive: &inactive}

				_, err := coord.SaveUser(ctx, master, dto)

				Expect(errors.Is(err, internal.ErrProtectedUser)).To(BeTrue())
			})

			It("refuses to demote it", func() {
				dto := user.SaveUserDTO{ID: "master_main", Name: "ADM", Phone: "00000000000", Role: user.RoleTechnician}

				_, err := coord.SaveUser(ctx, master, dto)

				Expect(errors.Is(err, internal.ErrProtectedUser)).To(BeTrue())
			})

			It("refuses to delete it", func() {
				err := coord.DeleteUser(ctx, master, "master_main")
				Expect(errors.Is(err, internal.ErrProtectedUser)).To(BeTrue())
			})
		})
	})

	Describe("UpdateProfile", func() {
		It("edits the actor's own account and keeps a blank password", func() {
			state.UpsertUser(&user.User{ID: "3", Name: "José Técnico", Phone: "119", Password: "123", Role: user.RoleTechnician, IsActive: true})
			dto := user.UpdateProfileDTO{Name: "José T. Silva", Phone: "11933334444"}

			updated, err := coord.UpdateProfile(ctx, technician, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("José T. Silva"))
			Expect(updated.Password).To(Equal("123"))
			Expect(users.updates).To(Equal(1))
		})

		It("rejects a phone already held by a colleague", func() {
			state.UpsertUser(&user.User{ID: "4", Name: "Lucas Silva", Phone: "11955556666", Role: user.RoleTechnician, IsActive: true})
			dto := user.UpdateProfileDTO{Name: "José Técnico", Phone: "11955556666"}

			_, err := coord.UpdateProfile(ctx, technician, dto)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("notifications", func() {
		var inboxed *notification.Notification

		BeforeEach(func() {
			_, err := coord.SaveService(ctx, admin, validServiceDTO())
			Expect(err).ToNot(HaveOccurred())
			inbox := state.NotificationsForRecipient("3")
			Expect(inbox).To(HaveLen(1))
			inboxed = inbox[0]
		})

		It("lets the recipient mark a notification read", func() {
			err := coord.MarkNotificationRead(ctx, technician, inboxed.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(state.NotificationByID(inboxed.ID).IsRead).To(BeTrue())
		})

		It("hides other users' notifications", func() {
			err := coord.MarkNotificationRead(ctx, otherTech, inboxed.ID)
			Expect(errors.Is(err, internal.ErrNotRecordOwner)).To(BeTrue())
		})

		It("fails for an unknown notification", func() {
			err := coord.MarkNotificationRead(ctx, technician, "missing")
			Expect(errors.Is(err, internal.ErrNotificationNotFound)).To(BeTrue())
		})

		It("scopes the inbox to the recipient", func() {
			Expect(coord.NotificationsFor(technician)).To(HaveLen(1))
			Expect(coord.NotificationsFor(otherTech)).To(BeEmpty())
		})
	})

	Describe("offline mode", func() {
		BeforeEach(func() {
			state.SetOffline(true)
		})

		It("accepts writes without persisting them", func() {
			svc, err := coord.SaveService(ctx, technician, validServiceDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(state.ServiceByID(svc.ID)).ToNot(BeNil())
			Expect(services.inserts).To(BeZero())
		})

		It("never rolls back a local write", func() {
			services.insertError = errors.New("connection refused")

			svc, err := coord.SaveService(ctx, technician, validServiceDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(state.ServiceByID(svc.ID)).ToNot(BeNil())
		})

		It("is reported by the coordinator", func() {
			Expect(coord.Offline()).To(BeTrue())
		})

		It("keeps notifications local only", func() {
			_, err := coord.SaveService(ctx, admin, validServiceDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(state.NotificationsForRecipient("3")).To(HaveLen(1))
			Expect(notifRepo.inserts).To(BeZero())
		})
	})

	Describe("projections", func() {
		BeforeEach(func() {
			_, err := coord.SaveService(ctx, admin, validServiceDTO())
			Expect(err).ToNot(HaveOccurred())
			dto := validServiceDTO()
			dto.TechnicianID = "4"
			dto.CustomerName = "MARIA DA PENHA"
			_, err = coord.SaveService(ctx, admin, dto)
			Expect(err).ToNot(HaveOccurred())
		})

		It("restricts a technician to their own services", func() {
			Expect(coord.VisibleServices(technician, "")).To(HaveLen(1))
		})

		It("shows a manager everything", func() {
			Expect(coord.VisibleServices(admin, "")).To(HaveLen(2))
		})

		It("narrows a manager drill-down to the inspected technician", func() {
			visible := coord.VisibleServices(admin, "4")
			Expect(visible).To(HaveLen(1))
			Expect(visible[0].TechnicianID).To(Equal("4"))
		})

		It("lists only active technicians", func() {
			state.UpsertUser(&user.User{ID: "5", Name: "Suspenso", Phone: "117", Role: user.RoleTechnician, IsActive: false})

			names := []string{}
			for _, t := range coord.Technicians() {
				names = append(names, t.Name)
			}
			Expect(names).To(ConsistOf("José Técnico", "Lucas Silva"))
		})
	})
})
