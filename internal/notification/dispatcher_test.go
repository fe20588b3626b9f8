package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/airotrack/fieldops/internal/core/events"
	"github.com/airotrack/fieldops/internal/notification"
)

type mockStore struct {
	notifications []*notification.Notification
	offline       bool
}

func (m *mockStore) Offline() bool {
	return m.offline
}

func (m *mockStore) PrependNotification(n *notification.Notification) {
	m.notifications = append([]*notification.Notification{n}, m.notifications...)
}

func (m *mockStore) NotificationByID(id string) *notification.Notification {
	for _, n := range m.notifications {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (m *mockStore) MarkNotificationRead(id string) bool {
	for i, n := range m.notifications {
		if n.ID == id {
			if n.IsRead {
				return false
			}
			read := n.Clone()
			read.IsRead = true
			m.notifications[i] = read
			return true
		}
	}
	return false
}

func (m *mockStore) MarkAllNotificationsRead(recipientID string) []string {
	var changed []string
	for i, n := range m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			read := n.Clone()
			read.IsRead = true
			m.notifications[i] = read
			changed = append(changed, n.ID)
		}
	}
	return changed
}

type mockRepo struct {
	inserted      []*notification.Notification
	markReadCalls int
	markAllCalls  int
	insertError   error
}

func (m *mockRepo) Insert(_ context.Context, n *notification.Notification) error {
	if m.insertError != nil {
		return m.insertError
	}
	m.inserted = append(m.inserted, n)
	return nil
}

func (m *mockRepo) MarkRead(_ context.Context, id string) error {
	m.markReadCalls++
	return nil
}

func (m *mockRepo) MarkAllRead(_ context.Context, recipientID string) error {
	m.markAllCalls++
	return nil
}

var _ = Describe("Dispatcher", func() {
	var (
		store      *mockStore
		repo       *mockRepo
		dispatcher *notification.Dispatcher
		ctx        context.Context
	)

	ghost := notification.SuppressedActor{ID: "master_main", Name: "ADM"}

	BeforeEach(func() {
		store = &mockStore{}
		repo = &mockRepo{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		dispatcher = notification.NewDispatcher(ghost, store, repo, logger)
		ctx = context.Background()
	})

	mutation := func(actorID, actorName, ownerID string) *events.RecordMutated {
		return events.NewServiceMutated(events.MutationCreated, actorID, actorName, ownerID, "s1", "ALBERTO MAIA ALVES (LUY2565)")
	}

	Describe("Dispatch", func() {
		It("notifies the owning technician of a privileged mutation", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))

			Expect(store.notifications).To(HaveLen(1))
			n := store.notifications[0]
			Expect(n.RecipientID).To(Equal("3"))
			Expect(n.AuthorName).To(Equal("Mariana Admin"))
			Expect(n.Title).To(Equal("Service added"))
			Expect(n.Message).To(ContainSubstring("ALBERTO MAIA ALVES (LUY2565)"))
			Expect(n.IsRead).To(BeFalse())
			Expect(repo.inserted).To(HaveLen(1))
		})

		It("prepends newer notifications", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))
			second := events.NewServiceMutated(events.MutationDeleted, "2", "Mariana Admin", "3", "s2", "MARIA DA PENHA (KXP4589)")
			dispatcher.Dispatch(ctx, second)

			Expect(store.notifications).To(HaveLen(2))
			Expect(store.notifications[0].Title).To(Equal("Service removed"))
		})

		It("suppresses the reserved actor by id", func() {
			dispatcher.Dispatch(ctx, mutation("master_main", "Somebody", "3"))
			Expect(store.notifications).To(BeEmpty())
		})

		It("suppresses the reserved actor by exact name", func() {
			dispatcher.Dispatch(ctx, mutation("any-id", "ADM", "3"))
			Expect(store.notifications).To(BeEmpty())
		})

		It("does not suppress a name that merely contains the reserved one", func() {
			dispatcher.Dispatch(ctx, mutation("any-id", "ADMIRAL", "3"))
			Expect(store.notifications).To(HaveLen(1))
		})

		It("suppresses self-mutations", func() {
			dispatcher.Dispatch(ctx, mutation("3", "José Técnico", "3"))
			Expect(store.notifications).To(BeEmpty())
		})

		It("suppresses mutations of unowned records", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", ""))
			Expect(store.notifications).To(BeEmpty())
		})

		It("keeps the local notification when the remote write fails", func() {
			repo.insertError = errors.New("connection refused")

			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))

			Expect(store.notifications).To(HaveLen(1))
			Expect(repo.inserted).To(BeEmpty())
		})

		It("announces an ownership transfer", func() {
			transfer := events.NewTrackerMutated(events.MutationOwnerTransferred, "2", "Mariana Admin", "4", "t1", "Suntech 310 · 111111")
			dispatcher.Dispatch(ctx, transfer)

			Expect(store.notifications).To(HaveLen(1))
			Expect(store.notifications[0].Title).To(Equal("Tracker transferred to you"))
		})
	})

	Context("when the remote store is unreachable", func() {
		BeforeEach(func() {
			store.offline = true
		})

		It("keeps the notification local without a remote insert", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))

			Expect(store.notifications).To(HaveLen(1))
			Expect(repo.inserted).To(BeEmpty())
		})

		It("flips the read flag locally without a remote write", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))
			id := store.notifications[0].ID

			dispatcher.MarkRead(ctx, id)

			Expect(store.notifications[0].IsRead).To(BeTrue())
			Expect(repo.markReadCalls).To(BeZero())
		})

		It("marks all read locally without a remote write", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))

			dispatcher.MarkAllRead(ctx, "3")

			Expect(store.notifications[0].IsRead).To(BeTrue())
			Expect(repo.markAllCalls).To(BeZero())
		})
	})

	Describe("MarkRead", func() {
		It("flips the read flag and persists it once", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))
			id := store.notifications[0].ID

			dispatcher.MarkRead(ctx, id)

			Expect(store.notifications[0].IsRead).To(BeTrue())
			Expect(repo.markReadCalls).To(Equal(1))
		})

		It("is a no-op for an already-read notification, including remotely", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))
			id := store.notifications[0].ID

			dispatcher.MarkRead(ctx, id)
			dispatcher.MarkRead(ctx, id)

			Expect(repo.markReadCalls).To(Equal(1))
		})

		It("is a no-op for an unknown id", func() {
			dispatcher.MarkRead(ctx, "missing")
			Expect(repo.markReadCalls).To(BeZero())
		})
	})

	Describe("MarkAllRead", func() {
		It("flips every unread notification of one recipient", func() {
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "3"))
			dispatcher.Dispatch(ctx, mutation("2", "Mariana Admin", "4"))

			dispatcher.MarkAllRead(ctx, "3")

			Expect(store.notifications[0].RecipientID).To(Equal("4"))
			Expect(store.notifications[0].IsRead).To(BeFalse())
			Expect(store.notifications[1].IsRead).To(BeTrue())
			Expect(store.notifications[2].IsRead).To(BeTrue())
			Expect(repo.markAllCalls).To(Equal(1))
		})

		It("skips the remote write when nothing changed", func() {
			dispatcher.MarkAllRead(ctx, "3")
			Expect(repo.markAllCalls).To(BeZero())
		})
	})
})
