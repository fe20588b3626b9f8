package coordinator_test

import (
	"context"

	"github.com/airotrack/fieldops/internal/notification"
	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
)

type mockServiceRepo struct {
	inserts     int
	updates     int
	deletes     int
	insertError error
	updateError error
	deleteError error
}

func (m *mockServiceRepo) All(_ context.Context) ([]*service.Service, error) { return nil, nil }

func (m *mockServiceRepo) Insert(_ context.Context, _ *service.Service) error {
	m.inserts++
	return m.insertError
}

func (m *mockServiceRepo) Update(_ context.Context, _ *service.Service) error {
	m.updates++
	return m.updateError
}

func (m *mockServiceRepo) Delete(_ context.Context, _ string) error {
	m.deletes++
	return m.deleteError
}

type mockTrackerRepo struct {
	inserts     int
	updates     int
	deletes     int
	insertError error
	updateError error
	deleteError error
}

func (m *mockTrackerRepo) All(_ context.Context) ([]*tracker.Tracker, error) { return nil, nil }

func (m *mockTrackerRepo) Insert(_ context.Context, _ *tracker.Tracker) error {
	m.inserts++
	return m.insertError
}

func (m *mockTrackerRepo) Update(_ context.Context, _ *tracker.Tracker) error {
	m.updates++
	return m.updateError
}

func (m *mockTrackerRepo) Delete(_ context.Context, _ string) error {
	m.deletes++
	return m.deleteError
}

type mockReimbursementRepo struct {
	inserts     int
	updates     int
	insertError error
	updateError error
	deleteError error
}

func (m *mockReimbursementRepo) All(_ context.Context) ([]*reimbursement.Reimbursement, error) {
	return nil, nil
}

func (m *mockReimbursementRepo) Insert(_ context.Context, _ *reimbursement.Reimbursement) error {
	m.inserts++
	return m.insertError
}

func (m *mockReimbursementRepo) Update(_ context.Context, _ *reimbursement.Reimbursement) error {
	m.updates++
	return m.updateError
}

func (m *mockReimbursementRepo) Delete(_ context.Context, _ string) error {
	return m.deleteError
}

type mockUserRepo struct {
	inserts     int
	updates     int
	deletes     int
	insertError error
	updateError error
}

func (m *mockUserRepo) All(_ context.Context) ([]*user.User, error) { return nil, nil }

func (m *mockUserRepo) Insert(_ context.Context, _ *user.User) error {
	m.inserts++
	return m.insertError
}

func (m *mockUserRepo) Update(_ context.Context, _ *user.User) error {
	m.updates++
	return m.updateError
}

func (m *mockUserRepo) Delete(_ context.Context, _ string) error {
	m.deletes++
	return nil
}

type mockNotificationRepo struct {
	inserts int
}

func (m *mockNotificationRepo) All(_ context.Context) ([]*notification.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) Insert(_ context.Context, _ *notification.Notification) error {
	m.inserts++
	return nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, _ string) error { return nil }

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, _ string) error { return nil }
