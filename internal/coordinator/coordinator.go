// Package coordinator is the single mutation path of the application.
// Every write validates, authorizes, applies optimistically to the local
// state, triggers side effects, and only then persists to the remote
// store. A failed primary write rolls the primary collection back; side
// effects already applied stay.
package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/core/events"
	"github.com/airotrack/fieldops/internal/notification"
	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/reporting"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/airotrack/fieldops/internal/visibility"
	"github.com/google/uuid"
)

type ServiceRepository interface {
	All(ctx context.Context) ([]*service.Service, error)
	Insert(ctx context.Context, s *service.Service) error
	Update(ctx context.Context, s *service.Service) error
	Delete(ctx context.Context, id string) error
}

type TrackerRepository interface {
	All(ctx context.Context) ([]*tracker.Tracker, error)
	Insert(ctx context.Context, t *tracker.Tracker) error
	Update(ctx context.Context, t *tracker.Tracker) error
	Delete(ctx context.Context, id string) error
}

type ReimbursementRepository interface {
	All(ctx context.Context) ([]*reimbursement.Reimbursement, error)
	Insert(ctx context.Context, r *reimbursement.Reimbursement) error
	Update(ctx context.Context, r *reimbursement.Reimbursement) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	All(ctx context.Context) ([]*user.User, error)
	Insert(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	notification.Repository
	All(ctx context.Context) ([]*notification.Notification, error)
}

// Repositories bundles the remote stores. Any of them may be nil when
// the application runs without a reachable database.
type Repositories struct {
	Services       ServiceRepository
	Trackers       TrackerRepository
	Reimbursements ReimbursementRepository
	Users          UserRepository
	Notifications  NotificationRepository
}

type Coordinator struct {
	state        *State
	repos        Repositories
	reconciler   *tracker.Reconciler
	dispatcher   *notification.Dispatcher
	bus          *events.EventBus
	protected    notification.SuppressedActor
	allowOffline bool
	logger       *slog.Logger
}

func New(
	state *State,
	repos Repositories,
	reconciler *tracker.Reconciler,
	dispatcher *notification.Dispatcher,
	bus *events.EventBus,
	protected notification.SuppressedActor,
	allowOffline bool,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		state:        state,
		repos:        repos,
		reconciler:   reconciler,
		dispatcher:   dispatcher,
		bus:          bus,
		protected:    protected,
		allowOffline: allowOffline,
		logger:       logger,
	}
}

func (c *Coordinator) State() *State {
	return c.state
}

func (c *Coordinator) Offline() bool {
	return c.state.Offline()
}

// Refresh re-fetches every collection from the remote store. When the
// store is unreachable and offline mode is allowed, the current local
// state is kept and the coordinator degrades instead of failing.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if c.repos.Services == nil {
		return nil
	}

	services, err := c.repos.Services.All(ctx)
	if err != nil {
		return c.degradeOrFail(err)
	}
	trackers, err := c.repos.Trackers.All(ctx)
	if err != nil {
		return c.degradeOrFail(err)
	}
	reimbursements, err := c.repos.Reimbursements.All(ctx)
	if err != nil {
		return c.degradeOrFail(err)
	}
	notifications, err := c.repos.Notifications.All(ctx)
	if err != nil {
		return c.degradeOrFail(err)
	}
	users, err := c.repos.Users.All(ctx)
	if err != nil {
		return c.degradeOrFail(err)
	}

	c.state.ReplaceAll(services, trackers, reimbursements, notifications, users)
	c.state.SetOffline(false)
	return nil
}

func (c *Coordinator) degradeOrFail(err error) error {
	if c.allowOffline {
		c.state.SetOffline(true)
		c.logger.Warn("remote store unreachable, entering offline mode", "error", err)
		return nil
	}
	return internal.TranslateRemoteError(err)
}

// --- services ---

func (c *Coordinator) SaveService(ctx context.Context, actor *user.User, dto service.SaveServiceDTO) (*service.Service, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.AsValidationError(err)
	}

	svc := dto.ToService()
	if svc.TechnicianID == "" {
		svc.TechnicianID = actor.ID
	}

	prev := c.state.ServiceByID(svc.ID)
	if !actor.IsManager() {
		if svc.TechnicianID != actor.ID {
			return nil, internal.ErrNotRecordOwner
		}
		if prev != nil && prev.TechnicianID != actor.ID {
			return nil, internal.ErrNotRecordOwner
		}
	}

	if owner := c.state.UserByID(svc.TechnicianID); owner != nil {
		svc.TechnicianName = owner.Name
	} else if prev != nil {
		svc.TechnicianName = prev.TechnicianName
	}

	isNew := prev == nil
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}

	snapshot := c.state.SnapshotServices()
	c.state.UpsertService(svc.Clone())

	c.applyTrackerChanges(ctx, c.reconciler.PlanSave(prev, svc, c.state.Trackers()))

	kind := events.MutationUpdated
	switch {
	case isNew:
		kind = events.MutationCreated
	case serviceStatusOnlyChange(prev, svc):
		kind = events.MutationStatusChanged
	}
	c.publish(ctx, events.NewServiceMutated(kind, actor.ID, actor.Name, svc.TechnicianID, svc.ID, svc.Label()))

	if c.skipPersist() {
		return svc, nil
	}

	var err error
	if isNew {
		err = c.repos.Services.Insert(ctx, svc)
	} else {
		err = c.repos.Services.Update(ctx, svc)
	}
	if err != nil {
		c.state.RestoreServices(snapshot)
		return nil, internal.TranslateRemoteError(err)
	}
	return svc, nil
}

func (c *Coordinator) DeleteService(ctx context.Context, actor *user.User, id string) error {
	prev := c.state.ServiceByID(id)
	if prev == nil {
		return internal.ErrServiceNotFound
	}
	if !actor.IsManager() && prev.TechnicianID != actor.ID {
		return internal.ErrNotRecordOwner
	}

	snapshot := c.state.SnapshotServices()
	c.state.RemoveService(id)

	c.applyTrackerChanges(ctx, c.reconciler.PlanDelete(prev, c.state.Trackers()))

	c.publish(ctx, events.NewServiceMutated(events.MutationDeleted, actor.ID, actor.Name, prev.TechnicianID, prev.ID, prev.Label()))

	if c.skipPersist() {
		return nil
	}
	if err := c.repos.Services.Delete(ctx, id); err != nil {
		c.state.RestoreServices(snapshot)
		return internal.TranslateRemoteError(err)
	}
	return nil
}

// applyTrackerChanges applies reconciler output to the local state and
// persists each transition best-effort. A failed tracker write is logged
// and never blocks or rolls back the primary mutation.
func (c *Coordinator) applyTrackerChanges(ctx context.Context, changes []tracker.Change) {
	for _, change := range changes {
		c.state.UpsertTracker(change.Tracker)
		if c.skipPersist() {
			continue
		}
		var err error
		if change.Created {
			err = c.repos.Trackers.Insert(ctx, change.Tracker)
		} else {
			err = c.repos.Trackers.Update(ctx, change.Tracker)
		}
		if err != nil {
			c.logger.Warn("tracker reconciliation persist failed, local state kept",
				"tracker_id", change.Tracker.ID, "imei", change.Tracker.IMEI, "error", err)
		}
	}
}

// --- trackers ---

func (c *Coordinator) SaveTracker(ctx context.Context, actor *user.User, dto tracker.SaveTrackerDTO) (*tracker.Tracker, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.AsValidationError(err)
	}

	if dup := tracker.FindDuplicateIMEI(c.state.Trackers(), dto.IMEI, dto.ID); dup != nil {
		return nil, internal.ErrDuplicateIMEI
	}

	next := dto.ToTracker()
	prev := c.state.TrackerByID(next.ID)
	if prev != nil && prev.Status != tracker.StatusAvailable {
		return nil, internal.NewValidationError("only available trackers can be edited", internal.ErrCodeTrackerInUse)
	}

	if next.TechnicianID == "" {
		if prev != nil {
			next.TechnicianID = prev.TechnicianID
		} else {
			next.TechnicianID = actor.ID
		}
	}
	if !actor.IsManager() {
		if next.TechnicianID != actor.ID {
			return nil, internal.ErrNotRecordOwner
		}
		if prev != nil && prev.TechnicianID != actor.ID {
			return nil, internal.ErrNotRecordOwner
		}
	}
	if owner := c.state.UserByID(next.TechnicianID); owner != nil {
		next.TechnicianName = owner.Name
	}

	isNew := prev == nil
	transferred := prev != nil && prev.TechnicianID != next.TechnicianID
	if next.ID == "" {
		next.ID = uuid.NewString()
	}
	if prev != nil {
		next.Status = prev.Status
		next.InstallationDate = prev.InstallationDate
	}

	snapshot := c.state.SnapshotTrackers()
	c.state.UpsertTracker(next.Clone())

	kind := events.MutationUpdated
	switch {
	case isNew:
		kind = events.MutationCreated
	case transferred:
		kind = events.MutationOwnerTransferred
	}
	c.publish(ctx, events.NewTrackerMutated(kind, actor.ID, actor.Name, next.TechnicianID, next.ID, next.Label()))

	if c.skipPersist() {
		return next, nil
	}

	var err error
	if isNew {
		err = c.repos.Trackers.Insert(ctx, next)
	} else {
		err = c.repos.Trackers.Update(ctx, next)
	}
	if err != nil {
		c.state.RestoreTrackers(snapshot)
		return nil, internal.TranslateRemoteError(err)
	}
	return next, nil
}

func (c *Coordinator) DeleteTracker(ctx context.Context, actor *user.User, id string) error {
	prev := c.state.TrackerByID(id)
	if prev == nil {
		return internal.ErrTrackerNotFound
	}
	if !actor.IsManager() && prev.TechnicianID != actor.ID {
		return internal.ErrNotRecordOwner
	}
	if prev.Status != tracker.StatusAvailable {
		return internal.ErrTrackerInUse
	}

	snapshot := c.state.SnapshotTrackers()
	c.state.RemoveTracker(id)

	c.publish(ctx, events.NewTrackerMutated(events.MutationDeleted, actor.ID, actor.Name, prev.TechnicianID, prev.ID, prev.Label()))

	if c.skipPersist() {
		return nil
	}
	if err := c.repos.Trackers.Delete(ctx, id); err != nil {
		c.state.RestoreTrackers(snapshot)
		return internal.TranslateRemoteError(err)
	}
	return nil
}

// --- reimbursements ---

func (c *Coordinator) SaveReimbursement(ctx context.Context, actor *user.User, dto reimbursement.SaveReimbursementDTO) (*reimbursement.Reimbursement, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.AsValidationError(err)
	}

	claim := dto.ToReimbursement()
	if claim.TechnicianID == "" {
		claim.TechnicianID = actor.ID
	}

	prev := c.state.ReimbursementByID(claim.ID)
	if !actor.IsManager() {
		if claim.TechnicianID != actor.ID {
			return nil, internal.ErrNotRecordOwner
		}
		if prev != nil && prev.TechnicianID != actor.ID {
			return nil, internal.ErrNotRecordOwner
		}
		// Technicians never drive the approval workflow. The only status
		// move they own is confirming receipt of an approved payout.
		if prev == nil {
			claim.Status = reimbursement.StatusPending
		} else if claim.Status != prev.Status {
			if prev.Status != reimbursement.StatusAwaitingConfirmation || claim.Status != reimbursement.StatusPaid {
				return nil, internal.ErrForbiddenRole
			}
		}
	}

	if owner := c.state.UserByID(claim.TechnicianID); owner != nil {
		claim.TechnicianName = owner.Name
	} else if prev != nil {
		claim.TechnicianName = prev.TechnicianName
	}

	isNew := prev == nil
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}

	snapshot := c.state.SnapshotReimbursements()
	c.state.UpsertReimbursement(claim.Clone())

	kind := events.MutationUpdated
	switch {
	case isNew:
		kind = events.MutationCreated
	case reimbursementStatusOnlyChange(prev, claim):
		kind = events.MutationStatusChanged
	}
	c.publish(ctx, events.NewReimbursementMutated(kind, actor.ID, actor.Name, claim.TechnicianID, claim.ID, claim.Description))

	if c.skipPersist() {
		return claim, nil
	}

	var err error
	if isNew {
		err = c.repos.Reimbursements.Insert(ctx, claim)
	} else {
		err = c.repos.Reimbursements.Update(ctx, claim)
	}
	if err != nil {
		c.state.RestoreReimbursements(snapshot)
		return nil, internal.TranslateRemoteError(err)
	}
	return claim, nil
}

func (c *Coordinator) DeleteReimbursement(ctx context.Context, actor *user.User, id string) error {
	prev := c.state.ReimbursementByID(id)
	if prev == nil {
		return internal.ErrReimbursementNotFound
	}
	if !actor.IsManager() && prev.TechnicianID != actor.ID {
		return internal.ErrNotRecordOwner
	}

	snapshot := c.state.SnapshotReimbursements()
	c.state.RemoveReimbursement(id)

	c.publish(ctx, events.NewReimbursementMutated(events.MutationDeleted, actor.ID, actor.Name, prev.TechnicianID, prev.ID, prev.Description))

	if c.skipPersist() {
		return nil
	}
	if err := c.repos.Reimbursements.Delete(ctx, id); err != nil {
		c.state.RestoreReimbursements(snapshot)
		return internal.TranslateRemoteError(err)
	}
	return nil
}

// --- users ---

func (c *Coordinator) SaveUser(ctx context.Context, actor *user.User, dto user.SaveUserDTO) (*user.User, error) {
	if !actor.IsMaster() {
		return nil, internal.ErrForbiddenRole
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.AsValidationError(err)
	}

	prev := c.state.UserByID(dto.ID)
	if dto.ID != "" && prev == nil {
		return nil, internal.ErrUserNotFound
	}
	if prev != nil && c.isProtected(prev) {
		if (dto.IsActive != nil && !*dto.IsActive) || dto.Role != prev.Role {
			return nil, internal.ErrProtectedUser
		}
	}
	if existing := c.state.UserByPhone(dto.Phone); existing != nil && existing.ID != dto.ID {
		return nil, internal.NewConflictError("another user already uses this phone number", internal.ErrCodeValidationFailed)
	}

	next := &user.User{
		ID:       dto.ID,
		Name:     dto.Name,
		Phone:    dto.Phone,
		Password: dto.Password,
		Role:     dto.Role,
		IsActive: true,
		Avatar:   dto.Avatar,
	}
	if dto.IsActive != nil {
		next.IsActive = *dto.IsActive
	} else if prev != nil {
		next.IsActive = prev.IsActive
	}
	if next.Password == "" && prev != nil {
		next.Password = prev.Password
	}
	isNew := prev == nil
	if next.ID == "" {
		next.ID = uuid.NewString()
	}

	snapshot := c.state.SnapshotUsers()
	c.state.UpsertUser(next.Clone())

	if c.skipPersist() {
		return next, nil
	}

	var err error
	if isNew {
		err = c.repos.Users.Insert(ctx, next)
	} else {
		err = c.repos.Users.Update(ctx, next)
	}
	if err != nil {
		c.state.RestoreUsers(snapshot)
		return nil, internal.TranslateRemoteError(err)
	}
	return next, nil
}

func (c *Coordinator) DeleteUser(ctx context.Context, actor *user.User, id string) error {
	if !actor.IsMaster() {
		return internal.ErrForbiddenRole
	}
	prev := c.state.UserByID(id)
	if prev == nil {
		return internal.ErrUserNotFound
	}
	if c.isProtected(prev) {
		return internal.ErrProtectedUser
	}

	snapshot := c.state.SnapshotUsers()
	c.state.RemoveUser(id)

	if c.skipPersist() {
		return nil
	}
	if err := c.repos.Users.Delete(ctx, id); err != nil {
		c.state.RestoreUsers(snapshot)
		return internal.TranslateRemoteError(err)
	}
	return nil
}

func (c *Coordinator) UpdateProfile(ctx context.Context, actor *user.User, dto user.UpdateProfileDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.AsValidationError(err)
	}
	prev := c.state.UserByID(actor.ID)
	if prev == nil {
		return nil, internal.ErrUserNotFound
	}
	if existing := c.state.UserByPhone(dto.Phone); existing != nil && existing.ID != actor.ID {
		return nil, internal.NewConflictError("another user already uses this phone number", internal.ErrCodeValidationFailed)
	}

	next := prev.Clone()
	next.Name = dto.Name
	next.Phone = dto.Phone
	next.Avatar = dto.Avatar
	if dto.Password != "" {
		next.Password = dto.Password
	}

	snapshot := c.state.SnapshotUsers()
	c.state.UpsertUser(next)

	if c.skipPersist() {
		return next, nil
	}
	if err := c.repos.Users.Update(ctx, next); err != nil {
		c.state.RestoreUsers(snapshot)
		return nil, internal.TranslateRemoteError(err)
	}
	return next, nil
}

func (c *Coordinator) isProtected(u *user.User) bool {
	return c.protected.Matches(u.ID, u.Name)
}

// --- notifications ---

func (c *Coordinator) MarkNotificationRead(ctx context.Context, actor *user.User, id string) error {
	n := c.state.NotificationByID(id)
	if n == nil {
		return internal.ErrNotificationNotFound
	}
	if n.RecipientID != actor.ID {
		return internal.ErrNotRecordOwner
	}
	c.dispatcher.MarkRead(ctx, id)
	return nil
}

func (c *Coordinator) MarkAllNotificationsRead(ctx context.Context, actor *user.User) {
	c.dispatcher.MarkAllRead(ctx, actor.ID)
}

func (c *Coordinator) NotificationsFor(actor *user.User) []*notification.Notification {
	return c.state.NotificationsForRecipient(actor.ID)
}

// --- projections ---

func (c *Coordinator) VisibleServices(viewer *user.User, inspectedID string) []*service.Service {
	return visibility.Services(viewer, inspectedID, c.state.Services())
}

func (c *Coordinator) VisibleReimbursements(viewer *user.User, inspectedID string) []*reimbursement.Reimbursement {
	return visibility.Reimbursements(viewer, inspectedID, c.state.Reimbursements())
}

func (c *Coordinator) VisibleTrackers(viewer *user.User) []*tracker.Tracker {
	return visibility.Trackers(viewer, c.state.Trackers())
}

func (c *Coordinator) Stats(viewer *user.User, inspectedID string, month time.Month, year int) reporting.Stats {
	services := visibility.Services(viewer, inspectedID, c.state.Services())
	return reporting.PeriodStats(services, c.state.Trackers(), viewer, inspectedID, month, year)
}

func (c *Coordinator) ReimbursableTotal(viewer *user.User, inspectedID string, month time.Month, year int) float64 {
	claims := visibility.Reimbursements(viewer, inspectedID, c.state.Reimbursements())
	return reporting.ReimbursableTotal(claims, month, year)
}

func (c *Coordinator) Technicians() []*user.User {
	var technicians []*user.User
	for _, u := range c.state.Users() {
		if u.Role == user.RoleTechnician && u.IsActive {
			technicians = append(technicians, u)
		}
	}
	return technicians
}

// --- internals ---

func (c *Coordinator) skipPersist() bool {
	return c.state.Offline() || c.repos.Services == nil
}

func (c *Coordinator) publish(ctx context.Context, event events.Event) {
	if err := c.bus.PublishSync(ctx, event); err != nil {
		c.logger.Error("event handling failed", "event_type", event.EventType(), "error", err)
	}
}

func serviceStatusOnlyChange(prev, next *service.Service) bool {
	a := *prev
	b := *next
	a.Status, b.Status = "", ""
	a.CancellationReason, b.CancellationReason = "", ""
	a.CancelledBy, b.CancelledBy = "", ""
	return a == b && prev.Status != next.Status
}

func reimbursementStatusOnlyChange(prev, next *reimbursement.Reimbursement) bool {
	a := *prev
	b := *next
	a.Status, b.Status = "", ""
	return a == b && prev.Status != next.Status
}
