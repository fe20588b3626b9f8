package coordinator

import (
	"sync"

	"github.com/airotrack/fieldops/internal/notification"
	"github.com/airotrack/fieldops/internal/reimbursement"
	"github.com/airotrack/fieldops/internal/service"
	"github.com/airotrack/fieldops/internal/tracker"
	"github.com/airotrack/fieldops/internal/user"
)

// State is the local optimistic view of every collection. Writers insert
// clones and never mutate through shared pointers, so a snapshot is just a
// copy of the pointer slice. It also implements notification.Store.
type State struct {
	mu             sync.RWMutex
	services       []*service.Service
	trackers       []*tracker.Tracker
	reimbursements []*reimbursement.Reimbursement
	notifications  []*notification.Notification
	users          []*user.User
	offline        bool
}

func NewState() *State {
	return &State{}
}

func (st *State) Offline() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.offline
}

func (st *State) SetOffline(offline bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.offline = offline
}

// ReplaceAll swaps in freshly fetched collections after a bulk load.
func (st *State) ReplaceAll(
	services []*service.Service,
	trackers []*tracker.Tracker,
	reimbursements []*reimbursement.Reimbursement,
	notifications []*notification.Notification,
	users []*user.User,
) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.services = services
	st.trackers = trackers
	st.reimbursements = reimbursements
	st.notifications = notifications
	st.users = users
}

// --- services ---

func (st *State) Services() []*service.Service {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*service.Service, len(st.services))
	copy(out, st.services)
	return out
}

func (st *State) ServiceByID(id string) *service.Service {
	if id == "" {
		return nil
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.services {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (st *State) UpsertService(s *service.Service) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, existing := range st.services {
		if existing.ID == s.ID {
			st.services[i] = s
			return
		}
	}
	st.services = append([]*service.Service{s}, st.services...)
}

func (st *State) RemoveService(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, s := range st.services {
		if s.ID == id {
			st.services = append(st.services[:i:i], st.services[i+1:]...)
			return
		}
	}
}

func (st *State) SnapshotServices() []*service.Service {
	return st.Services()
}

func (st *State) RestoreServices(snapshot []*service.Service) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.services = snapshot
}

// --- trackers ---

func (st *State) Trackers() []*tracker.Tracker {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*tracker.Tracker, len(st.trackers))
	copy(out, st.trackers)
	return out
}

func (st *State) TrackerByID(id string) *tracker.Tracker {
	if id == "" {
		return nil
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, t := range st.trackers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (st *State) TrackerByIMEI(imei string) *tracker.Tracker {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, t := range st.trackers {
		if t.IMEI == imei {
			return t
		}
	}
	return nil
}

func (st *State) UpsertTracker(t *tracker.Tracker) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, existing := range st.trackers {
		if existing.ID == t.ID {
			st.trackers[i] = t
			return
		}
	}
	st.trackers = append([]*tracker.Tracker{t}, st.trackers...)
}

func (st *State) RemoveTracker(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, t := range st.trackers {
		if t.ID == id {
			st.trackers = append(st.trackers[:i:i], st.trackers[i+1:]...)
			return
		}
	}
}

func (st *State) SnapshotTrackers() []*tracker.Tracker {
	return st.Trackers()
}

func (st *State) RestoreTrackers(snapshot []*tracker.Tracker) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.trackers = snapshot
}

// --- reimbursements ---

func (st *State) Reimbursements() []*reimbursement.Reimbursement {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*reimbursement.Reimbursement, len(st.reimbursements))
	copy(out, st.reimbursements)
	return out
}

func (st *State) ReimbursementByID(id string) *reimbursement.Reimbursement {
	if id == "" {
		return nil
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, r := range st.reimbursements {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (st *State) UpsertReimbursement(r *reimbursement.Reimbursement) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, existing := range st.reimbursements {
		if existing.ID == r.ID {
			st.reimbursements[i] = r
			return
		}
	}
	st.reimbursements = append([]*reimbursement.Reimbursement{r}, st.reimbursements...)
}

func (st *State) RemoveReimbursement(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, r := range st.reimbursements {
		if r.ID == id {
			st.reimbursements = append(st.reimbursements[:i:i], st.reimbursements[i+1:]...)
			return
		}
	}
}

func (st *State) SnapshotReimbursements() []*reimbursement.Reimbursement {
	return st.Reimbursements()
}

func (st *State) RestoreReimbursements(snapshot []*reimbursement.Reimbursement) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.reimbursements = snapshot
}

// --- users ---

func (st *State) Users() []*user.User {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*user.User, len(st.users))
	copy(out, st.users)
	return out
}

func (st *State) UserByID(id string) *user.User {
	if id == "" {
		return nil
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, u := range st.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (st *State) UserByPhone(phone string) *user.User {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, u := range st.users {
		if u.Phone == phone {
			return u
		}
	}
	return nil
}

func (st *State) UpsertUser(u *user.User) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, existing := range st.users {
		if existing.ID == u.ID {
			st.users[i] = u
			return
		}
	}
	st.users = append(st.users, u)
}

func (st *State) RemoveUser(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, u := range st.users {
		if u.ID == id {
			st.users = append(st.users[:i:i], st.users[i+1:]...)
			return
		}
	}
}

func (st *State) SnapshotUsers() []*user.User {
	return st.Users()
}

func (st *State) RestoreUsers(snapshot []*user.User) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.users = snapshot
}

// --- notifications (notification.Store) ---

func (st *State) Notifications() []*notification.Notification {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*notification.Notification, len(st.notifications))
	copy(out, st.notifications)
	return out
}

func (st *State) NotificationsForRecipient(recipientID string) []*notification.Notification {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*notification.Notification, 0)
	for _, n := range st.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

func (st *State) PrependNotification(n *notification.Notification) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.notifications = append([]*notification.Notification{n}, st.notifications...)
}

func (st *State) NotificationByID(id string) *notification.Notification {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, n := range st.notifications {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// MarkNotificationRead flips one read flag and reports whether anything
// changed; already-read notifications stay untouched.
func (st *State) MarkNotificationRead(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, n := range st.notifications {
		if n.ID == id {
			if n.IsRead {
				return false
			}
			read := n.Clone()
			read.IsRead = true
			st.notifications[i] = read
			return true
		}
	}
	return false
}

// MarkAllNotificationsRead flips the recipient's unread set and returns
// the ids that changed.
func (st *State) MarkAllNotificationsRead(recipientID string) []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	var changed []string
	for i, n := range st.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			read := n.Clone()
			read.IsRead = true
			st.notifications[i] = read
			changed = append(changed, n.ID)
		}
	}
	return changed
}
