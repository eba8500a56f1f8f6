// Package notify holds the transient notifications shown on a drop page.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// DefaultDuration applies to success and error notifications created with a
// zero duration
const DefaultDuration = 4 * time.Second

// Toaster keeps the notifications of one page. Safe for concurrent use.
type Toaster struct {
	mu    sync.Mutex
	items map[string]models.Notification
	seq   map[string]uint64
	next  uint64
	nowFn func() time.Time
}

// NewToaster creates an empty toaster
func NewToaster() *Toaster {
	return &Toaster{
		items: make(map[string]models.Notification),
		seq:   make(map[string]uint64),
		nowFn: time.Now,
	}
}

// Loading shows a notification that stays until dismissed and returns its id
func (t *Toaster) Loading(message string) string {
	return t.add(models.NotificationLoading, message, 0)
}

// Success shows a success notification for d
func (t *Toaster) Success(message string, d time.Duration) string {
	if d <= 0 {
		d = DefaultDuration
	}
	return t.add(models.NotificationSuccess, message, d)
}

// Error shows a failure notification for d
func (t *Toaster) Error(message string, d time.Duration) string {
	if d <= 0 {
		d = DefaultDuration
	}
	return t.add(models.NotificationError, message, d)
}

// Dismiss removes a notification. Unknown ids are ignored.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, id)
	delete(t.seq, id)
}

// Active returns the notifications visible at now, oldest first. Expired
// entries are dropped.
func (t *Toaster) Active(now time.Time) []models.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := make([]models.Notification, 0, len(t.items))
	for id, n := range t.items {
		if n.Expired(now) {
			delete(t.items, id)
			delete(t.seq, id)
			continue
		}
		active = append(active, n)
	}
	sort.Slice(active, func(i, j int) bool {
		return t.seq[active[i].ID] < t.seq[active[j].ID]
	})
	return active
}

func (t *Toaster) add(kind models.NotificationKind, message string, d time.Duration) string {
	n := models.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: t.nowFn(),
		Duration:  d,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.items[n.ID] = n
	t.seq[n.ID] = t.next
	return n.ID
}
