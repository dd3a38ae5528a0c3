// Package notify is the notification port between the board services and
// the presentation layer. The propagation engine enqueues notifications;
// the UI drains, displays, and dismisses them. Delivery is fire-and-forget:
// a notification that is never shown does not affect board state.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level indicates the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Action is an optional reversible step attached to a notification, e.g.
// undoing an automatic completion.
type Action struct {
	Label string
	Fn    func() error
}

// Notification is one entry of the queue.
type Notification struct {
	ID      string
	Level   Level
	Message string
	Action  *Action
	Expires time.Time
}

// Notifier is the port the services publish through.
type Notifier interface {
	Notify(n Notification)
}

// Queue is an in-process Notifier with expiry-based display and explicit
// dismissal. It is safe for use from the UI loop and service callbacks.
type Queue struct {
	mu    sync.Mutex
	ttl   time.Duration
	items []Notification
}

// NewQueue creates a queue whose notifications expire after ttl.
func NewQueue(ttl time.Duration) *Queue {
	return &Queue{ttl: ttl}
}

// Notify appends a notification, assigning its ID and expiry.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n.ID = uuid.NewString()
	n.Expires = time.Now().Add(q.ttl)
	q.items = append(q.items, n)
}

// Active returns the notifications still within their display window and
// drops the expired ones.
func (q *Queue) Active(now time.Time) []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	for _, n := range q.items {
		if n.Expires.After(now) {
			kept = append(kept, n)
		}
	}
	q.items = kept

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Dismiss removes a notification by ID.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
