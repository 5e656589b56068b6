package mem

import (
	"context"
	"sync"

	"bsid.es/alarmclock"
)

// Notifier records notifications instead of showing them.
type Notifier struct {
	Unavailable bool

	mu      sync.Mutex
	posted  []alarmclock.Notification
	showing []alarmclock.Notification
}

var _ alarmclock.Notifier = (*Notifier)(nil)

func (n *Notifier) Post(ctx context.Context, notif alarmclock.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.posted = append(n.posted, notif)
	n.showing = append(n.showing, notif)
	return nil
}

func (n *Notifier) CancelAll(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.showing = nil
	return nil
}

func (n *Notifier) Available() bool {
	return !n.Unavailable
}

// Posted returns every notification posted so far.
func (n *Notifier) Posted() []alarmclock.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]alarmclock.Notification(nil), n.posted...)
}

// Showing returns the notifications posted since the last CancelAll.
func (n *Notifier) Showing() []alarmclock.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]alarmclock.Notification(nil), n.showing...)
}
