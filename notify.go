package alarmclock

import (
	"context"
	"time"
)

// NotificationChannel identifies the alarm notification stream.
const NotificationChannel = "ALARM_NOTIFICATION_CHANNEL"

// DismissCommand is the command that stops a ringing alarm from any terminal.
const DismissCommand = "alarmclock dismiss"

type Priority int

const (
	PriorityDefault Priority = iota
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	default:
		return "default"
	}
}

// Notification is the alert posted when the alarm goes off.
type Notification struct {
	Channel  string
	Title    string
	Priority Priority
	At       time.Time

	// Action is the command that acts on the notification. Backends that
	// can't run it show it to the user instead.
	Action string
}

// Notifier posts and clears alarm notifications.
type Notifier interface {
	Post(ctx context.Context, n Notification) error

	// CancelAll clears every notification this program posted.
	CancelAll(ctx context.Context) error

	// Available reports whether notifications can be shown at all.
	Available() bool
}
