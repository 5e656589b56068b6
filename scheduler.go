package alarmclock

import (
	"context"
	"time"
)

// Scheduler holds the one pending alarm.
type Scheduler interface {
	// Schedule arranges for an alarm at the given instant, replacing any
	// alarm scheduled before.
	Schedule(ctx context.Context, at time.Time) error

	// Cancel removes the pending alarm. It is a no-op if there is none.
	Cancel(ctx context.Context) error
}
