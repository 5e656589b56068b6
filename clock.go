package alarmclock

import (
	"context"
	"time"
)

// Clock turns a pending alarm instant into a delivery at that instant.
type Clock interface {
	// Reload replaces the pending alarm. The zero time clears it.
	Reload(at time.Time)
	Subscribe(context.Context) ClockSubscription
}

type ClockSubscription interface {
	// C returns the channel alarms are delivered on.
	//
	// If the subscriber can't keep up with the alarms coming from this channel,
	// Clock unsubscribes it and closes its channel; in this case, the
	// subscription holder will need to subscribe again.
	C() <-chan ClockAlarm

	// Close closes the subscription.
	Close() error
}

type ClockAlarm struct {
	At time.Time `json:"at"`
}
