package alarmclock

import "context"

// NextAlarmTimeKey is the preference key the next alarm time is stored under.
const NextAlarmTimeKey = "NEXT_ALARM_CLOCK_TIME"

// NoAlarm is returned by Store.NextAlarmTime when no alarm is stored.
const NoAlarm int64 = -1

// Store persists the single next alarm time as epoch milliseconds.
type Store interface {
	SetNextAlarmTime(ctx context.Context, ms int64) error

	// NextAlarmTime returns the stored time, or NoAlarm.
	NextAlarmTime(ctx context.Context) (int64, error)

	// HasNextAlarmTime reports whether NextAlarmTime would return something
	// other than NoAlarm.
	HasNextAlarmTime(ctx context.Context) (bool, error)

	// DeleteNextAlarmTime removes the stored time. It is a no-op if there is
	// none.
	DeleteNextAlarmTime(ctx context.Context) error
}
