package alarmclock

import "context"

// Player loops the alarm sound.
type Player interface {
	// Start plays the sound until Stop is called. Starting while already
	// playing replaces the previous playback.
	Start(ctx context.Context) error

	// Stop stops playback and releases its resources. It is a no-op when
	// nothing is playing.
	Stop() error
}
