package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"bsid.es/alarmclock"
)

// Terminal prints notifications as a highlighted line.
type Terminal struct {
	w io.Writer

	mu      sync.Mutex
	showing int
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

var _ alarmclock.Notifier = (*Terminal)(nil)

func (t *Terminal) Available() bool { return true }

func (t *Terminal) Post(ctx context.Context, n alarmclock.Notification) error {
	c := color.New(color.Bold)
	if n.Priority == alarmclock.PriorityHigh {
		c = color.New(color.FgRed, color.Bold)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showing++
	if _, err := fmt.Fprintln(t.w, c.Sprint("[alarm] "+n.Title)); err != nil {
		return err
	}
	if n.Action != "" {
		_, err := fmt.Fprintln(t.w, color.New(color.Faint).Sprint("[alarm] "+alarmclock.NotificationBody(n.Action)))
		return err
	}
	return nil
}

func (t *Terminal) CancelAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.showing > 0 {
		t.showing = 0
		_, err := fmt.Fprintln(t.w, color.New(color.Faint).Sprint("[alarm] dismissed"))
		return err
	}
	return nil
}

// Nop discards notifications. It is used when notifications are turned off.
type Nop struct{}

var _ alarmclock.Notifier = Nop{}

func (Nop) Post(context.Context, alarmclock.Notification) error { return nil }
func (Nop) CancelAll(context.Context) error                     { return nil }
func (Nop) Available() bool                                     { return true }
