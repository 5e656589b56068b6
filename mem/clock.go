package mem

import (
	"context"
	"sync"
	"time"

	"bsid.es/alarmclock"
)

// Clock fires the single pending alarm with an in-process timer. It also
// serves as an alarmclock.Scheduler for programs that keep running until the
// alarm goes off.
type Clock struct {
	Now func() time.Time

	newAlarm chan time.Time
	reloadMu sync.Mutex

	mu      sync.Mutex
	pending time.Time
	subs    map[*ClockSubscription]struct{}

	cancel context.CancelFunc
}

func NewClock() *Clock {
	return &Clock{
		Now:      time.Now,
		newAlarm: make(chan time.Time, 1),
		subs:     make(map[*ClockSubscription]struct{}),
		cancel:   func() {},
	}
}

func (c *Clock) Run(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)
	return nil
}

func (c *Clock) Interrupt() error {
	c.cancel()
	return nil
}

var (
	_ alarmclock.Clock     = (*Clock)(nil)
	_ alarmclock.Scheduler = (*Clock)(nil)
)

// Reload replaces the pending alarm. Instants in the past fire immediately.
func (c *Clock) Reload(at time.Time) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	c.mu.Lock()
	c.pending = at
	c.mu.Unlock()

	select {
	case <-c.newAlarm:
	default:
	}
	c.newAlarm <- at
}

func (c *Clock) Schedule(ctx context.Context, at time.Time) error {
	c.Reload(at)
	return nil
}

func (c *Clock) Cancel(ctx context.Context) error {
	c.Reload(time.Time{})
	return nil
}

// Pending returns the alarm that has not fired yet, or the zero time.
func (c *Clock) Pending() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

const subBufferSize = 16

func (c *Clock) Subscribe(ctx context.Context) alarmclock.ClockSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := &ClockSubscription{
		clock: c,
		c:     make(chan alarmclock.ClockAlarm, subBufferSize),
	}
	c.subs[sub] = struct{}{}
	return sub
}

func (c *Clock) run(ctx context.Context) {
	var at time.Time

	timer := time.NewTimer(1<<63 - 1)
	stopTimer(timer)

	for {
		select {
		case <-ctx.Done(): // Operation was canceled.
			timer.Stop()
			return

		case at = <-c.newAlarm:
			// The pending alarm changed. Rearm the timer.
			stopTimer(timer)
			if !at.IsZero() {
				timer.Reset(at.Sub(c.Now()))
			}

		case <-timer.C:
			if at.IsZero() {
				continue
			}

			now := c.Now()
			if now.Before(at) {
				// Time drift. Sleep again.
				timer.Reset(at.Sub(now))
				continue
			}

			c.mu.Lock()
			if c.pending.Equal(at) {
				c.pending = time.Time{}
			}
			c.mu.Unlock()

			c.publish(at)
			at = time.Time{}
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func (c *Clock) publish(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	alarm := alarmclock.ClockAlarm{At: at}
	for sub := range c.subs {
		select {
		case sub.c <- alarm:
		default:
			// Drop subscription.
			sub.close()
		}
	}
}

var _ alarmclock.ClockSubscription = (*ClockSubscription)(nil)

type ClockSubscription struct {
	clock *Clock
	c     chan alarmclock.ClockAlarm
	once  sync.Once
}

func (sub *ClockSubscription) C() <-chan alarmclock.ClockAlarm {
	return sub.c
}

func (sub *ClockSubscription) Close() error {
	sub.clock.mu.Lock()
	defer sub.clock.mu.Unlock()
	sub.close()
	return nil
}

func (sub *ClockSubscription) close() {
	sub.once.Do(func() {
		close(sub.c)
	})
	delete(sub.clock.subs, sub)
}
