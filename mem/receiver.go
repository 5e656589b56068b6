package mem

import (
	"context"

	"go.uber.org/zap"

	"bsid.es/alarmclock"
)

// Receiver hands every alarm a Clock delivers to a handler, resubscribing if
// the clock drops the subscription.
type Receiver struct {
	Logger *zap.Logger

	clock  alarmclock.Clock
	handle func(context.Context, alarmclock.ClockAlarm)

	sub    alarmclock.ClockSubscription
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReceiver(clock alarmclock.Clock, handle func(context.Context, alarmclock.ClockAlarm)) *Receiver {
	return &Receiver{
		Logger: zap.NewNop(),
		clock:  clock,
		handle: handle,
		cancel: func() {},
	}
}

func (r *Receiver) Run(ctx context.Context) error {
	r.sub = r.clock.Subscribe(ctx)
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx)
	return nil
}

// Interrupt stops the receiver and waits for the handler in flight, if any.
func (r *Receiver) Interrupt() error {
	r.cancel()
	if r.done != nil {
		<-r.done
	}
	return nil
}

func (r *Receiver) run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			r.sub.Close()
			return

		case alarm, ok := <-r.sub.C():
			if !ok {
				r.Logger.Warn("clock dropped subscription, resubscribing")
				r.sub = r.clock.Subscribe(ctx)
				continue
			}
			r.Logger.Info("alarm delivered", zap.Time("at", alarm.At))
			r.handle(ctx, alarm)
		}
	}
}
