package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bsid.es/alarmclock"
	"bsid.es/alarmclock/mem"
)

// PendingAlarms is the durable alarm slot other processes schedule into.
type PendingAlarms interface {
	Pending(ctx context.Context) (time.Time, error)

	// Consume removes the pending alarm if it is still at, reporting
	// whether it was.
	Consume(ctx context.Context, at time.Time) (bool, error)
}

const (
	DefaultResync   = 30 * time.Second
	DefaultDebounce = 100 * time.Millisecond
)

// Daemon delivers the pending alarm. It watches the database for changes
// made by other processes, fires the alarm on time and stops ringing once the
// alarm is dismissed anywhere.
type Daemon struct {
	Logger   *zap.Logger
	Resync   time.Duration
	Debounce time.Duration

	// OnRing, if set, is called after the alarm starts ringing. It must not
	// block.
	OnRing func(at time.Time)

	svc       *Service
	pending   PendingAlarms
	watchPath string

	clock  *mem.Clock
	syncMu sync.Mutex

	mu        sync.Mutex
	ringing   bool
	lastFired time.Time
}

// NewDaemon returns a daemon delivering alarms from pending. watchPath is the
// database file; changes to it (and its journal files) trigger a reload.
func NewDaemon(svc *Service, pending PendingAlarms, watchPath string) *Daemon {
	return &Daemon{
		Logger:    zap.NewNop(),
		Resync:    DefaultResync,
		Debounce:  DefaultDebounce,
		svc:       svc,
		pending:   pending,
		watchPath: watchPath,
	}
}

// Ringing reports whether the alarm is going off.
func (d *Daemon) Ringing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ringing
}

// Dismiss stops the ringing alarm.
func (d *Daemon) Dismiss(ctx context.Context) error {
	d.mu.Lock()
	d.ringing = false
	d.mu.Unlock()
	return d.svc.Dismiss(ctx)
}

// Run delivers alarms until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	// An alarm that lapsed while nothing was running is dropped, not rung late.
	if expired, err := d.svc.ExpireIfLapsed(ctx); err != nil {
		return fmt.Errorf("expire lapsed alarm: %w", err)
	} else if expired {
		d.Logger.Info("dropped alarm that lapsed while the daemon was down")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", d.watchPath, err)
	}
	if err := watcher.Add(filepath.Dir(d.watchPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", d.watchPath, err)
	}

	d.clock = mem.NewClock()
	d.clock.Now = d.svc.Now
	d.clock.Run(ctx)
	defer d.clock.Interrupt()

	recv := mem.NewReceiver(d.clock, d.fire)
	recv.Logger = d.Logger
	recv.Run(ctx)
	defer recv.Interrupt()

	if err := d.sync(ctx); err != nil {
		watcher.Close()
		return err
	}
	d.Logger.Info("daemon started", zap.String("db", d.watchPath))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer watcher.Close()
		return d.watch(gctx, watcher)
	})
	g.Go(func() error {
		return d.resync(gctx)
	})
	err = g.Wait()

	if silenceErr := d.svc.Silence(context.WithoutCancel(ctx)); silenceErr != nil {
		d.Logger.Warn("silence on shutdown", zap.Error(silenceErr))
	}
	d.Logger.Info("daemon stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *Daemon) watch(ctx context.Context, watcher *fsnotify.Watcher) error {
	base := filepath.Base(d.watchPath)

	debounce := time.NewTimer(1<<63 - 1)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			// Covers the -wal and -journal files next to the database.
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(d.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			d.Logger.Warn("watch error", zap.Error(err))

		case <-debounce.C:
			if err := d.sync(ctx); err != nil {
				d.Logger.Error("reload after change", zap.Error(err))
			}
		}
	}
}

func (d *Daemon) resync(ctx context.Context) error {
	ticker := time.NewTicker(d.Resync)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.sync(ctx); err != nil {
				d.Logger.Error("periodic reload", zap.Error(err))
			}
		}
	}
}

// sync loads the pending alarm into the clock, and stops ringing if the alarm
// was dismissed by another process.
func (d *Daemon) sync(ctx context.Context) error {
	d.syncMu.Lock()
	defer d.syncMu.Unlock()

	at, err := d.pending.Pending(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	fired := !at.IsZero() && at.Equal(d.lastFired)
	ringing := d.ringing
	d.mu.Unlock()

	// The clock's timer runs on the monotonic clock, which stands still
	// while the machine sleeps. An alarm that is due by the wall clock is
	// rearmed so that it fires now.
	due := !at.IsZero() && !at.After(d.svc.Now())
	switch {
	case fired:
	case !at.Equal(d.clock.Pending()):
		d.Logger.Debug("pending alarm changed", zap.Time("at", at))
		d.clock.Reload(at)
	case due:
		d.Logger.Debug("pending alarm is due", zap.Time("at", at))
		d.clock.Reload(at)
	}

	if ringing {
		has, err := d.svc.store.HasNextAlarmTime(ctx)
		if err != nil {
			return err
		}
		if !has {
			d.mu.Lock()
			d.ringing = false
			d.mu.Unlock()
			d.Logger.Info("alarm dismissed elsewhere")
			return d.svc.Silence(ctx)
		}
	}
	return nil
}

// fire rings the alarm the clock delivered. If the pending alarm can't be
// consumed it stays pending and the next sync fires it again.
func (d *Daemon) fire(ctx context.Context, alarm alarmclock.ClockAlarm) {
	d.setLastFired(alarm.At)
	ok, err := d.pending.Consume(ctx, alarm.At)
	if err != nil {
		d.Logger.Error("consume alarm", zap.Error(err))
		d.setLastFired(time.Time{})
		return
	}
	if !ok {
		d.Logger.Info("alarm changed before it fired", zap.Time("at", alarm.At))
		return
	}

	at, err := d.svc.Ring(ctx, alarm.At)
	if err != nil {
		d.Logger.Error("ring", zap.Error(err))
	}
	d.mu.Lock()
	d.ringing = true
	d.mu.Unlock()
	if d.OnRing != nil {
		d.OnRing(at)
	}
}

func (d *Daemon) setLastFired(at time.Time) {
	d.mu.Lock()
	d.lastFired = at
	d.mu.Unlock()
}
