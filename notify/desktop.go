// Package notify shows alarm notifications on the desktop or the terminal.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"

	"bsid.es/alarmclock"
)

// Runner runs an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Desktop posts notifications through the platform's notification tool.
type Desktop struct {
	AppName string
	Logger  *zap.Logger

	backend  backend
	run      Runner
	lookPath func(string) (string, error)

	mu  sync.Mutex
	ids []string
}

func NewDesktop(appName string) *Desktop {
	return &Desktop{
		AppName:  appName,
		Logger:   zap.NewNop(),
		backend:  defaultBackend,
		run:      execRunner,
		lookPath: exec.LookPath,
	}
}

var _ alarmclock.Notifier = (*Desktop)(nil)

func (d *Desktop) Available() bool {
	if d.backend == nil {
		return false
	}
	_, err := d.lookPath(d.backend.tool())
	return err == nil
}

func (d *Desktop) Post(ctx context.Context, n alarmclock.Notification) error {
	if d.backend == nil {
		return errors.New("desktop notifications are not supported on this platform")
	}
	out, err := d.run(ctx, d.backend.tool(), d.backend.postArgs(d.AppName, n)...)
	if err != nil {
		return fmt.Errorf("%s: %w", d.backend.tool(), err)
	}
	if id := d.backend.parseID(out); id != "" {
		d.mu.Lock()
		d.ids = append(d.ids, id)
		d.mu.Unlock()
	}
	d.Logger.Debug("notification posted", zap.String("title", n.Title))
	return nil
}

// CancelAll closes the notifications this Desktop posted. Notifications the
// platform can't withdraw are left for the user to dismiss.
func (d *Desktop) CancelAll(ctx context.Context) error {
	d.mu.Lock()
	ids := d.ids
	d.ids = nil
	d.mu.Unlock()

	var errs []error
	for _, id := range ids {
		name, args, ok := d.backend.closeCommand(id)
		if !ok {
			continue
		}
		if _, err := d.run(ctx, name, args...); err != nil {
			errs = append(errs, fmt.Errorf("close notification %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
