// Package app wires the alarm collaborators into the operations behind each
// screen, and runs the daemon that delivers the alarm.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bsid.es/alarmclock"
)

const (
	NoAlarmText     = "No alarm has been set"
	SetAlarmLabel   = "Set alarm"
	EditAlarmLabel  = "Edit alarm"
	DeleteAlarmText = "Alarm deleted"
)

// Deps are the collaborators a Service drives.
type Deps struct {
	Store       alarmclock.Store
	Scheduler   alarmclock.Scheduler
	Notifier    alarmclock.Notifier
	Player      alarmclock.Player
	Permissions alarmclock.PermissionStore
}

// Service implements the alarm clock's operations on top of its Deps.
type Service struct {
	Now      func() time.Time
	Location *time.Location
	Logger   *zap.Logger

	store     alarmclock.Store
	scheduler alarmclock.Scheduler
	notifier  alarmclock.Notifier
	player    alarmclock.Player
	perms     alarmclock.PermissionStore
}

func NewService(deps Deps) *Service {
	return &Service{
		Now:       time.Now,
		Location:  time.Local,
		Logger:    zap.NewNop(),
		store:     deps.Store,
		scheduler: deps.Scheduler,
		notifier:  deps.Notifier,
		player:    deps.Player,
		perms:     deps.Permissions,
	}
}

func (s *Service) now() time.Time {
	return s.Now().In(s.Location)
}

// Status is what the main screen shows.
type Status struct {
	HasAlarm bool
	At       time.Time
	Text     string
	Action   string

	// Expired is set when a lapsed alarm was cleared on the way.
	Expired bool
}

// Status clears a lapsed alarm, then reports the alarm left, if any.
func (s *Service) Status(ctx context.Context) (Status, error) {
	expired, err := s.ExpireIfLapsed(ctx)
	if err != nil {
		return Status{}, err
	}
	at, ok, err := s.nextAlarm(ctx)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{Text: NoAlarmText, Action: SetAlarmLabel, Expired: expired}, nil
	}
	return Status{
		HasAlarm: true,
		At:       at,
		Text:     alarmclock.FormatTime(at),
		Action:   EditAlarmLabel,
		Expired:  expired,
	}, nil
}

// ExpireIfLapsed clears an alarm whose time has passed: the pending alarm is
// cancelled, the stored time deleted, the sound stopped and notifications
// cleared. It reports whether there was such an alarm.
func (s *Service) ExpireIfLapsed(ctx context.Context) (bool, error) {
	at, ok, err := s.nextAlarm(ctx)
	if err != nil || !ok {
		return false, err
	}
	if !alarmclock.Lapsed(at, s.now()) {
		return false, nil
	}
	s.Logger.Info("clearing lapsed alarm", zap.Time("at", at))
	err = errors.Join(
		s.scheduler.Cancel(ctx),
		s.store.DeleteNextAlarmTime(ctx),
		s.player.Stop(),
		s.notifier.CancelAll(ctx),
	)
	return true, err
}

// Scheduled describes an alarm that was just set.
type Scheduled struct {
	At      time.Time
	Message string
}

// SetAlarm sets the alarm for the next occurrence of hour:minute, replacing
// any alarm set before.
func (s *Service) SetAlarm(ctx context.Context, hour, minute int) (Scheduled, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Scheduled{}, alarmclock.Errorf(alarmclock.ErrInvalid, "invalid time %02d:%02d", hour, minute)
	}
	now := s.now()
	at := alarmclock.NextAlarmTime(now, hour, minute)
	if err := s.scheduler.Schedule(ctx, at); err != nil {
		return Scheduled{}, err
	}
	if err := s.store.SetNextAlarmTime(ctx, alarmclock.Millis(at)); err != nil {
		return Scheduled{}, err
	}
	s.Logger.Info("alarm set", zap.Time("at", at))
	return Scheduled{At: at, Message: alarmclock.CountdownMessage(at, now)}, nil
}

// DeleteAlarm cancels and forgets the alarm. It is a no-op without one.
func (s *Service) DeleteAlarm(ctx context.Context) error {
	if err := s.scheduler.Cancel(ctx); err != nil {
		return err
	}
	if err := s.store.DeleteNextAlarmTime(ctx); err != nil {
		return err
	}
	s.Logger.Info("alarm deleted")
	return nil
}

// AlertText is the time shown on the alert screen.
func (s *Service) AlertText(ctx context.Context) (string, error) {
	at, ok, err := s.nextAlarm(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return NoAlarmText, nil
	}
	return alarmclock.FormatTime(at), nil
}

// Dismiss is the alert screen's stop button. Every step runs even if an
// earlier one fails.
func (s *Service) Dismiss(ctx context.Context) error {
	err := errors.Join(
		s.player.Stop(),
		s.scheduler.Cancel(ctx),
		s.store.DeleteNextAlarmTime(ctx),
		s.notifier.CancelAll(ctx),
	)
	s.Logger.Info("alarm dismissed")
	return err
}

// Silence stops the sound and clears notifications without touching the
// alarm itself.
func (s *Service) Silence(ctx context.Context) error {
	return errors.Join(s.player.Stop(), s.notifier.CancelAll(ctx))
}

// Ring is run when the alarm goes off: it posts the notification and starts
// the sound. The returned time is the alarm being rung, which is the stored
// time if there is one and firedAt otherwise.
func (s *Service) Ring(ctx context.Context, firedAt time.Time) (time.Time, error) {
	at, ok, err := s.nextAlarm(ctx)
	if err != nil {
		s.Logger.Warn("read alarm time", zap.Error(err))
	}
	if !ok {
		at = firedAt.In(s.Location)
	}
	s.Logger.Info("ringing", zap.Time("at", at))
	postErr := s.notifier.Post(ctx, alarmclock.Notification{
		Channel:  alarmclock.NotificationChannel,
		Title:    alarmclock.NotificationTitle(at),
		Priority: alarmclock.PriorityHigh,
		At:       at,
		Action:   alarmclock.DismissCommand,
	})
	return at, errors.Join(postErr, s.player.Start(ctx))
}

var requiredPermissions = []alarmclock.Permission{
	alarmclock.PermissionScheduleExactAlarm,
	alarmclock.PermissionPostNotifications,
}

// CheckPermissions asks for every permission not granted yet. A refusal
// returns an ErrPermission error whose description is the message to show
// before exiting.
func (s *Service) CheckPermissions(ctx context.Context, prompter alarmclock.Prompter) error {
	for _, p := range requiredPermissions {
		if p == alarmclock.PermissionPostNotifications && !s.notifier.Available() {
			return alarmclock.Errorf(alarmclock.ErrPermission, "%s", p.DeniedMessage())
		}
		granted, err := s.perms.Granted(ctx, p)
		if err != nil {
			return err
		}
		if granted {
			continue
		}
		ok, err := prompter.Request(ctx, p)
		if err != nil {
			return alarmclock.Wrap(alarmclock.ErrPermission, err, p.DeniedMessage())
		}
		if !ok {
			return alarmclock.Errorf(alarmclock.ErrPermission, "%s", p.DeniedMessage())
		}
		if err := s.perms.Grant(ctx, p); err != nil {
			return err
		}
		s.Logger.Info("permission granted", zap.String("permission", string(p)))
	}
	return nil
}

func (s *Service) nextAlarm(ctx context.Context) (time.Time, bool, error) {
	ms, err := s.store.NextAlarmTime(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	if ms == alarmclock.NoAlarm {
		return time.Time{}, false, nil
	}
	return alarmclock.FromMillis(ms, s.Location), true, nil
}
