package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"bsid.es/alarmclock"
	"bsid.es/alarmclock/app"
	"bsid.es/alarmclock/internal/config"
	"bsid.es/alarmclock/notify"
	"bsid.es/alarmclock/sound"
	"bsid.es/alarmclock/sqlite"
)

// deps is everything a command needs, opened from cfg.
type deps struct {
	db    *sqlite.DB
	sched *sqlite.Scheduler
	svc   *app.Service
}

func (d *deps) Close() error {
	return d.db.Close()
}

func openDeps(ctx context.Context) (*deps, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlite.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	store := sqlite.NewStore(db)
	sched := sqlite.NewScheduler(db)
	sched.Location = loc

	svc := app.NewService(app.Deps{
		Store:       store,
		Scheduler:   sched,
		Notifier:    newNotifier(),
		Player:      newPlayer(),
		Permissions: store,
	})
	svc.Location = loc
	svc.Logger = log
	return &deps{db: db, sched: sched, svc: svc}, nil
}

func newNotifier() alarmclock.Notifier {
	switch cfg.Notify.Backend {
	case config.NotifyTerminal:
		return notify.NewTerminal(os.Stderr)
	case config.NotifyNone:
		return notify.Nop{}
	default:
		d := notify.NewDesktop(cfg.App.Name)
		d.Logger = log
		return d
	}
}

func newPlayer() *sound.Player {
	var src sound.Source = &sound.Bell{W: os.Stderr, Interval: cfg.Sound.BellInterval}
	if cfg.Sound.Command != config.SoundBell {
		cmd, err := sound.ParseCommand(cfg.Sound.Command)
		if err != nil {
			log.Warn("falling back to the terminal bell", zap.Error(err))
		} else {
			cmd.Logger = log
			src = &fallbackSource{primary: cmd, fallback: src, log: log}
		}
	}
	p := sound.NewPlayer(src)
	p.Logger = log
	return p
}

// fallbackSource rings the bell when the audio player can't be started.
type fallbackSource struct {
	primary  sound.Source
	fallback sound.Source
	log      *zap.Logger
}

func (s *fallbackSource) Open(ctx context.Context) (sound.Handle, error) {
	h, err := s.primary.Open(ctx)
	if err == nil {
		return h, nil
	}
	s.log.Warn("falling back to the terminal bell", zap.Error(err))
	return s.fallback.Open(ctx)
}
