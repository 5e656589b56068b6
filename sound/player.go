// Package sound loops the alarm cue until it is stopped.
package sound

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bsid.es/alarmclock"
)

// Source starts playback.
type Source interface {
	Open(ctx context.Context) (Handle, error)
}

// Handle is one running playback.
type Handle interface {
	// Stop halts playback.
	Stop() error

	// Release frees whatever playback held and returns once it has.
	Release() error
}

// Player keeps at most one Handle open at a time.
type Player struct {
	Logger *zap.Logger

	src Source

	mu sync.Mutex
	h  Handle
}

func NewPlayer(src Source) *Player {
	return &Player{Logger: zap.NewNop(), src: src}
}

var _ alarmclock.Player = (*Player)(nil)

// Start begins playback. A playback already in progress is stopped and
// released first.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.stop(); err != nil {
		p.Logger.Warn("release previous playback", zap.Error(err))
	}
	h, err := p.src.Open(ctx)
	if err != nil {
		return fmt.Errorf("start alarm sound: %w", err)
	}
	p.h = h
	p.Logger.Debug("alarm sound started")
	return nil
}

// Stop stops playback and releases it before returning. It is a no-op if
// nothing is playing.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop()
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.h != nil
}

func (p *Player) stop() error {
	if p.h == nil {
		return nil
	}
	h := p.h
	p.h = nil
	err := errors.Join(h.Stop(), h.Release())
	p.Logger.Debug("alarm sound stopped")
	return err
}
