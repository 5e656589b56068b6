package mem

import (
	"context"
	"sync"

	"bsid.es/alarmclock"
)

// Player tracks playback state without making a sound.
type Player struct {
	mu      sync.Mutex
	playing bool
	starts  int
	stops   int
}

var _ alarmclock.Player = (*Player)(nil)

func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.starts++
	return nil
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.playing = false
		p.stops++
	}
	return nil
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Counts returns how many times playback started and stopped.
func (p *Player) Counts() (starts, stops int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts, p.stops
}
