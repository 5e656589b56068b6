package sound

import (
	"context"
	"io"
	"time"
)

// Bell rings the terminal bell every Interval.
type Bell struct {
	W        io.Writer
	Interval time.Duration
}

func (b *Bell) Open(ctx context.Context) (Handle, error) {
	interval := b.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &bellHandle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			io.WriteString(b.W, "\a")
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return h, nil
}

type bellHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (h *bellHandle) Stop() error {
	h.cancel()
	return nil
}

func (h *bellHandle) Release() error {
	h.cancel()
	<-h.done
	return nil
}
