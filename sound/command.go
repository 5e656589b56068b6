package sound

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// minRun is how long one play of the cue must take before it is repeated
// right away. Shorter runs are spaced out by retryDelay.
const (
	minRun     = 100 * time.Millisecond
	retryDelay = time.Second
)

// Command plays the cue by running an external player over and over, e.g.
// "paplay alarm.oga" or "afplay Ping.aiff".
type Command struct {
	Name   string
	Args   []string
	Logger *zap.Logger
}

// ParseCommand splits a command line on white space.
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty sound command")
	}
	return &Command{Name: fields[0], Args: fields[1:], Logger: zap.NewNop()}, nil
}

func (c *Command) Open(ctx context.Context) (Handle, error) {
	if _, err := exec.LookPath(c.Name); err != nil {
		return nil, fmt.Errorf("sound command: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &commandHandle{cancel: cancel, done: make(chan struct{})}
	go h.loop(ctx, c)
	return h, nil
}

type commandHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (h *commandHandle) loop(ctx context.Context, c *Command) {
	defer close(h.done)
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for {
		start := time.Now()
		err := exec.CommandContext(ctx, c.Name, c.Args...).Run()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Warn("sound command failed", zap.String("command", c.Name), zap.Error(err))
		}
		if err != nil || time.Since(start) < minRun {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
		}
	}
}

func (h *commandHandle) Stop() error {
	h.cancel()
	return nil
}

// Release waits for the player process to exit.
func (h *commandHandle) Release() error {
	h.cancel()
	<-h.done
	return nil
}
