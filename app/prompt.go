package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"bsid.es/alarmclock"
)

// TerminalPrompter asks for permissions on a terminal.
type TerminalPrompter struct {
	AssumeYes   bool
	Interactive bool

	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter prompts on in and out. Prompting only happens when in
// is a terminal; otherwise every request is refused unless AssumeYes is set.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		Interactive: IsTerminal(in),
		in:          bufio.NewReader(in),
		out:         out,
	}
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var _ alarmclock.Prompter = (*TerminalPrompter)(nil)

func (p *TerminalPrompter) Request(ctx context.Context, perm alarmclock.Permission) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if !p.Interactive {
		return false, nil
	}
	fmt.Fprintf(p.out, "%s %s? [y/N] ", color.New(color.Bold).Sprint("Allow alarmclock to"), describe(perm))
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func describe(p alarmclock.Permission) string {
	switch p {
	case alarmclock.PermissionScheduleExactAlarm:
		return "schedule exact alarms"
	case alarmclock.PermissionPostNotifications:
		return "post notifications"
	default:
		return strings.ToLower(strings.ReplaceAll(string(p), "_", " "))
	}
}
