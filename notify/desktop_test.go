package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bsid.es/alarmclock"
)

type call struct {
	name string
	args []string
}

func newTestDesktop(b backend, out string) (*Desktop, *[]call) {
	var calls []call
	d := NewDesktop("alarmclock")
	d.backend = b
	d.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, call{name, args})
		return []byte(out), nil
	}
	return d, &calls
}

var testNotification = alarmclock.Notification{
	Channel:  alarmclock.NotificationChannel,
	Title:    "Alarm now at 07:30 a.m.",
	Priority: alarmclock.PriorityHigh,
	Action:   alarmclock.DismissCommand,
}

func TestDesktopFreedesktop(t *testing.T) {
	ctx := context.Background()
	d, calls := newTestDesktop(freedesktop{}, "42\n")

	require.NoError(t, d.Post(ctx, testNotification))
	require.Len(t, *calls, 1)
	assert.Equal(t, "notify-send", (*calls)[0].name)
	assert.Equal(t, []string{
		"--app-name=alarmclock",
		"--urgency=critical",
		"--category=ALARM_NOTIFICATION_CHANNEL",
		"--print-id",
		"Alarm now at 07:30 a.m.",
		"Stop it with: alarmclock dismiss",
	}, (*calls)[0].args)

	require.NoError(t, d.CancelAll(ctx))
	require.Len(t, *calls, 2)
	assert.Equal(t, "gdbus", (*calls)[1].name)
	assert.Equal(t, "42", (*calls)[1].args[len((*calls)[1].args)-1])

	// Everything was closed already.
	require.NoError(t, d.CancelAll(ctx))
	assert.Len(t, *calls, 2)
}

func TestDesktopAppleScript(t *testing.T) {
	ctx := context.Background()
	d, calls := newTestDesktop(appleScript{}, "")

	n := testNotification
	n.Title = `Say "wake up"`
	require.NoError(t, d.Post(ctx, n))
	require.Len(t, *calls, 1)
	assert.Equal(t, "osascript", (*calls)[0].name)
	assert.Equal(t, []string{
		"-e", `display notification "Say \"wake up\"" with title "alarmclock" subtitle "Stop it with: alarmclock dismiss" sound name "default"`,
	}, (*calls)[0].args)

	// osascript notifications can't be withdrawn.
	require.NoError(t, d.CancelAll(ctx))
	assert.Len(t, *calls, 1)
}

func TestDesktopWithoutAction(t *testing.T) {
	d, calls := newTestDesktop(freedesktop{}, "7\n")

	n := testNotification
	n.Action = ""
	require.NoError(t, d.Post(context.Background(), n))
	require.Len(t, *calls, 1)
	args := (*calls)[0].args
	assert.Equal(t, "Alarm now at 07:30 a.m.", args[len(args)-1])
}

func TestDesktopPostError(t *testing.T) {
	d := NewDesktop("alarmclock")
	d.backend = freedesktop{}
	d.run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("no bus")
	}
	err := d.Post(context.Background(), testNotification)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify-send")
}

func TestDesktopAvailable(t *testing.T) {
	d := NewDesktop("alarmclock")
	d.backend = freedesktop{}
	d.lookPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	assert.True(t, d.Available())

	d.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	assert.False(t, d.Available())

	d.backend = nil
	assert.False(t, d.Available())
	assert.Error(t, d.Post(context.Background(), testNotification))
}

func TestTerminal(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var buf bytes.Buffer
	term := NewTerminal(&buf)
	ctx := context.Background()

	// Nothing to clear yet.
	require.NoError(t, term.CancelAll(ctx))
	assert.Empty(t, buf.String())

	require.NoError(t, term.Post(ctx, testNotification))
	require.NoError(t, term.CancelAll(ctx))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[alarm] Alarm now at 07:30 a.m.",
		"[alarm] Stop it with: alarmclock dismiss",
		"[alarm] dismissed",
	}, lines)
}
