package notify

import (
	"strings"

	"bsid.es/alarmclock"
)

// backend describes how a platform's notification tool is driven.
type backend interface {
	// tool is the executable Post runs.
	tool() string
	postArgs(appName string, n alarmclock.Notification) []string
	// parseID extracts the id of a posted notification from the tool's
	// output. An empty id means the notification can't be closed later.
	parseID(out []byte) string
	// closeCommand returns the command that closes a posted notification.
	closeCommand(id string) (name string, args []string, ok bool)
}

// freedesktop talks to the desktop notification daemon through notify-send
// and closes notifications over D-Bus with gdbus.
type freedesktop struct{}

func (freedesktop) tool() string { return "notify-send" }

func (freedesktop) postArgs(appName string, n alarmclock.Notification) []string {
	urgency := "normal"
	if n.Priority == alarmclock.PriorityHigh {
		urgency = "critical"
	}
	args := []string{
		"--app-name=" + appName,
		"--urgency=" + urgency,
		"--category=" + n.Channel,
		"--print-id",
		n.Title,
	}
	if n.Action != "" {
		args = append(args, alarmclock.NotificationBody(n.Action))
	}
	return args
}

func (freedesktop) parseID(out []byte) string {
	return strings.TrimSpace(string(out))
}

func (freedesktop) closeCommand(id string) (string, []string, bool) {
	return "gdbus", []string{
		"call", "--session",
		"--dest", "org.freedesktop.Notifications",
		"--object-path", "/org/freedesktop/Notifications",
		"--method", "org.freedesktop.Notifications.CloseNotification",
		id,
	}, true
}

// appleScript posts through osascript. Posted notifications can't be
// withdrawn.
type appleScript struct{}

func (appleScript) tool() string { return "osascript" }

func (appleScript) postArgs(appName string, n alarmclock.Notification) []string {
	script := "display notification " + quote(n.Title) + " with title " + quote(appName)
	if n.Action != "" {
		script += " subtitle " + quote(alarmclock.NotificationBody(n.Action))
	}
	if n.Priority == alarmclock.PriorityHigh {
		script += ` sound name "default"`
	}
	return []string{"-e", script}
}

func (appleScript) parseID([]byte) string { return "" }

func (appleScript) closeCommand(string) (string, []string, bool) {
	return "", nil, false
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
