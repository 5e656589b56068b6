package app

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"bsid.es/alarmclock"
)

var (
	timeColor   = color.New(color.FgCyan, color.Bold)
	mutedColor  = color.New(color.Faint)
	alertColor  = color.New(color.FgRed, color.Bold)
	actionColor = color.New(color.FgGreen)
)

// RenderStatus draws the main screen.
func RenderStatus(w io.Writer, st Status) {
	if st.Expired {
		fmt.Fprintln(w, mutedColor.Sprint("The last alarm has lapsed and was cleared."))
	}
	if st.HasAlarm {
		fmt.Fprintf(w, "Next alarm: %s\n", timeColor.Sprint(st.Text))
		fmt.Fprintf(w, "%s: alarmclock set HH:MM    Delete alarm: alarmclock delete\n", actionColor.Sprint(st.Action))
		return
	}
	fmt.Fprintln(w, mutedColor.Sprint(st.Text))
	fmt.Fprintf(w, "%s: alarmclock set HH:MM\n", actionColor.Sprint(st.Action))
}

// RenderScheduled confirms an alarm was set.
func RenderScheduled(w io.Writer, sc Scheduled) {
	fmt.Fprintf(w, "Alarm set for %s\n", timeColor.Sprint(alarmclock.FormatTime(sc.At)))
	fmt.Fprintln(w, sc.Message)
}

// RenderAlert draws the alert screen for an alarm going off at at.
func RenderAlert(w io.Writer, at time.Time, interactive bool) {
	fmt.Fprintln(w, alertColor.Sprint("ALARM"))
	fmt.Fprintln(w, timeColor.Sprint(alarmclock.FormatTime(at)))
	if interactive {
		fmt.Fprintln(w, mutedColor.Sprint("Press Enter to stop the alarm."))
	} else {
		fmt.Fprintln(w, mutedColor.Sprint("Run `"+alarmclock.DismissCommand+"` to stop the alarm."))
	}
}
