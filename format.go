package alarmclock

import (
	"fmt"
	"time"
)

// FormatTime renders t on a twelve-hour clock, e.g. "02:35 p.m.". Midnight and
// noon both render hour 12.
func FormatTime(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, t.Minute(), Meridiem(t))
}

// Meridiem returns "a.m." for hours 0 to 11 and "p.m." otherwise.
func Meridiem(t time.Time) string {
	if t.Hour() < 12 {
		return "a.m."
	}
	return "p.m."
}

// NotificationTitle is the title posted when the alarm goes off.
func NotificationTitle(t time.Time) string {
	return "Alarm now at " + FormatTime(t)
}

// NotificationBody tells the user how to act on the alarm notification.
func NotificationBody(action string) string {
	return "Stop it with: " + action
}

// CountdownMessage describes how long until an alarm at the given instant rings.
func CountdownMessage(at, now time.Time) string {
	h, m, s := Countdown(at, now)
	return fmt.Sprintf("Alarm will ring in %d hours, %d minutes and %d seconds", h, m, s)
}
