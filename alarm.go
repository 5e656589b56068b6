package alarmclock

import (
	"strconv"
	"strings"
	"time"
)

// OneDay is the amount an alarm is pushed forward when its time of day has
// already passed. It is a fixed duration, not a calendar day.
const OneDay = 24 * time.Hour

// NextAlarmTime returns the next instant at hour:minute in now's location. The
// alarm lands on now's date unless that instant is strictly before now, in
// which case it is pushed forward by OneDay.
func NextAlarmTime(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if at.Before(now) {
		at = at.Add(OneDay)
	}
	return at
}

// Lapsed reports whether an alarm at the given instant is in the past.
func Lapsed(at, now time.Time) bool {
	return at.Before(now)
}

// ParseTimeOfDay parses a wall-clock time such as "07:30", "7:30", "19:05" or
// "7:30 pm". The twelve-hour suffix may be written am, pm, a.m. or p.m.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	in := s
	s = strings.ToLower(strings.TrimSpace(s))

	var suffix string
	for _, sfx := range []string{"a.m.", "p.m.", "am", "pm"} {
		if strings.HasSuffix(s, sfx) {
			suffix = sfx[:1]
			s = strings.TrimSpace(strings.TrimSuffix(s, sfx))
			break
		}
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok || !isDigits(hh, 1, 2) || !isDigits(mm, 2, 2) {
		return 0, 0, Errorf(ErrInvalid, "invalid time %q, want HH:MM", in)
	}
	hour, _ = strconv.Atoi(hh)
	minute, _ = strconv.Atoi(mm)
	if minute > 59 {
		return 0, 0, Errorf(ErrInvalid, "invalid minute in %q", in)
	}

	switch suffix {
	case "":
		if hour > 23 {
			return 0, 0, Errorf(ErrInvalid, "invalid hour in %q", in)
		}
	default:
		if hour < 1 || hour > 12 {
			return 0, 0, Errorf(ErrInvalid, "invalid hour in %q", in)
		}
		hour %= 12
		if suffix == "p" {
			hour += 12
		}
	}
	return hour, minute, nil
}

func isDigits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Millis returns t as milliseconds since the Unix epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time in loc.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}

// Countdown splits the time left until at into whole hours, minutes and
// seconds. Instants in the past count as zero.
func Countdown(at, now time.Time) (hours, minutes, seconds int64) {
	d := at.Sub(now)
	if d < 0 {
		d = 0
	}
	hours = int64(d / time.Hour)
	d %= time.Hour
	minutes = int64(d / time.Minute)
	d %= time.Minute
	seconds = int64(d / time.Second)
	return hours, minutes, seconds
}
