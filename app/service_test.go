package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bsid.es/alarmclock"
	"bsid.es/alarmclock/app"
	"bsid.es/alarmclock/mem"
)

var refNow = time.Date(2012, 12, 21, 10, 30, 15, 0, time.UTC)

type fixture struct {
	svc      *app.Service
	store    *mem.Store
	clock    *mem.Clock
	notifier *mem.Notifier
	player   *mem.Player
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    mem.NewStore(),
		clock:    mem.NewClock(),
		notifier: &mem.Notifier{},
		player:   &mem.Player{},
		now:      refNow,
	}
	f.svc = app.NewService(app.Deps{
		Store:       f.store,
		Scheduler:   f.clock,
		Notifier:    f.notifier,
		Player:      f.player,
		Permissions: f.store,
	})
	f.svc.Now = func() time.Time { return f.now }
	f.svc.Location = time.UTC
	return f
}

func (f *fixture) storedAlarm(t *testing.T) int64 {
	t.Helper()
	ms, err := f.store.NextAlarmTime(context.Background())
	require.NoError(t, err)
	return ms
}

func TestSetAlarm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc, err := f.svc.SetAlarm(ctx, 18, 45)
	require.NoError(t, err)
	want := time.Date(2012, 12, 21, 18, 45, 0, 0, time.UTC)
	assert.True(t, sc.At.Equal(want), "got %v", sc.At)
	assert.Equal(t, "Alarm will ring in 8 hours, 14 minutes and 45 seconds", sc.Message)
	assert.Equal(t, alarmclock.Millis(want), f.storedAlarm(t))
	assert.True(t, f.clock.Pending().Equal(want))
}

func TestSetAlarmRollsForward(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc, err := f.svc.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)
	want := time.Date(2012, 12, 22, 7, 0, 0, 0, time.UTC)
	assert.True(t, sc.At.Equal(want), "got %v", sc.At)
	assert.Equal(t, "Alarm will ring in 20 hours, 29 minutes and 45 seconds", sc.Message)
}

func TestSetAlarmReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.SetAlarm(ctx, 18, 45)
	require.NoError(t, err)
	sc, err := f.svc.SetAlarm(ctx, 19, 0)
	require.NoError(t, err)
	assert.Equal(t, alarmclock.Millis(sc.At), f.storedAlarm(t))
	assert.True(t, f.clock.Pending().Equal(sc.At))
}

func TestSetAlarmInvalid(t *testing.T) {
	f := newFixture(t)
	for _, tt := range []struct{ hour, minute int }{{24, 0}, {-1, 0}, {7, 60}, {7, -1}} {
		_, err := f.svc.SetAlarm(context.Background(), tt.hour, tt.minute)
		require.Error(t, err)
		assert.Equal(t, alarmclock.ErrInvalid, alarmclock.ErrorCode(err))
	}
	assert.Equal(t, alarmclock.NoAlarm, f.storedAlarm(t))
}

func TestDeleteAlarm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Nothing to delete.
	require.NoError(t, f.svc.DeleteAlarm(ctx))

	_, err := f.svc.SetAlarm(ctx, 18, 45)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteAlarm(ctx))
	assert.Equal(t, alarmclock.NoAlarm, f.storedAlarm(t))
	assert.True(t, f.clock.Pending().IsZero())
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.Status{Text: app.NoAlarmText, Action: app.SetAlarmLabel}, st)

	_, err = f.svc.SetAlarm(ctx, 0, 5)
	require.NoError(t, err)
	st, err = f.svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.HasAlarm)
	assert.Equal(t, "12:05 a.m.", st.Text)
	assert.Equal(t, app.EditAlarmLabel, st.Action)
	assert.False(t, st.Expired)
}

func TestStatusClearsLapsedAlarm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc, err := f.svc.SetAlarm(ctx, 18, 45)
	require.NoError(t, err)
	_, err = f.svc.Ring(ctx, sc.At)
	require.NoError(t, err)
	require.True(t, f.player.Playing())

	f.now = sc.At.Add(time.Minute)
	st, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Expired)
	assert.False(t, st.HasAlarm)
	assert.Equal(t, app.NoAlarmText, st.Text)
	assert.False(t, f.player.Playing())
	assert.Empty(t, f.notifier.Showing())
	assert.True(t, f.clock.Pending().IsZero())
}

func TestExpireIfLapsedBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc, err := f.svc.SetAlarm(ctx, 18, 45)
	require.NoError(t, err)

	f.now = sc.At
	expired, err := f.svc.ExpireIfLapsed(ctx)
	require.NoError(t, err)
	assert.False(t, expired, "alarm at the current instant has not lapsed")

	f.now = sc.At.Add(time.Millisecond)
	expired, err = f.svc.ExpireIfLapsed(ctx)
	require.NoError(t, err)
	assert.True(t, expired)
	assert.Equal(t, alarmclock.NoAlarm, f.storedAlarm(t))
}

func TestRing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc, err := f.svc.SetAlarm(ctx, 14, 35)
	require.NoError(t, err)
	at, err := f.svc.Ring(ctx, sc.At.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, at.Equal(sc.At))

	posted := f.notifier.Posted()
	require.Len(t, posted, 1)
	assert.Equal(t, "Alarm now at 02:35 p.m.", posted[0].Title)
	assert.Equal(t, alarmclock.NotificationChannel, posted[0].Channel)
	assert.Equal(t, alarmclock.PriorityHigh, posted[0].Priority)
	assert.Equal(t, alarmclock.DismissCommand, posted[0].Action)
	assert.True(t, f.player.Playing())

	text, err := f.svc.AlertText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "02:35 p.m.", text)
}

func TestRingWithoutStoredTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	firedAt := time.Date(2012, 12, 21, 6, 0, 0, 0, time.UTC)
	at, err := f.svc.Ring(ctx, firedAt)
	require.NoError(t, err)
	assert.True(t, at.Equal(firedAt))
	require.Len(t, f.notifier.Posted(), 1)
	assert.Equal(t, "Alarm now at 06:00 a.m.", f.notifier.Posted()[0].Title)
}

func TestDismiss(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc, err := f.svc.SetAlarm(ctx, 14, 35)
	require.NoError(t, err)
	_, err = f.svc.Ring(ctx, sc.At)
	require.NoError(t, err)

	require.NoError(t, f.svc.Dismiss(ctx))
	assert.False(t, f.player.Playing())
	assert.Empty(t, f.notifier.Showing())
	assert.Equal(t, alarmclock.NoAlarm, f.storedAlarm(t))
	assert.True(t, f.clock.Pending().IsZero())

	// Dismissing again is harmless.
	require.NoError(t, f.svc.Dismiss(ctx))
	starts, stops := f.player.Counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)

	text, err := f.svc.AlertText(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.NoAlarmText, text)
}

type recordingPrompter struct {
	answers map[alarmclock.Permission]bool
	asked   []alarmclock.Permission
}

func (p *recordingPrompter) Request(ctx context.Context, perm alarmclock.Permission) (bool, error) {
	p.asked = append(p.asked, perm)
	return p.answers[perm], nil
}

func TestCheckPermissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	prompter := &recordingPrompter{answers: map[alarmclock.Permission]bool{
		alarmclock.PermissionScheduleExactAlarm: true,
		alarmclock.PermissionPostNotifications:  true,
	}}

	require.NoError(t, f.svc.CheckPermissions(ctx, prompter))
	assert.Equal(t, []alarmclock.Permission{
		alarmclock.PermissionScheduleExactAlarm,
		alarmclock.PermissionPostNotifications,
	}, prompter.asked)

	// Grants are remembered.
	prompter.asked = nil
	require.NoError(t, f.svc.CheckPermissions(ctx, prompter))
	assert.Empty(t, prompter.asked)
}

func TestCheckPermissionsDenied(t *testing.T) {
	tests := []struct {
		name        string
		answers     map[alarmclock.Permission]bool
		unavailable bool
		want        string
	}{{
		name:    "schedule exact alarm",
		answers: map[alarmclock.Permission]bool{},
		want:    "App cannot work without permission to schedule alarm.",
	}, {
		name: "post notifications",
		answers: map[alarmclock.Permission]bool{
			alarmclock.PermissionScheduleExactAlarm: true,
		},
		want: "App cannot work without permission to post notifications.",
	}, {
		name: "no notification backend",
		answers: map[alarmclock.Permission]bool{
			alarmclock.PermissionScheduleExactAlarm: true,
			alarmclock.PermissionPostNotifications:  true,
		},
		unavailable: true,
		want:        "App cannot work without permission to post notifications.",
	}}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.notifier.Unavailable = tt.unavailable
			err := f.svc.CheckPermissions(context.Background(), &recordingPrompter{answers: tt.answers})
			require.Error(t, err)
			assert.Equal(t, alarmclock.ErrPermission, alarmclock.ErrorCode(err))
			assert.Equal(t, tt.want, alarmclock.ErrorDescription(err))
		})
	}
}

func TestTerminalPrompter(t *testing.T) {
	var out strings.Builder
	p := app.NewTerminalPrompter(strings.NewReader("y\nno\n"), &out)
	assert.False(t, p.Interactive, "a string reader is not a terminal")

	ok, err := p.Request(context.Background(), alarmclock.PermissionScheduleExactAlarm)
	require.NoError(t, err)
	assert.False(t, ok, "non-interactive prompts are refused")
	assert.Empty(t, out.String())

	p.Interactive = true
	ok, err = p.Request(context.Background(), alarmclock.PermissionScheduleExactAlarm)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "schedule exact alarms")

	ok, err = p.Request(context.Background(), alarmclock.PermissionPostNotifications)
	require.NoError(t, err)
	assert.False(t, ok)

	p.Interactive = false
	p.AssumeYes = true
	ok, err = p.Request(context.Background(), alarmclock.PermissionPostNotifications)
	require.NoError(t, err)
	assert.True(t, ok)
}
