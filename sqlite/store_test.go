package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"bsid.es/alarmclock"
	asqlite "bsid.es/alarmclock/sqlite"
)

func mustOpenDB(tb testing.TB) *asqlite.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "alarmclock.db")
	db, err := asqlite.Open(context.Background(), path)
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := db.Close(); err != nil {
			tb.Error(err)
		}
	})
	return db
}

func TestStoreNextAlarmTime(t *testing.T) {
	ctx := context.Background()
	s := asqlite.NewStore(mustOpenDB(t))

	assertNextAlarmTime(t, s, alarmclock.NoAlarm)

	// Deleting with nothing stored is a no-op.
	if err := s.DeleteNextAlarmTime(ctx); err != nil {
		t.Fatalf("unexpected error\n%v", err)
	}
	assertNextAlarmTime(t, s, alarmclock.NoAlarm)

	if err := s.SetNextAlarmTime(ctx, 1356073200000); err != nil {
		t.Fatal(err)
	}
	assertNextAlarmTime(t, s, 1356073200000)

	// Setting again overwrites.
	if err := s.SetNextAlarmTime(ctx, 1356159600000); err != nil {
		t.Fatal(err)
	}
	assertNextAlarmTime(t, s, 1356159600000)

	if err := s.DeleteNextAlarmTime(ctx); err != nil {
		t.Fatal(err)
	}
	assertNextAlarmTime(t, s, alarmclock.NoAlarm)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "alarmclock.db")

	db, err := asqlite.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := asqlite.NewStore(db).SetNextAlarmTime(ctx, 1356073200000); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = asqlite.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	assertNextAlarmTime(t, asqlite.NewStore(db), 1356073200000)
}

func TestStorePermissions(t *testing.T) {
	ctx := context.Background()
	s := asqlite.NewStore(mustOpenDB(t))

	for _, p := range []alarmclock.Permission{
		alarmclock.PermissionScheduleExactAlarm,
		alarmclock.PermissionPostNotifications,
	} {
		if ok, err := s.Granted(ctx, p); err != nil {
			t.Fatal(err)
		} else if ok {
			t.Errorf("%s granted by default", p)
		}
	}

	if err := s.Grant(ctx, alarmclock.PermissionScheduleExactAlarm); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Granted(ctx, alarmclock.PermissionScheduleExactAlarm); !ok {
		t.Error("grant was not recorded")
	}
	if ok, _ := s.Granted(ctx, alarmclock.PermissionPostNotifications); ok {
		t.Error("grant leaked to another permission")
	}

	// Grants don't count as an alarm.
	assertNextAlarmTime(t, s, alarmclock.NoAlarm)
}

func assertNextAlarmTime(tb testing.TB, s *asqlite.Store, want int64) {
	tb.Helper()
	ctx := context.Background()
	got, err := s.NextAlarmTime(ctx)
	if err != nil {
		tb.Fatal(err)
	}
	if got != want {
		tb.Errorf("wrong next alarm time\ngot:  %d\nwant: %d", got, want)
	}
	has, err := s.HasNextAlarmTime(ctx)
	if err != nil {
		tb.Fatal(err)
	}
	if has != (want != alarmclock.NoAlarm) {
		tb.Errorf("HasNextAlarmTime is %t for %d", has, got)
	}
}
