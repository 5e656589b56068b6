package sqlite

import (
	"context"
	"fmt"

	"crawshaw.io/sqlite"

	"bsid.es/alarmclock"
)

// Store keeps preferences as integers keyed by name.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

var (
	_ alarmclock.Store           = (*Store)(nil)
	_ alarmclock.PermissionStore = (*Store)(nil)
)

func (s *Store) SetNextAlarmTime(ctx context.Context, ms int64) error {
	if err := s.put(ctx, alarmclock.NextAlarmTimeKey, ms); err != nil {
		return fmt.Errorf("set next alarm time: %w", err)
	}
	return nil
}

func (s *Store) NextAlarmTime(ctx context.Context) (int64, error) {
	ms, err := s.get(ctx, alarmclock.NextAlarmTimeKey, alarmclock.NoAlarm)
	if err != nil {
		return alarmclock.NoAlarm, fmt.Errorf("get next alarm time: %w", err)
	}
	return ms, nil
}

func (s *Store) HasNextAlarmTime(ctx context.Context) (bool, error) {
	ms, err := s.NextAlarmTime(ctx)
	if err != nil {
		return false, err
	}
	return ms != alarmclock.NoAlarm, nil
}

func (s *Store) DeleteNextAlarmTime(ctx context.Context) error {
	if err := s.remove(ctx, alarmclock.NextAlarmTimeKey); err != nil {
		return fmt.Errorf("delete next alarm time: %w", err)
	}
	return nil
}

func (s *Store) Granted(ctx context.Context, p alarmclock.Permission) (bool, error) {
	v, err := s.get(ctx, p.Key(), 0)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", p.Key(), err)
	}
	return v == 1, nil
}

func (s *Store) Grant(ctx context.Context, p alarmclock.Permission) error {
	if err := s.put(ctx, p.Key(), 1); err != nil {
		return fmt.Errorf("grant %s: %w", p, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, def int64) (int64, error) {
	v := def
	err := s.db.exec(ctx, "select value from preferences where key = ?", func(stmt *sqlite.Stmt) error {
		v = stmt.ColumnInt64(0)
		return nil
	}, key)
	return v, err
}

func (s *Store) put(ctx context.Context, key string, value int64) error {
	return s.db.exec(ctx, "insert or replace into preferences (key, value) values (?, ?)", nil, key, value)
}

func (s *Store) remove(ctx context.Context, key string) error {
	return s.db.exec(ctx, "delete from preferences where key = ?", nil, key)
}
