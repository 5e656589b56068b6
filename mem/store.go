package mem

import (
	"context"
	"sync"

	"bsid.es/alarmclock"
)

// Store keeps preferences in memory.
type Store struct {
	mu    sync.Mutex
	prefs map[string]int64
}

func NewStore() *Store {
	return &Store{prefs: make(map[string]int64)}
}

var (
	_ alarmclock.Store           = (*Store)(nil)
	_ alarmclock.PermissionStore = (*Store)(nil)
)

func (s *Store) SetNextAlarmTime(ctx context.Context, ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[alarmclock.NextAlarmTimeKey] = ms
	return nil
}

func (s *Store) NextAlarmTime(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ms, ok := s.prefs[alarmclock.NextAlarmTimeKey]; ok {
		return ms, nil
	}
	return alarmclock.NoAlarm, nil
}

func (s *Store) HasNextAlarmTime(ctx context.Context) (bool, error) {
	ms, err := s.NextAlarmTime(ctx)
	return ms != alarmclock.NoAlarm, err
}

func (s *Store) DeleteNextAlarmTime(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, alarmclock.NextAlarmTimeKey)
	return nil
}

func (s *Store) Granted(ctx context.Context, p alarmclock.Permission) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs[p.Key()] == 1, nil
}

func (s *Store) Grant(ctx context.Context, p alarmclock.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[p.Key()] = 1
	return nil
}
