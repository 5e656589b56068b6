package sqlite

import (
	"context"
	"fmt"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"bsid.es/alarmclock"
)

// Scheduler records the pending alarm for the delivery daemon to pick up.
type Scheduler struct {
	Location *time.Location

	db *DB
}

func NewScheduler(db *DB) *Scheduler {
	return &Scheduler{Location: time.Local, db: db}
}

var _ alarmclock.Scheduler = (*Scheduler)(nil)

func (s *Scheduler) Schedule(ctx context.Context, at time.Time) error {
	err := s.db.exec(ctx, "insert or replace into pending_alarm (id, at) values (1, ?)", nil, alarmclock.Millis(at))
	if err != nil {
		return fmt.Errorf("schedule alarm: %w", err)
	}
	return nil
}

func (s *Scheduler) Cancel(ctx context.Context) error {
	if err := s.db.exec(ctx, "delete from pending_alarm", nil); err != nil {
		return fmt.Errorf("cancel alarm: %w", err)
	}
	return nil
}

// Pending returns the scheduled alarm, or the zero time if there is none.
func (s *Scheduler) Pending(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := s.db.exec(ctx, "select at from pending_alarm where id = 1", func(stmt *sqlite.Stmt) error {
		at = alarmclock.FromMillis(stmt.ColumnInt64(0), s.Location)
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("get pending alarm: %w", err)
	}
	return at, nil
}

// Consume removes the pending alarm if it is still the one scheduled for at,
// reporting whether it was. An alarm rescheduled in the meantime is left
// alone.
func (s *Scheduler) Consume(ctx context.Context, at time.Time) (bool, error) {
	var consumed bool
	err := s.db.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Exec(conn, "delete from pending_alarm where id = 1 and at = ?", nil, alarmclock.Millis(at))
		consumed = conn.Changes() > 0
		return err
	})
	if err != nil {
		return false, fmt.Errorf("consume alarm: %w", err)
	}
	return consumed, nil
}
