// Package sqlite stores alarm state in an SQLite database shared by the CLI
// and the delivery daemon.
package sqlite

import (
	"context"
	"fmt"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"

	"bsid.es/alarmclock/sqlite/migration"
)

const defaultPoolSize = 4

// DB is a migrated connection pool.
type DB struct {
	Path string

	pool *sqlitex.Pool
}

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(ctx context.Context, path string) (*DB, error) {
	pool, err := sqlitex.Open(path, 0, defaultPoolSize)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db := &DB{Path: path, pool: pool}
	err = db.withConn(ctx, func(conn *sqlite.Conn) error {
		_, err := Migrate(conn, migration.Scripts)
		return err
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.pool.Close()
}

func (db *DB) withConn(ctx context.Context, fn func(*sqlite.Conn) error) error {
	conn := db.pool.Get(ctx)
	if conn == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("sqlite: pool closed")
	}
	defer db.pool.Put(conn)
	return fn(conn)
}

func (db *DB) exec(ctx context.Context, query string, resultFn func(*sqlite.Stmt) error, args ...interface{}) error {
	return db.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Exec(conn, query, resultFn, args...)
	})
}
