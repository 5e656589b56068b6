package sqlite

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// Migrate runs the *.sql scripts in fsys that conn hasn't seen yet and
// returns the resulting schema version. The version is the number of scripts
// applied, kept in pragma user_version.
func Migrate(conn *sqlite.Conn, fsys fs.FS) (version int, err error) {
	release := sqlitex.Save(conn)
	defer release(&err)

	version, err = userVersion(conn)
	if err != nil {
		return 0, err
	}

	scripts, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("list scripts: %w", err)
	}
	if version >= len(scripts) {
		return version, nil
	}

	sort.Strings(scripts)
	for _, script := range scripts[version:] {
		if err := runScript(conn, fsys, script); err != nil {
			return 0, err
		}
	}

	version = len(scripts)
	if err := sqlitex.ExecTransient(conn, "pragma user_version="+strconv.Itoa(version), nil); err != nil {
		return 0, fmt.Errorf("set version: %w", err)
	}
	return version, nil
}

func userVersion(conn *sqlite.Conn) (int, error) {
	var v int
	err := sqlitex.ExecTransient(conn, "pragma user_version", func(stmt *sqlite.Stmt) error {
		v = stmt.ColumnInt(0)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func runScript(conn *sqlite.Conn, fsys fs.FS, script string) error {
	buf, err := fs.ReadFile(fsys, script)
	if err != nil {
		return fmt.Errorf("read %s: %w", script, err)
	}
	queries := strings.TrimSpace(string(buf))
	for i := 0; queries != ""; i++ {
		stmt, trailingBytes, err := conn.PrepareTransient(queries)
		if err != nil {
			return fmt.Errorf("prepare %s, stmt %d: %w", script, i, err)
		}
		queries = strings.TrimSpace(queries[len(queries)-trailingBytes:])
		_, err = stmt.Step()
		stmt.Finalize()
		if err != nil {
			return fmt.Errorf("execute %s, stmt %d: %w", script, i, err)
		}
	}
	return nil
}
