package data

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	// DataFileName is the default sqlite file name under the app home dir.
	DataFileName = "data.db"

	// DriverSQLite is the default, zero-setup local engine.
	DriverSQLite = "sqlite"
	// DriverPostgres backs shared deployments of the credential store.
	DriverPostgres = "postgres"

	schemaVersion = 1

	createVersionTableSQL = `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`

	selectVersionSQL = `SELECT COALESCE(MAX(version), 0) FROM schema_version`

	timeFormat = "2006-01-02T15:04:05Z"
)

var (
	//go:embed sql/*
	f embed.FS

	errDBNotInitialized = errors.New("database not initialized")
)

// DB wraps the sql handle with the driver it was opened with so store
// queries can be rebound for postgres.
type DB struct {
	*sql.DB
	driver string
}

// Open opens a database handle for the given driver and DSN. An empty
// driver defaults to sqlite, where the DSN is the database file path.
func Open(driver, dsn string) (*DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if dsn == "" {
		return nil, errors.New("dsn not specified")
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	return &DB{DB: conn, driver: driver}, nil
}

// Init creates the schema if the database has not been initialized yet.
// Safe to call on every start.
func (d *DB) Init() error {
	if d == nil || d.DB == nil {
		return errDBNotInitialized
	}

	if _, err := d.Exec(createVersionTableSQL); err != nil {
		return fmt.Errorf("creating schema version table: %w", err)
	}

	var version int
	if err := d.QueryRow(selectVersionSQL).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version >= schemaVersion {
		return nil
	}

	b, err := f.ReadFile("sql/ddl.sql")
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}
	if _, err := d.Exec(string(b)); err != nil {
		return fmt.Errorf("creating database schema: %w", err)
	}

	return nil
}

// rebind rewrites ? placeholders into the $N form postgres expects.
// Queries in this package are written with ? throughout.
func (d *DB) rebind(q string) string {
	if d.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
