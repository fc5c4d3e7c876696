package spatialite

// Package spatialite owns the lifecycle of a single SQLite/SpatiaLite
// database handle. A handle pins one connection for its whole lifetime so
// that session state (open transaction, last insert rowid) behaves like a
// single native database handle rather than a pooled one.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrClosed is returned by every operation on a handle that was closed or
// never opened.
var ErrClosed = errors.New("database has been closed")

// Database is an open handle to one database file.
//
// Open and Close are expected to be driven by a controlled external
// lifecycle; they are not safe for concurrent use with each other. Batches
// running against the same handle must be serialized by the caller.
type Database struct {
	path  string
	db    *sqlx.DB
	conn  *sqlx.Conn
	stmts *stmtCache
}

// Open opens the database file at path read-write, creating it if absent.
func Open(path string) (*Database, error) {
	return open(path, "sqlite3")
}

// OpenSpatial opens the database through the SpatiaLite-enabled driver and
// initializes the spatial metadata tables on first use.
func OpenSpatial(path string) (*Database, error) {
	d, err := open(path, RegisterSpatialDriver())
	if err != nil {
		return nil, err
	}
	if err := d.initSpatialMetadata(context.Background()); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to initialize spatial metadata: %w", err)
	}
	return d, nil
}

func open(path string, driverName string) (*Database, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Printf("Creating sqlite db: %s", path)
	} else {
		log.Printf("Open sqlite db: %s", path)
	}

	db, err := sqlx.Connect(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// Pin a single connection; all statements run on it.
	conn, err := db.Connx(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to acquire connection for %s: %w", path, err)
	}

	return &Database{
		path:  path,
		db:    db,
		conn:  conn,
		stmts: newStmtCache(conn),
	}, nil
}

// initSpatialMetadata creates the SpatiaLite metadata tables if the database
// does not have them yet.
func (d *Database) initSpatialMetadata(ctx context.Context) error {
	var n int
	err := d.conn.GetContext(ctx, &n,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'spatial_ref_sys'")
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := d.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("SELECT InitSpatialMetaData()"); err != nil {
		return err
	}
	return tx.Commit()
}

// Path returns the database file path the handle was opened with.
func (d *Database) Path() string {
	return d.path
}

// Closed reports whether the handle is unusable (closed or never opened).
func (d *Database) Closed() bool {
	return d == nil || d.db == nil
}

// Exec runs a statement that returns no rows. Parameterized statements go
// through the prepared-statement cache.
func (d *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if d.Closed() {
		return nil, ErrClosed
	}
	if len(args) == 0 {
		return d.conn.ExecContext(ctx, query)
	}
	stmt, err := d.stmts.get(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}

// Query runs a statement and returns its row cursor. The caller owns the
// cursor and must close it.
func (d *Database) Query(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	if d.Closed() {
		return nil, ErrClosed
	}
	if len(args) == 0 {
		return d.conn.QueryxContext(ctx, query)
	}
	stmt, err := d.stmts.get(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryxContext(ctx, args...)
}

// Close releases the handle. It is idempotent and best-effort: errors are
// logged, never returned, and the handle is unusable afterwards either way.
func (d *Database) Close() {
	if d.Closed() {
		return
	}
	d.stmts.closeAll()
	if err := d.conn.Close(); err != nil {
		log.Printf("Close(): error releasing connection for %s: %v", d.path, err)
	}
	if err := d.db.Close(); err != nil {
		log.Printf("Close(): error closing database %s: %v", d.path, err)
	}
	d.conn = nil
	d.db = nil
	log.Printf("Database closed: %s", d.path)
}
