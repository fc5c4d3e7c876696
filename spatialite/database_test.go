package spatialite

import (
	"context"
	"errors"
	"os"
	"path"
	"testing"
)

// setupTestDB opens a temporary database file
func setupTestDB(t *testing.T) *Database {
	tmpDir := t.TempDir()
	db, err := Open(path.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestOpenCreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := path.Join(tmpDir, "created.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("Database file was not created: %v", err)
	}
	if db.Closed() {
		t.Fatal("Freshly opened database reports closed")
	}
	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(path.Join(t.TempDir(), "missing", "nested", "test.db"))
	if err == nil {
		t.Fatal("Expected error opening database in nonexistent directory")
	}
}

func TestExecAndQuery(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "CREATE TABLE items (name TEXT, num INTEGER)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}

	// Parameterized statements go through the statement cache; run the
	// same statement twice to exercise both the miss and hit paths.
	for _, name := range []string{"first", "second"} {
		res, err := db.Exec(ctx, "INSERT INTO items (name, num) VALUES (?, ?)", name, "1")
		if err != nil {
			t.Fatalf("INSERT failed: %v", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			t.Fatalf("RowsAffected failed: %v", err)
		}
		if affected != 1 {
			t.Errorf("Expected 1 row affected, got %d", affected)
		}
	}

	rows, err := db.Query(ctx, "SELECT name FROM items ORDER BY name")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		names = append(names, name)
	}
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("Unexpected query result: %v", names)
	}
}

func TestCloseIdempotent(t *testing.T) {
	db := setupTestDB(t)

	db.Close()
	if !db.Closed() {
		t.Fatal("Database does not report closed after Close")
	}

	// A second close must be a no-op.
	db.Close()

	if _, err := db.Exec(context.Background(), "SELECT 1"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Exec after close, got %v", err)
	}
	if _, err := db.Query(context.Background(), "SELECT 1"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Query after close, got %v", err)
	}
}

func TestTransactionStateSurvivesStatements(t *testing.T) {
	// Session state must live on a single pinned connection: an open
	// transaction started by one statement has to be visible to the next.
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "CREATE TABLE t (v INTEGER)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := db.Exec(ctx, "BEGIN"); err != nil {
		t.Fatalf("BEGIN failed: %v", err)
	}
	if _, err := db.Exec(ctx, "INSERT INTO t (v) VALUES (?)", "1"); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}
	if _, err := db.Exec(ctx, "COMMIT"); err != nil {
		t.Fatalf("COMMIT failed: %v", err)
	}

	var count int
	rows, err := db.Query(ctx, "SELECT count(*) FROM t")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatal("Expected one count row")
	}
	if err := rows.Scan(&count); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 committed row, got %d", count)
	}
}
