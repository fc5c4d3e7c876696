package batch

import (
	"testing"
)

func TestRowSetStorageClasses(t *testing.T) {
	db := setupTestDB(t)

	results := mustExecute(t, db, []Statement{
		{ID: "1", SQL: "SELECT 1 AS i, 1.5 AS f, 'text' AS s, x'6162' AS b, NULL AS n"},
	})

	rowSet, ok := results[0].Payload.(RowSet)
	if !ok {
		t.Fatalf("Expected RowSet payload, got %T (err: %v)", results[0].Payload, results[0].Err)
	}
	if len(rowSet.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rowSet.Rows))
	}
	row := rowSet.Rows[0]

	if v, ok := row["i"].(int64); !ok || v != 1 {
		t.Errorf("Expected integer column as int64(1), got %v (%T)", row["i"], row["i"])
	}
	if v, ok := row["f"].(float64); !ok || v != 1.5 {
		t.Errorf("Expected float column as float64(1.5), got %v (%T)", row["f"], row["f"])
	}
	if v, ok := row["s"].(string); !ok || v != "text" {
		t.Errorf("Expected text column as string, got %v (%T)", row["s"], row["s"])
	}
	if v, ok := row["b"].([]byte); !ok || string(v) != "ab" {
		t.Errorf("Expected blob column as []byte, got %v (%T)", row["b"], row["b"])
	}
}

func TestNullIsExplicit(t *testing.T) {
	db := setupTestDB(t)

	results := mustExecute(t, db, []Statement{
		{ID: "1", SQL: "INSERT INTO items (name, num) VALUES (NULL, 2)"},
		{ID: "2", SQL: "SELECT name, num FROM items"},
	})

	rowSet := results[1].Payload.(RowSet)
	if len(rowSet.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rowSet.Rows))
	}
	row := rowSet.Rows[0]

	// The null column must be present, nil, and not an empty string.
	value, present := row["name"]
	if !present {
		t.Fatal("NULL column is absent from the row; expected an explicit null")
	}
	if value != nil {
		t.Errorf("Expected nil for NULL column, got %v (%T)", value, value)
	}
	if s, isString := value.(string); isString && s == "" {
		t.Error("NULL column surfaced as empty string")
	}
}

func TestDuplicateColumnNamesLastWins(t *testing.T) {
	db := setupTestDB(t)

	results := mustExecute(t, db, []Statement{
		{ID: "1", SQL: "SELECT 1 AS x, 2 AS x"},
	})

	rowSet := results[0].Payload.(RowSet)
	row := rowSet.Rows[0]
	if len(row) != 1 {
		t.Fatalf("Expected duplicate columns to collapse to one key, got %d", len(row))
	}
	if v, ok := row["x"].(int64); !ok || v != 2 {
		t.Errorf("Expected last duplicate column to win with 2, got %v", row["x"])
	}
}
