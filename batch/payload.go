package batch

// Payload is the success payload of a single statement. The concrete type
// depends on the statement kind: RowSet for raw queries, Changes for
// update/delete, InsertResult for insert, Empty for transaction control.
type Payload interface {
	payload()
}

// RowSet is a query's full result set, rows in cursor order. Each row maps
// column name to value; duplicate column names collapse with the last value
// winning. NULL columns are present with a nil value.
type RowSet struct {
	Rows []map[string]any `json:"rows"`
}

// Changes reports the row count affected by an update or delete.
type Changes struct {
	RowsAffected int64 `json:"rowsAffected"`
}

// InsertResult reports the rowid assigned by an insert along with the
// affected row count.
type InsertResult struct {
	InsertID     int64 `json:"insertId"`
	RowsAffected int64 `json:"rowsAffected"`
}

// Empty is the payload of a successful transaction-control statement.
type Empty struct{}

func (RowSet) payload()       {}
func (Changes) payload()      {}
func (InsertResult) payload() {}
func (Empty) payload()        {}
