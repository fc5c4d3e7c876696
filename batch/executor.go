package batch

// Package batch executes ordered lists of SQL statements against one open
// handle. Statements run strictly sequentially; a failing statement becomes
// its own error result and never aborts the rest of the batch.

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/liteglue/spatialbridge/spatialite"
)

// ErrClosed is the structural failure returned when a batch is submitted
// against a closed or absent handle. No statement executes in that case.
var ErrClosed = spatialite.ErrClosed

// Handle is the engine surface a batch executes against.
// *spatialite.Database satisfies it.
type Handle interface {
	Closed() bool
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
}

// Statement is one entry of a batch: the query text, its positional
// parameters already coerced to text, and the caller-supplied identifier
// that is round-tripped into the matching Result.
type Statement struct {
	ID     string
	SQL    string
	Params []string
}

// Result is the outcome of one statement: the identifier it was submitted
// with and either a success payload or an error, never both.
type Result struct {
	ID      string
	Payload Payload
	Err     error
}

// Execute runs the statements in order on h and returns one result per
// statement, in input order. A nil or closed handle fails the whole call
// with ErrClosed before anything executes; afterwards the only per-call
// error source is exhausted, and every engine failure is captured in the
// corresponding Result.
func Execute(ctx context.Context, h Handle, stmts []Statement) ([]Result, error) {
	if h == nil || h.Closed() {
		return nil, ErrClosed
	}

	results := make([]Result, 0, len(stmts))
	for _, stmt := range stmts {
		payload, err := executeOne(ctx, h, stmt)
		if err != nil {
			results = append(results, Result{ID: stmt.ID, Err: err})
			continue
		}
		results = append(results, Result{ID: stmt.ID, Payload: payload})
	}
	return results, nil
}

func executeOne(ctx context.Context, h Handle, stmt Statement) (Payload, error) {
	args := bindArgs(stmt.Params)

	switch KindOf(stmt.SQL) {
	case KindUpdate, KindDelete:
		res, err := h.Exec(ctx, stmt.SQL, args...)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		return Changes{RowsAffected: affected}, nil

	case KindInsert:
		res, err := h.Exec(ctx, stmt.SQL, args...)
		if err != nil {
			return nil, err
		}
		insertID, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		return InsertResult{InsertID: insertID, RowsAffected: affected}, nil

	case KindBegin, KindCommit, KindRollback:
		// Transaction control runs literally on the handle's pinned
		// connection; a COMMIT with no open transaction is an engine
		// error and surfaces like any other statement failure.
		if _, err := h.Exec(ctx, stmt.SQL); err != nil {
			return nil, err
		}
		return Empty{}, nil

	default:
		return queryRows(ctx, h, stmt.SQL, args)
	}
}

func bindArgs(params []string) []any {
	if params == nil {
		return nil
	}
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}
