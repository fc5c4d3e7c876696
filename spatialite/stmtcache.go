package spatialite

import (
	"context"
	"log"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/jmoiron/sqlx"
)

// stmtCache keeps prepared statements for the handle's pinned connection,
// keyed by a hash of the statement text. Batches tend to repeat the same
// parameterized statements, so re-preparing on every execution is wasted
// work.
type stmtCache struct {
	mu    sync.Mutex
	conn  *sqlx.Conn
	stmts map[uint64]*sqlx.Stmt
}

func newStmtCache(conn *sqlx.Conn) *stmtCache {
	return &stmtCache{
		conn:  conn,
		stmts: make(map[uint64]*sqlx.Stmt),
	}
}

func (c *stmtCache) get(ctx context.Context, query string) (*sqlx.Stmt, error) {
	key := xxhash.Sum64String(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if stmt, ok := c.stmts[key]; ok {
		return stmt, nil
	}
	stmt, err := c.conn.PreparexContext(ctx, query)
	if err != nil {
		return nil, err
	}
	c.stmts[key] = stmt
	return stmt, nil
}

// closeAll closes every cached statement, best effort.
func (c *stmtCache) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, stmt := range c.stmts {
		if err := stmt.Close(); err != nil {
			log.Printf("stmtCache: error closing statement: %v", err)
		}
		delete(c.stmts, key)
	}
}
