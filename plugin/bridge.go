package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/liteglue/spatialbridge/batch"
	"github.com/liteglue/spatialbridge/spatialite"
)

// Sink receives the single aggregated outcome of one batch call: exactly one
// Success or one Error delivery, never both, never more than one.
type Sink interface {
	Success(result json.RawMessage)
	Error(message string)
}

// Bridge is the host-runtime surface: it owns a registry of named database
// handles and dispatches the plugin actions against them. The registry is
// safe for concurrent use, but batches against one handle must be
// serialized by the caller.
type Bridge struct {
	mu  sync.Mutex
	dbs map[string]*spatialite.Database
}

func NewBridge() *Bridge {
	return &Bridge{
		dbs: make(map[string]*spatialite.Database),
	}
}

// Open opens the database file at path under the given registry name.
// Opening a name that is already open is a no-op.
func (b *Bridge) Open(name string, path string) error {
	return b.open(name, path, spatialite.Open)
}

// OpenSpatial is Open through the SpatiaLite-enabled driver.
func (b *Bridge) OpenSpatial(name string, path string) error {
	return b.open(name, path, spatialite.OpenSpatial)
}

func (b *Bridge) open(name string, path string, openFn func(string) (*spatialite.Database, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.dbs[name]; ok {
		return nil
	}
	db, err := openFn(path)
	if err != nil {
		return fmt.Errorf("failed to open database %q: %w", name, err)
	}
	b.dbs[name] = db
	return nil
}

// Close closes the named handle and removes it from the registry. Unknown or
// already-closed names are a no-op.
func (b *Bridge) Close(name string) {
	b.mu.Lock()
	db, ok := b.dbs[name]
	if ok {
		delete(b.dbs, name)
	}
	b.mu.Unlock()

	if ok {
		db.Close()
	}
}

// Delete closes the named handle if open and removes its database file.
func (b *Bridge) Delete(name string, path string) error {
	b.Close(name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete database file %s: %w", path, err)
	}
	return nil
}

func (b *Bridge) lookup(name string) *spatialite.Database {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dbs[name]
}

// ExecuteSqlBatch runs a batch against the named handle and delivers the
// aggregated result through sink. A missing or closed handle fails the whole
// call with a single error delivery and no per-statement results.
func (b *Bridge) ExecuteSqlBatch(ctx context.Context, name string, req BatchRequest, sink Sink) {
	db := b.lookup(name)
	if db == nil || db.Closed() {
		sink.Error(batch.ErrClosed.Error())
		return
	}

	results := make([]batch.Result, len(req.Queries))
	stmts := make([]batch.Statement, 0, len(req.Queries))
	indices := make([]int, 0, len(req.Queries))

	for i, query := range req.Queries {
		id := ""
		if i < len(req.QueryIDs) {
			id = req.QueryIDs[i]
		}
		if id == "" {
			id = uuid.NewString()
		}
		results[i].ID = id

		var wireParams []any
		if i < len(req.Params) {
			wireParams = req.Params[i]
		}
		params, err := coerceParams(wireParams)
		if err != nil {
			// Coercion failure is this statement's error; the rest of
			// the batch still executes.
			results[i].Err = err
			continue
		}
		stmts = append(stmts, batch.Statement{ID: id, SQL: query, Params: params})
		indices = append(indices, i)
	}

	executed, err := batch.Execute(ctx, db, stmts)
	if err != nil {
		sink.Error(err.Error())
		return
	}
	for n, res := range executed {
		results[indices[n]] = res
	}

	payload, err := marshalResults(results)
	if err != nil {
		sink.Error(fmt.Sprintf("failed to marshal batch results: %v", err))
		return
	}
	sink.Success(payload)
}

func marshalResults(results []batch.Result) (json.RawMessage, error) {
	entries := make([]EntryResult, len(results))
	for i, res := range results {
		entries[i].QueryID = res.ID
		if res.Err != nil {
			entries[i].Type = "error"
			msg, err := json.Marshal(ErrorResult{Message: res.Err.Error()})
			if err != nil {
				return nil, err
			}
			entries[i].Result = msg
			continue
		}
		entries[i].Type = "success"
		payload, err := json.Marshal(res.Payload)
		if err != nil {
			return nil, err
		}
		entries[i].Result = payload
	}
	return json.Marshal(entries)
}

// coerceParams flattens wire parameter values to text before binding.
// Strings pass through, numbers and booleans stringify, anything else
// (including null) is a coercion error. The engine's column affinity
// restores numeric typing on bind.
func coerceParams(params []any) ([]string, error) {
	if params == nil {
		return nil, nil
	}
	out := make([]string, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			out[i] = strconv.Itoa(v)
		case int64:
			out[i] = strconv.FormatInt(v, 10)
		case json.Number:
			out[i] = v.String()
		case bool:
			out[i] = strconv.FormatBool(v)
		case nil:
			return nil, fmt.Errorf("parameter %d is null", i)
		default:
			return nil, fmt.Errorf("parameter %d has unsupported type %T", i, p)
		}
	}
	return out, nil
}
