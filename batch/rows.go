package batch

import (
	"context"
	"time"
)

// queryRows runs a raw query and marshals its cursor into a RowSet. The
// cursor is closed on every exit path.
func queryRows(ctx context.Context, h Handle, query string, args []any) (Payload, error) {
	rows, err := h.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for name, value := range row {
			row[name] = normalizeValue(value)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return RowSet{Rows: out}, nil
}

// normalizeValue maps engine values onto the wire vocabulary. The sqlite3
// driver already yields int64, float64, []byte and string by storage class
// and nil for NULL; time.Time comes back for columns declared as datetimes
// and is flattened to a string.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return value
	}
}
