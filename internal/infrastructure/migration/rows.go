package migration

import (
	"context"
	"database/sql"
)

// rowMap is one source row addressed by column name. Source schemas drift
// between panel versions, so migrators read optional columns through val/or
// defaults instead of fixed scan targets.
type rowMap map[string]any

// val returns the column value, or nil when the column is absent.
func (r rowMap) val(col string) any {
	return r[col]
}

// or returns the column value, or def when the column is absent or NULL.
func (r rowMap) or(col string, def any) any {
	if v, ok := r[col]; ok && v != nil {
		return v
	}
	return def
}

// str returns the column as a string ("" when absent or NULL).
func (r rowMap) str(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// queryRows executes query and materializes every result row into a rowMap.
// []byte cells are copied into strings: drivers reuse their buffers between
// Next calls, and string cells also feed json parsing and logging.
func queryRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]rowMap, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []rowMap
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(rowMap, len(cols))
		for i, col := range cols {
			if b, ok := cells[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = cells[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
