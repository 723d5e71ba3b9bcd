package dialect

import (
	"fmt"
	"strings"
)

// SQLite covers file-based SQLite databases, which both panels support as
// their small-deployment default.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (SQLite) TableExistsQuery() string {
	return "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
}

func (d SQLite) Upsert(table string, cols, keyCols []string) string {
	updatable := nonKeyColumns(cols, keyCols)
	if len(updatable) == 0 {
		return d.InsertIgnore(table, cols)
	}
	assignments := make([]string, len(updatable))
	for i, c := range updatable {
		q := d.Quote(c)
		assignments[i] = fmt.Sprintf("%s = excluded.%s", q, q)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		d.Quote(table),
		strings.Join(quoteAll(d, cols), ", "),
		Placeholders(d, len(cols)),
		strings.Join(quoteAll(d, keyCols), ", "),
		strings.Join(assignments, ", "))
}

func (d SQLite) InsertIgnore(table string, cols []string) string {
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		d.Quote(table),
		strings.Join(quoteAll(d, cols), ", "),
		Placeholders(d, len(cols)))
}

func (SQLite) Now() string { return "CURRENT_TIMESTAMP" }

func (SQLite) ColumnType(kind ColumnKind, size int) string {
	switch kind {
	case KindInt, KindBigInt:
		return "INTEGER"
	case KindFloat:
		return "REAL"
	case KindBool:
		return "BOOLEAN"
	case KindVarchar, KindText:
		return "TEXT"
	case KindDatetime:
		return "DATETIME"
	case KindJSON:
		return "TEXT"
	default:
		return "TEXT"
	}
}
