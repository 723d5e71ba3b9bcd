package dialect

import (
	"fmt"
	"strings"
)

// Postgres covers PostgreSQL.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Placeholder(i int) string { return fmt.Sprintf("$%d", i) }

func (Postgres) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (Postgres) TableExistsQuery() string {
	return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
}

func (d Postgres) Upsert(table string, cols, keyCols []string) string {
	updatable := nonKeyColumns(cols, keyCols)
	if len(updatable) == 0 {
		return d.InsertIgnore(table, cols)
	}
	assignments := make([]string, len(updatable))
	for i, c := range updatable {
		q := d.Quote(c)
		assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", q, q)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		d.Quote(table),
		strings.Join(quoteAll(d, cols), ", "),
		Placeholders(d, len(cols)),
		strings.Join(quoteAll(d, keyCols), ", "),
		strings.Join(assignments, ", "))
}

func (d Postgres) InsertIgnore(table string, cols []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		d.Quote(table),
		strings.Join(quoteAll(d, cols), ", "),
		Placeholders(d, len(cols)))
}

func (Postgres) Now() string { return "NOW()" }

func (Postgres) ColumnType(kind ColumnKind, size int) string {
	switch kind {
	case KindInt:
		return "INTEGER"
	case KindBigInt:
		return "BIGINT"
	case KindFloat:
		return "DOUBLE PRECISION"
	case KindBool:
		return "BOOLEAN"
	case KindVarchar:
		return fmt.Sprintf("VARCHAR(%d)", size)
	case KindText:
		return "TEXT"
	case KindDatetime:
		return "TIMESTAMP"
	case KindJSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}
