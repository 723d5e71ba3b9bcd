package dialect

import (
	"fmt"
	"strings"
)

// MySQL covers MySQL and MariaDB.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (MySQL) TableExistsQuery() string {
	return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
}

func (d MySQL) Upsert(table string, cols, keyCols []string) string {
	updatable := nonKeyColumns(cols, keyCols)
	if len(updatable) == 0 {
		return d.InsertIgnore(table, cols)
	}
	assignments := make([]string, len(updatable))
	for i, c := range updatable {
		q := d.Quote(c)
		assignments[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		d.Quote(table),
		strings.Join(quoteAll(d, cols), ", "),
		Placeholders(d, len(cols)),
		strings.Join(assignments, ", "))
}

func (d MySQL) InsertIgnore(table string, cols []string) string {
	return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)",
		d.Quote(table),
		strings.Join(quoteAll(d, cols), ", "),
		Placeholders(d, len(cols)))
}

func (MySQL) Now() string { return "NOW()" }

func (MySQL) ColumnType(kind ColumnKind, size int) string {
	switch kind {
	case KindInt:
		return "INT"
	case KindBigInt:
		return "BIGINT"
	case KindFloat:
		return "FLOAT"
	case KindBool:
		return "BOOLEAN"
	case KindVarchar:
		return fmt.Sprintf("VARCHAR(%d)", size)
	case KindText:
		return "TEXT"
	case KindDatetime:
		return "DATETIME"
	case KindJSON:
		return "JSON"
	default:
		return "TEXT"
	}
}
