// Package dialect isolates every piece of SQL text that differs between the
// supported database engines. Each migrator asks the target's Dialect for
// its upsert/insert-ignore statements instead of branching on engine names.
package dialect

import (
	"fmt"
	"strings"
)

// ColumnKind is the engine-neutral column type used by the schema ensurer.
type ColumnKind int

const (
	KindInt ColumnKind = iota
	KindBigInt
	KindFloat
	KindBool
	KindVarchar
	KindText
	KindDatetime
	KindJSON
)

// Dialect generates engine-specific SQL. Implementations are stateless.
type Dialect interface {
	// Name returns the canonical dialect tag ("mysql", "postgres", "sqlite").
	Name() string
	// Placeholder returns the bind marker for the i-th parameter (1-based).
	Placeholder(i int) string
	// Quote escapes an identifier. Needed because the target schema uses
	// reserved words as names ("groups" is reserved in MySQL 8).
	Quote(ident string) string
	// TableExistsQuery returns a COUNT(*) query with one bind parameter,
	// the table name.
	TableExistsQuery() string
	// Upsert returns an insert-or-update-on-primary-key-conflict statement
	// covering cols, with keyCols as the conflict target. Every non-key
	// column is updated to the incoming value.
	Upsert(table string, cols, keyCols []string) string
	// InsertIgnore returns an insert that is silently skipped when the
	// primary key already exists. Used for association rows that carry no
	// mutable payload.
	InsertIgnore(table string, cols []string) string
	// Now returns the SQL expression for the current timestamp.
	Now() string
	// ColumnType maps an engine-neutral kind to the DDL type name. size is
	// only meaningful for KindVarchar.
	ColumnType(kind ColumnKind, size int) string
}

// FromName resolves a dialect tag (including common aliases) to its
// implementation. The error is a configuration-class failure: the operator
// asked for an engine this build cannot speak to.
func FromName(tag string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "mysql", "mariadb":
		return MySQL{}, nil
	case "postgres", "postgresql", "pgsql":
		return Postgres{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q (supported: mysql, postgres, sqlite)", tag)
	}
}

// Placeholders renders a comma-separated bind list for n parameters.
func Placeholders(d Dialect, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = d.Placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

func quoteAll(d Dialect, idents []string) []string {
	quoted := make([]string, len(idents))
	for i, ident := range idents {
		quoted[i] = d.Quote(ident)
	}
	return quoted
}

func nonKeyColumns(cols, keyCols []string) []string {
	keys := make(map[string]struct{}, len(keyCols))
	for _, k := range keyCols {
		keys[k] = struct{}{}
	}
	rest := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, ok := keys[c]; !ok {
			rest = append(rest, c)
		}
	}
	return rest
}
