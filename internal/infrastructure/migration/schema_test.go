package migration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marz2pasarguard/internal/infrastructure/database"
	"marz2pasarguard/internal/infrastructure/migration/dialect"
)

func emptyTarget(t *testing.T) *database.Conn {
	t.Helper()
	conn, err := database.Connect(sqliteCfg(filepath.Join(t.TempDir(), "target.db")))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()
	conn := emptyTarget(t)

	require.NoError(t, EnsureSchema(ctx, conn))
	for _, table := range targetTables {
		assert.Equal(t, 1, countRows(t, conn.SQL,
			"sqlite_master WHERE type = 'table' AND name = '"+table.name+"'"),
			"table %s should exist", table.name)
	}

	// Repeating the pass on an already-prepared target is a no-op.
	require.NoError(t, EnsureSchema(ctx, conn))
}

func TestEnsureDefaultGroupKeepsExistingRow(t *testing.T) {
	ctx := context.Background()
	conn := emptyTarget(t)
	require.NoError(t, EnsureSchema(ctx, conn))

	execAll(t, conn.SQL, `INSERT INTO "groups" (id, name, is_disabled) VALUES (1, 'Operators', 0)`)

	require.NoError(t, EnsureDefaultGroup(ctx, conn))
	assert.Equal(t, 1, countRows(t, conn.SQL, `"groups" WHERE id = 1 AND name = 'Operators'`))
}

func TestEnsureDefaultCoreConfigKeepsExistingRow(t *testing.T) {
	ctx := context.Background()
	conn := emptyTarget(t)
	require.NoError(t, EnsureSchema(ctx, conn))

	execAll(t, conn.SQL,
		`INSERT INTO core_configs (id, created_at, name, config, exclude_inbound_tags, fallbacks_inbound_tags)
		 VALUES (1, '2024-01-01 00:00:00', 'Production', '{}', '', '')`)

	require.NoError(t, EnsureDefaultCoreConfig(ctx, conn))
	assert.Equal(t, 1, countRows(t, conn.SQL, "core_configs"))
	assert.Equal(t, 1, countRows(t, conn.SQL, "core_configs WHERE id = 1 AND name = 'Production'"))
}

func TestCreateTableSQL(t *testing.T) {
	table := tableDef{
		name: "inbounds_groups_association",
		columns: []column{
			{name: "inbound_id", kind: dialect.KindInt, notNull: true},
			{name: "group_id", kind: dialect.KindInt, notNull: true},
		},
		primaryKey: []string{"inbound_id", "group_id"},
		foreignKeys: []foreignKey{
			{columns: []string{"inbound_id"}, refTable: "inbounds", refColumns: []string{"id"}, onDelete: "CASCADE"},
			{columns: []string{"group_id"}, refTable: "groups", refColumns: []string{"id"}, onDelete: "CASCADE"},
		},
	}

	got := createTableSQL(dialect.MySQL{}, table)
	assert.Contains(t, got, "CREATE TABLE `inbounds_groups_association`")
	assert.Contains(t, got, "`inbound_id` INT NOT NULL")
	assert.Contains(t, got, "PRIMARY KEY (`inbound_id`, `group_id`)")
	assert.Contains(t, got, "FOREIGN KEY (`group_id`) REFERENCES `groups` (`id`) ON DELETE CASCADE")

	// Every dialect renders a complete definition for every target table.
	for _, d := range []dialect.Dialect{dialect.MySQL{}, dialect.Postgres{}, dialect.SQLite{}} {
		for _, def := range targetTables {
			stmt := createTableSQL(d, def)
			assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE "), "%s/%s", d.Name(), def.name)
			assert.Contains(t, stmt, "PRIMARY KEY", "%s/%s", d.Name(), def.name)
		}
	}
}
