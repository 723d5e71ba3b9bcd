package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromName(t *testing.T) {
	tests := []struct {
		tag     string
		want    string
		wantErr bool
	}{
		{tag: "mysql", want: "mysql"},
		{tag: "MariaDB", want: "mysql"},
		{tag: "postgres", want: "postgres"},
		{tag: "postgresql", want: "postgres"},
		{tag: "sqlite3", want: "sqlite"},
		{tag: " sqlite ", want: "sqlite"},
		{tag: "oracle", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			d, err := FromName(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestUpsert(t *testing.T) {
	cols := []string{"id", "tag"}
	keys := []string{"id"}

	t.Run("mysql", func(t *testing.T) {
		got := MySQL{}.Upsert("inbounds", cols, keys)
		assert.Equal(t,
			"INSERT INTO `inbounds` (`id`, `tag`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `tag` = VALUES(`tag`)",
			got)
	})

	t.Run("postgres", func(t *testing.T) {
		got := Postgres{}.Upsert("inbounds", cols, keys)
		assert.Equal(t,
			`INSERT INTO "inbounds" ("id", "tag") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET "tag" = EXCLUDED."tag"`,
			got)
	})

	t.Run("sqlite", func(t *testing.T) {
		got := SQLite{}.Upsert("inbounds", cols, keys)
		assert.Equal(t,
			`INSERT INTO "inbounds" ("id", "tag") VALUES (?, ?) ON CONFLICT("id") DO UPDATE SET "tag" = excluded."tag"`,
			got)
	})

	t.Run("all columns are keys falls back to insert ignore", func(t *testing.T) {
		assocCols := []string{"inbound_id", "group_id"}
		got := MySQL{}.Upsert("inbounds_groups_association", assocCols, assocCols)
		assert.Equal(t,
			"INSERT IGNORE INTO `inbounds_groups_association` (`inbound_id`, `group_id`) VALUES (?, ?)",
			got)
	})
}

func TestInsertIgnore(t *testing.T) {
	cols := []string{"inbound_id", "group_id"}

	assert.Equal(t,
		"INSERT IGNORE INTO `inbounds_groups_association` (`inbound_id`, `group_id`) VALUES (?, ?)",
		MySQL{}.InsertIgnore("inbounds_groups_association", cols))
	assert.Equal(t,
		`INSERT INTO "inbounds_groups_association" ("inbound_id", "group_id") VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		Postgres{}.InsertIgnore("inbounds_groups_association", cols))
	assert.Equal(t,
		`INSERT OR IGNORE INTO "inbounds_groups_association" ("inbound_id", "group_id") VALUES (?, ?)`,
		SQLite{}.InsertIgnore("inbounds_groups_association", cols))
}

func TestQuoteReservedWord(t *testing.T) {
	// "groups" is reserved in MySQL 8; generated SQL must always quote it.
	assert.Equal(t, "`groups`", MySQL{}.Quote("groups"))
	assert.Equal(t, `"groups"`, Postgres{}.Quote("groups"))
	assert.Equal(t, `"groups"`, SQLite{}.Quote("groups"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", Placeholders(MySQL{}, 3))
	assert.Equal(t, "$1, $2, $3", Placeholders(Postgres{}, 3))
}
