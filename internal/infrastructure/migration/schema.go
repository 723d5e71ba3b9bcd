package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marz2pasarguard/internal/infrastructure/database"
	"marz2pasarguard/internal/infrastructure/migration/dialect"
	appLogger "marz2pasarguard/internal/shared/logger"
)

// column is one engine-neutral column definition; the dialect maps kind to
// its DDL type name.
type column struct {
	name       string
	kind       dialect.ColumnKind
	size       int
	notNull    bool
	unique     bool
	defaultSQL string
}

// foreignKey is rendered as a table-level constraint; the syntax is shared
// by all supported dialects.
type foreignKey struct {
	columns    []string
	refTable   string
	refColumns []string
	onDelete   string
}

type tableDef struct {
	name        string
	columns     []column
	primaryKey  []string
	foreignKeys []foreignKey
}

// targetTables lists every table the migration writes to, in creation order
// (parents before children so foreign keys resolve).
var targetTables = []tableDef{
	{
		name: "admins",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "username", kind: dialect.KindVarchar, size: 255, notNull: true, unique: true},
			{name: "hashed_password", kind: dialect.KindText, notNull: true},
			{name: "created_at", kind: dialect.KindDatetime, notNull: true},
			{name: "is_sudo", kind: dialect.KindBool, defaultSQL: "FALSE"},
			{name: "password_reset_at", kind: dialect.KindDatetime},
			{name: "telegram_id", kind: dialect.KindBigInt},
			{name: "discord_webhook", kind: dialect.KindText},
			{name: "is_disabled", kind: dialect.KindBool, defaultSQL: "FALSE"},
		},
		primaryKey: []string{"id"},
	},
	{
		name: "groups",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "name", kind: dialect.KindVarchar, size: 255, notNull: true, unique: true},
			{name: "is_disabled", kind: dialect.KindBool, defaultSQL: "FALSE"},
		},
		primaryKey: []string{"id"},
	},
	{
		name: "core_configs",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "created_at", kind: dialect.KindDatetime, notNull: true},
			{name: "name", kind: dialect.KindVarchar, size: 255, notNull: true},
			{name: "config", kind: dialect.KindJSON, notNull: true},
			{name: "exclude_inbound_tags", kind: dialect.KindText},
			{name: "fallbacks_inbound_tags", kind: dialect.KindText},
		},
		primaryKey: []string{"id"},
	},
	{
		name: "inbounds",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "tag", kind: dialect.KindVarchar, size: 255, notNull: true, unique: true},
		},
		primaryKey: []string{"id"},
	},
	{
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
	},
	{
		name: "hosts",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "remark", kind: dialect.KindVarchar, size: 255},
			{name: "address", kind: dialect.KindVarchar, size: 255},
			{name: "port", kind: dialect.KindInt},
			{name: "inbound_tag", kind: dialect.KindVarchar, size: 255},
			{name: "sni", kind: dialect.KindText},
			{name: "host", kind: dialect.KindText},
			{name: "security", kind: dialect.KindVarchar, size: 50},
			{name: "alpn", kind: dialect.KindText},
			{name: "fingerprint", kind: dialect.KindText},
			{name: "allowinsecure", kind: dialect.KindBool, defaultSQL: "FALSE"},
			{name: "is_disabled", kind: dialect.KindBool, defaultSQL: "FALSE"},
			{name: "path", kind: dialect.KindText},
			{name: "random_user_agent", kind: dialect.KindBool, defaultSQL: "FALSE"},
			{name: "use_sni_as_host", kind: dialect.KindBool, defaultSQL: "FALSE"},
			{name: "priority", kind: dialect.KindInt, defaultSQL: "0"},
			{name: "http_headers", kind: dialect.KindText},
			{name: "transport_settings", kind: dialect.KindJSON},
			{name: "mux_settings", kind: dialect.KindJSON},
			{name: "noise_settings", kind: dialect.KindJSON},
			{name: "fragment_settings", kind: dialect.KindJSON},
			{name: "status", kind: dialect.KindVarchar, size: 50},
		},
		primaryKey: []string{"id"},
	},
	{
		name: "nodes",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "name", kind: dialect.KindVarchar, size: 255, notNull: true},
			{name: "address", kind: dialect.KindVarchar, size: 255, notNull: true},
			{name: "port", kind: dialect.KindInt},
			{name: "status", kind: dialect.KindVarchar, size: 50},
			{name: "last_status_change", kind: dialect.KindDatetime},
			{name: "message", kind: dialect.KindText},
			{name: "created_at", kind: dialect.KindDatetime, notNull: true},
			{name: "uplink", kind: dialect.KindBigInt},
			{name: "downlink", kind: dialect.KindBigInt},
			{name: "xray_version", kind: dialect.KindVarchar, size: 50},
			{name: "usage_coefficient", kind: dialect.KindFloat},
			{name: "node_version", kind: dialect.KindVarchar, size: 50},
			{name: "connection_type", kind: dialect.KindVarchar, size: 50},
			{name: "server_ca", kind: dialect.KindText},
			{name: "keep_alive", kind: dialect.KindBool, defaultSQL: "FALSE"},
			{name: "max_logs", kind: dialect.KindInt, defaultSQL: "1000"},
			{name: "core_config_id", kind: dialect.KindInt, defaultSQL: "1"},
			{name: "gather_logs", kind: dialect.KindBool, defaultSQL: "TRUE"},
		},
		primaryKey: []string{"id"},
		foreignKeys: []foreignKey{
			{columns: []string{"core_config_id"}, refTable: "core_configs", refColumns: []string{"id"}},
		},
	},
	{
		name: "users",
		columns: []column{
			{name: "id", kind: dialect.KindInt, notNull: true},
			{name: "username", kind: dialect.KindVarchar, size: 255, notNull: true, unique: true},
			{name: "status", kind: dialect.KindVarchar, size: 50},
			{name: "used_traffic", kind: dialect.KindBigInt},
			{name: "data_limit", kind: dialect.KindBigInt},
			{name: "created_at", kind: dialect.KindDatetime, notNull: true},
			{name: "admin_id", kind: dialect.KindInt},
			{name: "data_limit_reset_strategy", kind: dialect.KindVarchar, size: 50},
			{name: "sub_revoked_at", kind: dialect.KindDatetime},
			{name: "note", kind: dialect.KindText},
			{name: "online_at", kind: dialect.KindDatetime},
			{name: "edit_at", kind: dialect.KindDatetime},
			{name: "on_hold_timeout", kind: dialect.KindDatetime},
			{name: "on_hold_expire_duration", kind: dialect.KindInt},
			{name: "auto_delete_in_days", kind: dialect.KindInt},
			{name: "last_status_change", kind: dialect.KindDatetime},
			{name: "expire", kind: dialect.KindDatetime},
			{name: "proxy_settings", kind: dialect.KindJSON},
			{name: "groups", kind: dialect.KindText},
		},
		primaryKey: []string{"id"},
	},
}

// defaultCoreConfig is the placeholder configuration seeded at id=1 when the
// target has none yet: no inbounds, a direct and a blackhole outbound, and
// private IP ranges routed to the blackhole.
func defaultCoreConfig() map[string]any {
	return map[string]any{
		"log":      map[string]any{"loglevel": "warning"},
		"inbounds": []any{},
		"outbounds": []any{
			map[string]any{"protocol": "freedom", "tag": "DIRECT"},
			map[string]any{"protocol": "blackhole", "tag": "BLOCK"},
		},
		"routing": map[string]any{
			"rules": []any{
				map[string]any{"ip": []any{"geoip:private"}, "outboundTag": "BLOCK", "type": "field"},
			},
		},
	}
}

// EnsureSchema creates every missing target table. Existing tables are left
// untouched; the whole pass is safe to repeat on every run.
func EnsureSchema(ctx context.Context, target *database.Conn) error {
	log := appLogger.WithComponent("migration.schema")
	for _, table := range targetTables {
		exists, err := tableExists(ctx, target, table.name)
		if err != nil {
			return fmt.Errorf("checking table %s: %w", table.name, err)
		}
		if exists {
			continue
		}
		if _, err := target.SQL.ExecContext(ctx, createTableSQL(target.Dialect, table)); err != nil {
			return fmt.Errorf("creating table %s: %w", table.name, err)
		}
		log.Info("created target table", "table", table.name)
	}
	return nil
}

// EnsureDefaultGroup seeds the default group (id=1) that every migrated
// inbound is associated with. An existing id=1 row is never overwritten.
func EnsureDefaultGroup(ctx context.Context, target *database.Conn) error {
	d := target.Dialect
	exists, err := rowWithIDExists(ctx, target, "groups", 1)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (%s, %s, %s)",
		d.Quote("groups"), d.Quote("id"), d.Quote("name"), d.Quote("is_disabled"),
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3))
	if _, err := target.SQL.ExecContext(ctx, stmt, 1, "DefaultGroup", false); err != nil {
		return fmt.Errorf("seeding default group: %w", err)
	}
	appLogger.Info("seeded default group", "id", 1, "name", "DefaultGroup")
	return nil
}

// EnsureDefaultCoreConfig seeds a minimal core configuration at id=1 so
// node migration always has a valid foreign-key target. An existing id=1
// row is never overwritten with the placeholder.
func EnsureDefaultCoreConfig(ctx context.Context, target *database.Conn) error {
	d := target.Dialect
	exists, err := rowWithIDExists(ctx, target, "core_configs", 1)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	cfg, err := json.Marshal(defaultCoreConfig())
	if err != nil {
		return fmt.Errorf("encoding default core config: %w", err)
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (id, created_at, name, config, exclude_inbound_tags, fallbacks_inbound_tags) VALUES (%s, %s, %s, %s, '', '')",
		d.Quote("core_configs"), d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4))
	if _, err := target.SQL.ExecContext(ctx, stmt, 1, time.Now().UTC(), "Default Core Config", string(cfg)); err != nil {
		return fmt.Errorf("seeding default core config: %w", err)
	}
	appLogger.Info("seeded default core config", "id", 1)
	return nil
}

func tableExists(ctx context.Context, conn *database.Conn, name string) (bool, error) {
	var count int
	if err := conn.SQL.QueryRowContext(ctx, conn.Dialect.TableExistsQuery(), name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func rowWithIDExists(ctx context.Context, conn *database.Conn, table string, id int) (bool, error) {
	d := conn.Dialect
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s",
		d.Quote(table), d.Quote("id"), d.Placeholder(1))
	var count int
	if err := conn.SQL.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("checking %s id %d: %w", table, id, err)
	}
	return count > 0, nil
}

func createTableSQL(d dialect.Dialect, table tableDef) string {
	lines := make([]string, 0, len(table.columns)+1+len(table.foreignKeys))
	for _, col := range table.columns {
		parts := []string{d.Quote(col.name), d.ColumnType(col.kind, col.size)}
		if col.notNull {
			parts = append(parts, "NOT NULL")
		}
		if col.unique {
			parts = append(parts, "UNIQUE")
		}
		if col.defaultSQL != "" {
			parts = append(parts, "DEFAULT "+col.defaultSQL)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	if len(table.primaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", joinQuoted(d, table.primaryKey)))
	}
	for _, fk := range table.foreignKeys {
		line := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
			joinQuoted(d, fk.columns), d.Quote(fk.refTable), joinQuoted(d, fk.refColumns))
		if fk.onDelete != "" {
			line += " ON DELETE " + fk.onDelete
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", d.Quote(table.name), strings.Join(lines, ",\n  "))
}

func joinQuoted(d dialect.Dialect, idents []string) string {
	quoted := make([]string, len(idents))
	for i, ident := range idents {
		quoted[i] = d.Quote(ident)
	}
	return strings.Join(quoted, ", ")
}
