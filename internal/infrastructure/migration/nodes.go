package migration

import (
	"context"
	"fmt"

	"marz2pasarguard/internal/infrastructure/database"
)

var nodeColumns = []string{
	"id", "name", "address", "port", "status", "last_status_change",
	"message", "created_at", "uplink", "downlink", "xray_version",
	"usage_coefficient", "node_version", "connection_type", "server_ca",
	"keep_alive", "max_logs", "core_config_id", "gather_logs",
}

// MigrateNodes copies every worker node. core_config_id is forced to 1 on
// the way in: after migration the legacy configuration at id=1 is the
// operating config of every node.
func MigrateNodes(ctx context.Context, source, target *database.Conn) (int, error) {
	nodes, err := queryRows(ctx, source.SQL, "SELECT * FROM nodes")
	if err != nil {
		return 0, fmt.Errorf("reading source nodes: %w", err)
	}

	tx, err := target.SQL.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt := target.Dialect.Upsert("nodes", nodeColumns, []string{"id"})
	count := 0
	for _, n := range nodes {
		_, err := tx.ExecContext(ctx, stmt,
			n.val("id"),
			n.val("name"),
			n.val("address"),
			n.val("port"),
			n.val("status"),
			n.val("last_status_change"),
			n.val("message"),
			n.val("created_at"),
			n.val("uplink"),
			n.val("downlink"),
			n.val("xray_version"),
			n.val("usage_coefficient"),
			n.val("node_version"),
			n.val("connection_type"),
			n.or("server_ca", ""),
			n.or("keep_alive", false),
			n.or("max_logs", 1000),
			defaultCoreConfigID,
			true,
		)
		if err != nil {
			return 0, fmt.Errorf("upserting node id %v: %w", n.val("id"), err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
