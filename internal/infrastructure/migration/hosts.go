package migration

import (
	"context"
	"fmt"

	"marz2pasarguard/internal/infrastructure/database"
	"marz2pasarguard/internal/shared/utils/normalize"
)

var hostColumns = []string{
	"id", "remark", "address", "port", "inbound_tag", "sni", "host",
	"security", "alpn", "fingerprint", "allowinsecure", "is_disabled",
	"path", "random_user_agent", "use_sni_as_host", "priority",
	"http_headers", "transport_settings", "mux_settings", "noise_settings",
	"fragment_settings", "status",
}

// MigrateHosts copies every connection endpoint, normalizing the legacy ALPN
// encoding and validating each structured settings blob. Fields the source
// schema predates (priority, the settings blobs) fall back to defaults.
func MigrateHosts(ctx context.Context, source, target *database.Conn) (int, error) {
	hosts, err := queryRows(ctx, source.SQL, "SELECT * FROM hosts")
	if err != nil {
		return 0, fmt.Errorf("reading source hosts: %w", err)
	}

	tx, err := target.SQL.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt := target.Dialect.Upsert("hosts", hostColumns, []string{"id"})
	count := 0
	for _, h := range hosts {
		_, err := tx.ExecContext(ctx, stmt,
			h.val("id"),
			h.val("remark"),
			h.val("address"),
			h.val("port"),
			h.val("inbound_tag"),
			h.val("sni"),
			h.val("host"),
			h.val("security"),
			normalize.ALPN(h.val("alpn")),
			h.val("fingerprint"),
			h.or("allowinsecure", false),
			h.or("is_disabled", false),
			h.val("path"),
			h.or("random_user_agent", false),
			h.or("use_sni_as_host", false),
			h.or("priority", 0),
			normalize.JSONField(h.val("http_headers")),
			normalize.JSONField(h.val("transport_settings")),
			normalize.JSONField(h.val("mux_settings")),
			normalize.JSONField(h.val("noise_settings")),
			normalize.JSONField(h.val("fragment_settings")),
			h.val("status"),
		)
		if err != nil {
			return 0, fmt.Errorf("upserting host id %v: %w", h.val("id"), err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
