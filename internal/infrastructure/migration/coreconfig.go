package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"marz2pasarguard/internal/infrastructure/database"
	"marz2pasarguard/internal/infrastructure/migration/dialect"
	apperrors "marz2pasarguard/internal/shared/errors"
)

// defaultCoreConfigID is the slot worker nodes read their operating
// configuration from.
const defaultCoreConfigID = 1

var coreConfigColumns = []string{
	"id", "created_at", "name", "config", "exclude_inbound_tags", "fallbacks_inbound_tags",
}

// MigrateCoreConfig installs the legacy configuration document at id=1.
// When an id=1 row already exists, its content is archived first under
// max(id)+1 so no previous configuration is ever lost. Without a prior row
// the document is written directly.
func MigrateCoreConfig(ctx context.Context, target *database.Conn, legacy json.RawMessage) (int, error) {
	if len(legacy) == 0 {
		return 0, apperrors.NewMigrationError("no legacy core configuration document provided")
	}
	if !json.Valid(legacy) {
		return 0, apperrors.NewMigrationError("legacy core configuration is not valid JSON")
	}

	d := target.Dialect

	var maxID sql.NullInt64
	maxQuery := fmt.Sprintf("SELECT MAX(id) FROM %s", d.Quote("core_configs"))
	if err := target.SQL.QueryRowContext(ctx, maxQuery).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("finding highest core config id: %w", err)
	}
	archiveID := int64(defaultCoreConfigID) + 1
	if maxID.Valid {
		archiveID = maxID.Int64 + 1
	}

	existing, err := queryRows(ctx, target.SQL,
		fmt.Sprintf("SELECT * FROM %s WHERE id = %s", d.Quote("core_configs"), d.Placeholder(1)),
		defaultCoreConfigID)
	if err != nil {
		return 0, fmt.Errorf("reading current core config: %w", err)
	}

	tx, err := target.SQL.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if len(existing) > 0 {
		prev := existing[0]
		archiveName := fmt.Sprintf("Backup_before_Marzban_Migration_%s", now.Format(time.DateOnly))
		insert := fmt.Sprintf("INSERT INTO %s (id, created_at, name, config, exclude_inbound_tags, fallbacks_inbound_tags) VALUES (%s)",
			d.Quote("core_configs"), dialect.Placeholders(d, 6))
		_, err := tx.ExecContext(ctx, insert,
			archiveID, now, archiveName,
			prev.val("config"), prev.val("exclude_inbound_tags"), prev.val("fallbacks_inbound_tags"))
		if err != nil {
			return 0, fmt.Errorf("archiving core config id %d as id %d: %w", defaultCoreConfigID, archiveID, err)
		}
	}

	upsert := d.Upsert("core_configs", coreConfigColumns, []string{"id"})
	_, err = tx.ExecContext(ctx, upsert,
		defaultCoreConfigID, now, "Marzban Migrated Config", string(legacy), "", "")
	if err != nil {
		return 0, fmt.Errorf("installing migrated core config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return 1, nil
}
