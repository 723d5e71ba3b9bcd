package migration

import (
	"context"
	"fmt"

	"marz2pasarguard/internal/infrastructure/database"
)

// defaultGroupID is the group every migrated inbound is associated with.
const defaultGroupID = 1

// MigrateInbounds copies every network listener definition and, in a second
// pass, links each one to the default group. The association insert is
// ignore-on-conflict rather than an upsert: the row has no mutable payload,
// only its existence matters.
func MigrateInbounds(ctx context.Context, source, target *database.Conn) (int, error) {
	inbounds, err := queryRows(ctx, source.SQL, "SELECT * FROM inbounds")
	if err != nil {
		return 0, fmt.Errorf("reading source inbounds: %w", err)
	}

	tx, err := target.SQL.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	upsert := target.Dialect.Upsert("inbounds", []string{"id", "tag"}, []string{"id"})
	count := 0
	for _, in := range inbounds {
		if _, err := tx.ExecContext(ctx, upsert, in.val("id"), in.val("tag")); err != nil {
			return 0, fmt.Errorf("upserting inbound id %v: %w", in.val("id"), err)
		}
		count++
	}

	associate := target.Dialect.InsertIgnore("inbounds_groups_association", []string{"inbound_id", "group_id"})
	for _, in := range inbounds {
		if _, err := tx.ExecContext(ctx, associate, in.val("id"), defaultGroupID); err != nil {
			return 0, fmt.Errorf("associating inbound id %v with default group: %w", in.val("id"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
