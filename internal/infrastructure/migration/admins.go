package migration

import (
	"context"
	"fmt"

	"marz2pasarguard/internal/infrastructure/database"
)

var adminColumns = []string{
	"id", "username", "hashed_password", "created_at", "is_sudo",
	"password_reset_at", "telegram_id", "discord_webhook",
}

// MigrateAdmins copies every administrator account from source to target.
// The numeric id is the stable join key: re-running updates rows in place.
func MigrateAdmins(ctx context.Context, source, target *database.Conn) (int, error) {
	admins, err := queryRows(ctx, source.SQL, "SELECT * FROM admins")
	if err != nil {
		return 0, fmt.Errorf("reading source admins: %w", err)
	}

	tx, err := target.SQL.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt := target.Dialect.Upsert("admins", adminColumns, []string{"id"})
	count := 0
	for _, a := range admins {
		_, err := tx.ExecContext(ctx, stmt,
			a.val("id"),
			a.val("username"),
			a.val("hashed_password"),
			a.val("created_at"),
			a.or("is_sudo", false),
			a.val("password_reset_at"),
			a.val("telegram_id"),
			a.val("discord_webhook"),
		)
		if err != nil {
			return 0, fmt.Errorf("upserting admin id %v: %w", a.val("id"), err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
