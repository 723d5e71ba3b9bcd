package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"marz2pasarguard/internal/infrastructure/database"
	appLogger "marz2pasarguard/internal/shared/logger"
	"marz2pasarguard/internal/shared/utils/normalize"
)

var userColumns = []string{
	"id", "username", "status", "used_traffic", "data_limit", "created_at",
	"admin_id", "data_limit_reset_strategy", "sub_revoked_at", "note",
	"online_at", "edit_at", "on_hold_timeout", "on_hold_expire_duration",
	"auto_delete_in_days", "last_status_change", "expire", "proxy_settings",
	"groups",
}

// MigrateUsers copies every end-user account, folding the source's separate
// proxy-credential table into the target's single proxy_settings JSON
// object and converting the epoch expiry to a native datetime. A credential
// with unparseable settings is skipped with a warning; it never fails the
// user's own upsert.
func MigrateUsers(ctx context.Context, source, target *database.Conn, summary *Summary) (int, error) {
	log := appLogger.WithComponent("migration.users")

	users, err := queryRows(ctx, source.SQL, "SELECT * FROM users")
	if err != nil {
		return 0, fmt.Errorf("reading source users: %w", err)
	}

	// Ordered so the "last credential per protocol wins" rule is stable
	// across runs.
	proxyQuery := fmt.Sprintf("SELECT * FROM proxies WHERE user_id = %s ORDER BY id",
		source.Dialect.Placeholder(1))

	tx, err := target.SQL.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt := target.Dialect.Upsert("users", userColumns, []string{"id"})
	count := 0
	for _, u := range users {
		userID := u.val("id")

		proxies, err := queryRows(ctx, source.SQL, proxyQuery, userID)
		if err != nil {
			return 0, fmt.Errorf("reading proxies for user id %v: %w", userID, err)
		}

		merged, skipped := mergeProxySettings(proxies)
		for _, proxyID := range skipped {
			log.Warn("corrupted proxy settings, credential skipped",
				"user_id", userID, "proxy_id", proxyID)
			summary.Warnf("user id %v: corrupted settings on proxy id %v, credential skipped", userID, proxyID)
		}

		proxyJSON, err := json.Marshal(merged)
		if err != nil {
			return 0, fmt.Errorf("encoding proxy settings for user id %v: %w", userID, err)
		}

		groups := u.str("groups")
		if groups == "" {
			groups = "DefaultGroup"
		}

		_, err = tx.ExecContext(ctx, stmt,
			userID,
			u.val("username"),
			u.val("status"),
			u.or("used_traffic", 0),
			u.val("data_limit"),
			u.val("created_at"),
			u.val("admin_id"),
			u.val("data_limit_reset_strategy"),
			u.val("sub_revoked_at"),
			u.val("note"),
			u.val("online_at"),
			u.val("edit_at"),
			u.val("on_hold_timeout"),
			u.val("on_hold_expire_duration"),
			u.val("auto_delete_in_days"),
			u.val("last_status_change"),
			normalize.ExpiryTime(u.val("expire")),
			string(proxyJSON),
			groups,
		)
		if err != nil {
			return 0, fmt.Errorf("upserting user id %v: %w", userID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// mergeProxySettings folds the per-protocol credential rows into the target
// proxy_settings object. At most one credential per protocol family is
// retained (the last row wins), unknown protocol types are ignored, and
// rows whose settings do not parse are reported back as skipped.
func mergeProxySettings(proxies []rowMap) (map[string]any, []any) {
	merged := make(map[string]any)
	var skipped []any

	for _, p := range proxies {
		var settings map[string]any
		if err := json.Unmarshal([]byte(p.str("settings")), &settings); err != nil {
			skipped = append(skipped, p.val("id"))
			continue
		}

		switch strings.ToLower(p.str("type")) {
		case "vmess":
			merged["vmess"] = map[string]any{"id": settings["id"]}
		case "vless":
			flow := ""
			if f, ok := settings["flow"].(string); ok {
				flow = f
			}
			merged["vless"] = map[string]any{"id": settings["id"], "flow": flow}
		case "trojan":
			merged["trojan"] = map[string]any{"password": settings["password"]}
		case "shadowsocks":
			merged["shadowsocks"] = map[string]any{"password": settings["password"], "method": settings["method"]}
		}
	}
	return merged, skipped
}
