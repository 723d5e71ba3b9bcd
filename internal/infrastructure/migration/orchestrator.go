package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"marz2pasarguard/internal/infrastructure/database"
	"marz2pasarguard/internal/shared/config"
	apperrors "marz2pasarguard/internal/shared/errors"
	appLogger "marz2pasarguard/internal/shared/logger"
)

// Run executes one full migration pass: resolve both connections, refuse to
// proceed when they address the same physical database, ensure the target
// schema and its singleton rows, then run every entity migrator in
// dependency order. Only connection failures and the same-database guard
// are fatal; any single entity failure becomes a summary warning and the
// remaining entity types still run.
func Run(ctx context.Context, sourceCfg, targetCfg config.DatabaseConfig, legacyConfig json.RawMessage) (*Summary, error) {
	log := appLogger.WithComponent("migration")

	source, err := database.Connect(sourceCfg)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	target, err := database.Connect(targetCfg)
	if err != nil {
		return nil, err
	}
	defer target.Close()

	if sourceCfg.SameDatabase(&targetCfg) {
		return nil, apperrors.NewConfigurationError(
			"source and target are the same database",
			fmt.Sprintf("both resolve to %s; migrating a database into itself would corrupt it", sourceCfg.Addr()))
	}

	summary := &Summary{}
	log.Info("starting migration",
		"source", sourceCfg.Addr(), "source_dialect", source.Dialect.Name(),
		"target", targetCfg.Addr(), "target_dialect", target.Dialect.Name())

	if err := EnsureSchema(ctx, target); err != nil {
		log.Warn("target schema could not be ensured", "error", err)
		summary.Warnf("schema setup failed: %v", err)
	}

	summary.Admins = step(log, summary, "admins", func() (int, error) {
		return MigrateAdmins(ctx, source, target)
	})

	if err := EnsureDefaultGroup(ctx, target); err != nil {
		log.Warn("default group could not be ensured", "error", err)
		summary.Warnf("default group setup failed: %v", err)
	}
	if err := EnsureDefaultCoreConfig(ctx, target); err != nil {
		log.Warn("default core config could not be ensured", "error", err)
		summary.Warnf("default core config setup failed: %v", err)
	}

	if len(legacyConfig) == 0 {
		log.Warn("no legacy core configuration available, skipping core config migration")
		summary.Warnf("core config migration skipped: no legacy configuration document available")
	} else {
		summary.CoreConfigs = step(log, summary, "core config", func() (int, error) {
			return MigrateCoreConfig(ctx, target, legacyConfig)
		})
	}

	summary.Inbounds = step(log, summary, "inbounds", func() (int, error) {
		return MigrateInbounds(ctx, source, target)
	})
	summary.Hosts = step(log, summary, "hosts", func() (int, error) {
		return MigrateHosts(ctx, source, target)
	})
	summary.Nodes = step(log, summary, "nodes", func() (int, error) {
		return MigrateNodes(ctx, source, target)
	})
	summary.Users = step(log, summary, "users", func() (int, error) {
		return MigrateUsers(ctx, source, target, summary)
	})

	log.Info("migration finished",
		"admins", summary.Admins,
		"core_configs", summary.CoreConfigs,
		"inbounds", summary.Inbounds,
		"hosts", summary.Hosts,
		"nodes", summary.Nodes,
		"users", summary.Users,
		"warnings", len(summary.Warnings))

	return summary, nil
}

// step wraps one entity migration: a failure rolls that entity back and is
// recorded as a warning, and the remaining entity types still migrate.
func step(log *slog.Logger, summary *Summary, entity string, fn func() (int, error)) int {
	log.Info("migrating entity", "entity", entity)
	count, err := fn()
	if err != nil {
		log.Warn("entity migration failed", "entity", entity, "error", err)
		summary.Warnf("%s migration failed: %v", entity, err)
		return count
	}
	log.Info("entity migrated", "entity", entity, "count", count)
	return count
}
