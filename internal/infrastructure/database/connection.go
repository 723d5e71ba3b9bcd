// Package database resolves connection descriptors into live handles. Each
// migration run opens two independent connections (source and target); no
// process-wide singleton is kept.
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"marz2pasarguard/internal/infrastructure/migration/dialect"
	"marz2pasarguard/internal/shared/config"
	apperrors "marz2pasarguard/internal/shared/errors"
	appLogger "marz2pasarguard/internal/shared/logger"
)

// Conn is an open database handle bound to its resolved dialect. The raw
// *sql.DB is what the migration engine executes against; the gorm handle
// owns the pool.
type Conn struct {
	Gorm    *gorm.DB
	SQL     *sql.DB
	Dialect dialect.Dialect
	Config  config.DatabaseConfig
}

// Connect opens the database described by cfg. Dialect resolution failures
// are configuration errors; open/ping failures are connectivity errors that
// include db@host:port for operator diagnosis. There is no retry: migration
// runs are operator-triggered and one-shot.
func Connect(cfg config.DatabaseConfig) (*Conn, error) {
	d, err := dialect.FromName(cfg.Dialect)
	if err != nil {
		return nil, apperrors.NewConfigurationError("cannot resolve database dialect", err.Error()).WithCause(err)
	}

	gormLogger := gormlogger.New(
		&slogWriter{},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(openDialector(d, cfg), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, apperrors.NewConnectivityError(
			fmt.Sprintf("failed to connect to %s", cfg.Addr())).WithCause(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.NewConnectivityError("failed to get underlying sql.DB").WithCause(err)
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 30
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(lifetime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, apperrors.NewConnectivityError(
			fmt.Sprintf("failed to ping %s", cfg.Addr())).WithCause(err)
	}

	appLogger.Info("database connection established",
		"dialect", d.Name(),
		"database", cfg.Database)

	return &Conn{Gorm: db, SQL: sqlDB, Dialect: d, Config: cfg}, nil
}

func openDialector(d dialect.Dialect, cfg config.DatabaseConfig) gorm.Dialector {
	switch d.Name() {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=prefer TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
		return postgres.Open(dsn)
	case "sqlite":
		return sqlite.Open(cfg.Database)
	default: // mysql
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		return mysql.New(mysql.Config{DSN: dsn, SkipInitializeWithVersion: true})
	}
}

// Close releases the connection pool.
func (c *Conn) Close() error {
	if c == nil || c.SQL == nil {
		return nil
	}
	if err := c.SQL.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	appLogger.Debug("database connection closed", "database", c.Config.Database)
	return nil
}

// slogWriter adapts gorm's printf-style logger onto slog.
type slogWriter struct{}

func (w *slogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch {
	case strings.Contains(msg, "[error]") || strings.Contains(msg, "ERROR"):
		appLogger.Error("database error", "details", msg)
	case strings.Contains(msg, "SLOW SQL"):
		appLogger.Warn("slow query", "details", msg)
	default:
		appLogger.Debug("database query", "details", msg)
	}
}
