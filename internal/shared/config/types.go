package config

import "fmt"

// DatabaseConfig describes one side of the migration (source or target).
// Dialect selects the driver; for sqlite the Database field is a file path
// and Host/Port/Username/Password are ignored.
type DatabaseConfig struct {
	Dialect         string `mapstructure:"dialect" validate:"required"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port" validate:"min=0,max=65535"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// Addr returns the db@host:port triple used in log and error messages.
func (d *DatabaseConfig) Addr() string {
	return fmt.Sprintf("%s@%s:%d", d.Database, d.Host, d.Port)
}

// SameDatabase reports whether two configs point at the same physical
// database. Credentials are deliberately excluded: two different users on
// the same host/port/database still address the same rows.
func (d *DatabaseConfig) SameDatabase(other *DatabaseConfig) bool {
	return d.Host == other.Host && d.Port == other.Port && d.Database == other.Database
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}
