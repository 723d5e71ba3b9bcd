package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "marz2pasarguard/internal/shared/config"
	"marz2pasarguard/internal/shared/envfile"
	apperrors "marz2pasarguard/internal/shared/errors"
)

// Config is the tool's own configuration: the two connection descriptors,
// where to find the legacy xray document, and logging. Descriptors may be
// given inline or resolved from a panel's .env file.
type Config struct {
	Source         sharedConfig.DatabaseConfig `mapstructure:"source"`
	Target         sharedConfig.DatabaseConfig `mapstructure:"target"`
	SourceEnvFile  string                      `mapstructure:"source_env_file"`
	TargetEnvFile  string                      `mapstructure:"target_env_file"`
	XrayConfigPath string                      `mapstructure:"xray_config_path"`
	Logger         sharedConfig.LoggerConfig   `mapstructure:"logger"`
}

// Load loads configuration from file and environment variables. An explicit
// path overrides the ./configs search.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("M2P")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ResolveDatabases substitutes .env-file descriptors where configured and
// validates both sides.
func (c *Config) ResolveDatabases() error {
	if c.SourceEnvFile != "" {
		resolved, err := envfile.Load(c.SourceEnvFile)
		if err != nil {
			return err
		}
		c.Source = *resolved
	}
	if c.TargetEnvFile != "" {
		resolved, err := envfile.Load(c.TargetEnvFile)
		if err != nil {
			return err
		}
		c.Target = *resolved
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&c.Source); err != nil {
		return apperrors.NewConfigurationError("invalid source database config", err.Error()).WithCause(err)
	}
	if err := validate.Struct(&c.Target); err != nil {
		return apperrors.NewConfigurationError("invalid target database config", err.Error()).WithCause(err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.dialect", "mysql")
	v.SetDefault("source.host", "127.0.0.1")
	v.SetDefault("source.port", 3306)

	v.SetDefault("target.dialect", "mysql")
	v.SetDefault("target.host", "127.0.0.1")
	v.SetDefault("target.port", 3306)

	v.SetDefault("xray_config_path", "/var/lib/marzban/xray_config.json")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")
}
