// Package migrate wires the migration engine into the CLI. Everything here
// is environment acquisition: config loading, .env resolution, reading the
// legacy xray document. The engine itself only sees resolved descriptors.
package migrate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marz2pasarguard/internal/infrastructure/config"
	"marz2pasarguard/internal/infrastructure/migration"
	"marz2pasarguard/internal/shared/logger"
)

var (
	configPath    string
	sourceEnvPath string
	targetEnvPath string
	xrayPath      string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate Marzban data into a PasarGuard database",
		Long: `Reads every supported entity type from the source (Marzban) database and
upserts it into the target (PasarGuard) database, translating schema
differences along the way. The run is idempotent: re-running after fixing a
configuration problem updates rows instead of duplicating them.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&sourceEnvPath, "source-env", "", "Resolve the source database from this Marzban .env file")
	cmd.Flags().StringVar(&targetEnvPath, "target-env", "", "Resolve the target database from this PasarGuard .env file")
	cmd.Flags().StringVar(&xrayPath, "xray-config", "", "Path to the legacy xray_config.json document")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if sourceEnvPath != "" {
		cfg.SourceEnvFile = sourceEnvPath
	}
	if targetEnvPath != "" {
		cfg.TargetEnvFile = targetEnvPath
	}
	if xrayPath != "" {
		cfg.XrayConfigPath = xrayPath
	}

	if err := cfg.ResolveDatabases(); err != nil {
		return err
	}

	legacy := loadLegacyConfig(cfg.XrayConfigPath)

	summary, err := migration.Run(cmd.Context(), cfg.Source, cfg.Target, legacy)
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

// loadLegacyConfig reads the xray document if it is available. A missing or
// unreadable file is not fatal: the engine skips the core-config step with
// a warning and everything else still migrates.
func loadLegacyConfig(path string) json.RawMessage {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("legacy xray config not readable, core config migration will be skipped",
			"path", path, "error", err)
		return nil
	}
	if !json.Valid(raw) {
		logger.Warn("legacy xray config is not valid JSON, core config migration will be skipped",
			"path", path)
		return nil
	}
	return raw
}

func printSummary(cmd *cobra.Command, summary *migration.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Migration summary:")
	fmt.Fprintf(out, "  admins:       %d\n", summary.Admins)
	fmt.Fprintf(out, "  core configs: %d\n", summary.CoreConfigs)
	fmt.Fprintf(out, "  inbounds:     %d\n", summary.Inbounds)
	fmt.Fprintf(out, "  hosts:        %d\n", summary.Hosts)
	fmt.Fprintf(out, "  nodes:        %d\n", summary.Nodes)
	fmt.Fprintf(out, "  users:        %d\n", summary.Users)
	if summary.Ok() {
		fmt.Fprintln(out, "Completed without warnings.")
		return
	}
	fmt.Fprintf(out, "Warnings (%d):\n", len(summary.Warnings))
	for _, w := range summary.Warnings {
		fmt.Fprintf(out, "  - %s\n", w)
	}
}
