package main

import (
	"os"

	"github.com/spf13/cobra"

	"marz2pasarguard/internal/interfaces/cli/migrate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marz2pasarguard",
		Short: "Migrate a Marzban panel database into PasarGuard",
		Long: `marz2pasarguard moves admins, inbounds, hosts, nodes, users and the legacy
xray configuration from a Marzban database into a PasarGuard database with
idempotent, re-runnable upserts.`,
	}

	rootCmd.AddCommand(
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
