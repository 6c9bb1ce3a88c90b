package main

import (
	"os"

	"github.com/spf13/cobra"

	"tablier/internal/interfaces/cli/migrate"
	"tablier/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tablier",
		Short: "Tablier - subscription and billing service",
		Long:  `Tablier is the subscription lifecycle and billing reconciliation service, with a built-in server and migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
