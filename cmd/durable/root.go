package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/durable/internal/config"
	"github.com/MrSnakeDoc/durable/internal/logger"
	"github.com/MrSnakeDoc/durable/internal/version"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "durable",
		Short: "Compare washing machines by repairability and reliability",
		Long: `durable queries the washing machine catalog, turns French free-text
queries ("la plus fiable", "Bosch", "2023") into structured searches and
attaches the best marketplace purchase link to every result.

Configuration comes from DURABLE_* environment variables and an optional
.env file (DURABLE_ENV_FILE).`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewBrandsCmd())
	cmd.AddCommand(NewShellCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// loadRuntime reads the configuration and builds the logger.
// --verbose forces debug level.
func loadRuntime(cmd *cobra.Command) (*config.Config, logger.Logger) {
	cfg := config.Load()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog)
}
