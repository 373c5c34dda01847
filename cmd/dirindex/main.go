package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/dirindex/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "dirindex",
	Short:   "Directory listing server",
	Long: `Dirindex serves browsable HTML listings of configured directories
and the files inside them.

Each mount maps a URL path prefix to a directory on disk. Only directories
allowed by the mount's allow-lists are listed; everything else is served
as a plain file or answered with 404.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: DIRINDEX_LOG_LEVEL)")
}

// loadConfig reads the configuration, sets up logging and stores the
// config in the command context for subcommands.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var files []string
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		files = append(files, configFile)
	}

	cfg, err := config.Load(files, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogging(cfg)
	cmd.SetContext(config.WithContext(cmd.Context(), cfg))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
