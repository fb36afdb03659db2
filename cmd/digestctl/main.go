// Command digestctl is the operator CLI for the headlines digest store.
package main

import (
	"fmt"
	"os"

	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "digestctl",
	Short:         "Operate the headlines digest store",
	Long:          `Runs migrations, expires idle sessions and executes one-off digests against the store configured by the usual environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, sweepCmd, digestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and builds a stderr logger so stdout stays clean for results
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.NewWithWriter(cfg.Log, os.Stderr), nil
}
