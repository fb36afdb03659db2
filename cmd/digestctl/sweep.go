package main

import (
	"fmt"

	"github.com/headlines-digest-api/internal/app"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete session state idle for longer than SESSION_TTL",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, false, log)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.Services.Janitor.Sweep(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", removed)
	return nil
}
