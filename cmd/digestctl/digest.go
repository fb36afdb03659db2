package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/headlines-digest-api/internal/app"
	"github.com/headlines-digest-api/internal/models"
	"github.com/spf13/cobra"
)

var digestSession string

var digestCmd = &cobra.Command{
	Use:   "digest <message...>",
	Short: "Run the digest pipeline once and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDigest,
}

func init() {
	digestCmd.Flags().StringVar(&digestSession, "session", "", "session id (a new one is generated when empty)")
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, false, log)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := digestSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := a.Services.Digest.Run(cmd.Context(), models.DigestRequest{
		SessionID: sessionID,
		Message:   strings.Join(args, " "),
	})
	if err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
