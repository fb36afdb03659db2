package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/headlines-digest-api/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDigestCommand(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	digestSession = ""

	out, err := execute(t, "digest", "--session", "cli", "sport", "in", "Europe")
	if err != nil {
		t.Fatalf("digest failed: %v", err)
	}

	var result models.DigestResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if result.SessionID != "cli" {
		t.Errorf("Expected session cli, got %q", result.SessionID)
	}
	if len(result.Articles) == 0 || !result.PreferencesUpdated {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestSweepCommand(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	out, err := execute(t, "sweep")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(out, "removed 0 expired entries") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := execute(t, "migrate", "up"); err == nil {
		t.Error("Expected migrate to refuse a non-postgres driver")
	}
}

func TestMigrateGotoRejectsBadVersion(t *testing.T) {
	if _, err := execute(t, "migrate", "goto", "latest"); err == nil {
		t.Error("Expected an error for a non-numeric version")
	}
}
