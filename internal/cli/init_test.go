package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"expenso/internal/config"
	"expenso/internal/core"
)

func TestSetupLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSetupLoggerUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(&buf, "chatty")
	if !strings.Contains(buf.String(), "Unknown log level") {
		t.Fatalf("expected warning, got %s", buf.String())
	}
}

func TestOpenStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "error")
	cfg := &config.Config{DataBackend: config.BackendFile, DataDir: filepath.Join(t.TempDir(), "data")}

	s, cleanup, err := OpenStore(ctx, logger, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.AddExpense(ctx, core.Draft{Amount: core.MoneyFromInt(5), Date: "2024-01-01", Category: "Food"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	cleanup()

	s, cleanup, err = OpenStore(ctx, logger, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer cleanup()
	if len(s.Expenses()) != 1 {
		t.Fatalf("expense not reloaded")
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	var buf bytes.Buffer
	if _, _, err := OpenStore(context.Background(), SetupLogger(&buf, "error"), &config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSignalContextCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := SignalContext(context.Background(), SetupLogger(&buf, "error"))
	cancel()
	<-ctx.Done()
}
