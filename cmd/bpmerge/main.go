// Command bpmerge consolidates blood-pressure monitor exports found in a
// folder into one CSV file per person and time window.
//
// Usage:
//
//	bpmerge folder
//
// Originals are copied into folder/backups/backup_<time>.zip and removed.
// Outputs are written into folder.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/bpmerge/internal/config"
	"github.com/JonMunkholm/bpmerge/internal/consolidate"
	"github.com/JonMunkholm/bpmerge/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: bpmerge folder")
		return 1
	}
	folder := args[0]

	if _, err := os.Stat(folder); err != nil {
		fmt.Fprintf(stderr, "%s is not a valid path\n", folder)
		return 1
	}

	// Optional .env next to the working directory; real env vars win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "reading .env: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := consolidate.NewRunner(cfg).Run(ctx, folder); err != nil {
		slog.Error("run failed", "folder", folder, "error", err)
		if errors.Is(err, consolidate.ErrNotFolder) {
			fmt.Fprintf(stderr, "%s is not a valid path\n", folder)
		}
		return 1
	}

	return 0
}
