package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/akbarifar/mro-estimator/internal/app"
	"github.com/akbarifar/mro-estimator/internal/config"
	"github.com/akbarifar/mro-estimator/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	if err := run(context.Background(), cfg, os.Stdout, os.Args[1:]); err != nil {
		logging.Fatal("catalog import failed", "error", err)
	}
}

// run imports the CSV catalog into the SQLite database.
func run(ctx context.Context, cfg config.Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	fs.SetOutput(out)
	dataDir := fs.String("data", cfg.DataDir, "Directory with the catalog CSV files.")
	dbPath := fs.String("db", cfg.DBPath, "SQLite database file to synchronise.")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	stats, err := app.Import(ctx, *dataDir, *dbPath)
	if err != nil {
		return err
	}

	slog.Info("catalog imported",
		"data_dir", *dataDir,
		"db_path", *dbPath,
		"inserts", stats.Inserts,
		"updates", stats.Updates,
		"deletes", stats.Deletes,
	)
	fmt.Fprintf(out, "imported %s into %s: %d inserted, %d updated, %d deleted\n",
		*dataDir, *dbPath, stats.Inserts, stats.Updates, stats.Deletes)
	return nil
}
