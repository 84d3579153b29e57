// Package app wires configuration to the catalog source shared by the
// estimator front ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/config"
	"github.com/akbarifar/mro-estimator/internal/db"
	"github.com/akbarifar/mro-estimator/internal/metrics"
	"github.com/akbarifar/mro-estimator/internal/migrations"
	"github.com/akbarifar/mro-estimator/internal/seed"
)

// LoadCatalog loads the reference catalog from the source named by cfg.
func LoadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)

	switch cfg.CatalogSource {
	case config.SourceSQLite:
		cat, err = loadSQLite(ctx, cfg.DBPath)
	case config.SourceCSV, "":
		cat, err = catalog.LoadDir(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
	if err != nil {
		return nil, err
	}

	tables := cat.Tables()
	metrics.ObserveCatalog(tables)
	slog.Info("catalog loaded",
		"source", cfg.CatalogSource,
		"engine_models", len(tables.EngineModels),
		"parts", len(tables.Parts),
		"procedures", len(tables.Procedures),
		"multipliers", len(tables.Multipliers),
	)
	return cat, nil
}

// loadSQLite reads a catalog written by Import. The database must already
// exist; opening it would otherwise create an empty one.
func loadSQLite(ctx context.Context, dbPath string) (*catalog.Catalog, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &catalog.MissingFileError{Path: dbPath}
		}
		return nil, fmt.Errorf("stat catalog database: %w", err)
	}

	database, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return nil, err
	}
	version, err := migrations.Version(database)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog schema ready", "db_path", dbPath, "version", version)

	cat, err := catalog.LoadDB(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", dbPath, err)
	}
	if len(cat.EngineModels()) == 0 || len(cat.Procedures()) == 0 {
		return nil, &catalog.ValidationError{
			Table:   "EngineModels",
			Message: fmt.Sprintf("catalog database %s holds no engine models or procedures; run the importer", dbPath),
		}
	}
	return cat, nil
}

// Import reads the CSV catalog in dataDir and synchronises it into the SQLite
// database at dbPath.
func Import(ctx context.Context, dataDir, dbPath string) (seed.Stats, error) {
	tables, err := catalog.ReadDir(dataDir)
	if err != nil {
		return seed.Stats{}, err
	}
	// Reject catalogs the estimator would refuse to load.
	if _, err := catalog.New(tables); err != nil {
		return seed.Stats{}, err
	}

	database, err := db.Open(ctx, dbPath)
	if err != nil {
		return seed.Stats{}, err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return seed.Stats{}, err
	}

	stats, err := seed.Run(database, tables)
	if err != nil {
		return seed.Stats{}, err
	}
	return stats, nil
}
