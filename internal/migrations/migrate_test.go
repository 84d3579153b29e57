package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akbarifar/mro-estimator/internal/db"
)

func TestUpCreatesCatalogSchema(t *testing.T) {
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	// Running twice must be a no-op the second time.
	for i := 0; i < 2; i++ {
		if err := Up(database); err != nil {
			t.Fatalf("Up (run %d): %v", i, err)
		}
	}

	version, err := Version(database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected schema version 1, got %d", version)
	}

	for _, table := range []string{"engine_models", "assemblies", "parts", "procedures", "cost_multipliers"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}
}
