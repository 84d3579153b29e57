package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/config"
)

func TestRun_ImportsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		DataDir: filepath.Join("..", "..", "internal", "catalog", "testdata", "valid"),
		DBPath:  filepath.Join(t.TempDir(), "catalog.db"),
	}

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), cfg, out, nil))
	require.Contains(t, out.String(), "17 inserted, 0 updated, 0 deleted")

	out.Reset()
	require.NoError(t, run(context.Background(), cfg, out, nil))
	require.Contains(t, out.String(), "0 inserted, 0 updated, 0 deleted")
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), config.Config{DataDir: "does-not-exist"}, out, []string{
		"-data", t.TempDir(),
		"-db", filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.ErrorIs(t, err, catalog.ErrMissingFile)
}
