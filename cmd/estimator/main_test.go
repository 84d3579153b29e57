package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/config"
)

var fixtureDir = filepath.Join("..", "..", "internal", "catalog", "testdata", "valid")

func testConfig() config.Config {
	return config.Config{CatalogSource: config.SourceCSV, CompanyName: "Akbarifar MRO"}
}

func runSession(t *testing.T, input string, extraArgs ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	args := append([]string{"-data", fixtureDir}, extraArgs...)
	err := run(context.Background(), testConfig(), strings.NewReader(input), out, args)
	return out.String(), err
}

func TestRun_FullSession(t *testing.T) {
	t.Parallel()

	// engine, assembly, parts, series answer, procedures, quantity, procedures
	input := strings.Join([]string{"1", "1", "1,2", "y", "1,3", "2", "2"}, "\n") + "\n"

	out, err := runSession(t, input)
	require.NoError(t, err)

	require.Contains(t, out, "=== Akbarifar MRO Cost Estimator ===")
	require.Contains(t, out, "1. CFM56-7B\n2. V2500-A5\n3. PW4000\n")
	require.Contains(t, out, "1. 340-001-501 - Fan Blade, Stage 1\n2. 340-002-101 - Fan Disk\n")
	require.Contains(t, out, "--- 340-001-501 - Fan Blade, Stage 1 ---\nSeries Quantity: 24\n")
	require.Contains(t, out, "--- SUBTOTALS PER PART ---\n340-001-501 - Fan Blade, Stage 1: $10380.00\n340-002-101 - Fan Disk: $241.00\n")
	require.True(t, strings.HasSuffix(out, "GRAND TOTAL: $10621.00\n"), "unexpected ending:\n%s", out)
}

func TestRun_DecliningSeriesAsksForQuantity(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{"2", "1", "1", "n", "4", "4"}, "\n") + "\n"

	out, err := runSession(t, input)
	require.NoError(t, err)

	// COAT 875.25 x 2.0 x 4
	require.Contains(t, out, "Enter quantity: ")
	require.Contains(t, out, "GRAND TOTAL: $7002.00")
}

func TestRun_InvalidSelectionsReprompt(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{"9", "abc", "1", "1", "1,5", "", "2", "0", "-1", "1", "1"}, "\n") + "\n"

	out, err := runSession(t, input)
	require.NoError(t, err)

	require.Equal(t, 4, strings.Count(out, "Invalid selection. Try again."))
	require.Equal(t, 2, strings.Count(out, "Quantity must be a positive whole number."))
	require.Contains(t, out, "GRAND TOTAL: $45.00")
}

func TestRun_NoAssemblies(t *testing.T) {
	t.Parallel()

	_, err := runSession(t, "3\n")
	require.ErrorIs(t, err, catalog.ErrNoResults)
	require.Contains(t, err.Error(), "no assemblies found for PW4000")
}

func TestRun_InputClosed(t *testing.T) {
	t.Parallel()

	_, err := runSession(t, "1\n")
	require.ErrorIs(t, err, errInputClosed)
}

func TestRun_MissingCatalog(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), testConfig(), strings.NewReader(""), out, []string{"-data", t.TempDir()})
	require.ErrorIs(t, err, catalog.ErrMissingFile)
}

func TestRun_ExportsPDF(t *testing.T) {
	t.Parallel()

	pdfPath := filepath.Join(t.TempDir(), "estimate.pdf")
	input := strings.Join([]string{"2", "1", "1", "y", "1"}, "\n") + "\n"

	out, err := runSession(t, input, "-pdf", pdfPath)
	require.NoError(t, err)
	require.Contains(t, out, "PDF written to "+pdfPath)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), testConfig(), strings.NewReader(""), out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), testConfig(), strings.NewReader(""), out, []string{"--not-a-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -not-a-flag")
}
