package estimate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/pricing"
)

func loadFixture(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadDir(filepath.Join("..", "catalog", "testdata", "valid"))
	require.NoError(t, err)
	return cat
}

func TestSelections_ExpandsPartsAndProcedures(t *testing.T) {
	cat := loadFixture(t)

	got, err := Selections(cat, Request{
		EngineModel:  "CFM56-7B",
		AssemblyCode: "FAN",
		Parts: []PartRequest{
			{PartNumber: "340-001-501", UseFullSeries: true, ProcedureCodes: []string{"INSP", "TIPR"}},
			{PartNumber: "340-002-101", Quantity: 2, ProcedureCodes: []string{"FPI"}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []pricing.Selection{
		{PartNumber: "340-001-501", Description: "Fan Blade, Stage 1", ProcedureCode: "INSP", Quantity: 24},
		{PartNumber: "340-001-501", Description: "Fan Blade, Stage 1", ProcedureCode: "TIPR", Quantity: 24},
		{PartNumber: "340-002-101", Description: "Fan Disk", ProcedureCode: "FPI", Quantity: 2},
	}, got)
}

func TestSelections_FullSeriesWithoutSeriesNeedsQuantity(t *testing.T) {
	cat := loadFixture(t)

	_, err := Selections(cat, Request{
		EngineModel:  "CFM56-7B",
		AssemblyCode: "FAN",
		Parts:        []PartRequest{{PartNumber: "340-002-101", UseFullSeries: true, ProcedureCodes: []string{"FPI"}}},
	})
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)
}

func TestSelections_UnknownPart(t *testing.T) {
	cat := loadFixture(t)

	_, err := Selections(cat, Request{
		EngineModel:  "V2500-A5",
		AssemblyCode: "HPT",
		Parts:        []PartRequest{{PartNumber: "340-001-501", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrUnknownPart)
}

func TestSelections_NoParts(t *testing.T) {
	_, err := Selections(loadFixture(t), Request{EngineModel: "CFM56-7B", AssemblyCode: "FAN"})
	require.ErrorIs(t, err, ErrNoParts)
}

func TestQuote_PricesAgainstCatalog(t *testing.T) {
	cat := loadFixture(t)

	q, err := Quote(cat, Request{
		EngineModel:  "V2500-A5",
		AssemblyCode: "HPT",
		Parts:        []PartRequest{{PartNumber: "2A4521", Quantity: 3, ProcedureCodes: []string{"COAT", "INSP"}}},
	})
	require.NoError(t, err)
	require.Len(t, q.LineItems, 2)
	// COAT 875.25 x 2.0 x 3 + INSP 45.00 x 1 x 3
	require.Equal(t, "5386.50", q.GrandTotal.StringFixed(2))
}

func TestQuote_UnknownProcedure(t *testing.T) {
	cat := loadFixture(t)

	_, err := Quote(cat, Request{
		EngineModel:  "V2500-A5",
		AssemblyCode: "HPT",
		Parts:        []PartRequest{{PartNumber: "2A4521", Quantity: 1, ProcedureCodes: []string{"STALE"}}},
	})
	require.ErrorIs(t, err, pricing.ErrNotFound)
}
