package pricing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

type fakeRates struct {
	baseCosts   map[string]string
	multipliers map[[2]string]string
}

func (f fakeRates) BaseCost(code string) (decimal.Decimal, bool) {
	v, ok := f.baseCosts[code]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.RequireFromString(v), true
}

func (f fakeRates) Multiplier(part, code string) (decimal.Decimal, bool) {
	v, ok := f.multipliers[[2]string{part, code}]
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.RequireFromString(v), true
}

func newTestEngine() *Engine {
	return NewEngine(fakeRates{
		baseCosts: map[string]string{
			"R100": "200.00",
			"R200": "75.00",
			"R300": "0.10",
		},
		multipliers: map[[2]string]string{
			{"P1", "R100"}: "1.5",
			{"P2", "R300"}: "0.3",
		},
	})
}

func decimalEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestResolveMultiplier_DefaultsToOne(t *testing.T) {
	e := newTestEngine()

	for _, pair := range [][2]string{{"P1", "R200"}, {"P9", "R100"}, {"", ""}} {
		got := e.ResolveMultiplier(pair[0], pair[1])
		if !got.Equal(decimal.NewFromInt(1)) {
			t.Fatalf("ResolveMultiplier(%q, %q) = %s, want 1", pair[0], pair[1], got)
		}
	}
}

func TestResolveMultiplier_ReturnsStoredValue(t *testing.T) {
	e := newTestEngine()

	decimalEqual(t, "P1/R100", e.ResolveMultiplier("P1", "R100"), "1.5")
	decimalEqual(t, "P2/R300", e.ResolveMultiplier("P2", "R300"), "0.3")
}

func TestComputeLineCost_NoMultiplier(t *testing.T) {
	e := NewEngine(fakeRates{baseCosts: map[string]string{"R100": "200.00"}})

	cost, err := e.ComputeLineCost("P1", "R100", 3)
	if err != nil {
		t.Fatalf("ComputeLineCost: %v", err)
	}

	decimalEqual(t, "baseCost", cost.BaseCost, "200.00")
	decimalEqual(t, "multiplier", cost.Multiplier, "1.0")
	decimalEqual(t, "total", cost.Total, "600.00")
}

func TestComputeLineCost_WithMultiplier(t *testing.T) {
	e := newTestEngine()

	cost, err := e.ComputeLineCost("P1", "R100", 2)
	if err != nil {
		t.Fatalf("ComputeLineCost: %v", err)
	}

	decimalEqual(t, "baseCost", cost.BaseCost, "200.00")
	decimalEqual(t, "multiplier", cost.Multiplier, "1.5")
	decimalEqual(t, "total", cost.Total, "600.00")
}

func TestComputeLineCost_TotalIsProductForAnyQuantity(t *testing.T) {
	e := newTestEngine()

	for q := 1; q <= 50; q++ {
		cost, err := e.ComputeLineCost("P2", "R300", q)
		if err != nil {
			t.Fatalf("ComputeLineCost(q=%d): %v", q, err)
		}
		want := cost.BaseCost.Mul(cost.Multiplier).Mul(decimal.NewFromInt(int64(q)))
		if !cost.Total.Equal(want) {
			t.Fatalf("q=%d total = %s, want %s", q, cost.Total, want)
		}
	}
}

func TestComputeLineCost_UnknownProcedure(t *testing.T) {
	e := newTestEngine()

	_, err := e.ComputeLineCost("P1", "NOPE", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ProcedureCode != "NOPE" {
		t.Fatalf("expected *NotFoundError for NOPE, got %#v", err)
	}
}

func TestComputeLineCost_RejectsNonPositiveQuantity(t *testing.T) {
	e := newTestEngine()

	for _, q := range []int{0, -1} {
		if _, err := e.ComputeLineCost("P1", "R100", q); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("q=%d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestBuildQuote_SamePartSubtotal(t *testing.T) {
	e := newTestEngine()

	quote, err := e.BuildQuote([]Selection{
		{PartNumber: "P1", Description: "Fan blade", ProcedureCode: "R100", Quantity: 2},
		{PartNumber: "P1", Description: "Fan blade", ProcedureCode: "R200", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}

	subtotal, ok := quote.Subtotal("P1")
	if !ok {
		t.Fatalf("expected subtotal for P1")
	}
	decimalEqual(t, "P1 subtotal", subtotal, "750.00")
	decimalEqual(t, "grand total", quote.GrandTotal, "750.00")
}

func TestBuildQuote_PreservesOrderAndFirstDescription(t *testing.T) {
	e := newTestEngine()

	selections := []Selection{
		{PartNumber: "P2", Description: "Vane", ProcedureCode: "R300", Quantity: 10},
		{PartNumber: "P1", Description: "Fan blade", ProcedureCode: "R100", Quantity: 1},
		{PartNumber: "P2", Description: "Vane (alt)", ProcedureCode: "R200", Quantity: 1},
		{PartNumber: "P3", Description: "Disk", ProcedureCode: "R200", Quantity: 4},
	}

	quote, err := e.BuildQuote(selections)
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}

	var gotOrder []string
	for _, item := range quote.LineItems {
		gotOrder = append(gotOrder, item.PartNumber+"/"+item.ProcedureCode)
	}
	wantOrder := []string{"P2/R300", "P1/R100", "P2/R200", "P3/R200"}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Fatalf("line item order mismatch (-want +got):\n%s", diff)
	}

	var gotParts []string
	for _, s := range quote.Subtotals {
		gotParts = append(gotParts, s.PartNumber+":"+s.Description)
	}
	wantParts := []string{"P2:Vane", "P1:Fan blade", "P3:Disk"}
	if diff := cmp.Diff(wantParts, gotParts); diff != "" {
		t.Fatalf("subtotal order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildQuote_GrandTotalEqualsSums(t *testing.T) {
	e := newTestEngine()

	quote, err := e.BuildQuote([]Selection{
		{PartNumber: "P2", Description: "Vane", ProcedureCode: "R300", Quantity: 7},
		{PartNumber: "P1", Description: "Fan blade", ProcedureCode: "R100", Quantity: 3},
		{PartNumber: "P2", Description: "Vane", ProcedureCode: "R100", Quantity: 1},
		{PartNumber: "P4", Description: "Seal", ProcedureCode: "R300", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}

	lineSum := decimal.Zero
	for _, item := range quote.LineItems {
		lineSum = lineSum.Add(item.Total)
	}
	subtotalSum := decimal.Zero
	for _, s := range quote.Subtotals {
		subtotalSum = subtotalSum.Add(s.Subtotal)
	}

	if !quote.GrandTotal.Equal(lineSum) {
		t.Fatalf("grand total %s != line sum %s", quote.GrandTotal, lineSum)
	}
	if !quote.GrandTotal.Equal(subtotalSum) {
		t.Fatalf("grand total %s != subtotal sum %s", quote.GrandTotal, subtotalSum)
	}
	decimalEqual(t, "grand total", quote.GrandTotal, "1100.51")
}

func TestBuildQuote_StopsOnUnknownProcedure(t *testing.T) {
	e := newTestEngine()

	_, err := e.BuildQuote([]Selection{
		{PartNumber: "P1", ProcedureCode: "R100", Quantity: 1},
		{PartNumber: "P1", ProcedureCode: "STALE", Quantity: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildQuote_Empty(t *testing.T) {
	quote, err := newTestEngine().BuildQuote(nil)
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}
	if !quote.Empty() || len(quote.Subtotals) != 0 {
		t.Fatalf("expected empty quote, got %+v", quote)
	}
	decimalEqual(t, "grand total", quote.GrandTotal, "0")
}
