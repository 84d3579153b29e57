// Package pricing costs MRO procedure selections against reference rates and
// folds the resulting line items into per-part and grand totals.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuantity is returned for quantities that are not positive integers.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// DefaultMultiplier applies when no override exists for a (part, procedure) pair.
var DefaultMultiplier = decimal.NewFromInt(1)

// NotFoundError reports a procedure code with no base cost. Reaching it means
// a front end offered a stale or invalid code.
type NotFoundError struct {
	ProcedureCode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("procedure %s not found", e.ProcedureCode)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Rates is the reference data the engine prices against.
type Rates interface {
	BaseCost(procedureCode string) (decimal.Decimal, bool)
	Multiplier(partNumber, procedureCode string) (decimal.Decimal, bool)
}

// LineCost is the costed result for one (part, procedure, quantity) request.
type LineCost struct {
	BaseCost   decimal.Decimal
	Multiplier decimal.Decimal
	Total      decimal.Decimal
}

// Selection is one procedure chosen for one part.
type Selection struct {
	PartNumber    string
	Description   string
	ProcedureCode string
	Quantity      int
}

// LineItem is a costed selection.
type LineItem struct {
	PartNumber    string
	Description   string
	ProcedureCode string
	Quantity      int
	BaseCost      decimal.Decimal
	Multiplier    decimal.Decimal
	Total         decimal.Decimal
}

// PartSubtotal is the sum of line totals for one part number.
type PartSubtotal struct {
	PartNumber  string
	Description string
	Subtotal    decimal.Decimal
}

// Quote groups the line items of one estimation session with their roll-ups.
// Subtotals are in first-occurrence order of each part number.
type Quote struct {
	LineItems  []LineItem
	Subtotals  []PartSubtotal
	GrandTotal decimal.Decimal
}

// Subtotal returns the subtotal of a part number.
func (q Quote) Subtotal(partNumber string) (decimal.Decimal, bool) {
	for _, s := range q.Subtotals {
		if s.PartNumber == partNumber {
			return s.Subtotal, true
		}
	}
	return decimal.Decimal{}, false
}

// Empty reports whether the quote has no line items.
func (q Quote) Empty() bool {
	return len(q.LineItems) == 0
}

// Engine prices selections. It holds no mutable state and is safe for
// concurrent use when its Rates are.
type Engine struct {
	rates Rates
}

// NewEngine returns an Engine pricing against rates.
func NewEngine(rates Rates) *Engine {
	return &Engine{rates: rates}
}

// ResolveMultiplier returns the override for a (part, procedure) pair, or
// exactly 1 when none exists.
func (e *Engine) ResolveMultiplier(partNumber, procedureCode string) decimal.Decimal {
	if m, ok := e.rates.Multiplier(partNumber, procedureCode); ok {
		return m
	}
	return DefaultMultiplier
}

// ComputeLineCost costs quantity units of a procedure on a part:
// total = base cost × multiplier × quantity.
func (e *Engine) ComputeLineCost(partNumber, procedureCode string, quantity int) (LineCost, error) {
	if quantity <= 0 {
		return LineCost{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	baseCost, ok := e.rates.BaseCost(procedureCode)
	if !ok {
		return LineCost{}, &NotFoundError{ProcedureCode: procedureCode}
	}

	multiplier := e.ResolveMultiplier(partNumber, procedureCode)
	total := baseCost.Mul(multiplier).Mul(decimal.NewFromInt(int64(quantity)))

	return LineCost{
		BaseCost:   baseCost,
		Multiplier: multiplier,
		Total:      total,
	}, nil
}

// BuildQuote costs every selection in order and accumulates subtotals and the
// grand total in the same pass.
func (e *Engine) BuildQuote(selections []Selection) (Quote, error) {
	quote := Quote{
		LineItems:  make([]LineItem, 0, len(selections)),
		Subtotals:  make([]PartSubtotal, 0),
		GrandTotal: decimal.Zero,
	}
	index := make(map[string]int)

	for i, sel := range selections {
		cost, err := e.ComputeLineCost(sel.PartNumber, sel.ProcedureCode, sel.Quantity)
		if err != nil {
			return Quote{}, fmt.Errorf("selection %d (%s/%s): %w", i+1, sel.PartNumber, sel.ProcedureCode, err)
		}

		quote.LineItems = append(quote.LineItems, LineItem{
			PartNumber:    sel.PartNumber,
			Description:   sel.Description,
			ProcedureCode: sel.ProcedureCode,
			Quantity:      sel.Quantity,
			BaseCost:      cost.BaseCost,
			Multiplier:    cost.Multiplier,
			Total:         cost.Total,
		})

		pos, seen := index[sel.PartNumber]
		if !seen {
			pos = len(quote.Subtotals)
			index[sel.PartNumber] = pos
			quote.Subtotals = append(quote.Subtotals, PartSubtotal{
				PartNumber:  sel.PartNumber,
				Description: sel.Description,
				Subtotal:    decimal.Zero,
			})
		}
		quote.Subtotals[pos].Subtotal = quote.Subtotals[pos].Subtotal.Add(cost.Total)
		quote.GrandTotal = quote.GrandTotal.Add(cost.Total)
	}

	return quote, nil
}
