// Package report renders a computed quote for people: a plain-text breakdown
// for terminals and a paginated PDF document.
package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akbarifar/mro-estimator/internal/pricing"
)

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Multiplier formats a multiplier with at least one decimal, e.g. 1.0, 1.25.
func Multiplier(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// SubtotalLine renders "PartNumber - Description: $subtotal".
func SubtotalLine(s pricing.PartSubtotal) string {
	return s.PartNumber + " - " + s.Description + ": $" + Money(s.Subtotal)
}

// GrandTotalLine renders "$grandTotal".
func GrandTotalLine(q pricing.Quote) string {
	return "$" + Money(q.GrandTotal)
}

// Document is a completed quote with the context printed around it.
type Document struct {
	Company      string
	Reference    string
	GeneratedAt  time.Time
	EngineModel  string
	AssemblyCode string
	Quote        pricing.Quote
}

// Title is the heading printed on the document.
func (d Document) Title() string {
	if d.Company == "" {
		return "Cost Estimate"
	}
	return d.Company + " - Cost Estimate"
}

// NewReference returns a short unique estimate reference.
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "MRO-" + strings.ToUpper(id[:10])
}
