// Package estimate turns a user's catalog selections into a priced quote. The
// terminal flow, the HTML form and the JSON API all build the same Request.
package estimate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/pricing"
)

var (
	ErrUnknownPart = errors.New("unknown part")
	ErrNoParts     = errors.New("no parts selected")
)

// PartRequest is the quantity and procedures chosen for one part.
type PartRequest struct {
	PartNumber     string   `json:"part_number"`
	UseFullSeries  bool     `json:"use_full_series"`
	Quantity       int      `json:"quantity"`
	ProcedureCodes []string `json:"procedure_codes"`
}

// Request is one estimation session within a single engine model and assembly.
type Request struct {
	EngineModel  string        `json:"engine_model"`
	AssemblyCode string        `json:"assembly_code"`
	Parts        []PartRequest `json:"parts"`
}

// Selections expands req into one selection per part and procedure, in the
// order the parts and their procedures were chosen. A part chosen without
// procedures contributes nothing.
func Selections(cat *catalog.Catalog, req Request) ([]pricing.Selection, error) {
	if len(req.Parts) == 0 {
		return nil, ErrNoParts
	}

	var selections []pricing.Selection
	for _, pr := range req.Parts {
		pn := strings.TrimSpace(pr.PartNumber)
		part, ok := cat.Part(req.EngineModel, req.AssemblyCode, pn)
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s - %s", ErrUnknownPart, pn, req.EngineModel, req.AssemblyCode)
		}

		qty, err := pricing.ResolveQuantity(part.SeriesQty, pr.UseFullSeries, pr.Quantity)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", pn, err)
		}

		for _, code := range pr.ProcedureCodes {
			selections = append(selections, pricing.Selection{
				PartNumber:    part.PartNumber,
				Description:   part.Description,
				ProcedureCode: strings.TrimSpace(code),
				Quantity:      qty,
			})
		}
	}
	return selections, nil
}

// Quote prices req against cat.
func Quote(cat *catalog.Catalog, req Request) (pricing.Quote, error) {
	selections, err := Selections(cat, req)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.NewEngine(cat).BuildQuote(selections)
}
