// Package catalog holds the MRO reference tables (engine models, assemblies,
// parts, procedures and cost multipliers) as an immutable in-memory structure.
//
// A Catalog is built once at startup and never mutated afterwards, so a single
// value can be shared by every session without locking.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Assembly is a named subgroup of parts within an engine model.
type Assembly struct {
	EngineModel  string
	AssemblyCode string
}

// Part is a catalogued part. Part numbers are scoped to EngineModel+AssemblyCode.
// SeriesQty is zero when the part has no standard series size.
type Part struct {
	EngineModel  string
	AssemblyCode string
	PartNumber   string
	Description  string
	SeriesQty    int
}

// HasSeries reports whether the part offers a full-series quantity.
func (p Part) HasSeries() bool {
	return p.SeriesQty > 0
}

// Procedure is an offerable MRO procedure with its per-unit base cost.
type Procedure struct {
	Code        string
	Name        string
	BaseCostUSD decimal.Decimal
}

// Multiplier is a per-(part, procedure) override of the base cost.
type Multiplier struct {
	PartNumber    string
	ProcedureCode string
	Value         decimal.Decimal
}

// Tables is the raw tabular form of a catalog, in source order.
type Tables struct {
	EngineModels []string
	Assemblies   []Assembly
	Parts        []Part
	Procedures   []Procedure
	Multipliers  []Multiplier
}

type multiplierKey struct {
	partNumber    string
	procedureCode string
}

// Catalog answers lookups over the reference tables.
type Catalog struct {
	tables      Tables
	engines     map[string]struct{}
	procedures  map[string]Procedure
	multipliers map[multiplierKey]decimal.Decimal
}

// New validates tables and indexes them for lookup. Engine models, parts
// within an assembly, procedure codes and (part, procedure) multiplier pairs
// must be unique.
func New(tables Tables) (*Catalog, error) {
	c := &Catalog{
		tables:      tables,
		engines:     make(map[string]struct{}, len(tables.EngineModels)),
		procedures:  make(map[string]Procedure, len(tables.Procedures)),
		multipliers: make(map[multiplierKey]decimal.Decimal, len(tables.Multipliers)),
	}

	for _, e := range tables.EngineModels {
		if e == "" {
			return nil, &ValidationError{Table: "EngineModels", Message: "empty engine model"}
		}
		if _, dup := c.engines[e]; dup {
			return nil, &DuplicateKeyError{Table: "EngineModels", Key: e}
		}
		c.engines[e] = struct{}{}
	}

	parts := make(map[[3]string]struct{}, len(tables.Parts))
	for _, p := range tables.Parts {
		key := [3]string{p.EngineModel, p.AssemblyCode, p.PartNumber}
		if _, dup := parts[key]; dup {
			return nil, &DuplicateKeyError{Table: "Parts", Key: p.EngineModel + "/" + p.AssemblyCode + "/" + p.PartNumber}
		}
		parts[key] = struct{}{}
		if p.SeriesQty < 0 {
			return nil, &ValidationError{
				Table:   "Parts",
				Message: fmt.Sprintf("part %s has negative series quantity %d", p.PartNumber, p.SeriesQty),
			}
		}
	}

	for _, p := range tables.Procedures {
		if p.Code == "" {
			return nil, &ValidationError{Table: "Procedures", Message: "empty procedure code"}
		}
		if _, dup := c.procedures[p.Code]; dup {
			return nil, &DuplicateKeyError{Table: "Procedures", Key: p.Code}
		}
		if p.BaseCostUSD.IsNegative() {
			return nil, &ValidationError{
				Table:   "Procedures",
				Message: fmt.Sprintf("procedure %s has negative base cost %s", p.Code, p.BaseCostUSD),
			}
		}
		c.procedures[p.Code] = p
	}

	for _, m := range tables.Multipliers {
		key := multiplierKey{partNumber: m.PartNumber, procedureCode: m.ProcedureCode}
		if _, dup := c.multipliers[key]; dup {
			return nil, &DuplicateKeyError{Table: "CostMultipliers", Key: m.PartNumber + "/" + m.ProcedureCode}
		}
		if !m.Value.IsPositive() {
			return nil, &ValidationError{
				Table:   "CostMultipliers",
				Message: fmt.Sprintf("multiplier for %s/%s must be positive, got %s", m.PartNumber, m.ProcedureCode, m.Value),
			}
		}
		c.multipliers[key] = m.Value
	}

	return c, nil
}

// Tables returns the catalog in its raw tabular form.
func (c *Catalog) Tables() Tables {
	return c.tables
}

// EngineModels lists the engine models in source order.
func (c *Catalog) EngineModels() []string {
	return append([]string(nil), c.tables.EngineModels...)
}

// HasEngineModel reports whether engineModel is catalogued.
func (c *Catalog) HasEngineModel(engineModel string) bool {
	_, ok := c.engines[engineModel]
	return ok
}

// Assemblies returns the distinct assembly codes of an engine model in
// first-seen order. It returns an error wrapping ErrNoResults when none match.
func (c *Catalog) Assemblies(engineModel string) ([]string, error) {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, a := range c.tables.Assemblies {
		if a.EngineModel != engineModel {
			continue
		}
		if _, ok := seen[a.AssemblyCode]; ok {
			continue
		}
		seen[a.AssemblyCode] = struct{}{}
		codes = append(codes, a.AssemblyCode)
	}

	if len(codes) == 0 {
		return nil, fmt.Errorf("no assemblies found for %s: %w", engineModel, ErrNoResults)
	}
	return codes, nil
}

// Parts returns the parts of an engine model's assembly in source order. It
// returns an error wrapping ErrNoResults when none match.
func (c *Catalog) Parts(engineModel, assemblyCode string) ([]Part, error) {
	parts := make([]Part, 0)
	for _, p := range c.tables.Parts {
		if p.EngineModel == engineModel && p.AssemblyCode == assemblyCode {
			parts = append(parts, p)
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("no parts found for %s - %s: %w", engineModel, assemblyCode, ErrNoResults)
	}
	return parts, nil
}

// Part finds a single part within an engine model's assembly.
func (c *Catalog) Part(engineModel, assemblyCode, partNumber string) (Part, bool) {
	for _, p := range c.tables.Parts {
		if p.EngineModel == engineModel && p.AssemblyCode == assemblyCode && p.PartNumber == partNumber {
			return p, true
		}
	}
	return Part{}, false
}

// Procedures returns the full procedure catalog. Every procedure is offerable
// for every part.
func (c *Catalog) Procedures() []Procedure {
	return append([]Procedure(nil), c.tables.Procedures...)
}

// BaseCost returns the per-unit base cost of a procedure.
func (c *Catalog) BaseCost(procedureCode string) (decimal.Decimal, bool) {
	p, ok := c.procedures[procedureCode]
	if !ok {
		return decimal.Decimal{}, false
	}
	return p.BaseCostUSD, true
}

// Multiplier returns the override for a (part, procedure) pair, if any.
func (c *Catalog) Multiplier(partNumber, procedureCode string) (decimal.Decimal, bool) {
	m, ok := c.multipliers[multiplierKey{partNumber: partNumber, procedureCode: procedureCode}]
	return m, ok
}
