package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadDB reads the reference tables from a database migrated with the
// catalog schema. Rows come back in source order.
func ReadDB(ctx context.Context, db *sql.DB) (Tables, error) {
	var tables Tables

	rows, err := db.QueryContext(ctx, `SELECT engine_model FROM engine_models ORDER BY position, engine_model`)
	if err != nil {
		return Tables{}, fmt.Errorf("query engine models: %w", err)
	}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			rows.Close()
			return Tables{}, fmt.Errorf("scan engine model: %w", err)
		}
		tables.EngineModels = append(tables.EngineModels, e)
	}
	if err := closeRows(rows, "engine models"); err != nil {
		return Tables{}, err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT engine_model, assembly_code
		FROM assemblies
		ORDER BY position, engine_model, assembly_code
	`)
	if err != nil {
		return Tables{}, fmt.Errorf("query assemblies: %w", err)
	}
	for rows.Next() {
		var a Assembly
		if err := rows.Scan(&a.EngineModel, &a.AssemblyCode); err != nil {
			rows.Close()
			return Tables{}, fmt.Errorf("scan assembly: %w", err)
		}
		tables.Assemblies = append(tables.Assemblies, a)
	}
	if err := closeRows(rows, "assemblies"); err != nil {
		return Tables{}, err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT engine_model, assembly_code, part_number, description, COALESCE(series_qty, 0)
		FROM parts
		ORDER BY position, engine_model, assembly_code, part_number
	`)
	if err != nil {
		return Tables{}, fmt.Errorf("query parts: %w", err)
	}
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.EngineModel, &p.AssemblyCode, &p.PartNumber, &p.Description, &p.SeriesQty); err != nil {
			rows.Close()
			return Tables{}, fmt.Errorf("scan part: %w", err)
		}
		tables.Parts = append(tables.Parts, p)
	}
	if err := closeRows(rows, "parts"); err != nil {
		return Tables{}, err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT procedure_code, procedure_name, base_cost_usd
		FROM procedures
		ORDER BY position, procedure_code
	`)
	if err != nil {
		return Tables{}, fmt.Errorf("query procedures: %w", err)
	}
	for rows.Next() {
		var p Procedure
		if err := rows.Scan(&p.Code, &p.Name, &p.BaseCostUSD); err != nil {
			rows.Close()
			return Tables{}, fmt.Errorf("scan procedure: %w", err)
		}
		tables.Procedures = append(tables.Procedures, p)
	}
	if err := closeRows(rows, "procedures"); err != nil {
		return Tables{}, err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT part_number, procedure_code, multiplier
		FROM cost_multipliers
		ORDER BY position, part_number, procedure_code
	`)
	if err != nil {
		return Tables{}, fmt.Errorf("query cost multipliers: %w", err)
	}
	for rows.Next() {
		var m Multiplier
		if err := rows.Scan(&m.PartNumber, &m.ProcedureCode, &m.Value); err != nil {
			rows.Close()
			return Tables{}, fmt.Errorf("scan cost multiplier: %w", err)
		}
		tables.Multipliers = append(tables.Multipliers, m)
	}
	if err := closeRows(rows, "cost multipliers"); err != nil {
		return Tables{}, err
	}

	return tables, nil
}

// LoadDB reads and validates the catalog stored in db.
func LoadDB(ctx context.Context, db *sql.DB) (*Catalog, error) {
	tables, err := ReadDB(ctx, db)
	if err != nil {
		return nil, err
	}
	return New(tables)
}

func closeRows(rows *sql.Rows, what string) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate %s: %w", what, err)
	}
	return rows.Close()
}
