// Package seed imports the reference catalog into the SQLite catalog store.
package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akbarifar/mro-estimator/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
	Deletes int
}

// Changed reports whether the run modified the store.
func (s Stats) Changed() bool {
	return s.Inserts+s.Updates+s.Deletes > 0
}

// Run imports tables in a single transaction. It is idempotent: rows that
// already match are left alone, and rows absent from tables are removed so
// the store mirrors the source files.
func Run(db *sql.DB, tables catalog.Tables) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	steps := []func(*sql.Tx, catalog.Tables, *Stats) error{
		syncEngineModels,
		syncAssemblies,
		syncParts,
		syncProcedures,
		syncMultipliers,
	}
	for _, step := range steps {
		if err := step(tx, tables, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func syncEngineModels(tx *sql.Tx, tables catalog.Tables, stats *Stats) error {
	stale, err := existingKeys(tx, `SELECT engine_model FROM engine_models`)
	if err != nil {
		return fmt.Errorf("list engine models: %w", err)
	}

	for pos, engine := range tables.EngineModels {
		delete(stale, engine)

		var current int
		err := tx.QueryRow(`SELECT position FROM engine_models WHERE engine_model = ?`, engine).Scan(&current)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`INSERT INTO engine_models (engine_model, position) VALUES (?, ?)`, engine, pos); err != nil {
				return fmt.Errorf("insert engine model %s: %w", engine, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("check engine model %s: %w", engine, err)
		case current != pos:
			if _, err := tx.Exec(`
				UPDATE engine_models SET position = ?, updated_at = CURRENT_TIMESTAMP
				WHERE engine_model = ?
			`, pos, engine); err != nil {
				return fmt.Errorf("update engine model %s: %w", engine, err)
			}
			stats.Updates++
		}
	}

	for key := range stale {
		if _, err := tx.Exec(`DELETE FROM engine_models WHERE engine_model = ?`, key); err != nil {
			return fmt.Errorf("delete engine model %s: %w", key, err)
		}
		stats.Deletes++
	}
	return nil
}

func syncAssemblies(tx *sql.Tx, tables catalog.Tables, stats *Stats) error {
	stale, err := existingKeys(tx, `SELECT engine_model || char(31) || assembly_code FROM assemblies`)
	if err != nil {
		return fmt.Errorf("list assemblies: %w", err)
	}

	pos := 0
	seen := make(map[string]struct{})
	for _, a := range tables.Assemblies {
		key := joinKey(a.EngineModel, a.AssemblyCode)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		delete(stale, key)

		var current int
		err := tx.QueryRow(`
			SELECT position FROM assemblies WHERE engine_model = ? AND assembly_code = ?
		`, a.EngineModel, a.AssemblyCode).Scan(&current)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`
				INSERT INTO assemblies (engine_model, assembly_code, position) VALUES (?, ?, ?)
			`, a.EngineModel, a.AssemblyCode, pos); err != nil {
				return fmt.Errorf("insert assembly %s/%s: %w", a.EngineModel, a.AssemblyCode, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("check assembly %s/%s: %w", a.EngineModel, a.AssemblyCode, err)
		case current != pos:
			if _, err := tx.Exec(`
				UPDATE assemblies SET position = ?, updated_at = CURRENT_TIMESTAMP
				WHERE engine_model = ? AND assembly_code = ?
			`, pos, a.EngineModel, a.AssemblyCode); err != nil {
				return fmt.Errorf("update assembly %s/%s: %w", a.EngineModel, a.AssemblyCode, err)
			}
			stats.Updates++
		}
		pos++
	}

	for key := range stale {
		parts := splitKey(key)
		if _, err := tx.Exec(`
			DELETE FROM assemblies WHERE engine_model = ? AND assembly_code = ?
		`, parts[0], parts[1]); err != nil {
			return fmt.Errorf("delete assembly %s: %w", key, err)
		}
		stats.Deletes++
	}
	return nil
}

func syncParts(tx *sql.Tx, tables catalog.Tables, stats *Stats) error {
	stale, err := existingKeys(tx, `
		SELECT engine_model || char(31) || assembly_code || char(31) || part_number FROM parts
	`)
	if err != nil {
		return fmt.Errorf("list parts: %w", err)
	}

	pos := 0
	seen := make(map[string]struct{})
	for _, p := range tables.Parts {
		key := joinKey(p.EngineModel, p.AssemblyCode, p.PartNumber)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		delete(stale, key)

		var seriesQty sql.NullInt64
		if p.HasSeries() {
			seriesQty = sql.NullInt64{Int64: int64(p.SeriesQty), Valid: true}
		}

		var (
			curDescription string
			curSeries      sql.NullInt64
			curPos         int
		)
		err := tx.QueryRow(`
			SELECT description, series_qty, position
			FROM parts
			WHERE engine_model = ? AND assembly_code = ? AND part_number = ?
		`, p.EngineModel, p.AssemblyCode, p.PartNumber).Scan(&curDescription, &curSeries, &curPos)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`
				INSERT INTO parts (engine_model, assembly_code, part_number, description, series_qty, position)
				VALUES (?, ?, ?, ?, ?, ?)
			`, p.EngineModel, p.AssemblyCode, p.PartNumber, p.Description, seriesQty, pos); err != nil {
				return fmt.Errorf("insert part %s: %w", p.PartNumber, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("check part %s: %w", p.PartNumber, err)
		case curDescription != p.Description || curSeries != seriesQty || curPos != pos:
			if _, err := tx.Exec(`
				UPDATE parts
				SET
					description = ?,
					series_qty = ?,
					position = ?,
					updated_at = CURRENT_TIMESTAMP
				WHERE engine_model = ? AND assembly_code = ? AND part_number = ?
			`, p.Description, seriesQty, pos, p.EngineModel, p.AssemblyCode, p.PartNumber); err != nil {
				return fmt.Errorf("update part %s: %w", p.PartNumber, err)
			}
			stats.Updates++
		}
		pos++
	}

	for key := range stale {
		k := splitKey(key)
		if _, err := tx.Exec(`
			DELETE FROM parts WHERE engine_model = ? AND assembly_code = ? AND part_number = ?
		`, k[0], k[1], k[2]); err != nil {
			return fmt.Errorf("delete part %s: %w", key, err)
		}
		stats.Deletes++
	}
	return nil
}

func syncProcedures(tx *sql.Tx, tables catalog.Tables, stats *Stats) error {
	stale, err := existingKeys(tx, `SELECT procedure_code FROM procedures`)
	if err != nil {
		return fmt.Errorf("list procedures: %w", err)
	}

	for pos, p := range tables.Procedures {
		delete(stale, p.Code)

		var (
			curName string
			curCost decimal.Decimal
			curPos  int
		)
		err := tx.QueryRow(`
			SELECT procedure_name, base_cost_usd, position FROM procedures WHERE procedure_code = ?
		`, p.Code).Scan(&curName, &curCost, &curPos)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`
				INSERT INTO procedures (procedure_code, procedure_name, base_cost_usd, position)
				VALUES (?, ?, ?, ?)
			`, p.Code, p.Name, p.BaseCostUSD.String(), pos); err != nil {
				return fmt.Errorf("insert procedure %s: %w", p.Code, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("check procedure %s: %w", p.Code, err)
		case curName != p.Name || !curCost.Equal(p.BaseCostUSD) || curPos != pos:
			if _, err := tx.Exec(`
				UPDATE procedures
				SET
					procedure_name = ?,
					base_cost_usd = ?,
					position = ?,
					updated_at = CURRENT_TIMESTAMP
				WHERE procedure_code = ?
			`, p.Name, p.BaseCostUSD.String(), pos, p.Code); err != nil {
				return fmt.Errorf("update procedure %s: %w", p.Code, err)
			}
			stats.Updates++
		}
	}

	for key := range stale {
		if _, err := tx.Exec(`DELETE FROM procedures WHERE procedure_code = ?`, key); err != nil {
			return fmt.Errorf("delete procedure %s: %w", key, err)
		}
		stats.Deletes++
	}
	return nil
}

func syncMultipliers(tx *sql.Tx, tables catalog.Tables, stats *Stats) error {
	stale, err := existingKeys(tx, `SELECT part_number || char(31) || procedure_code FROM cost_multipliers`)
	if err != nil {
		return fmt.Errorf("list cost multipliers: %w", err)
	}

	for pos, m := range tables.Multipliers {
		delete(stale, joinKey(m.PartNumber, m.ProcedureCode))

		var (
			curValue decimal.Decimal
			curPos   int
		)
		err := tx.QueryRow(`
			SELECT multiplier, position FROM cost_multipliers WHERE part_number = ? AND procedure_code = ?
		`, m.PartNumber, m.ProcedureCode).Scan(&curValue, &curPos)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(`
				INSERT INTO cost_multipliers (part_number, procedure_code, multiplier, position)
				VALUES (?, ?, ?, ?)
			`, m.PartNumber, m.ProcedureCode, m.Value.String(), pos); err != nil {
				return fmt.Errorf("insert cost multiplier %s/%s: %w", m.PartNumber, m.ProcedureCode, err)
			}
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("check cost multiplier %s/%s: %w", m.PartNumber, m.ProcedureCode, err)
		case !curValue.Equal(m.Value) || curPos != pos:
			if _, err := tx.Exec(`
				UPDATE cost_multipliers
				SET multiplier = ?, position = ?, updated_at = CURRENT_TIMESTAMP
				WHERE part_number = ? AND procedure_code = ?
			`, m.Value.String(), pos, m.PartNumber, m.ProcedureCode); err != nil {
				return fmt.Errorf("update cost multiplier %s/%s: %w", m.PartNumber, m.ProcedureCode, err)
			}
			stats.Updates++
		}
	}

	for key := range stale {
		k := splitKey(key)
		if _, err := tx.Exec(`
			DELETE FROM cost_multipliers WHERE part_number = ? AND procedure_code = ?
		`, k[0], k[1]); err != nil {
			return fmt.Errorf("delete cost multiplier %s: %w", key, err)
		}
		stats.Deletes++
	}
	return nil
}

// keySep matches char(31) in the key queries above.
const keySep = "\x1f"

func joinKey(parts ...string) string {
	return strings.Join(parts, keySep)
}

func splitKey(key string) []string {
	return strings.Split(key, keySep)
}

func existingKeys(tx *sql.Tx, query string) (map[string]struct{}, error) {
	rows, err := tx.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
