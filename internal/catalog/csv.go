package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Reference table file names expected inside the data directory.
const (
	EngineModelsFile = "EngineModels.csv"
	AssembliesFile   = "Assemblies.csv"
	PartsFile        = "Parts.csv"
	ProceduresFile   = "Procedures.csv"
	MultipliersFile  = "CostMultipliers.csv"
)

// Files lists every table LoadDir requires, in load order.
var Files = []string{EngineModelsFile, AssembliesFile, PartsFile, ProceduresFile, MultipliersFile}

// CheckFiles verifies that every reference table exists in dir. The first
// absent file is reported as a *MissingFileError.
func CheckFiles(dir string) error {
	for _, name := range Files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &MissingFileError{Path: path}
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return nil
}

// ReadDir reads the reference tables from the CSV files in dir.
func ReadDir(dir string) (Tables, error) {
	if err := CheckFiles(dir); err != nil {
		return Tables{}, err
	}

	var tables Tables

	rows, err := readTable(filepath.Join(dir, EngineModelsFile), "EngineModel")
	if err != nil {
		return Tables{}, err
	}
	for _, r := range rows {
		if err := r.require("EngineModel"); err != nil {
			return Tables{}, err
		}
		tables.EngineModels = append(tables.EngineModels, r.get("EngineModel"))
	}

	rows, err = readTable(filepath.Join(dir, AssembliesFile), "EngineModel", "AssemblyCode")
	if err != nil {
		return Tables{}, err
	}
	for _, r := range rows {
		if err := r.require("EngineModel", "AssemblyCode"); err != nil {
			return Tables{}, err
		}
		tables.Assemblies = append(tables.Assemblies, Assembly{
			EngineModel:  r.get("EngineModel"),
			AssemblyCode: r.get("AssemblyCode"),
		})
	}

	rows, err = readTable(filepath.Join(dir, PartsFile), "EngineModel", "AssemblyCode", "PartNumber", "Description")
	if err != nil {
		return Tables{}, err
	}
	for _, r := range rows {
		if err := r.require("EngineModel", "AssemblyCode", "PartNumber"); err != nil {
			return Tables{}, err
		}
		seriesQty, err := parseSeriesQty(r.get("SeriesQty"))
		if err != nil {
			return Tables{}, r.errorf("SeriesQty", err)
		}
		tables.Parts = append(tables.Parts, Part{
			EngineModel:  r.get("EngineModel"),
			AssemblyCode: r.get("AssemblyCode"),
			PartNumber:   r.get("PartNumber"),
			Description:  r.get("Description"),
			SeriesQty:    seriesQty,
		})
	}

	rows, err = readTable(filepath.Join(dir, ProceduresFile), "ProcedureCode", "ProcedureName", "BaseCostUSD")
	if err != nil {
		return Tables{}, err
	}
	for _, r := range rows {
		if err := r.require("ProcedureCode", "BaseCostUSD"); err != nil {
			return Tables{}, err
		}
		cost, err := decimal.NewFromString(r.get("BaseCostUSD"))
		if err != nil {
			return Tables{}, r.errorf("BaseCostUSD", err)
		}
		tables.Procedures = append(tables.Procedures, Procedure{
			Code:        r.get("ProcedureCode"),
			Name:        r.get("ProcedureName"),
			BaseCostUSD: cost,
		})
	}

	rows, err = readTable(filepath.Join(dir, MultipliersFile), "PartNumber", "ProcedureCode", "Multiplier")
	if err != nil {
		return Tables{}, err
	}
	for _, r := range rows {
		if err := r.require("PartNumber", "ProcedureCode", "Multiplier"); err != nil {
			return Tables{}, err
		}
		value, err := decimal.NewFromString(r.get("Multiplier"))
		if err != nil {
			return Tables{}, r.errorf("Multiplier", err)
		}
		tables.Multipliers = append(tables.Multipliers, Multiplier{
			PartNumber:    r.get("PartNumber"),
			ProcedureCode: r.get("ProcedureCode"),
			Value:         value,
		})
	}

	return tables, nil
}

// LoadDir reads and validates the catalog stored as CSV files in dir.
func LoadDir(dir string) (*Catalog, error) {
	tables, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return New(tables)
}

type row struct {
	file    string
	line    int
	columns map[string]int
	fields  []string
}

func (r row) get(column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// require reports the first of columns whose value is blank.
func (r row) require(columns ...string) error {
	for _, col := range columns {
		if r.get(col) == "" {
			return r.errorf(col, errors.New("value is required"))
		}
	}
	return nil
}

func (r row) errorf(column string, err error) error {
	return &ParseError{File: r.file, Line: r.line, Column: column, Err: err}
}

// readTable reads a headed CSV file. Every required column must be present in
// the header; other columns read as blank when absent.
func readTable(path string, required ...string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{File: name, Line: 1, Err: errors.New("missing header row")}
		}
		return nil, &ParseError{File: name, Line: 1, Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[h] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, &ParseError{File: name, Line: 1, Column: col, Err: errors.New("required column not found in header")}
		}
	}

	rows := make([]row, 0)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{File: name, Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)

		rows = append(rows, row{file: name, line: line, columns: columns, fields: fields})
	}

	return rows, nil
}

// parseSeriesQty accepts blank (no series), integers and integral floats such
// as "12.0" written by spreadsheet exports. Zero means no series.
func parseSeriesQty(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("series quantity must not be negative, got %d", n)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("series quantity %q is not a number", raw)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("series quantity %q is not a whole number", raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("series quantity must not be negative, got %s", raw)
	}
	return int(f), nil
}
