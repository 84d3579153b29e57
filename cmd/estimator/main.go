package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akbarifar/mro-estimator/internal/app"
	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/config"
	"github.com/akbarifar/mro-estimator/internal/estimate"
	"github.com/akbarifar/mro-estimator/internal/logging"
	"github.com/akbarifar/mro-estimator/internal/report"
)

type options struct {
	dataDir string
	pdfPath string
}

func main() {
	cfg := config.Load()
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: "text", Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, out io.Writer) (options, bool, error) {
	fs := flag.NewFlagSet("estimator", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, `
Interactive MRO cost estimator.

Usage:
  estimator [options]

Options:
`)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.dataDir, "data", "", "Directory with the catalog CSV files (overrides DATA_DIR).")
	fs.StringVar(&opts.pdfPath, "pdf", "", "Also export the finished estimate as a PDF to this file.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, true, nil
		}
		return opts, false, err
	}
	return opts, false, nil
}

// run drives one estimation session over in and out.
func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, args []string) error {
	opts, shouldExit, err := parseFlags(args, out)
	if err != nil || shouldExit {
		return err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
		cfg.CatalogSource = config.SourceCSV
	}

	cat, err := app.LoadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n=== %s Cost Estimator ===\n\n", cfg.CompanyName)

	p := newPrompter(in, out)
	req, err := collectRequest(ctx, p, cat)
	if err != nil {
		return err
	}

	quote, err := estimate.Quote(cat, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := report.WriteText(out, quote); err != nil {
		return err
	}

	if opts.pdfPath != "" {
		doc := report.Document{
			Company:      cfg.CompanyName,
			Reference:    report.NewReference(),
			GeneratedAt:  time.Now(),
			EngineModel:  req.EngineModel,
			AssemblyCode: req.AssemblyCode,
			Quote:        quote,
		}
		if err := writePDF(opts.pdfPath, doc); err != nil {
			return err
		}
		slog.Info("pdf exported", "path", opts.pdfPath, "reference", doc.Reference)
		fmt.Fprintf(out, "\nPDF written to %s\n", opts.pdfPath)
	}
	return nil
}

// collectRequest walks the menus: engine model, assembly, parts, then per part
// the quantity and procedures.
func collectRequest(ctx context.Context, p *prompter, cat *catalog.Catalog) (estimate.Request, error) {
	var req estimate.Request

	engines := cat.EngineModels()
	i, err := p.choose("Select Engine Model: ", engines)
	if err != nil {
		return req, err
	}
	req.EngineModel = engines[i]

	assemblies, err := cat.Assemblies(req.EngineModel)
	if err != nil {
		return req, err
	}
	i, err = p.choose("Select Assembly: ", assemblies)
	if err != nil {
		return req, err
	}
	req.AssemblyCode = assemblies[i]

	parts, err := cat.Parts(req.EngineModel, req.AssemblyCode)
	if err != nil {
		return req, err
	}
	partLabels := make([]string, len(parts))
	for i, part := range parts {
		partLabels[i] = part.PartNumber + " - " + part.Description
	}
	chosen, err := p.chooseMany("Select Parts (comma-separated): ", partLabels)
	if err != nil {
		return req, err
	}

	procs := cat.Procedures()
	procLabels := make([]string, len(procs))
	for i, proc := range procs {
		procLabels[i] = proc.Code + " - " + proc.Name
	}

	for _, idx := range chosen {
		if err := ctx.Err(); err != nil {
			return req, err
		}

		part := parts[idx]
		pr := estimate.PartRequest{PartNumber: part.PartNumber}

		fmt.Fprintf(p.out, "\n--- %s - %s ---\n", part.PartNumber, part.Description)
		if part.HasSeries() {
			fmt.Fprintf(p.out, "Series Quantity: %d\n", part.SeriesQty)
			if pr.UseFullSeries, err = p.confirm("Use full series? (y/n): "); err != nil {
				return req, err
			}
		}
		if !pr.UseFullSeries {
			if pr.Quantity, err = p.quantity("Enter quantity: "); err != nil {
				return req, err
			}
		}

		picked, err := p.chooseMany("Select Procedures (comma-separated): ", procLabels)
		if err != nil {
			return req, err
		}
		for _, j := range picked {
			pr.ProcedureCodes = append(pr.ProcedureCodes, procs[j].Code)
		}
		req.Parts = append(req.Parts, pr)
	}
	return req, nil
}

func writePDF(path string, doc report.Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close pdf file: %w", cerr)
		}
	}()
	return report.WritePDF(f, doc)
}
