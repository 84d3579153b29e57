package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akbarifar/mro-estimator/internal/app"
	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/config"
	"github.com/akbarifar/mro-estimator/internal/estimate"
	"github.com/akbarifar/mro-estimator/internal/logging"
	"github.com/akbarifar/mro-estimator/internal/metrics"
	"github.com/akbarifar/mro-estimator/internal/pricing"
	"github.com/akbarifar/mro-estimator/internal/report"
	"github.com/akbarifar/mro-estimator/web"
)

const (
	frontend    = "web"
	pdfFilename = "MRO_Cost_Estimate.pdf"
)

type server struct {
	catalog *catalog.Catalog
	company string
	now     func() time.Time
}

type baseViewData struct {
	Company      string
	ErrorMessage string
	InfoMessage  string
}

type homeViewData struct {
	baseViewData
	EngineModels []string
	Engine       string
	Assemblies   []string
	Assembly     string
	Parts        []catalog.Part
	Procedures   []catalog.Procedure
}

type quoteViewData struct {
	baseViewData
	Engine     string
	Assembly   string
	Quote      pricing.Quote
	FormFields []formField
}

func main() {
	cfg := config.Load()
	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	cat, err := app.LoadCatalog(context.Background(), cfg)
	if err != nil {
		logging.Fatal("failed to load catalog", "error", err)
	}

	srv := &server{catalog: cat, company: cfg.CompanyName, now: time.Now}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Get("/", s.handleHome)
	r.Post("/quote", s.handleQuote)
	r.Post("/quote/pdf", s.handleQuotePDF)

	r.Route("/api", func(r chi.Router) {
		r.Get("/engines", s.handleAPIEngines)
		r.Get("/engines/{engine}/assemblies", s.handleAPIAssemblies)
		r.Get("/engines/{engine}/assemblies/{assembly}/parts", s.handleAPIParts)
		r.Get("/procedures", s.handleAPIProcedures)
		r.Post("/quotes", s.handleAPIQuote)
	})

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *server) base() baseViewData {
	return baseViewData{Company: s.company}
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, status := s.homeData(q.Get("engine"), q.Get("assembly"))
	s.renderTemplate(w, status, "home.html", data)
}

// homeData fills the selection form for the chosen engine model and assembly.
// Missing catalog entries become messages on the page.
func (s *server) homeData(engine, assembly string) (homeViewData, int) {
	data := homeViewData{
		baseViewData: s.base(),
		EngineModels: s.catalog.EngineModels(),
		Engine:       engine,
		Assembly:     assembly,
	}
	if engine == "" {
		return data, http.StatusOK
	}
	if !s.catalog.HasEngineModel(engine) {
		data.ErrorMessage = fmt.Sprintf("Unknown engine model %s", engine)
		return data, http.StatusBadRequest
	}

	assemblies, err := s.catalog.Assemblies(engine)
	if err != nil {
		data.InfoMessage = fmt.Sprintf("No assemblies found for %s", engine)
		return data, http.StatusOK
	}
	data.Assemblies = assemblies
	if assembly == "" {
		return data, http.StatusOK
	}

	parts, err := s.catalog.Parts(engine, assembly)
	if err != nil {
		data.InfoMessage = fmt.Sprintf("No parts found for %s - %s", engine, assembly)
		return data, http.StatusOK
	}
	data.Parts = parts
	data.Procedures = s.catalog.Procedures()
	return data, http.StatusOK
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req, quote, err := s.quoteFromForm(r)
	if err != nil {
		data, _ := s.homeData(req.EngineModel, req.AssemblyCode)
		data.ErrorMessage = err.Error()
		s.renderTemplate(w, http.StatusBadRequest, "home.html", data)
		return
	}

	s.renderTemplate(w, http.StatusOK, "quote.html", quoteViewData{
		baseViewData: s.base(),
		Engine:       req.EngineModel,
		Assembly:     req.AssemblyCode,
		Quote:        quote,
		FormFields:   formFields(r.PostForm),
	})
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req, quote, err := s.quoteFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	doc := report.Document{
		Company:      s.company,
		Reference:    report.NewReference(),
		GeneratedAt:  s.now(),
		EngineModel:  req.EngineModel,
		AssemblyCode: req.AssemblyCode,
		Quote:        quote,
	}
	if err := report.WritePDF(&buf, doc); err != nil {
		slog.Error("failed to render pdf", "error", err, "reference", doc.Reference)
		http.Error(w, "failed to render pdf", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("pdf")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// quoteFromForm parses and prices a submitted quote form. The request is
// returned even on error so the form can be redrawn.
func (s *server) quoteFromForm(r *http.Request) (estimate.Request, pricing.Quote, error) {
	req, err := parseQuoteFormValues(r)
	if err != nil {
		metrics.ObserveQuoteError(frontend, err)
		return req, pricing.Quote{}, err
	}
	quote, err := s.computeQuote(r.Context(), req)
	return req, quote, err
}

// computeQuote prices req and records the outcome.
func (s *server) computeQuote(ctx context.Context, req estimate.Request) (pricing.Quote, error) {
	quote, err := estimate.Quote(s.catalog, req)
	if err != nil {
		metrics.ObserveQuoteError(frontend, err)
		if errors.Is(err, pricing.ErrNotFound) {
			slog.ErrorContext(ctx, "quote references unknown procedure",
				"error", err,
				"engine_model", req.EngineModel,
				"assembly", req.AssemblyCode,
			)
		}
		return pricing.Quote{}, err
	}
	metrics.ObserveQuote(frontend, quote)
	return quote, nil
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	templates, err := web.Page(page)
	if err != nil {
		slog.Error("failed to parse template", "page", page, "error", err)
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		slog.Error("failed to render template", "page", page, "error", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
