package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/estimate"
	"github.com/akbarifar/mro-estimator/internal/metrics"
	"github.com/akbarifar/mro-estimator/internal/pricing"
	"github.com/akbarifar/mro-estimator/internal/report"
)

const maxQuoteBody = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type partResponse struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	SeriesQty   *int   `json:"series_qty"`
}

type procedureResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	BaseCostUSD string `json:"base_cost_usd"`
}

type lineItemResponse struct {
	PartNumber    string `json:"part_number"`
	Description   string `json:"description"`
	ProcedureCode string `json:"procedure_code"`
	Quantity      int    `json:"quantity"`
	BaseCostUSD   string `json:"base_cost_usd"`
	Multiplier    string `json:"multiplier"`
	TotalUSD      string `json:"total_usd"`
}

type subtotalResponse struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	SubtotalUSD string `json:"subtotal_usd"`
}

type quoteResponse struct {
	EngineModel   string             `json:"engine_model"`
	AssemblyCode  string             `json:"assembly_code"`
	LineItems     []lineItemResponse `json:"line_items"`
	Subtotals     []subtotalResponse `json:"subtotals"`
	GrandTotalUSD string             `json:"grand_total_usd"`
}

func (s *server) handleAPIEngines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"engine_models": s.catalog.EngineModels()})
}

func (s *server) handleAPIAssemblies(w http.ResponseWriter, r *http.Request) {
	engine := urlParam(r, "engine")
	assemblies, err := s.catalog.Assemblies(engine)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"engine_model": engine,
		"assemblies":   assemblies,
	})
}

func (s *server) handleAPIParts(w http.ResponseWriter, r *http.Request) {
	engine, assembly := urlParam(r, "engine"), urlParam(r, "assembly")
	parts, err := s.catalog.Parts(engine, assembly)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	resp := make([]partResponse, 0, len(parts))
	for _, p := range parts {
		item := partResponse{PartNumber: p.PartNumber, Description: p.Description}
		if p.HasSeries() {
			qty := p.SeriesQty
			item.SeriesQty = &qty
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"engine_model":  engine,
		"assembly_code": assembly,
		"parts":         resp,
	})
}

func (s *server) handleAPIProcedures(w http.ResponseWriter, r *http.Request) {
	procs := s.catalog.Procedures()
	resp := make([]procedureResponse, 0, len(procs))
	for _, p := range procs {
		resp = append(resp, procedureResponse{Code: p.Code, Name: p.Name, BaseCostUSD: report.Money(p.BaseCostUSD)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"procedures": resp})
}

func (s *server) handleAPIQuote(w http.ResponseWriter, r *http.Request) {
	var req estimate.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuoteBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		metrics.ObserveQuoteError(frontend, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Message: err.Error()})
		return
	}

	quote, err := s.computeQuote(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: metrics.ErrorReason(err), Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(req, quote))
}

func newQuoteResponse(req estimate.Request, q pricing.Quote) quoteResponse {
	resp := quoteResponse{
		EngineModel:   req.EngineModel,
		AssemblyCode:  req.AssemblyCode,
		LineItems:     make([]lineItemResponse, 0, len(q.LineItems)),
		Subtotals:     make([]subtotalResponse, 0, len(q.Subtotals)),
		GrandTotalUSD: report.Money(q.GrandTotal),
	}
	for _, item := range q.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			PartNumber:    item.PartNumber,
			Description:   item.Description,
			ProcedureCode: item.ProcedureCode,
			Quantity:      item.Quantity,
			BaseCostUSD:   report.Money(item.BaseCost),
			Multiplier:    report.Multiplier(item.Multiplier),
			TotalUSD:      report.Money(item.Total),
		})
	}
	for _, st := range q.Subtotals {
		resp.Subtotals = append(resp.Subtotals, subtotalResponse{
			PartNumber:  st.PartNumber,
			Description: st.Description,
			SubtotalUSD: report.Money(st.Subtotal),
		})
	}
	return resp
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNoResults) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no_results"})
		return
	}
	slog.Error("catalog lookup failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
