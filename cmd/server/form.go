package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/akbarifar/mro-estimator/internal/estimate"
)

var errMissingSelection = errors.New("engine model and assembly are required")

type formField struct {
	Name  string
	Value string
}

// parseQuoteFormValues reads the quote form: engine, assembly, repeated part,
// and per part series_<PN>, qty_<PN> and repeated proc_<PN>.
func parseQuoteFormValues(r *http.Request) (estimate.Request, error) {
	req := estimate.Request{
		EngineModel:  strings.TrimSpace(r.FormValue("engine")),
		AssemblyCode: strings.TrimSpace(r.FormValue("assembly")),
	}
	if req.EngineModel == "" || req.AssemblyCode == "" {
		return req, errMissingSelection
	}

	seen := make(map[string]bool)
	for _, raw := range r.Form["part"] {
		pn := strings.TrimSpace(raw)
		if pn == "" || seen[pn] {
			continue
		}
		seen[pn] = true

		useSeries := r.FormValue("series_"+pn) != ""
		qty, err := parseQuantity(r.FormValue("qty_"+pn), useSeries)
		if err != nil {
			return req, fmt.Errorf("quantity for %s %w", pn, err)
		}

		req.Parts = append(req.Parts, estimate.PartRequest{
			PartNumber:     pn,
			UseFullSeries:  useSeries,
			Quantity:       qty,
			ProcedureCodes: r.Form["proc_"+pn],
		})
	}
	if len(req.Parts) == 0 {
		return req, estimate.ErrNoParts
	}
	return req, nil
}

// parseQuantity accepts a blank value only when the full series is requested;
// range checks happen when the quote is priced.
func parseQuantity(raw string, useSeries bool) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && useSeries {
		return 0, nil
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be a whole number")
	}
	return qty, nil
}

// formFields flattens posted values into hidden inputs, sorted by name, so a
// rendered quote can be resubmitted for export.
func formFields(values url.Values) []formField {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []formField
	for _, name := range names {
		for _, v := range values[name] {
			fields = append(fields, formField{Name: name, Value: v})
		}
	}
	return fields
}
