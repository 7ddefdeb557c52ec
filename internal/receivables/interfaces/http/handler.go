package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ar-reporter/internal/audit"
	"ar-reporter/internal/auth"
	"ar-reporter/internal/observability/metrics"
	"ar-reporter/internal/receivables/application"
	receivables "ar-reporter/internal/receivables/domain"
	"ar-reporter/internal/receivables/render"
)

const (
	basePath       = "/api/v1/reports/receivables"
	asOfDateLayout = "2006-01-02"
)

// ReportHandler serves the receivables aging report endpoints.
type ReportHandler struct {
	service     *application.ReportService
	renderers   map[render.Format]render.Renderer
	auditLogger audit.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(service *application.ReportService, renderers []render.Renderer, auditLogger audit.Logger) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	if len(renderers) == 0 {
		return nil, errors.New("report handler: no renderers")
	}
	byFormat := make(map[render.Format]render.Renderer, len(renderers))
	for _, renderer := range renderers {
		byFormat[renderer.Format()] = renderer
	}
	return &ReportHandler{service: service, renderers: byFormat, auditLogger: auditLogger}, nil
}

// ServeHTTP handles routes under /api/v1/reports/receivables.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Path
	if path == basePath+"/preview" {
		h.handlePreview(w, r)
		return
	}
	if rest, ok := strings.CutPrefix(path, basePath+"/download."); ok {
		h.handleDownload(w, r, render.Format(rest))
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

type reportRequest struct {
	AsOf         string `json:"as_of"`
	CustomerID   *int64 `json:"customer_id"`
	CustomerName string `json:"customer_name"`
}

func parseFilters(r *http.Request) (receivables.ReportFilters, error) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return receivables.ReportFilters{}, errors.New("invalid json")
	}
	if req.AsOf == "" {
		return receivables.ReportFilters{}, errors.New("as_of is required")
	}
	asOf, err := time.Parse(asOfDateLayout, req.AsOf)
	if err != nil {
		return receivables.ReportFilters{}, fmt.Errorf("invalid as_of date: %s", req.AsOf)
	}
	return receivables.ReportFilters{
		AsOf:         asOf,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
	}, nil
}

func (h *ReportHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportGenerate(result, time.Since(start))
	}()

	filters, err := parseFilters(r)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.service.Generate(r.Context(), filters)
	if err != nil {
		result = generateResult(err)
		respondGenerateError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
	h.logAudit(r, "report.preview", filters, nil)
}

func (h *ReportHandler) handleDownload(w http.ResponseWriter, r *http.Request, format render.Format) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportExport(string(format), result, time.Since(start))
	}()

	renderer, ok := h.renderers[format]
	if !ok {
		result = metrics.ResultError
		http.Error(w, "unsupported format", http.StatusNotFound)
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	report, err := h.service.Generate(r.Context(), filters)
	if err != nil {
		result = generateResult(err)
		respondGenerateError(w, err)
		return
	}

	schema := render.NewSchema(filters)
	data, err := renderer.Render(report, schema, filters)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, fmt.Sprintf("render %s error", format), http.StatusInternalServerError)
		return
	}

	filename := render.Filename(format, filters.AsOf)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, "report.download", filters, map[string]any{"format": string(format), "filename": filename})
}

func generateResult(err error) string {
	if errors.Is(err, receivables.ErrNoData) {
		return metrics.ResultNotFound
	}
	return metrics.ResultError
}

func respondGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, receivables.ErrNoData):
		http.Error(w, "no data found for the selected filters", http.StatusNotFound)
	case errors.Is(err, receivables.ErrInvalidAsOf):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "report generation error", http.StatusInternalServerError)
	}
}

func (h *ReportHandler) logAudit(r *http.Request, action string, filters receivables.ReportFilters, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["as_of"] = filters.AsOf.Format(asOfDateLayout)
	if filters.CustomerID != nil {
		meta["customer_id"] = *filters.CustomerID
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "report",
		ResourceID:   "receivables-aging",
		Metadata:     payload,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}
