package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	receivables "ar-reporter/internal/receivables/domain"
	"ar-reporter/internal/receivables/render"
)

// RowFetcher is the narrow input contract to the external ledger store.
// Rows come back ordered by customer, invoice date, folio.
type RowFetcher interface {
	FetchRows(ctx context.Context, filters receivables.ReportFilters) ([]receivables.RawRow, error)
}

// ReportService runs the aging pipeline: fetch, normalize, classify,
// aggregate. Each request builds its own report from scratch; the service
// keeps no state between requests.
type ReportService struct {
	fetcher RowFetcher
	logger  *log.Logger
}

// NewReportService constructs a report service.
func NewReportService(fetcher RowFetcher, logger *log.Logger) (*ReportService, error) {
	if fetcher == nil {
		return nil, errors.New("report service: nil fetcher")
	}
	if logger == nil {
		return nil, errors.New("report service: nil logger")
	}
	return &ReportService{fetcher: fetcher, logger: logger}, nil
}

// Generate produces the aggregated report for the filters. An empty result
// set is a distinct outcome (ErrNoData), never an empty report.
func (s *ReportService) Generate(ctx context.Context, filters receivables.ReportFilters) (*receivables.AggregatedReport, error) {
	if filters.AsOf.IsZero() {
		return nil, receivables.ErrInvalidAsOf
	}
	rows, err := s.fetcher.FetchRows(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, receivables.ErrNoData
	}

	entries := make([]receivables.ReceivableEntry, 0, len(rows))
	for _, row := range rows {
		entry := receivables.NormalizeRow(row)
		receivables.Classify(&entry, filters.AsOf)
		entries = append(entries, entry)
	}
	return receivables.Aggregate(entries), nil
}

// RenderAll renders every given format concurrently over the immutable
// report. A failed format aborts only that format; results carry the
// streams that completed and the error joins every failure.
func (s *ReportService) RenderAll(report *receivables.AggregatedReport, schema render.Schema, filters receivables.ReportFilters, renderers ...render.Renderer) (map[render.Format][]byte, error) {
	results := make(map[render.Format][]byte, len(renderers))
	renderErrs := make([]error, len(renderers))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, renderer := range renderers {
		wg.Add(1)
		go func(i int, renderer render.Renderer) {
			defer wg.Done()
			data, err := renderer.Render(report, schema, filters)
			if err != nil {
				renderErrs[i] = fmt.Errorf("render %s: %w", renderer.Format(), err)
				return
			}
			mu.Lock()
			results[renderer.Format()] = data
			mu.Unlock()
		}(i, renderer)
	}
	wg.Wait()
	return results, errors.Join(renderErrs...)
}
