package render

import (
	"bytes"
	"testing"

	receivables "ar-reporter/internal/receivables/domain"
)

func TestPDFRenderProducesDocument(t *testing.T) {
	report := sampleReport()
	filters := multiFilters()

	data, err := NewPDFRenderer(DefaultTheme()).Render(report, NewSchema(filters), filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", data[:min(16, len(data))])
	}
	// Two currencies, one page each.
	if n := countPDFPages(data); n < 2 {
		t.Errorf("expected at least 2 pages, found %d page objects", n)
	}
}

// countPDFPages counts page objects, excluding the /Pages tree node.
func countPDFPages(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestPDFEmptyReportStillRenders(t *testing.T) {
	filters := multiFilters()
	data, err := NewPDFRenderer(DefaultTheme()).Render(&receivables.AggregatedReport{}, NewSchema(filters), filters)
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("empty report should still yield a valid document")
	}
}

func TestPDFPaginatesLongTables(t *testing.T) {
	var entries []receivables.ReceivableEntry
	for i := 0; i < 200; i++ {
		entries = append(entries, sampleEntry("ACME Corp", "USD", 100, 0, 10))
	}
	report := receivables.Aggregate(entries)
	filters := multiFilters()

	data, err := NewPDFRenderer(DefaultTheme()).Render(report, NewSchema(filters), filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := countPDFPages(data); n < 2 {
		t.Errorf("200 rows should span multiple pages, found %d page objects", n)
	}
}

func TestPDFNilReport(t *testing.T) {
	filters := multiFilters()
	if _, err := NewPDFRenderer(DefaultTheme()).Render(nil, NewSchema(filters), filters); err == nil {
		t.Fatal("expected error for nil report")
	}
}
