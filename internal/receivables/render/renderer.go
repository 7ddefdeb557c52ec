package render

import (
	"fmt"
	"time"

	receivables "ar-reporter/internal/receivables/domain"
)

// Format names an output encoding.
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
	FormatHTML  Format = "html"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Renderer encodes one aggregated report into a byte stream. All renderers
// must agree on cell-level numeric content; only presentation differs.
type Renderer interface {
	Format() Format
	Render(report *receivables.AggregatedReport, schema Schema, filters receivables.ReportFilters) ([]byte, error)
}

// Filename builds the download name for a format and as-of date.
func Filename(format Format, asOf time.Time) string {
	return fmt.Sprintf("Accounts_Receivable_Aging_%s.%s", asOf.Format("20060102"), string(format))
}
