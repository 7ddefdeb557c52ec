package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	receivables "ar-reporter/internal/receivables/domain"
)

const (
	pdfPageWidth  = 297.0
	pdfPageHeight = 210.0
	pdfMarginX    = 8.0
	pdfMarginTop  = 12.0
	pdfFooterRoom = 16.0
	pdfLineHeight = 3.6
	pdfHeaderH    = 5.0
)

// PDFRenderer builds the paginated document: one page group per currency
// with the detail table, its totals row, the summary table, and its grand
// total row. A footer carries the generation date and page number.
type PDFRenderer struct {
	theme Theme
	now   func() time.Time
}

// NewPDFRenderer constructs a paginated document renderer.
func NewPDFRenderer(theme Theme) *PDFRenderer {
	return &PDFRenderer{theme: theme, now: time.Now}
}

// Format implements Renderer.
func (r *PDFRenderer) Format() Format { return FormatPDF }

// Render implements Renderer.
func (r *PDFRenderer) Render(report *receivables.AggregatedReport, schema Schema, filters receivables.ReportFilters) ([]byte, error) {
	if report == nil {
		return nil, receivables.ErrNilReport
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMarginX, pdfMarginTop, pdfMarginX)
	pdf.SetAutoPageBreak(false, pdfFooterRoom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := r.now().Format("2006-01-02")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(rgb(r.theme.Muted))
		pdf.CellFormat(140, 4, "Generated: "+generated, "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfPageWidth-2*pdfMarginX-140, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	currencies := report.Currencies()
	if len(currencies) == 0 {
		pdf.AddPage()
	}
	for _, code := range currencies {
		group := report.Groups[code]
		pdf.AddPage()
		r.writeCurrencyPage(pdf, tr, group, schema, filters)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) writeCurrencyPage(pdf *gofpdf.Fpdf, tr func(string) string, group *receivables.CurrencyGroup, schema Schema, filters receivables.ReportFilters) {
	r.writeSectionTitle(pdf, tr, "CURRENCY — "+group.Currency)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(rgb(r.theme.Muted))
	meta := fmt.Sprintf("As Of: %s  |  Customer: %s  |  Records: %d",
		filters.AsOf.Format(dateLayoutShort), filters.DisplayCustomerName(), len(group.Entries))
	pdf.CellFormat(0, 4, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	table := r.newTable(pdf, tr, schema.Detail)
	table.writeHeader()
	for i, entry := range group.Entries {
		table.writeEntryRow(entry, i%2 == 1)
	}
	r.writeDetailTotals(pdf, tr, schema.Detail, group)
	pdf.Ln(6)

	r.writeSectionTitle(pdf, tr, "SUMMARY — "+group.Currency)
	summaryTable := r.newTable(pdf, tr, schema.Summary)
	summaryTable.writeHeader()
	for i, customer := range group.SortedCustomers() {
		summaryTable.writeSummaryRow(customer, group.AgingSummary[customer], i%2 == 1)
	}
	r.writeSummaryTotals(pdf, tr, schema.Summary, group.GrandSummary())
}

func (r *PDFRenderer) writeSectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(rgb(r.theme.Primary))
	pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) writeDetailTotals(pdf *gofpdf.Fpdf, tr func(string) string, cols []Column, group *receivables.CurrencyGroup) {
	totals := map[Field]float64{
		FieldTotal:   group.Totals.Total,
		FieldPaid:    group.Totals.Paid,
		FieldBalance: group.Totals.Balance,
	}
	first := firstMoneyIndex(cols)
	span := 0.0
	for _, col := range cols[:first] {
		span += col.WidthMM
	}
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(rgb(r.theme.Ink))
	pdf.CellFormat(span, pdfHeaderH, tr("TOTALS:"), "", 0, "R", false, 0, "")
	pdf.SetFillColor(rgb(r.theme.TotalFill))
	for _, col := range cols[first:] {
		if sum, ok := totals[col.Field]; ok {
			pdf.CellFormat(col.WidthMM, pdfHeaderH, formatMoney(sum), "", 0, "R", true, 0, "")
			continue
		}
		pdf.CellFormat(col.WidthMM, pdfHeaderH, "", "", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func (r *PDFRenderer) writeSummaryTotals(pdf *gofpdf.Fpdf, tr func(string) string, cols []Column, grand receivables.AgingSummary) {
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(rgb(r.theme.Ink))
	pdf.SetFillColor(rgb(r.theme.TotalFill))
	for _, col := range cols {
		if col.Kind != KindMoney {
			pdf.CellFormat(col.WidthMM, pdfHeaderH, tr("TOTALS:"), "", 0, "R", true, 0, "")
			continue
		}
		value, _ := col.SummaryValue("", grand).(float64)
		pdf.CellFormat(col.WidthMM, pdfHeaderH, formatMoney(value), "", 0, "R", true, 0, "")
	}
	pdf.Ln(-1)
}

// pdfTable renders one table with manual page breaks that repeat the header
// row on the next page.
type pdfTable struct {
	renderer *PDFRenderer
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	cols     []Column
}

func (r *PDFRenderer) newTable(pdf *gofpdf.Fpdf, tr func(string) string, cols []Column) *pdfTable {
	return &pdfTable{renderer: r, pdf: pdf, tr: tr, cols: cols}
}

func (t *pdfTable) writeHeader() {
	pdf := t.pdf
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(rgb(t.renderer.theme.Head))
	pdf.SetDrawColor(rgb(t.renderer.theme.Line))
	for _, col := range t.cols {
		pdf.CellFormat(col.WidthMM, pdfHeaderH, t.tr(col.PDFHeader), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(rgb(t.renderer.theme.Ink))
}

type pdfCell struct {
	lines   []string
	align   string
	overdue bool
}

func (t *pdfTable) writeEntryRow(entry receivables.ReceivableEntry, alt bool) {
	cells := make([]pdfCell, len(t.cols))
	for i, col := range t.cols {
		cells[i] = t.entryCell(col, entry)
	}
	t.writeRow(cells, alt)
}

func (t *pdfTable) writeSummaryRow(customer string, summary receivables.AgingSummary, alt bool) {
	cells := make([]pdfCell, len(t.cols))
	for i, col := range t.cols {
		if col.Field == FieldCustomer {
			cells[i] = pdfCell{lines: wrapText(customer, col.Wrap, col.Wrap-5), align: "L"}
			continue
		}
		value, _ := col.SummaryValue(customer, summary).(float64)
		cells[i] = pdfCell{lines: []string{formatMoney(value)}, align: "R"}
	}
	t.writeRow(cells, alt)
}

func (t *pdfTable) entryCell(col Column, entry receivables.ReceivableEntry) pdfCell {
	switch col.Kind {
	case KindDate:
		value, _ := col.EntryValue(entry).(time.Time)
		return pdfCell{lines: []string{formatDate(value, dateLayoutShort)}, align: "C"}
	case KindMoney:
		value, _ := col.EntryValue(entry).(float64)
		return pdfCell{lines: []string{formatMoney(value)}, align: "R"}
	case KindInt:
		return pdfCell{
			lines:   []string{strconv.Itoa(entry.DaysSince)},
			align:   "R",
			overdue: entry.DaysSince > 45,
		}
	}
	text, _ := col.EntryValue(entry).(string)
	switch col.Field {
	case FieldDocument:
		return pdfCell{lines: []string{abbrevDocType(entry.Module)}, align: "C"}
	case FieldCustomer, FieldReference:
		return pdfCell{lines: wrapText(text, col.Wrap, col.Wrap-5), align: "L"}
	}
	return pdfCell{lines: []string{text}, align: "C"}
}

func (t *pdfTable) writeRow(cells []pdfCell, alt bool) {
	pdf := t.pdf
	maxLines := 1
	for _, cell := range cells {
		if len(cell.lines) > maxLines {
			maxLines = len(cell.lines)
		}
	}
	rowH := pdfLineHeight * float64(maxLines)

	if pdf.GetY()+rowH > pdfPageHeight-pdfFooterRoom {
		pdf.AddPage()
		t.writeHeader()
	}

	theme := t.renderer.theme
	if alt {
		pdf.SetFillColor(rgb(theme.Alt))
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	_, y := pdf.GetXY()
	for i, cell := range cells {
		if cell.overdue {
			pdf.SetFillColor(rgb(theme.OverdueFill))
		}
		x := pdf.GetX()
		lineH := rowH / float64(len(cell.lines))
		pdf.MultiCell(t.cols[i].WidthMM, lineH, t.tr(strings.Join(cell.lines, "\n")), "1", cell.align, true)
		pdf.SetXY(x+t.cols[i].WidthMM, y)
		if cell.overdue {
			if alt {
				pdf.SetFillColor(rgb(theme.Alt))
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
		}
	}
	pdf.SetXY(pdfMarginX, y+rowH)
}
