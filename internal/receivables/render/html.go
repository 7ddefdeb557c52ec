package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	receivables "ar-reporter/internal/receivables/domain"
)

const htmlPage = `<!doctype html><html><head><meta charset="utf-8"><title>AR Aging</title>
<style>{{.CSS}}</style></head><body>
<div class="header"><div style="flex:1;text-align:center">
  <div class="title">ACCOUNTS RECEIVABLE AGING</div>
  <div class="sub">Detailed Accounts Receivable Analysis</div>
</div></div>
<div class="meta"><div>As Of: <b>{{.AsOf}}</b></div>
<div>Customer: <b>{{.Customer}}</b></div>
<div>Total Records: <b>{{.RecordCount}}</b></div></div>
{{range .Sections}}<h2>Currency — {{.Currency}}</h2>
<table><thead><tr>{{range .DetailHeaders}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
{{range .DetailRows}}<tr>{{range .}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{end}}<tr class="tot">{{range .DetailTotals}}<td class="{{.Class}}"{{if .Span}} colspan="{{.Span}}" style="text-align:right"{{end}}>{{.Text}}</td>{{end}}</tr>
</tbody></table>
<h2>Summary — {{.Currency}}</h2>
<table><thead><tr>{{range .SummaryHeaders}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
{{range .SummaryRows}}<tr>{{range .}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
{{end}}<tr class="tot">{{range .SummaryTotals}}<td class="{{.Class}}">{{.Text}}</td>{{end}}</tr>
</tbody></table>
{{end}}</body></html>`

// HTMLRenderer builds the single-page markup report: every currency's
// detail and summary tables in sequence, styled inline from the theme.
type HTMLRenderer struct {
	theme Theme
	tmpl  *template.Template
}

// NewHTMLRenderer constructs a markup renderer.
func NewHTMLRenderer(theme Theme) (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Parse(htmlPage)
	if err != nil {
		return nil, fmt.Errorf("html template: %w", err)
	}
	return &HTMLRenderer{theme: theme, tmpl: tmpl}, nil
}

// Format implements Renderer.
func (r *HTMLRenderer) Format() Format { return FormatHTML }

type htmlCell struct {
	Text  string
	Class string
	Span  int
}

type htmlSection struct {
	Currency       string
	DetailHeaders  []string
	DetailRows     [][]htmlCell
	DetailTotals   []htmlCell
	SummaryHeaders []string
	SummaryRows    [][]htmlCell
	SummaryTotals  []htmlCell
}

type htmlPageData struct {
	CSS         template.CSS
	AsOf        string
	Customer    string
	RecordCount int
	Sections    []htmlSection
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(report *receivables.AggregatedReport, schema Schema, filters receivables.ReportFilters) ([]byte, error) {
	if report == nil {
		return nil, receivables.ErrNilReport
	}

	data := htmlPageData{
		CSS:      template.CSS(r.stylesheet()),
		AsOf:     formatDateOrdinal(filters.AsOf),
		Customer: filters.DisplayCustomerName(),
	}
	for _, code := range report.Currencies() {
		group := report.Groups[code]
		data.RecordCount += len(group.Entries)
		data.Sections = append(data.Sections, r.buildSection(group, schema))
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("html render: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) buildSection(group *receivables.CurrencyGroup, schema Schema) htmlSection {
	section := htmlSection{Currency: group.Currency}
	for _, col := range schema.Detail {
		section.DetailHeaders = append(section.DetailHeaders, col.Header)
	}
	for _, entry := range group.Entries {
		row := make([]htmlCell, len(schema.Detail))
		for i, col := range schema.Detail {
			row[i] = entryHTMLCell(col, entry)
		}
		section.DetailRows = append(section.DetailRows, row)
	}
	section.DetailTotals = detailTotalCells(schema.Detail, group)

	for _, col := range schema.Summary {
		section.SummaryHeaders = append(section.SummaryHeaders, col.Header)
	}
	for _, customer := range group.SortedCustomers() {
		summary := group.AgingSummary[customer]
		row := make([]htmlCell, len(schema.Summary))
		for i, col := range schema.Summary {
			if col.Field == FieldCustomer {
				row[i] = htmlCell{Text: customer}
				continue
			}
			value, _ := col.SummaryValue(customer, summary).(float64)
			row[i] = htmlCell{Text: formatMoney(value), Class: "num"}
		}
		section.SummaryRows = append(section.SummaryRows, row)
	}
	grand := group.GrandSummary()
	for _, col := range schema.Summary {
		if col.Field == FieldCustomer {
			section.SummaryTotals = append(section.SummaryTotals, htmlCell{Text: "TOTALS:"})
			continue
		}
		value, _ := col.SummaryValue("", grand).(float64)
		section.SummaryTotals = append(section.SummaryTotals, htmlCell{Text: formatMoney(value), Class: "num"})
	}
	return section
}

func entryHTMLCell(col Column, entry receivables.ReceivableEntry) htmlCell {
	switch col.Kind {
	case KindDate:
		value, _ := col.EntryValue(entry).(time.Time)
		return htmlCell{Text: formatDate(value, dateLayoutLong), Class: "center"}
	case KindMoney:
		value, _ := col.EntryValue(entry).(float64)
		return htmlCell{Text: formatMoney(value), Class: "num"}
	case KindInt:
		class := "center"
		if entry.DaysSince > 45 {
			class = "center overdue"
		}
		return htmlCell{Text: strconv.Itoa(entry.DaysSince), Class: class}
	}
	text, _ := col.EntryValue(entry).(string)
	if col.Field == FieldCustomer || col.Field == FieldReference {
		return htmlCell{Text: text}
	}
	return htmlCell{Text: text, Class: "center"}
}

// detailTotalCells builds the totals row: one label cell spanning the
// columns before the first money column, then sums under their own columns.
func detailTotalCells(cols []Column, group *receivables.CurrencyGroup) []htmlCell {
	totals := map[Field]float64{
		FieldTotal:   group.Totals.Total,
		FieldPaid:    group.Totals.Paid,
		FieldBalance: group.Totals.Balance,
	}
	first := firstMoneyIndex(cols)
	cells := []htmlCell{{Text: fmt.Sprintf("TOTALS (%s):", group.Currency), Span: first}}
	for _, col := range cols[first:] {
		if sum, ok := totals[col.Field]; ok {
			cells = append(cells, htmlCell{Text: formatMoney(sum), Class: "num"})
			continue
		}
		cells = append(cells, htmlCell{})
	}
	return cells
}

func (r *HTMLRenderer) stylesheet() string {
	t := r.theme
	return fmt.Sprintf(`
:root{--p:#%s;--s:#%s;--ink:#%s;--muted:#%s;--line:#%s;--alt:#%s}
body{font-family:"Segoe UI",system-ui,-apple-system,sans-serif;color:var(--ink);margin:0;padding:24px}
.header{display:flex;align-items:center;justify-content:space-between;border-bottom:3px solid var(--p);padding-bottom:16px;margin-bottom:20px}
.title{color:var(--p);font-size:24px;font-weight:700;margin:0}
.sub{color:var(--muted);margin:4px 0 0 0}
h2{color:var(--p)}
table{width:100%%;border-collapse:collapse;font-size:12px;margin:12px 0 28px}
thead th{background:var(--p);color:#fff;text-transform:uppercase;font-size:11px;padding:8px;border:1px solid var(--p)}
tbody td{padding:8px;border-bottom:1px solid var(--line)}
tbody tr:nth-child(even){background:var(--alt)}
.num{font-variant-numeric:tabular-nums;text-align:right}
.center{text-align:center}
.overdue{background:#%s}
.tot td{background:var(--s);color:#fff;font-weight:700}
.meta{background:#%s;padding:10px;border-radius:6px;margin:10px 0 18px;display:flex;gap:24px}
.meta b{color:var(--p)}
`, t.Primary, t.Secondary, t.Ink, t.Muted, t.Line, t.Alt, t.OverdueFill, t.BgSoft)
}
