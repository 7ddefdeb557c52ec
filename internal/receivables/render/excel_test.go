package render

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	receivables "ar-reporter/internal/receivables/domain"
)

func sampleEntry(customer, currency string, total, paid float64, daysSince int) receivables.ReceivableEntry {
	entry := receivables.ReceivableEntry{
		CustomerName: customer,
		Module:       "Invoice",
		InvoiceDate:  time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		Folio:        "1001",
		ArrivalDate:  time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
		Reference:    "PO-77",
		Currency:     currency,
		FXRate:       1,
		Subtotal:     total,
		Total:        total,
		Paid:         paid,
		Balance:      total - paid,
		DaysSince:    daysSince,
		AgingBucket:  receivables.ClassifyBucket(daysSince),
	}
	return entry
}

func sampleReport() *receivables.AggregatedReport {
	return receivables.Aggregate([]receivables.ReceivableEntry{
		sampleEntry("ACME Corp", "USD", 100, 40, 12),
		sampleEntry("ACME Corp", "USD", 200, 100, 60),
		sampleEntry("Globex", "USD", 50, 0, 25),
		sampleEntry("ACME Corp", "MXN", 300, 0, 5),
	})
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func rawCell(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("cell %s!%s: %v", sheet, cell, err)
	}
	return v
}

func rawCellFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	v := rawCell(t, f, sheet, cell)
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		t.Fatalf("cell %s!%s = %q is not numeric", sheet, cell, v)
	}
	return n
}

func TestExcelRenderSheets(t *testing.T) {
	report := sampleReport()
	filters := multiFilters()
	schema := NewSchema(filters)

	data, err := NewExcelRenderer(DefaultTheme()).Render(report, schema, filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, data)

	for _, want := range []string{"CURRENCY MXN", "CURRENCY USD", "SUMMARY MXN", "SUMMARY USD", "Main Report"} {
		if idx, _ := f.GetSheetIndex(want); idx < 0 {
			t.Errorf("missing sheet %q; have %v", want, f.GetSheetList())
		}
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
		t.Error("default Sheet1 should be removed")
	}
}

func TestExcelDetailSheetTotals(t *testing.T) {
	report := sampleReport()
	filters := multiFilters()
	schema := NewSchema(filters)

	data, err := NewExcelRenderer(DefaultTheme()).Render(report, schema, filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, data)

	// Multi-customer detail: customer column leads, headers on row 4.
	if got := rawCell(t, f, "CURRENCY USD", "A4"); got != "CUSTOMER" {
		t.Errorf("A4 header = %q, want CUSTOMER", got)
	}
	if got := rawCell(t, f, "CURRENCY USD", "A5"); got != "ACME Corp" {
		t.Errorf("first data customer = %q", got)
	}

	// Three USD entries: data rows 5..7, totals on row 8. Total column F,
	// payments H, balance I.
	if got := rawCellFloat(t, f, "CURRENCY USD", "F8"); got != 350 {
		t.Errorf("USD total = %v, want 350", got)
	}
	if got := rawCellFloat(t, f, "CURRENCY USD", "H8"); got != 140 {
		t.Errorf("USD payments = %v, want 140", got)
	}
	if got := rawCellFloat(t, f, "CURRENCY USD", "I8"); got != 210 {
		t.Errorf("USD balance = %v, want 210", got)
	}
	if got := rawCell(t, f, "CURRENCY USD", "A8"); got != "TOTALS (USD):" {
		t.Errorf("totals label = %q", got)
	}
}

func TestExcelSummarySheet(t *testing.T) {
	report := sampleReport()
	filters := multiFilters()
	schema := NewSchema(filters)

	data, err := NewExcelRenderer(DefaultTheme()).Render(report, schema, filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, data)

	// Summary headers on row 3, customers sorted: ACME Corp row 4,
	// Globex row 5, grand totals row 6. Total balance is column B.
	if got := rawCell(t, f, "SUMMARY USD", "A3"); got != "CUSTOMER" {
		t.Errorf("A3 header = %q", got)
	}
	if got := rawCell(t, f, "SUMMARY USD", "A4"); got != "ACME Corp" {
		t.Errorf("first summary customer = %q", got)
	}
	if got := rawCellFloat(t, f, "SUMMARY USD", "B4"); got != 160 {
		t.Errorf("ACME total balance = %v, want 160", got)
	}
	if got := rawCellFloat(t, f, "SUMMARY USD", "B6"); got != 210 {
		t.Errorf("grand total balance = %v, want 210", got)
	}
	// Overdue column D: every USD entry is past due.
	if got := rawCellFloat(t, f, "SUMMARY USD", "D6"); got != 210 {
		t.Errorf("grand overdue = %v, want 210", got)
	}
}

func TestExcelMainSheetSpansCurrencies(t *testing.T) {
	report := sampleReport()
	filters := multiFilters()
	schema := NewSchema(filters)

	data, err := NewExcelRenderer(DefaultTheme()).Render(report, schema, filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, data)

	if got := rawCell(t, f, "Main Report", "C1"); got != "ACCOUNTS RECEIVABLE AGING REPORT" {
		t.Errorf("banner title = %q", got)
	}
	if got := rawCell(t, f, "Main Report", "H4"); got != receivables.DefaultCustomerName {
		t.Errorf("customer label = %q", got)
	}
	// Four entries across currencies: headers row 6, data 7..10, totals 11.
	// Balance is master column L.
	if got := rawCellFloat(t, f, "Main Report", "L11"); got != 510 {
		t.Errorf("grand balance = %v, want 510", got)
	}
	// MXN sorts first, so the first data row carries its currency code in H.
	if got := rawCell(t, f, "Main Report", "H7"); got != "MXN" {
		t.Errorf("first master currency = %q, want MXN", got)
	}
}

func TestExcelSingleCustomerOmitsCustomerColumn(t *testing.T) {
	report := receivables.Aggregate([]receivables.ReceivableEntry{
		sampleEntry("ACME Corp", "USD", 100, 40, 12),
	})
	filters := singleFilters()
	schema := NewSchema(filters)

	data, err := NewExcelRenderer(DefaultTheme()).Render(report, schema, filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, data)

	if got := rawCell(t, f, "CURRENCY USD", "A4"); got != "REFERENCE" {
		t.Errorf("single-customer A4 header = %q, want REFERENCE", got)
	}
	if got := rawCell(t, f, "SUMMARY USD", "A3"); got != "TOTAL BALANCE" {
		t.Errorf("single-customer summary A3 header = %q, want TOTAL BALANCE", got)
	}
	// The master sheet keeps the customer column regardless of mode.
	if got := rawCell(t, f, "Main Report", "A6"); got != "CUSTOMER" {
		t.Errorf("master A6 header = %q, want CUSTOMER", got)
	}
}

func TestExcelLiveFormulas(t *testing.T) {
	report := sampleReport()
	filters := multiFilters()
	schema := NewSchema(filters)

	data, err := NewExcelRenderer(DefaultTheme(), WithLiveFormulas(true)).Render(report, schema, filters)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := openWorkbook(t, data)

	formula, err := f.GetCellFormula("CURRENCY USD", "I8")
	if err != nil {
		t.Fatalf("formula: %v", err)
	}
	if formula != "SUM(I5:I7)" {
		t.Errorf("balance total formula = %q, want SUM(I5:I7)", formula)
	}
}

func TestExcelEmptyReportStillProducesWorkbook(t *testing.T) {
	filters := multiFilters()
	schema := NewSchema(filters)
	data, err := NewExcelRenderer(DefaultTheme()).Render(&receivables.AggregatedReport{}, schema, filters)
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	f := openWorkbook(t, data)
	if idx, _ := f.GetSheetIndex("Main Report"); idx < 0 {
		t.Error("empty workbook should still carry the Main Report sheet")
	}
}

func TestExcelNilReport(t *testing.T) {
	filters := multiFilters()
	if _, err := NewExcelRenderer(DefaultTheme()).Render(nil, NewSchema(filters), filters); err == nil {
		t.Fatal("expected error for nil report")
	}
}
