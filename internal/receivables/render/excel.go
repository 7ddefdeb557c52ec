package render

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	receivables "ar-reporter/internal/receivables/domain"
)

const (
	numFmtMoney = "$#,##0.00"
	numFmtDate  = "mm/dd/yyyy"
	numFmtRate  = "0.0000"
	numFmtInt   = "0"
	numFmtAsOf  = "mmmm d, yyyy"

	mainSheetName = "Main Report"
)

// ExcelOption configures the workbook renderer.
type ExcelOption func(*ExcelRenderer)

// WithLiveFormulas makes totals rows carry =SUM() formulas over the detail
// range instead of precomputed literals. Presentation nicety only; the
// literal mode is the default so rendered totals can be read back directly.
func WithLiveFormulas(enabled bool) ExcelOption {
	return func(r *ExcelRenderer) { r.liveFormulas = enabled }
}

// ExcelRenderer builds the tabular workbook: one detail sheet and one
// summary sheet per currency, then a combined Main Report sheet across all
// currencies.
type ExcelRenderer struct {
	theme        Theme
	liveFormulas bool
}

// NewExcelRenderer constructs a workbook renderer.
func NewExcelRenderer(theme Theme, opts ...ExcelOption) *ExcelRenderer {
	r := &ExcelRenderer{theme: theme}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format implements Renderer.
func (r *ExcelRenderer) Format() Format { return FormatExcel }

type excelStyles struct {
	title      int
	meta       int
	banner     int
	label      int
	header     int
	text       int
	textCenter int
	date       int
	money      int
	integer    int
	rate       int
	totalLabel int
	totalMoney int
	asOf       int
	overdue    int
}

// Render implements Renderer.
func (r *ExcelRenderer) Render(report *receivables.AggregatedReport, schema Schema, filters receivables.ReportFilters) ([]byte, error) {
	if report == nil {
		return nil, receivables.ErrNilReport
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := r.newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("excel styles: %w", err)
	}

	firstSheet := ""
	for _, code := range report.Currencies() {
		name, err := r.writeCurrencySheet(f, styles, report.Groups[code], schema, filters)
		if err != nil {
			return nil, err
		}
		if firstSheet == "" {
			firstSheet = name
		}
	}
	for _, code := range report.Currencies() {
		if _, err := r.writeSummarySheet(f, styles, report.Groups[code], schema, filters); err != nil {
			return nil, err
		}
	}
	if err := r.writeMainSheet(f, styles, report, schema, filters); err != nil {
		return nil, err
	}
	if firstSheet == "" {
		firstSheet = mainSheetName
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(firstSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel write: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ExcelRenderer) newStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	var err error

	borders := func() []excelize.Border {
		return []excelize.Border{
			{Type: "left", Color: r.theme.Line, Style: 1},
			{Type: "right", Color: r.theme.Line, Style: 1},
			{Type: "top", Color: r.theme.Line, Style: 1},
			{Type: "bottom", Color: r.theme.Line, Style: 1},
		}
	}
	solid := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center"}
	right := &excelize.Alignment{Horizontal: "right", Vertical: "center"}

	moneyFmt := numFmtMoney
	dateFmt := numFmtDate
	rateFmt := numFmtRate
	intFmt := numFmtInt
	asOfFmt := numFmtAsOf

	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: r.theme.Primary}, Alignment: center}); err != nil {
		return s, err
	}
	if s.meta, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: r.theme.Ink}, Alignment: center}); err != nil {
		return s, err
	}
	if s.banner, err = f.NewStyle(&excelize.Style{Fill: solid(r.theme.BgSoft)}); err != nil {
		return s, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: left, Fill: solid(r.theme.BgSoft)}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Alignment: center, Fill: solid(r.theme.Head), Border: borders()}); err != nil {
		return s, err
	}
	if s.text, err = f.NewStyle(&excelize.Style{Alignment: left, Border: borders()}); err != nil {
		return s, err
	}
	if s.textCenter, err = f.NewStyle(&excelize.Style{Alignment: center, Border: borders()}); err != nil {
		return s, err
	}
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt, Alignment: center, Border: borders()}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt, Alignment: center, Border: borders()}); err != nil {
		return s, err
	}
	if s.integer, err = f.NewStyle(&excelize.Style{CustomNumFmt: &intFmt, Alignment: center, Border: borders()}); err != nil {
		return s, err
	}
	if s.rate, err = f.NewStyle(&excelize.Style{CustomNumFmt: &rateFmt, Alignment: center, Border: borders()}); err != nil {
		return s, err
	}
	if s.totalLabel, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: right}); err != nil {
		return s, err
	}
	if s.totalMoney, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt, Font: &excelize.Font{Bold: true}, Fill: solid(r.theme.TotalFill), Alignment: center, Border: borders()}); err != nil {
		return s, err
	}
	if s.asOf, err = f.NewStyle(&excelize.Style{CustomNumFmt: &asOfFmt, Alignment: left, Fill: solid(r.theme.BgSoft)}); err != nil {
		return s, err
	}
	if s.overdue, err = f.NewConditionalStyle(&excelize.Style{Fill: solid(r.theme.OverdueFill)}); err != nil {
		return s, err
	}
	return s, nil
}

func (r *ExcelRenderer) writeCurrencySheet(f *excelize.File, styles excelStyles, group *receivables.CurrencyGroup, schema Schema, filters receivables.ReportFilters) (string, error) {
	sheet := safeSheetTitle("CURRENCY " + group.Currency)
	if _, err := f.NewSheet(sheet); err != nil {
		return "", err
	}

	lastCol, err := excelize.ColumnNumberToName(len(schema.Detail))
	if err != nil {
		return "", err
	}
	if err := f.MergeCell(sheet, "C1", lastCol+"1"); err != nil {
		return "", err
	}
	_ = f.SetCellValue(sheet, "C1", fmt.Sprintf("Receivables Aging — %s", group.Currency))
	_ = f.SetCellStyle(sheet, "C1", "C1", styles.title)
	if err := f.MergeCell(sheet, "C2", lastCol+"2"); err != nil {
		return "", err
	}
	_ = f.SetCellValue(sheet, "C2", fmt.Sprintf("As Of: %s • Customer: %s", filters.AsOf.Format(dateLayoutLong), filters.DisplayCustomerName()))
	_ = f.SetCellStyle(sheet, "C2", "C2", styles.meta)

	const headerRow = 4
	if err := r.writeTable(f, styles, sheet, schema.Detail, headerRow, group.Entries, tableTotals{
		label:  fmt.Sprintf("TOTALS (%s):", group.Currency),
		totals: map[Field]float64{FieldTotal: group.Totals.Total, FieldPaid: group.Totals.Paid, FieldBalance: group.Totals.Balance},
	}); err != nil {
		return "", err
	}
	return sheet, nil
}

func (r *ExcelRenderer) writeSummarySheet(f *excelize.File, styles excelStyles, group *receivables.CurrencyGroup, schema Schema, filters receivables.ReportFilters) (string, error) {
	sheet := safeSheetTitle("SUMMARY " + group.Currency)
	if _, err := f.NewSheet(sheet); err != nil {
		return "", err
	}

	lastCol, err := excelize.ColumnNumberToName(len(schema.Summary))
	if err != nil {
		return "", err
	}
	if err := f.MergeCell(sheet, "C1", lastCol+"1"); err != nil {
		return "", err
	}
	_ = f.SetCellValue(sheet, "C1", fmt.Sprintf("ACCOUNTS RECEIVABLE — SUMMARY (%s)", group.Currency))
	_ = f.SetCellStyle(sheet, "C1", "C1", styles.title)
	if err := f.MergeCell(sheet, "C2", lastCol+"2"); err != nil {
		return "", err
	}
	_ = f.SetCellValue(sheet, "C2", fmt.Sprintf("As Of: %s • Customer: %s", filters.AsOf.Format(dateLayoutLong), filters.DisplayCustomerName()))
	_ = f.SetCellStyle(sheet, "C2", "C2", styles.meta)

	const headerRow = 3
	for i, col := range schema.Summary {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return "", err
		}
		_ = f.SetCellValue(sheet, cell, col.Header)
		_ = f.SetCellStyle(sheet, cell, cell, styles.header)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, colName, colName, col.ExcelWidth)
	}

	grand := group.GrandSummary()
	row := headerRow + 1
	for _, customer := range group.SortedCustomers() {
		summary := group.AgingSummary[customer]
		for i, col := range schema.Summary {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return "", err
			}
			_ = f.SetCellValue(sheet, cell, col.SummaryValue(customer, summary))
			if col.Kind == KindMoney {
				_ = f.SetCellStyle(sheet, cell, cell, styles.money)
			} else {
				_ = f.SetCellStyle(sheet, cell, cell, styles.text)
			}
		}
		row++
	}
	if row == headerRow+1 {
		return sheet, nil
	}

	firstDataRow, lastDataRow := headerRow+1, row-1
	for i, col := range schema.Summary {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return "", err
		}
		if col.Kind != KindMoney {
			_ = f.SetCellValue(sheet, cell, "TOTALS:")
			_ = f.SetCellStyle(sheet, cell, cell, styles.totalLabel)
			continue
		}
		if err := r.setTotalCell(f, sheet, cell, i+1, firstDataRow, lastDataRow, col.SummaryValue("", grand)); err != nil {
			return "", err
		}
		_ = f.SetCellStyle(sheet, cell, cell, styles.totalMoney)
	}
	return sheet, nil
}

func (r *ExcelRenderer) writeMainSheet(f *excelize.File, styles excelStyles, report *receivables.AggregatedReport, schema Schema, filters receivables.ReportFilters) error {
	if _, err := f.NewSheet(mainSheetName); err != nil {
		return err
	}
	sheet := mainSheetName

	lastCol, err := excelize.ColumnNumberToName(len(schema.Master))
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet, "A1", lastCol+"5", styles.banner)
	if err := f.MergeCell(sheet, "C1", "N2"); err != nil {
		return err
	}
	_ = f.SetCellValue(sheet, "C1", "ACCOUNTS RECEIVABLE AGING REPORT")
	_ = f.SetCellStyle(sheet, "C1", "C1", styles.title)

	_ = f.SetCellValue(sheet, "C4", "AS OF:")
	_ = f.SetCellStyle(sheet, "C4", "C4", styles.label)
	_ = f.SetCellValue(sheet, "D4", filters.AsOf)
	_ = f.SetCellStyle(sheet, "D4", "D4", styles.asOf)
	_ = f.SetCellValue(sheet, "G4", "CUSTOMER:")
	_ = f.SetCellStyle(sheet, "G4", "G4", styles.label)
	_ = f.SetCellValue(sheet, "H4", filters.DisplayCustomerName())

	const headerRow = 6
	allEntries := report.AllEntries()
	var grand receivables.CurrencyTotals
	for _, entry := range allEntries {
		grand.Total += entry.Total
		grand.Paid += entry.Paid
		grand.Balance += entry.Balance
	}
	return r.writeTable(f, styles, sheet, schema.Master, headerRow, allEntries, tableTotals{
		label:  "TOTALS:",
		totals: map[Field]float64{FieldTotal: grand.Total, FieldPaid: grand.Paid, FieldBalance: grand.Balance},
	})
}

type tableTotals struct {
	label  string
	totals map[Field]float64
}

// writeTable emits a header row, entry rows, and a totals row for a detail
// column set starting at headerRow.
func (r *ExcelRenderer) writeTable(f *excelize.File, styles excelStyles, sheet string, cols []Column, headerRow int, entries []receivables.ReceivableEntry, totals tableTotals) error {
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		_ = f.SetCellValue(sheet, cell, col.Header)
		_ = f.SetCellStyle(sheet, cell, cell, styles.header)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, colName, colName, col.ExcelWidth)
	}

	firstDataRow := headerRow + 1
	for rowOffset, entry := range entries {
		row := firstDataRow + rowOffset
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			value := col.EntryValue(entry)
			if t, ok := value.(time.Time); ok && t.IsZero() {
				value = ""
			}
			_ = f.SetCellValue(sheet, cell, value)
			_ = f.SetCellStyle(sheet, cell, cell, r.cellStyle(styles, col))
		}
	}
	if len(entries) == 0 {
		return nil
	}
	lastDataRow := firstDataRow + len(entries) - 1

	// Totals row: label merged across the columns before the first money
	// column, sums aligned under their own columns.
	totalRow := lastDataRow + 1
	mergeEnd := firstMoneyIndex(cols)
	if mergeEnd > 1 {
		start, _ := excelize.CoordinatesToCellName(1, totalRow)
		end, _ := excelize.CoordinatesToCellName(mergeEnd, totalRow)
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
	}
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	_ = f.SetCellValue(sheet, labelCell, totals.label)
	_ = f.SetCellStyle(sheet, labelCell, labelCell, styles.totalLabel)
	for i, col := range cols {
		sum, ok := totals.totals[col.Field]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, totalRow)
		if err != nil {
			return err
		}
		if err := r.setTotalCell(f, sheet, cell, i+1, firstDataRow, lastDataRow, sum); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, cell, cell, styles.totalMoney)
	}

	lastColName, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A%d:%s%d", headerRow, lastColName, lastDataRow), nil); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", firstDataRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i, col := range cols {
		if col.Field != FieldDays {
			continue
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		ref := fmt.Sprintf("%s%d:%s%d", colName, firstDataRow, colName, lastDataRow)
		if err := f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{
			{Type: "cell", Criteria: ">", Value: "45", Format: styles.overdue},
		}); err != nil {
			return err
		}
	}
	return nil
}

// setTotalCell writes either a live SUM formula over the detail range or
// the precomputed literal, depending on renderer configuration.
func (r *ExcelRenderer) setTotalCell(f *excelize.File, sheet, cell string, col, firstRow, lastRow int, value any) error {
	if r.liveFormulas {
		colName, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		return f.SetCellFormula(sheet, cell, fmt.Sprintf("SUM(%s%d:%s%d)", colName, firstRow, colName, lastRow))
	}
	return f.SetCellValue(sheet, cell, value)
}

func (r *ExcelRenderer) cellStyle(styles excelStyles, col Column) int {
	switch col.Kind {
	case KindDate:
		return styles.date
	case KindMoney:
		return styles.money
	case KindInt:
		return styles.integer
	case KindRate:
		return styles.rate
	}
	if col.Field == FieldCustomer || col.Field == FieldReference {
		return styles.text
	}
	return styles.textCenter
}
