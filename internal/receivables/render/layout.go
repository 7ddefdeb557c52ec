package render

import (
	receivables "ar-reporter/internal/receivables/domain"
)

// Field identifies a report column symbolically. Renderers resolve values
// through the schema instead of positional offsets, so conditionally
// omitting the customer column cannot shift indexes.
type Field string

const (
	FieldCustomer    Field = "customer"
	FieldReference   Field = "reference"
	FieldDocument    Field = "document"
	FieldFolio       Field = "folio"
	FieldInvoiceDate Field = "invoice_date"
	FieldTotal       Field = "total"
	FieldArrivalDate Field = "arrival_date"
	FieldPaid        Field = "paid"
	FieldBalance     Field = "balance"
	FieldDueDate     Field = "due_date"
	FieldDays        Field = "days_since"
	FieldCurrency    Field = "currency"
	FieldFXRate      Field = "fx_rate"

	FieldTotalBalance Field = "total_balance"
	FieldNotYetDue    Field = "not_yet_due"
	FieldOverdue      Field = "overdue"
	FieldBucket0To21  Field = "bucket_0_21"
	FieldBucket22To30 Field = "bucket_22_30"
	FieldBucket31To45 Field = "bucket_31_45"
	FieldBucket45Plus Field = "bucket_45_plus"
)

// Kind drives per-cell formatting.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindMoney
	KindInt
	KindRate
)

// Column describes one report column for every renderer.
type Column struct {
	Field      Field
	Header     string
	PDFHeader  string
	Kind       Kind
	WidthMM    float64
	ExcelWidth float64
	// Wrap is the soft-wrap character budget in the paginated format.
	// Zero means no wrapping.
	Wrap int
}

// Schema is the column layout shared by all three renderers for one
// request. It is computed once from the filters and never varied per
// renderer.
type Schema struct {
	SingleCustomer bool
	Detail         []Column
	Summary        []Column
	// Master is the all-currencies sheet layout; it always carries the
	// customer, currency, and fx-rate columns regardless of mode.
	Master []Column
}

// NewSchema derives the layout for a request. A non-nil customer filter
// selects single-customer mode, which drops the leading customer column
// from the detail and summary tables.
func NewSchema(filters receivables.ReportFilters) Schema {
	customerDetail := Column{Field: FieldCustomer, Header: "CUSTOMER", PDFHeader: "CUSTOMER", Kind: KindText, WidthMM: 50, ExcelWidth: 28, Wrap: 25}
	detail := []Column{
		{Field: FieldReference, Header: "REFERENCE", PDFHeader: "REFERENCE", Kind: KindText, WidthMM: 60, ExcelWidth: 30, Wrap: 30},
		{Field: FieldDocument, Header: "DOCUMENT", PDFHeader: "DOC", Kind: KindText, WidthMM: 14, ExcelWidth: 14},
		{Field: FieldFolio, Header: "NO.", PDFHeader: "NO.", Kind: KindText, WidthMM: 12, ExcelWidth: 8},
		{Field: FieldInvoiceDate, Header: "INVOICE DATE", PDFHeader: "INV DATE", Kind: KindDate, WidthMM: 15, ExcelWidth: 12},
		{Field: FieldTotal, Header: "TOTAL AMOUNT", PDFHeader: "TOTAL", Kind: KindMoney, WidthMM: 24, ExcelWidth: 16},
		{Field: FieldArrivalDate, Header: "ARRIVAL DATE", PDFHeader: "ARR DATE", Kind: KindDate, WidthMM: 15, ExcelWidth: 14},
		{Field: FieldPaid, Header: "PAYMENTS", PDFHeader: "PAYMT", Kind: KindMoney, WidthMM: 22, ExcelWidth: 16},
		{Field: FieldBalance, Header: "BALANCE", PDFHeader: "BALANCE", Kind: KindMoney, WidthMM: 25, ExcelWidth: 16},
		{Field: FieldDueDate, Header: "DUE DATE", PDFHeader: "DUE DATE", Kind: KindDate, WidthMM: 15, ExcelWidth: 14},
		{Field: FieldDays, Header: "DAYS SINCE ARRIVAL", PDFHeader: "DAYS", Kind: KindInt, WidthMM: 14, ExcelWidth: 14},
	}

	customerSummary := Column{Field: FieldCustomer, Header: "CUSTOMER", PDFHeader: "CUSTOMER", Kind: KindText, WidthMM: 62, ExcelWidth: 30, Wrap: 30}
	summary := []Column{
		{Field: FieldTotalBalance, Header: "TOTAL BALANCE", PDFHeader: "TOTAL", Kind: KindMoney, WidthMM: 30, ExcelWidth: 18},
		{Field: FieldNotYetDue, Header: "NOT YET DUE", PDFHeader: "NOT DUE", Kind: KindMoney, WidthMM: 30, ExcelWidth: 18},
		{Field: FieldOverdue, Header: "OVERDUE", PDFHeader: "OVERDUE", Kind: KindMoney, WidthMM: 30, ExcelWidth: 18},
		{Field: FieldBucket0To21, Header: "0-21", PDFHeader: "0-21", Kind: KindMoney, WidthMM: 28, ExcelWidth: 12},
		{Field: FieldBucket22To30, Header: "22-30", PDFHeader: "22-30", Kind: KindMoney, WidthMM: 28, ExcelWidth: 12},
		{Field: FieldBucket31To45, Header: "31-45", PDFHeader: "31-45", Kind: KindMoney, WidthMM: 28, ExcelWidth: 12},
		{Field: FieldBucket45Plus, Header: "45+ DAYS", PDFHeader: "45+", Kind: KindMoney, WidthMM: 28, ExcelWidth: 12},
	}

	schema := Schema{SingleCustomer: filters.SingleCustomer()}
	if schema.SingleCustomer {
		schema.Detail = detail
		schema.Summary = summary
	} else {
		schema.Detail = append([]Column{customerDetail}, detail...)
		schema.Summary = append([]Column{customerSummary}, summary...)
	}

	schema.Master = []Column{
		{Field: FieldCustomer, Header: "CUSTOMER", Kind: KindText, ExcelWidth: 28},
		{Field: FieldReference, Header: "REFERENCE", Kind: KindText, ExcelWidth: 30},
		{Field: FieldDocument, Header: "DOCUMENT", Kind: KindText, ExcelWidth: 14},
		{Field: FieldInvoiceDate, Header: "INVOICE DATE", Kind: KindDate, ExcelWidth: 12},
		{Field: FieldFolio, Header: "NO.", Kind: KindText, ExcelWidth: 8},
		{Field: FieldArrivalDate, Header: "ARRIVAL DATE", Kind: KindDate, ExcelWidth: 14},
		{Field: FieldDueDate, Header: "DUE DATE", Kind: KindDate, ExcelWidth: 14},
		{Field: FieldCurrency, Header: "CURRENCY", Kind: KindText, ExcelWidth: 10},
		{Field: FieldFXRate, Header: "FX RATE", Kind: KindRate, ExcelWidth: 10},
		{Field: FieldTotal, Header: "TOTAL AMOUNT", Kind: KindMoney, ExcelWidth: 16},
		{Field: FieldPaid, Header: "PAYMENTS", Kind: KindMoney, ExcelWidth: 16},
		{Field: FieldBalance, Header: "BALANCE", Kind: KindMoney, ExcelWidth: 16},
		{Field: FieldDays, Header: "DAYS SINCE ARRIVAL", Kind: KindInt, ExcelWidth: 14},
	}
	return schema
}

// EntryValue resolves the column's value from a detail entry.
func (c Column) EntryValue(entry receivables.ReceivableEntry) any {
	switch c.Field {
	case FieldCustomer:
		return entry.CustomerName
	case FieldReference:
		return entry.Reference
	case FieldDocument:
		return entry.Module
	case FieldFolio:
		return entry.Folio
	case FieldInvoiceDate:
		return entry.InvoiceDate
	case FieldTotal:
		return entry.Total
	case FieldArrivalDate:
		return entry.ArrivalDate
	case FieldPaid:
		return entry.Paid
	case FieldBalance:
		return entry.Balance
	case FieldDueDate:
		return entry.DueDate
	case FieldDays:
		return entry.DaysSince
	case FieldCurrency:
		return entry.Currency
	case FieldFXRate:
		return entry.FXRate
	}
	return nil
}

// SummaryValue resolves the column's value from one customer's summary row.
func (c Column) SummaryValue(customer string, summary receivables.AgingSummary) any {
	switch c.Field {
	case FieldCustomer:
		return customer
	case FieldTotalBalance:
		return summary.TotalBalance
	case FieldNotYetDue:
		return summary.NotYetDue
	case FieldOverdue:
		return summary.Overdue
	case FieldBucket0To21:
		return summary.Bucket0To21
	case FieldBucket22To30:
		return summary.Bucket22To30
	case FieldBucket31To45:
		return summary.Bucket31To45
	case FieldBucket45Plus:
		return summary.Bucket45Plus
	}
	return nil
}

// moneyIndexes returns positions of money columns in cols.
func moneyIndexes(cols []Column) []int {
	var idx []int
	for i, col := range cols {
		if col.Kind == KindMoney {
			idx = append(idx, i)
		}
	}
	return idx
}

// firstMoneyIndex returns the position of the first money column, or -1.
func firstMoneyIndex(cols []Column) int {
	for i, col := range cols {
		if col.Kind == KindMoney {
			return i
		}
	}
	return -1
}
