package receivables

import "time"

// DefaultCustomerName labels reports that are not scoped to one customer.
const DefaultCustomerName = "(All Customers)"

// ReceivableEntry is one invoice, credit note, sales order, or payment line
// of the receivables ledger. DaysSince and AgingBucket are derived during
// classification and never supplied by the data source.
type ReceivableEntry struct {
	CustomerName string    `json:"customer_name"`
	Module       string    `json:"module"`
	InvoiceDate  time.Time `json:"invoice_date"`
	Folio        string    `json:"folio"`
	ArrivalDate  time.Time `json:"arrival_date"`
	DueDate      time.Time `json:"due_date"`
	Reference    string    `json:"reference"`
	Currency     string    `json:"currency"`
	FXRate       float64   `json:"fx_rate"`
	Subtotal     float64   `json:"subtotal"`
	Total        float64   `json:"total"`
	Paid         float64   `json:"paid"`
	Balance      float64   `json:"balance"`
	DaysSince    int       `json:"days_since"`
	AgingBucket  string    `json:"aging_bucket"`
}

// RawRow is one row as returned by the row-fetch contract. Pointer fields
// model nullable columns.
type RawRow struct {
	CustomerName *string
	Module       *string
	InvoiceDate  time.Time
	Folio        *string
	ArrivalDate  time.Time
	DueDate      time.Time
	Reference    *string
	Currency     *string
	FXRate       *float64
	Subtotal     *float64
	Total        *float64
	Paid         *float64
	Balance      *float64
}

// NormalizeRow maps a raw row onto a canonical entry. Null text becomes "",
// null numerics become 0, dates pass through unchanged. The derived fields
// stay at their placeholders until classification.
func NormalizeRow(row RawRow) ReceivableEntry {
	return ReceivableEntry{
		CustomerName: stringOrEmpty(row.CustomerName),
		Module:       stringOrEmpty(row.Module),
		InvoiceDate:  row.InvoiceDate,
		Folio:        stringOrEmpty(row.Folio),
		ArrivalDate:  row.ArrivalDate,
		DueDate:      row.DueDate,
		Reference:    stringOrEmpty(row.Reference),
		Currency:     stringOrEmpty(row.Currency),
		FXRate:       floatOrZero(row.FXRate),
		Subtotal:     floatOrZero(row.Subtotal),
		Total:        floatOrZero(row.Total),
		Paid:         floatOrZero(row.Paid),
		Balance:      floatOrZero(row.Balance),
		DaysSince:    0,
		AgingBucket:  BucketUnclassified,
	}
}

// ReportFilters drives both the row-fetch query and the layout mode.
type ReportFilters struct {
	AsOf         time.Time
	CustomerID   *int64
	CustomerName string
}

// SingleCustomer reports whether the request is scoped to one customer.
func (f ReportFilters) SingleCustomer() bool { return f.CustomerID != nil }

// DisplayCustomerName returns the customer label for report headers.
func (f ReportFilters) DisplayCustomerName() string {
	if f.CustomerName == "" {
		return DefaultCustomerName
	}
	return f.CustomerName
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
