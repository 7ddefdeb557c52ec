package postgres

import (
	"context"
	"database/sql"
	"errors"

	receivables "ar-reporter/internal/receivables/domain"
)

// RowFetcher reads ledger rows from the receivable_documents reporting
// view. The view exposes one row per open invoice, credit note, sales
// order, or payment line.
type RowFetcher struct {
	db *sql.DB
}

// NewRowFetcher constructs a row fetcher.
func NewRowFetcher(db *sql.DB) *RowFetcher {
	return &RowFetcher{db: db}
}

// FetchRows returns rows with invoice dates up to and including the as-of
// date, optionally narrowed to one customer, ordered by customer, invoice
// date, folio. Nullable columns come back as nil pointers for the
// normalizer to default.
func (r *RowFetcher) FetchRows(ctx context.Context, filters receivables.ReportFilters) ([]receivables.RawRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("row fetcher: nil db")
	}

	query := `
SELECT customer_name, module, invoice_date, folio, arrival_date, due_date,
	reference, currency, fx_rate, subtotal, total, paid, balance
FROM receivable_documents
WHERE invoice_date < $1::date + INTERVAL '1 day'`
	args := []any{filters.AsOf}
	if filters.CustomerID != nil {
		query += " AND customer_id = $2"
		args = append(args, *filters.CustomerID)
	}
	query += " ORDER BY customer_name, invoice_date, folio"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []receivables.RawRow
	for rows.Next() {
		var (
			customer, module, folio, reference, currency sql.NullString
			invoiceDate, arrivalDate, dueDate            sql.NullTime
			fxRate, subtotal, total, paid, balance       sql.NullFloat64
		)
		if err := rows.Scan(
			&customer, &module, &invoiceDate, &folio, &arrivalDate, &dueDate,
			&reference, &currency, &fxRate, &subtotal, &total, &paid, &balance,
		); err != nil {
			return nil, err
		}
		row := receivables.RawRow{
			CustomerName: nullString(customer),
			Module:       nullString(module),
			Folio:        nullString(folio),
			Reference:    nullString(reference),
			Currency:     nullString(currency),
			FXRate:       nullFloat(fxRate),
			Subtotal:     nullFloat(subtotal),
			Total:        nullFloat(total),
			Paid:         nullFloat(paid),
			Balance:      nullFloat(balance),
		}
		if invoiceDate.Valid {
			row.InvoiceDate = invoiceDate.Time
		}
		if arrivalDate.Valid {
			row.ArrivalDate = arrivalDate.Time
		}
		if dueDate.Valid {
			row.DueDate = dueDate.Time
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
