package postgres

import (
	"context"
	"database/sql"
	"errors"

	receivables "ar-reporter/internal/receivables/domain"
)

// CustomerRepository serves the customer filter list.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository constructs a customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// ListCustomers returns non-deleted customers ordered by name.
func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]receivables.Customer, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("customer repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT customer_id, customer_name
FROM customers
WHERE NOT COALESCE(deleted, FALSE)
ORDER BY customer_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []receivables.Customer
	for rows.Next() {
		var customer receivables.Customer
		if err := rows.Scan(&customer.ID, &customer.Name); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
