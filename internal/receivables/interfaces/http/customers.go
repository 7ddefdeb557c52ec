package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ar-reporter/internal/observability/metrics"
	receivables "ar-reporter/internal/receivables/domain"
)

// CustomerLister serves the customer filter dropdown.
type CustomerLister interface {
	ListCustomers(ctx context.Context) ([]receivables.Customer, error)
}

// CustomersHandler serves GET /api/v1/filters/customers.
type CustomersHandler struct {
	lister CustomerLister
}

// NewCustomersHandler constructs a customers handler.
func NewCustomersHandler(lister CustomerLister) (*CustomersHandler, error) {
	if lister == nil {
		return nil, errors.New("customers handler: nil lister")
	}
	return &CustomersHandler{lister: lister}, nil
}

// ServeHTTP lists customers for the report filter.
func (h *CustomersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	customers, err := h.lister.ListCustomers(r.Context())
	if err != nil {
		metrics.ObserveCustomerList(metrics.ResultError)
		http.Error(w, "customer list error", http.StatusInternalServerError)
		return
	}
	if customers == nil {
		customers = []receivables.Customer{}
	}
	metrics.ObserveCustomerList(metrics.ResultSuccess)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(customers)
}
