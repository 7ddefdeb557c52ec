package receivables

import (
	"testing"
	"time"
)

func TestNormalizeRowDefaults(t *testing.T) {
	entry := NormalizeRow(RawRow{})
	if entry.CustomerName != "" || entry.Folio != "" || entry.Currency != "" {
		t.Errorf("null text should normalize to empty strings: %+v", entry)
	}
	if entry.Balance != 0 || entry.Total != 0 || entry.FXRate != 0 {
		t.Errorf("null numerics should normalize to zero: %+v", entry)
	}
	if entry.AgingBucket != BucketUnclassified {
		t.Errorf("bucket placeholder = %q, want %q", entry.AgingBucket, BucketUnclassified)
	}
}

func TestNormalizeRowPassesValuesThrough(t *testing.T) {
	name := "ACME Corp"
	balance := 123.45
	invoiced := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	entry := NormalizeRow(RawRow{
		CustomerName: &name,
		Balance:      &balance,
		InvoiceDate:  invoiced,
	})
	if entry.CustomerName != name {
		t.Errorf("customer = %q, want %q", entry.CustomerName, name)
	}
	if entry.Balance != balance {
		t.Errorf("balance = %v, want %v", entry.Balance, balance)
	}
	if !entry.InvoiceDate.Equal(invoiced) {
		t.Errorf("invoice date = %v, want %v", entry.InvoiceDate, invoiced)
	}
}

func TestReportFiltersSingleCustomer(t *testing.T) {
	var f ReportFilters
	if f.SingleCustomer() {
		t.Error("empty filters should not be single-customer")
	}
	if f.DisplayCustomerName() != DefaultCustomerName {
		t.Errorf("display name = %q, want %q", f.DisplayCustomerName(), DefaultCustomerName)
	}

	id := int64(42)
	f = ReportFilters{CustomerID: &id, CustomerName: "ACME"}
	if !f.SingleCustomer() {
		t.Error("filters with a customer id should be single-customer")
	}
	if f.DisplayCustomerName() != "ACME" {
		t.Errorf("display name = %q, want ACME", f.DisplayCustomerName())
	}
}
