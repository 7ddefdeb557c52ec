package receivables

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func classifiedEntry(customer, currency string, balance float64, daysSince int) ReceivableEntry {
	return ReceivableEntry{
		CustomerName: customer,
		Currency:     currency,
		Total:        balance,
		Balance:      balance,
		DaysSince:    daysSince,
		AgingBucket:  ClassifyBucket(daysSince),
	}
}

func TestAggregateSingleCurrencySummary(t *testing.T) {
	entries := []ReceivableEntry{
		classifiedEntry("ACME", "MXN", 100, 10),
		classifiedEntry("ACME", "MXN", 50, 25),
	}
	report := Aggregate(entries)

	group, ok := report.Groups["MXN"]
	if !ok {
		t.Fatal("expected MXN group")
	}
	summary := group.AgingSummary["ACME"]
	if !almostEqual(summary.TotalBalance, 150) {
		t.Errorf("total_balance = %v, want 150", summary.TotalBalance)
	}
	if !almostEqual(summary.Overdue, 150) {
		t.Errorf("overdue = %v, want 150", summary.Overdue)
	}
	if !almostEqual(summary.NotYetDue, 0) {
		t.Errorf("not_yet_due = %v, want 0", summary.NotYetDue)
	}
	if !almostEqual(summary.Bucket0To21, 100) || !almostEqual(summary.Bucket22To30, 50) {
		t.Errorf("bucket split = %v / %v, want 100 / 50", summary.Bucket0To21, summary.Bucket22To30)
	}
	if !almostEqual(group.Totals.Balance, 150) {
		t.Errorf("group balance = %v, want 150", group.Totals.Balance)
	}
}

func TestAggregateConservation(t *testing.T) {
	entries := []ReceivableEntry{
		classifiedEntry("A", "USD", 10, -5),
		classifiedEntry("A", "USD", 20, 0),
		classifiedEntry("A", "USD", 30, 15),
		classifiedEntry("A", "USD", 40, 28),
		classifiedEntry("A", "USD", 50, 44),
		classifiedEntry("A", "USD", 60, 90),
	}
	summary := Aggregate(entries).Groups["USD"].AgingSummary["A"]

	if !almostEqual(summary.TotalBalance, summary.NotYetDue+summary.Overdue) {
		t.Errorf("total %v != not_yet_due %v + overdue %v",
			summary.TotalBalance, summary.NotYetDue, summary.Overdue)
	}
	if !almostEqual(summary.Overdue, 30+40+50+60) {
		t.Errorf("overdue = %v, want 180", summary.Overdue)
	}
	buckets := summary.Bucket0To21 + summary.Bucket22To30 + summary.Bucket31To45 + summary.Bucket45Plus
	// The zero-day entry lands in both not_yet_due and the 0-21 bucket, so
	// the bucket sum exceeds overdue by exactly that balance.
	if !almostEqual(buckets, summary.Overdue+20) {
		t.Errorf("bucket sum = %v, want overdue + 20 = %v", buckets, summary.Overdue+20)
	}
}

func TestAccumulateFutureDatedEntryLandsInNoBucket(t *testing.T) {
	var s AgingSummary
	s.Accumulate(10, -5)
	if !almostEqual(s.NotYetDue, 10) {
		t.Errorf("not_yet_due = %v, want 10", s.NotYetDue)
	}
	if !almostEqual(s.Overdue, 0) {
		t.Errorf("overdue = %v, want 0", s.Overdue)
	}
	buckets := s.Bucket0To21 + s.Bucket22To30 + s.Bucket31To45 + s.Bucket45Plus
	if !almostEqual(buckets, 0) {
		t.Errorf("bucket sum = %v, want 0; split %v/%v/%v/%v",
			buckets, s.Bucket0To21, s.Bucket22To30, s.Bucket31To45, s.Bucket45Plus)
	}
}

func TestAccumulateZeroDayEntryCountsTwice(t *testing.T) {
	var s AgingSummary
	s.Accumulate(75, 0)
	if !almostEqual(s.NotYetDue, 75) {
		t.Errorf("not_yet_due = %v, want 75", s.NotYetDue)
	}
	if !almostEqual(s.Overdue, 0) {
		t.Errorf("overdue = %v, want 0", s.Overdue)
	}
	if !almostEqual(s.Bucket0To21, 75) {
		t.Errorf("bucket_0_21 = %v, want 75", s.Bucket0To21)
	}
}

func TestAggregateSkipsEmptyCurrency(t *testing.T) {
	report := Aggregate([]ReceivableEntry{
		classifiedEntry("A", "", 10, 5),
		classifiedEntry("A", "USD", 20, 5),
	})
	if len(report.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(report.Groups))
	}
	if _, ok := report.Groups["USD"]; !ok {
		t.Fatal("expected USD group to survive")
	}
}

func TestCurrenciesSorted(t *testing.T) {
	report := Aggregate([]ReceivableEntry{
		classifiedEntry("A", "USD", 1, 1),
		classifiedEntry("A", "EUR", 1, 1),
		classifiedEntry("A", "MXN", 1, 1),
	})
	got := report.Currencies()
	want := []string{"EUR", "MXN", "USD"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("currency order = %v, want %v", got, want)
		}
	}
}

func TestSortedCustomersAndGrandSummary(t *testing.T) {
	report := Aggregate([]ReceivableEntry{
		classifiedEntry("Zeta", "USD", 10, 5),
		classifiedEntry("Alpha", "USD", 30, 50),
	})
	group := report.Groups["USD"]
	names := group.SortedCustomers()
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Zeta" {
		t.Fatalf("customer order = %v", names)
	}
	grand := group.GrandSummary()
	if !almostEqual(grand.TotalBalance, 40) {
		t.Errorf("grand total = %v, want 40", grand.TotalBalance)
	}
	if !almostEqual(grand.Bucket45Plus, 30) {
		t.Errorf("grand 45+ bucket = %v, want 30", grand.Bucket45Plus)
	}
}

func TestAllEntriesPreservesGroupOrder(t *testing.T) {
	report := Aggregate([]ReceivableEntry{
		classifiedEntry("A", "USD", 1, 1),
		classifiedEntry("B", "EUR", 2, 1),
		classifiedEntry("C", "USD", 3, 1),
	})
	entries := report.AllEntries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// EUR sorts before USD; within USD, input order holds.
	if entries[0].Currency != "EUR" || entries[1].CustomerName != "A" || entries[2].CustomerName != "C" {
		t.Fatalf("unexpected flatten order: %+v", entries)
	}
}

func TestEmptyReport(t *testing.T) {
	var nilReport *AggregatedReport
	if !nilReport.Empty() {
		t.Error("nil report should be empty")
	}
	if !Aggregate(nil).Empty() {
		t.Error("report with no entries should be empty")
	}
	if Aggregate([]ReceivableEntry{classifiedEntry("A", "USD", 1, 1)}).Empty() {
		t.Error("populated report should not be empty")
	}
}

func TestEndToEndClassifyThenAggregate(t *testing.T) {
	asOf := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	entry := ReceivableEntry{
		CustomerName: "ACME",
		Currency:     "USD",
		ArrivalDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Total:        500,
		Balance:      500,
	}
	Classify(&entry, asOf)
	report := Aggregate([]ReceivableEntry{entry})

	summary := report.Groups["USD"].AgingSummary["ACME"]
	if !almostEqual(summary.Bucket45Plus, 500) {
		t.Errorf("bucket_45_plus = %v, want 500", summary.Bucket45Plus)
	}
	if !almostEqual(summary.Overdue, 500) {
		t.Errorf("overdue = %v, want 500", summary.Overdue)
	}
}
