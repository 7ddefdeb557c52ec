package receivables

import "sort"

// AgingSummary accumulates balances for one customer within one currency.
// Invariants: TotalBalance == NotYetDue + Overdue, and Overdue equals the
// sum of the four buckets.
type AgingSummary struct {
	TotalBalance float64 `json:"total_balance"`
	NotYetDue    float64 `json:"not_yet_due"`
	Overdue      float64 `json:"overdue"`
	Bucket0To21  float64 `json:"bucket_0_21"`
	Bucket22To30 float64 `json:"bucket_22_30"`
	Bucket31To45 float64 `json:"bucket_31_45"`
	Bucket45Plus float64 `json:"bucket_45_plus"`
}

// Accumulate folds one classified entry's balance into the summary.
// The aggregate split deliberately differs from per-entry classification:
// at daysSince == 0 the balance counts as not yet due and also lands in
// the 0-21 bucket.
func (s *AgingSummary) Accumulate(balance float64, daysSince int) {
	s.TotalBalance += balance
	if daysSince <= 0 {
		s.NotYetDue += balance
	} else {
		s.Overdue += balance
	}
	switch {
	case daysSince < 0:
		// future-dated entries land in no bucket
	case daysSince <= 21:
		s.Bucket0To21 += balance
	case daysSince <= 30:
		s.Bucket22To30 += balance
	case daysSince <= 45:
		s.Bucket31To45 += balance
	default:
		s.Bucket45Plus += balance
	}
}

// Add merges another summary into this one. Used for grand-total rows.
func (s *AgingSummary) Add(other AgingSummary) {
	s.TotalBalance += other.TotalBalance
	s.NotYetDue += other.NotYetDue
	s.Overdue += other.Overdue
	s.Bucket0To21 += other.Bucket0To21
	s.Bucket22To30 += other.Bucket22To30
	s.Bucket31To45 += other.Bucket31To45
	s.Bucket45Plus += other.Bucket45Plus
}

// CurrencyTotals holds currency-wide sums over all entries of a group.
type CurrencyTotals struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Balance float64 `json:"balance"`
}

// CurrencyGroup is one currency's full picture: its entries in stable input
// order, currency-wide totals, and the per-customer aging summaries.
type CurrencyGroup struct {
	Currency     string                  `json:"currency"`
	Entries      []ReceivableEntry       `json:"entries"`
	Totals       CurrencyTotals          `json:"totals"`
	AgingSummary map[string]AgingSummary `json:"aging_summary"`
}

// SortedCustomers returns the summary keys in ascending order. Map
// iteration order is undefined, so renderers go through this.
func (g *CurrencyGroup) SortedCustomers() []string {
	names := make([]string, 0, len(g.AgingSummary))
	for name := range g.AgingSummary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GrandSummary sums every customer summary in the group.
func (g *CurrencyGroup) GrandSummary() AgingSummary {
	var grand AgingSummary
	for _, summary := range g.AgingSummary {
		grand.Add(summary)
	}
	return grand
}

// AggregatedReport is the sole artifact handed to every renderer.
type AggregatedReport struct {
	Groups map[string]*CurrencyGroup `json:"data_by_currency"`
}

// Currencies returns the group keys in lexicographic order.
func (r *AggregatedReport) Currencies() []string {
	codes := make([]string, 0, len(r.Groups))
	for code := range r.Groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// AllEntries flattens every group's entries in currency order.
func (r *AggregatedReport) AllEntries() []ReceivableEntry {
	var entries []ReceivableEntry
	for _, code := range r.Currencies() {
		entries = append(entries, r.Groups[code].Entries...)
	}
	return entries
}

// Empty reports whether the report contains no currency groups.
func (r *AggregatedReport) Empty() bool { return r == nil || len(r.Groups) == 0 }

// Aggregate partitions classified entries by currency and builds each
// group's totals and per-customer summaries in one pass. Entries without a
// currency code are filtered out, not treated as an error.
func Aggregate(entries []ReceivableEntry) *AggregatedReport {
	report := &AggregatedReport{Groups: make(map[string]*CurrencyGroup)}
	for _, entry := range entries {
		if entry.Currency == "" {
			continue
		}
		group, ok := report.Groups[entry.Currency]
		if !ok {
			group = &CurrencyGroup{
				Currency:     entry.Currency,
				AgingSummary: make(map[string]AgingSummary),
			}
			report.Groups[entry.Currency] = group
		}
		group.Entries = append(group.Entries, entry)
		group.Totals.Total += entry.Total
		group.Totals.Paid += entry.Paid
		group.Totals.Balance += entry.Balance

		summary := group.AgingSummary[entry.CustomerName]
		summary.Accumulate(entry.Balance, entry.DaysSince)
		group.AgingSummary[entry.CustomerName] = summary
	}
	return report
}
