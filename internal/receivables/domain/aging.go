package receivables

import "time"

// Aging bucket labels. The order of the classification rules matters: at
// days_since == 0 both the "Not Due" and "0-21" ranges match and the first
// rule wins.
const (
	BucketUnclassified = "N/A"
	BucketNotDue       = "Not Due"
	Bucket0To21        = "0-21"
	Bucket22To30       = "22-30"
	Bucket31To45       = "31-45"
	Bucket45Plus       = "45+"
)

// DaysSince returns whole days from arrival to asOf. Either date being
// unset degrades to 0 rather than failing; aging then classifies as not
// due, which only affects bucketing, never monetary totals.
func DaysSince(asOf, arrival time.Time) int {
	if asOf.IsZero() || arrival.IsZero() {
		return 0
	}
	return int(truncateDay(asOf).Sub(truncateDay(arrival)).Hours() / 24)
}

// ClassifyBucket assigns the per-entry aging bucket for a day count.
func ClassifyBucket(daysSince int) string {
	switch {
	case daysSince <= 0:
		return BucketNotDue
	case daysSince <= 21:
		return Bucket0To21
	case daysSince <= 30:
		return Bucket22To30
	case daysSince <= 45:
		return Bucket31To45
	default:
		return Bucket45Plus
	}
}

// Classify sets the two derived fields of an entry from the as-of date.
// After this the entry is treated as immutable.
func Classify(entry *ReceivableEntry, asOf time.Time) {
	entry.DaysSince = DaysSince(asOf, entry.ArrivalDate)
	entry.AgingBucket = ClassifyBucket(entry.DaysSince)
}

func truncateDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
