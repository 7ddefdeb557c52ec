package receivables

import "errors"

var (
	// ErrNoData is returned when no ledger rows match the filters.
	ErrNoData = errors.New("receivables: no data for the selected filters")
	// ErrNilReport is returned when a renderer receives a nil report.
	ErrNilReport = errors.New("receivables: nil report")
	// ErrInvalidAsOf is returned when the as-of date is missing.
	ErrInvalidAsOf = errors.New("receivables: as-of date required")
)
