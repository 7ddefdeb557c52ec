package render

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dateLayoutLong  = "01/02/2006"
	dateLayoutShort = "01/02/06"
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders an amount with thousands separators and exactly two
// decimals, e.g. "1,234.50".
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%.2f", v)
}

// formatDate renders a date, empty for the zero value.
func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// formatDateOrdinal renders "March 1st, 2024" style dates for page headers.
func formatDateOrdinal(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", t.Month().String(), ordinal(t.Day()), t.Year())
}

func ordinal(n int) string {
	if n%100 >= 10 && n%100 <= 20 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// abbrevDocType shortens document types for the narrow paginated columns.
func abbrevDocType(module string) string {
	switch module {
	case "Invoice":
		return "Inv"
	case "Credit Note":
		return "CrNote"
	case "Sales Order":
		return "SO"
	case "Customer Payment":
		return "Pmt"
	}
	if len(module) > 5 {
		return module[:5]
	}
	return module
}

// wrapText soft-wraps at width characters into at most two lines, keeping
// up to overflow further characters on the second line. Counts runes, not
// bytes, so multibyte names split cleanly.
func wrapText(s string, width, overflow int) []string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return []string{s}
	}
	rest := runes[width:]
	if len(rest) > overflow {
		rest = rest[:overflow]
	}
	return []string{string(runes[:width]), string(rest)}
}

// safeSheetTitle sanitizes a workbook sheet name: the characters
// [ ] : * ? / \ are replaced and the result capped at 31 characters.
func safeSheetTitle(s string) string {
	replacer := strings.NewReplacer("[", " ", "]", " ", ":", " ", "*", " ", "?", " ", "/", " ", "\\", " ")
	s = replacer.Replace(s)
	if len(s) > 31 {
		s = s[:31]
	}
	s = strings.TrimRight(s, " ")
	if s == "" {
		return "Sheet"
	}
	return s
}
