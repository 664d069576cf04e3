package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// visitDateLayouts lists the date forms a visit may carry: datetime-local
// inputs, RFC 3339 timestamps, PocketBase datetimes and plain dates.
var visitDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05Z",
	"2006-01-02",
}

var frPrinter = message.NewPrinter(language.French)

// ParseVisitDate parses a visit date in any of the accepted layouts. Dates
// without a zone are read as UTC.
func ParseVisitDate(raw string) (time.Time, bool) {
	return ParseVisitDateIn(raw, time.UTC)
}

// ParseVisitDateIn is like ParseVisitDate but reads dates without a zone in
// loc. PocketBase datetimes end in Z and stay UTC.
func ParseVisitDateIn(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range visitDateLayouts {
		in := loc
		if strings.HasSuffix(layout, "Z") {
			in = time.UTC
		}
		if t, err := time.ParseInLocation(layout, raw, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatVisitDate renders a visit date as a French short date (02/01/2006).
// Empty input gives an empty string; unparseable input is returned as is.
func FormatVisitDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t, ok := ParseVisitDate(raw)
	if !ok {
		return raw
	}
	return t.Format("02/01/2006")
}

// FormatDecimalFR prints a number with the shortest exact representation and a
// decimal comma, the way French spreadsheets expect CSV values.
func FormatDecimalFR(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// FormatWatts renders a power in watts with French digit grouping.
func FormatWatts(w float64) string {
	return frPrinter.Sprintf("%.0f W", w)
}

// FormatKWh renders an energy figure with two decimals and a decimal comma.
func FormatKWh(kwh float64) string {
	return frPrinter.Sprintf("%.2f", kwh)
}

// formatQty returns whole numbers without decimals and fractional values with two.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
