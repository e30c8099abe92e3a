package tui

import (
	"fmt"
	"time"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Placeholder stands in for values that are absent.
const Placeholder = "—"

// FormatOptional renders v with the given precision and unit, or the
// placeholder when v is nil.
func FormatOptional(v *float64, precision int, unit string) string {
	if v == nil {
		return Placeholder
	}
	s := fmt.Sprintf("%.*f", precision, *v)
	if unit != "" {
		s += " " + unit
	}
	return s
}

// FormatBloodPressure renders "120/80 mmHg".
func FormatBloodPressure(bp *v1.BloodPressure) string {
	if !bp.Complete() {
		return Placeholder
	}
	return fmt.Sprintf("%.0f/%.0f mmHg", *bp.Systolic, *bp.Diastolic)
}

// FormatDate renders t as DD/MM/YYYY in local time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Local().Format("02/01/2006")
}

// FormatDateTime renders t as DD/MM/YYYY HH:MM in local time.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Local().Format("02/01/2006 15:04")
}

// FormatRating renders a 1-5 rating as stars.
func FormatRating(r *int) string {
	if r == nil || *r < 1 {
		return Placeholder
	}
	n := min(*r, 5)
	stars := ""
	for i := 0; i < 5; i++ {
		if i < n {
			stars += "★"
		} else {
			stars += "☆"
		}
	}
	return stars
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
