// Package deadline classifies rows by days remaining until their deadline and
// selects the critical ones.
package deadline

import (
	"math"

	"campaigndash/internal/table"
)

// Label is the deadline severity of a row. Labels are ordered from most to
// least severe, with Unknown last.
type Label int

const (
	Overdue Label = iota
	DueToday
	Urgent
	DueNextWeek
	OnTrack
	Unknown
)

// Labels lists every label in severity order.
var Labels = []Label{Overdue, DueToday, Urgent, DueNextWeek, OnTrack, Unknown}

var labelNames = map[Label]string{
	Overdue:     "Overdue",
	DueToday:    "Due Today",
	Urgent:      "Urgent (1-3 days)",
	DueNextWeek: "Due Next Week",
	OnTrack:     "On Track",
	Unknown:     "Unknown",
}

// String returns the display text of the label.
func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return labelNames[Unknown]
}

// Slug returns a stable identifier for metrics, CSS classes and the API.
func (l Label) Slug() string {
	switch l {
	case Overdue:
		return "overdue"
	case DueToday:
		return "due_today"
	case Urgent:
		return "urgent"
	case DueNextWeek:
		return "due_next_week"
	case OnTrack:
		return "on_track"
	default:
		return "unknown"
	}
}

// MarshalText encodes the label as its slug.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.Slug()), nil
}

// IsCritical reports whether the label needs attention now.
func (l Label) IsCritical() bool {
	return l == Overdue || l == DueToday || l == Urgent
}

// Classify maps a days-remaining cell to its label. The value is converted to
// a float and truncated toward zero; anything that is not a finite number is
// Unknown. Classify never fails.
func Classify(v table.Value) Label {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return Unknown
	}
	return classifyDays(math.Trunc(f))
}

// ClassifyAny classifies a raw Go value such as an int, float or string.
func ClassifyAny(raw any) Label {
	return Classify(table.Parse(raw))
}

func classifyDays(d float64) Label {
	switch {
	case d < 0:
		return Overdue
	case d == 0:
		return DueToday
	case d <= 3:
		return Urgent
	case d <= 7:
		return DueNextWeek
	default:
		return OnTrack
	}
}

// ParseLabel returns the label whose display text is s.
func ParseLabel(s string) (Label, bool) {
	for _, l := range Labels {
		if labelNames[l] == s {
			return l, true
		}
	}
	return Unknown, false
}
