// Package table provides a schema-on-read, immutable in-memory table used for
// one dashboard load cycle.
package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a column or a single value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

// String returns the kind name shown in column info.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Value is a single cell. The zero Value is a missing text cell.
type Value struct {
	Kind    Kind
	Missing bool
	Num     float64
	Str     string
	Time    time.Time
}

// Missing returns a missing value.
func Missing() Value { return Value{Missing: true} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Text returns a text value. Blank strings are missing.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Missing()
	}
	return Value{Kind: KindText, Str: s}
}

// Date returns a date value.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// IsMissing reports whether the cell has no value.
func (v Value) IsMissing() bool {
	return v.Missing || (v.Kind == KindText && v.Str == "")
}

// String renders the value as display text. Missing values render empty.
func (v Value) String() string {
	if v.IsMissing() {
		return ""
	}
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Num)
	case KindDate:
		return FormatDate(v.Time)
	default:
		return v.Str
	}
}

// Float returns the numeric payload of the value. Text values are parsed;
// text that spells NaN or an infinity is not a number.
func (v Value) Float() (float64, bool) {
	if v.IsMissing() {
		return 0, false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Interface returns the value as a plain Go value for encoders:
// nil, float64, string or time.Time. Non-finite numbers are nil.
func (v Value) Interface() any {
	if v.IsMissing() {
		return nil
	}
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return nil
		}
		return v.Num
	case KindDate:
		return v.Time
	default:
		return v.Str
	}
}

// FormatNumber renders integral floats without a fractional part.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatDate renders a date, including the clock only when it is set.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// dateLayouts are tried in order when inferring date columns from text.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"01-02-06",
	"2/1/2006",
}

// ParseDate parses s with the layouts spreadsheets usually produce.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Parse converts a raw cell from a source into a Value. Strings stay text;
// column inference decides whether a text column is really numeric or dated.
func Parse(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Missing()
	case Value:
		return v
	case string:
		return Text(v)
	case float64:
		if math.IsNaN(v) {
			return Missing()
		}
		return Number(v)
	case float32:
		return Parse(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case bool:
		return Text(strconv.FormatBool(v))
	case time.Time:
		if v.IsZero() {
			return Missing()
		}
		return Date(v)
	default:
		return Missing()
	}
}
