package export

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"campaigndash/internal/table"
)

const isoDateTime = "2006-01-02T15:04:05"

// WriteJSON writes t as an indented array of records keyed by column name.
// Keys keep column order, non-ASCII text is written literally, missing
// values are null and dates use ISO 8601.
func WriteJSON(w io.Writer, t *table.Table) error {
	records := make([]record, t.NumRows())
	names := t.Names()
	for r := range records {
		records[r] = record{names: names, values: t.Row(r)}
	}
	if records == nil {
		records = []record{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return goerr.Wrap(err, "writing json")
	}
	return nil
}

// record is one row with ordered keys.
type record struct {
	names  []string
	values []table.Value
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(jsonValue(r.values[i])); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue converts a cell to the value encoded for it.
func jsonValue(v table.Value) any {
	if v.IsMissing() {
		return nil
	}
	switch v.Kind {
	case table.KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return nil
		}
		return v.Num
	case table.KindDate:
		return isoDate(v.Time)
	default:
		return v.Str
	}
}

func isoDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(isoDateTime)
}
