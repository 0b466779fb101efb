package export

import (
	"encoding/csv"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"campaigndash/internal/table"
)

// utf8BOM is written before the header row.
const utf8BOM = "\ufeff"

// WriteCSV writes t as comma-separated UTF-8 with a byte order mark and a
// header row.
func WriteCSV(w io.Writer, t *table.Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return goerr.Wrap(err, "writing csv")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return goerr.Wrap(err, "writing csv header")
	}
	if err := cw.WriteAll(t.Strings()); err != nil {
		return goerr.Wrap(err, "writing csv rows")
	}
	return nil
}
