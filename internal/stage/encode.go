package stage

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// Encode renders rows as CSV. Fields are quoted only when they contain a
// comma, quote or line break.
func Encode(rows fxload.RowSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(32 * (len(rows) + 1))

	w := csv.NewWriter(&buf)
	w.UseCRLF = false

	if err := w.Write(fxload.CanonicalColumns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(fxload.CanonicalColumns))
	for i, r := range rows {
		record[0] = r.Date.Format(fxload.DateLayout)
		record[1] = r.CurrencyFrom
		record[2] = r.CurrencyTo
		record[3] = r.Close.String()
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
