package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Normalize converts one worksheet into canonical rows. The worksheet
// title supplies the currency pair; the table supplies date and close.
func Normalize(table fxload.RawTable, worksheet string) (fxload.RowSet, error) {
	pair, err := fxload.ParsePairLabel(worksheet)
	if err != nil {
		return nil, err
	}

	dateIdx, closeIdx, err := locateColumns(table.Header, worksheet)
	if err != nil {
		return nil, err
	}

	rows := make(fxload.RowSet, 0, len(table.Rows))
	for i, raw := range table.Rows {
		rowNum := i + 1

		dateCell := cell(raw, dateIdx)
		date, err := ParseDate(dateCell)
		if err != nil {
			return nil, &fxload.SchemaError{
				Worksheet: worksheet,
				Column:    fxload.ColumnDate,
				Row:       rowNum,
				Value:     dateCell,
				Reason:    err.Error(),
			}
		}

		closeCell := cell(raw, closeIdx)
		closeValue, err := ParseClose(closeCell)
		if err != nil {
			return nil, &fxload.SchemaError{
				Worksheet: worksheet,
				Column:    fxload.ColumnClose,
				Row:       rowNum,
				Value:     closeCell,
				Reason:    err.Error(),
			}
		}

		rows = append(rows, fxload.CanonicalRow{
			Date:         date,
			CurrencyFrom: pair.From,
			CurrencyTo:   pair.To,
			Close:        closeValue,
		})
	}

	return rows, nil
}

// ParseClose parses a close price. Surrounding whitespace is ignored;
// an empty cell is an error because close is never null.
func ParseClose(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errEmptyClose
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errBadClose
	}
	return d, nil
}

func locateColumns(header []string, worksheet string) (dateIdx, closeIdx int, err error) {
	dateIdx, closeIdx = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case fxload.ColumnDate:
			if dateIdx < 0 {
				dateIdx = i
			}
		case fxload.ColumnClose:
			if closeIdx < 0 {
				closeIdx = i
			}
		}
	}

	var missing []string
	if dateIdx < 0 {
		missing = append(missing, fxload.ColumnDate)
	}
	if closeIdx < 0 {
		missing = append(missing, fxload.ColumnClose)
	}
	if len(missing) > 0 {
		return -1, -1, &fxload.SchemaError{
			Worksheet: worksheet,
			Reason:    "missing required column(s): " + strings.Join(missing, ", "),
		}
	}
	return dateIdx, closeIdx, nil
}

// cell returns the value at idx, or "" when the row is shorter than the
// header. Spreadsheet APIs omit trailing empty cells.
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
