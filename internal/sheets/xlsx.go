package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// XLSXSource reads worksheets from a local workbook. The spreadsheet ID is
// the workbook path.
type XLSXSource struct{}

func NewXLSXSource() *XLSXSource {
	return &XLSXSource{}
}

func (s *XLSXSource) ListWorksheets(ctx context.Context, path string) ([]fxload.Worksheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	worksheets := make([]fxload.Worksheet, 0, len(names))
	for i, name := range names {
		worksheets = append(worksheets, fxload.Worksheet{
			ID:    int64(i),
			Title: name,
			Index: i,
		})
	}
	return worksheets, nil
}

// ReadAll returns raw cell values. Date cells stored as Excel serial
// numbers in the date column are converted to ISO dates.
func (s *XLSXSource) ReadAll(ctx context.Context, path string, ws fxload.Worksheet) (fxload.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fxload.RawTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ws.Title, excelize.Options{RawCellValue: true})
	if err != nil {
		return fxload.RawTable{}, fmt.Errorf("failed to read worksheet %s: %w", ws.Title, err)
	}
	if len(rows) == 0 {
		return fxload.RawTable{}, nil
	}

	table := fxload.RawTable{Header: rows[0], Rows: rows[1:]}

	dateIdx := -1
	for i, name := range table.Header {
		if strings.EqualFold(strings.TrimSpace(name), fxload.ColumnDate) {
			dateIdx = i
			break
		}
	}
	if dateIdx >= 0 {
		for _, row := range table.Rows {
			if dateIdx < len(row) {
				row[dateIdx] = serialToDate(row[dateIdx])
			}
		}
	}
	return table, nil
}

// serialToDate converts an Excel serial date ("45293") to "2024-01-02".
// Anything that is not a number is returned unchanged.
func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(fxload.DateLayout)
}
