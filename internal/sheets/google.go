package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// GoogleSource reads worksheets through the Google Sheets API v4.
type GoogleSource struct {
	svc *gsheets.Service
}

// NewGoogleSource authenticates with a service-account key and returns a
// read-only source.
func NewGoogleSource(ctx context.Context, serviceAccountJSON []byte, opts ...option.ClientOption) (*GoogleSource, error) {
	jwt, err := google.JWTConfigFromJSON(serviceAccountJSON, gsheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}

	opts = append([]option.ClientOption{option.WithTokenSource(jwt.TokenSource(ctx))}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSource{svc: svc}, nil
}

// NewGoogleSourceFromService wraps an already configured service.
func NewGoogleSourceFromService(svc *gsheets.Service) *GoogleSource {
	if svc == nil {
		panic("svc cannot be nil")
	}
	return &GoogleSource{svc: svc}
}

func (s *GoogleSource) ListWorksheets(ctx context.Context, spreadsheetID string) ([]fxload.Worksheet, error) {
	resp, err := s.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	worksheets := make([]fxload.Worksheet, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		worksheets = append(worksheets, fxload.Worksheet{
			ID:    sh.Properties.SheetId,
			Title: sh.Properties.Title,
			Index: int(sh.Properties.Index),
		})
	}
	return worksheets, nil
}

// ReadAll fetches every populated cell of the worksheet. Numbers are
// returned unformatted so that close keeps full precision; dates come back
// as their displayed string.
func (s *GoogleSource) ReadAll(ctx context.Context, spreadsheetID string, ws fxload.Worksheet) (fxload.RawTable, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, quoteSheetName(ws.Title)).
		MajorDimension("ROWS").
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return fxload.RawTable{}, fmt.Errorf("failed to read values: %w", err)
	}

	if len(resp.Values) == 0 {
		return fxload.RawTable{}, nil
	}

	table := fxload.RawTable{Header: stringRow(resp.Values[0])}
	for _, row := range resp.Values[1:] {
		table.Rows = append(table.Rows, stringRow(row))
	}
	return table, nil
}

// quoteSheetName turns a worksheet title into an A1 range covering the
// whole sheet.
func quoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func stringRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}
