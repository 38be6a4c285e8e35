package sheets

import (
	"context"
	"fmt"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// Source kinds accepted by NewSource.
const (
	KindGoogle = "google"
	KindXLSX   = "xlsx"
)

// NewSource builds the spreadsheet source for kind.
func NewSource(ctx context.Context, kind string, serviceAccountJSON []byte) (fxload.SpreadsheetSource, error) {
	switch kind {
	case KindGoogle, "":
		return NewGoogleSource(ctx, serviceAccountJSON)
	case KindXLSX:
		return NewXLSXSource(), nil
	default:
		return nil, fmt.Errorf("unsupported spreadsheet source: %s", kind)
	}
}
