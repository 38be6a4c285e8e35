package fxload

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CanonicalRow is the normalized record every downstream stage consumes.
// Date is always a UTC calendar date (midnight).
type CanonicalRow struct {
	Date         time.Time
	CurrencyFrom string
	CurrencyTo   string
	Close        decimal.Decimal
}

// Key returns the merge key of the row.
func (r CanonicalRow) Key() RowKey {
	return RowKey{Date: r.Date.Format(DateLayout), CurrencyFrom: r.CurrencyFrom, CurrencyTo: r.CurrencyTo}
}

// RowKey identifies a row for merge purposes: (date, currency_from, currency_to).
type RowKey struct {
	Date         string
	CurrencyFrom string
	CurrencyTo   string
}

// RowSet is an ordered sequence of canonical rows.
type RowSet []CanonicalRow

// PairLabel is a currency pair parsed from a worksheet title of the form "<FROM>2<TO>".
type PairLabel struct {
	From string
	To   string
}

// String renders the label back in worksheet form.
func (p PairLabel) String() string {
	return p.From + PairSeparator + p.To
}

// ParsePairLabel splits a worksheet title on the first occurrence of the
// pair separator. Both sides are trimmed and must be non-empty.
func ParsePairLabel(title string) (PairLabel, error) {
	trimmed := strings.TrimSpace(title)
	from, to, found := strings.Cut(trimmed, PairSeparator)
	if !found {
		return PairLabel{}, &LabelError{Label: title, Reason: fmt.Sprintf("missing %q separator", PairSeparator)}
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return PairLabel{}, &LabelError{Label: title, Reason: "currency code must not be empty"}
	}
	return PairLabel{From: from, To: to}, nil
}

// PairRowSet is the per-worksheet output of per-pair aggregation.
type PairRowSet struct {
	Pair PairLabel
	Rows RowSet
}

// Worksheet identifies one worksheet of a spreadsheet.
// Title is used as the worksheet identifier (pair label).
type Worksheet struct {
	ID    int64
	Title string
	Index int
}

// RawTable is a worksheet as read from a spreadsheet: a header row plus
// data rows, all cells rendered as strings.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ArtifactHandle describes one staged artifact.
type ArtifactHandle struct {
	Locator string
	Rows    int
	Bytes   int
	SHA256  string
}

// LoadReport summarizes a warehouse load.
type LoadReport struct {
	RowsCopied   int64
	RowsUpserted int64
}

// AggregationMode selects how worksheets are turned into staged artifacts.
type AggregationMode int

const (
	// ModeConsolidated concatenates all worksheets into one artifact.
	ModeConsolidated AggregationMode = iota
	// ModePerPair stages one artifact per worksheet.
	ModePerPair
)

// String returns the configuration name of the mode.
func (m AggregationMode) String() string {
	switch m {
	case ModeConsolidated:
		return "consolidated"
	case ModePerPair:
		return "per-pair"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseAggregationMode parses a configuration value into a mode.
func ParseAggregationMode(s string) (AggregationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "consolidated":
		return ModeConsolidated, nil
	case "per-pair", "per_pair", "perpair":
		return ModePerPair, nil
	default:
		return 0, fmt.Errorf("unknown aggregation mode %q (want consolidated or per-pair)", s)
	}
}

// PipelineResult is the outcome of one successful pipeline run.
type PipelineResult struct {
	RunID      uuid.UUID
	Pipeline   string
	Mode       AggregationMode
	Worksheets int
	Rows       int
	Artifacts  []ArtifactHandle
	Load       LoadReport
	Duration   time.Duration
}

// AuthMethod selects how the loader authenticates to the warehouse.
type AuthMethod int

const (
	AuthMethodStandard AuthMethod = iota // credentials in the DSN
	AuthMethodAWSIAM                     // RDS/Aurora IAM token
	AuthMethodAzureEntraID               // Azure Entra ID token
	AuthMethodGoogleIAM                  // Cloud SQL IAM via the Cloud SQL connector
)

// String returns the configuration name of the method.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "standard"
	case AuthMethodAWSIAM:
		return "aws-iam"
	case AuthMethodAzureEntraID:
		return "azure"
	case AuthMethodGoogleIAM:
		return "google"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodGoogleIAM
}

// ParseAuthMethod parses a configuration value into an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return AuthMethodStandard, nil
	case "aws-iam", "aws":
		return AuthMethodAWSIAM, nil
	case "azure", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	case "google", "google-iam":
		return AuthMethodGoogleIAM, nil
	default:
		return 0, fmt.Errorf("unknown warehouse auth method %q (want standard, aws-iam, azure or google)", s)
	}
}

// Warehouse SQL dialects.
const (
	DialectRedshift = "redshift"
	DialectPostgres = "postgres"
)
