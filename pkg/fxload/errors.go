package fxload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for each failure class.
// Every typed error below matches exactly one of these via errors.Is,
// so callers can classify failures without type assertions.
//
//	_, err := orchestrator.Run(ctx, cfg)
//	if errors.Is(err, fxload.ErrLabel) {
//	    // a worksheet title is not a currency pair
//	}
var (
	// ErrConfig indicates missing or malformed configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrLabel indicates a worksheet title that is not a "<FROM>2<TO>" pair.
	ErrLabel = errors.New("invalid worksheet label")

	// ErrSchema indicates worksheet data that does not fit the canonical schema.
	ErrSchema = errors.New("invalid worksheet schema")

	// ErrStageWrite indicates an artifact could not be written to object storage.
	ErrStageWrite = errors.New("stage write failed")

	// ErrConnection indicates the warehouse could not be reached.
	ErrConnection = errors.New("connection failed")

	// ErrTruncate indicates the stage table could not be emptied.
	ErrTruncate = errors.New("truncate stage failed")

	// ErrLoad indicates a warehouse statement failed inside the load transaction.
	ErrLoad = errors.New("load failed")

	// ErrSource indicates the spreadsheet could not be listed or read.
	ErrSource = errors.New("spreadsheet read failed")
)

// ConfigError lists every configuration problem found in one pass.
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, "; "))
	}
	return fmt.Sprintf("%s: %s", ErrConfig, strings.Join(parts, "; "))
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Empty reports whether no problem was recorded.
func (e *ConfigError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// LabelError reports a worksheet title that does not parse into two currency codes.
type LabelError struct {
	Label  string
	Reason string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrLabel, e.Label, e.Reason)
}

func (e *LabelError) Is(target error) bool { return target == ErrLabel }

// SchemaError reports worksheet data that cannot be normalized.
// Row is the 1-based data row number, or 0 when the problem is with the header.
type SchemaError struct {
	Worksheet string
	Column    string
	Row       int
	Value     string
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s in worksheet %q: row %d column %q value %q: %s",
			ErrSchema, e.Worksheet, e.Row, e.Column, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s in worksheet %q: %s", ErrSchema, e.Worksheet, e.Reason)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// StageWriteError wraps a storage failure for one artifact.
type StageWriteError struct {
	Locator string
	Err     error
}

func (e *StageWriteError) Error() string {
	return fmt.Sprintf("%s for %s: %v", ErrStageWrite, e.Locator, e.Err)
}

func (e *StageWriteError) Is(target error) bool { return target == ErrStageWrite }
func (e *StageWriteError) Unwrap() error        { return e.Err }

// ConnectionError wraps a failure to connect to or begin work on the warehouse.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrConnection, e.Err)
}

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }
func (e *ConnectionError) Unwrap() error        { return e.Err }

// LoadStep names a step of the warehouse load transaction.
type LoadStep string

const (
	StepTruncate LoadStep = "truncate"
	StepCopy     LoadStep = "copy"
	StepUpsert   LoadStep = "upsert"
	StepCommit   LoadStep = "commit"
)

// LoadError reports a failed statement inside the load transaction.
// The transaction has already been rolled back when this error is returned.
type LoadError struct {
	Step  LoadStep
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s at step %s on %s: %v", ErrLoad, e.Step, e.Table, e.Err)
}

func (e *LoadError) Is(target error) bool {
	if target == ErrLoad {
		return true
	}
	return target == ErrTruncate && e.Step == StepTruncate
}

func (e *LoadError) Unwrap() error { return e.Err }

// SourceError wraps a spreadsheet collaborator failure.
type SourceError struct {
	Spreadsheet string
	Worksheet   string
	Err         error
}

func (e *SourceError) Error() string {
	if e.Worksheet != "" {
		return fmt.Sprintf("%s: spreadsheet %q worksheet %q: %v", ErrSource, e.Spreadsheet, e.Worksheet, e.Err)
	}
	return fmt.Sprintf("%s: spreadsheet %q: %v", ErrSource, e.Spreadsheet, e.Err)
}

func (e *SourceError) Is(target error) bool { return target == ErrSource }
func (e *SourceError) Unwrap() error        { return e.Err }

// ExitCodeForError returns the process exit code for an error.
// nil maps to ExitSuccess, unclassified errors to ExitGeneralError.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnection):
		return ExitConnectionError
	case errors.Is(err, ErrLabel), errors.Is(err, ErrSchema), errors.Is(err, ErrSource):
		return ExitWorksheetError
	case errors.Is(err, ErrLoad):
		return ExitLoadFailed
	case errors.Is(err, ErrStageWrite):
		return ExitStageWriteFailed
	}

	errStr := err.Error()
	for _, pattern := range usagePatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}

// usagePatterns are the cobra/pflag messages for command line misuse.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
}
