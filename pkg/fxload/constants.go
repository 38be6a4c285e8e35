package fxload

import "time"

// Exit codes for semantic error classification.
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Pipeline completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid or incomplete configuration
	ExitConnectionError  = 11 // Failed to connect to the warehouse
	ExitWorksheetError   = 12 // Spreadsheet unreadable, bad label or bad schema
	ExitLoadFailed       = 13 // Warehouse load transaction failed
	ExitStageWriteFailed = 14 // Artifact could not be written to object storage
)

// Canonical schema.
const (
	ColumnDate         = "date"
	ColumnCurrencyFrom = "currency_from"
	ColumnCurrencyTo   = "currency_to"
	ColumnClose        = "close"

	// PairSeparator splits a worksheet title into from/to currency codes.
	PairSeparator = "2"

	// DateLayout is the ISO-8601 calendar date layout used in artifacts.
	DateLayout = "2006-01-02"

	// StageTableSuffix is appended to the target table to name the stage table.
	StageTableSuffix = "_stage"
)

// CanonicalColumns lists the canonical columns in artifact and COPY order.
var CanonicalColumns = []string{ColumnDate, ColumnCurrencyFrom, ColumnCurrencyTo, ColumnClose}

const (
	// DefaultPipelineName is used in logs when no pipeline name is configured.
	DefaultPipelineName = "UNNAMED"

	// DefaultTimeout bounds a whole pipeline run.
	DefaultTimeout = 10 * time.Minute

	// DefaultAWSRegion is used for S3 when no region is configured.
	DefaultAWSRegion = "us-east-1"

	// DefaultRetryInitialDelay is the initial delay before the first connect retry.
	DefaultRetryInitialDelay = 200 * time.Millisecond

	// DefaultRetryMaxDelay caps the delay between connect retries.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the number of connect retries after the first attempt.
	DefaultRetryMaxAttempts = 3

	// DefaultAppName is reported to the warehouse as application_name.
	DefaultAppName = "fxload"
)
