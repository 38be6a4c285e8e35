package fxload

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// SpreadsheetSource produces rows per named worksheet.
type SpreadsheetSource interface {
	// ListWorksheets returns the worksheets of a spreadsheet in enumeration order.
	ListWorksheets(ctx context.Context, spreadsheetID string) ([]Worksheet, error)

	// ReadAll returns the full contents of one worksheet.
	ReadAll(ctx context.Context, spreadsheetID string, ws Worksheet) (RawTable, error)
}

// ObjectStore durably stores a named blob.
type ObjectStore interface {
	// Put writes body at locator, replacing any previous object.
	Put(ctx context.Context, locator string, body []byte) error
}

// Connector establishes a warehouse connection.
// Different implementations handle the supported authentication methods.
type Connector interface {
	Connect(ctx context.Context) (DBConnection, error)
}

// DBConnection is an open warehouse connection able to start transactions.
// The caller must Close it when done.
type DBConnection interface {
	Begin(ctx context.Context) (DBTx, error)
	Close()
}

// DBTx is a single warehouse transaction.
// Rollback after Commit is a no-op, so callers may defer it.
type DBTx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Row represents a single row returned by QueryRow.
type Row interface {
	Scan(dest ...any) error
}
