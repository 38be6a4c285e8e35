// Package aggregate reads every worksheet of a spreadsheet and normalizes
// it into canonical rows, either concatenated or grouped per currency pair.
package aggregate

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/fxload/internal/normalize"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Aggregator walks the worksheets of one spreadsheet.
type Aggregator struct {
	source      fxload.SpreadsheetSource
	logger      fxload.Logger
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency fetches up to n worksheets at once. Values below 2 mean sequential.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) { a.concurrency = n }
}

// New creates an Aggregator. Panics if source or logger is nil.
func New(source fxload.SpreadsheetSource, logger fxload.Logger, opts ...Option) *Aggregator {
	if source == nil {
		panic("source cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	a := &Aggregator{source: source, logger: logger, concurrency: 1}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Consolidated returns the rows of every worksheet concatenated in
// enumeration order. Any worksheet failure aborts with no partial result.
func (a *Aggregator) Consolidated(ctx context.Context, spreadsheetID string) (fxload.RowSet, error) {
	sets, err := a.PerPair(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	return Concat(sets), nil
}

// Concat joins per-pair row-sets in order into one row-set.
func Concat(sets []fxload.PairRowSet) fxload.RowSet {
	total := 0
	for _, s := range sets {
		total += len(s.Rows)
	}
	rows := make(fxload.RowSet, 0, total)
	for _, s := range sets {
		rows = append(rows, s.Rows...)
	}
	return rows
}

// PerPair returns one row-set per worksheet in enumeration order.
// Any worksheet failure aborts with no partial result.
func (a *Aggregator) PerPair(ctx context.Context, spreadsheetID string) ([]fxload.PairRowSet, error) {
	worksheets, err := a.source.ListWorksheets(ctx, spreadsheetID)
	if err != nil {
		return nil, &fxload.SourceError{Spreadsheet: spreadsheetID, Err: err}
	}
	a.logger.Debug("Spreadsheet %s has %d worksheet(s)", spreadsheetID, len(worksheets))

	// Labels are checked up front so a bad title fails before any fetch.
	pairs := make([]fxload.PairLabel, len(worksheets))
	for i, ws := range worksheets {
		pair, err := fxload.ParsePairLabel(ws.Title)
		if err != nil {
			return nil, err
		}
		pairs[i] = pair
	}

	results := make([]fxload.PairRowSet, len(worksheets))

	if a.concurrency <= 1 {
		for i, ws := range worksheets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows, err := a.readWorksheet(ctx, spreadsheetID, ws)
			if err != nil {
				return nil, err
			}
			results[i] = fxload.PairRowSet{Pair: pairs[i], Rows: rows}
		}
		return results, nil
	}

	errs := make([]error, len(worksheets))
	// Every worksheet is read even after a failure so the error reported is
	// always the lowest-indexed one, as in a sequential run.
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, ws := range worksheets {
		g.Go(func() error {
			rows, err := a.readWorksheet(ctx, spreadsheetID, ws)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = fxload.PairRowSet{Pair: pairs[i], Rows: rows}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (a *Aggregator) readWorksheet(ctx context.Context, spreadsheetID string, ws fxload.Worksheet) (fxload.RowSet, error) {
	start := time.Now()

	table, err := a.source.ReadAll(ctx, spreadsheetID, ws)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &fxload.SourceError{Spreadsheet: spreadsheetID, Worksheet: ws.Title, Err: err}
	}

	rows, err := normalize.Normalize(table, ws.Title)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Worksheet %s: %d row(s) in %s", ws.Title, len(rows), time.Since(start).Round(time.Millisecond))
	return rows, nil
}
