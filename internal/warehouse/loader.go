package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// Loader merges staged artifacts into a target table.
type Loader struct {
	connector fxload.Connector
	dialect   Dialect
	logger    fxload.Logger
}

// NewLoader creates a Loader. Panics if any dependency is nil.
func NewLoader(connector fxload.Connector, dialect Dialect, logger fxload.Logger) *Loader {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Loader{connector: connector, dialect: dialect, logger: logger}
}

// Load empties the stage table, copies every artifact into it and inserts
// the rows whose key the target does not have yet, all in one transaction.
// On any error the transaction is rolled back and nothing is changed.
func (l *Loader) Load(ctx context.Context, locators []string, targetTable string) (fxload.LoadReport, error) {
	artifacts := make([]fxload.ArtifactHandle, len(locators))
	for i, locator := range locators {
		artifacts[i] = fxload.ArtifactHandle{Locator: locator, Rows: -1}
	}
	return l.LoadArtifacts(ctx, artifacts, targetTable)
}

// LoadArtifacts is Load for staged artifacts of known size. The load fails
// at the copy step when the warehouse reports a different row count for an
// artifact than was staged, which happens when a Redshift COPY prefix also
// matches other objects. A negative Rows skips the check.
func (l *Loader) LoadArtifacts(ctx context.Context, artifacts []fxload.ArtifactHandle, targetTable string) (report fxload.LoadReport, err error) {
	table, err := ParseTable(targetTable)
	if err != nil {
		return fxload.LoadReport{}, &fxload.ConfigError{Invalid: []string{err.Error()}}
	}

	start := time.Now()
	conn, err := l.connector.Connect(ctx)
	if err != nil {
		return fxload.LoadReport{}, &fxload.ConnectionError{Err: err}
	}
	defer conn.Close()
	l.logger.Debug("Connected to warehouse (%s) in %s", l.dialect.Name(), time.Since(start).Round(time.Millisecond))

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fxload.LoadReport{}, &fxload.ConnectionError{Err: err}
	}
	defer func() {
		if err == nil {
			return
		}
		// The caller's context may already be cancelled; the rollback must still go out.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			l.logger.Error("Rollback failed: %v", rbErr)
			return
		}
		l.logger.Warning("Load of %s rolled back", table.Name)
	}()

	step := time.Now()
	if _, err = tx.Exec(ctx, l.dialect.ClearStageSQL(table)); err != nil {
		return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepTruncate, Table: table.Stage, Err: err}
	}
	l.logger.Debug("Emptied %s in %s", table.Stage, time.Since(step).Round(time.Millisecond))

	for _, artifact := range artifacts {
		step = time.Now()
		var copySQL string
		copySQL, err = l.dialect.CopySQL(table, artifact.Locator)
		if err != nil {
			return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepCopy, Table: table.Stage, Err: err}
		}
		tag, execErr := tx.Exec(ctx, copySQL)
		if execErr != nil {
			err = execErr
			return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepCopy, Table: table.Stage, Err: err}
		}
		var copied int64
		copied, err = l.dialect.CopiedRows(ctx, tx, tag)
		if err != nil {
			return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepCopy, Table: table.Stage, Err: err}
		}
		if artifact.Rows >= 0 && copied != int64(artifact.Rows) {
			err = fmt.Errorf("copied %d row(s) from %s but %d were staged; another object may share its key prefix",
				copied, artifact.Locator, artifact.Rows)
			return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepCopy, Table: table.Stage, Err: err}
		}
		report.RowsCopied += copied
		l.logger.Debug("Copied %d row(s) from %s in %s", copied, artifact.Locator, time.Since(step).Round(time.Millisecond))
	}

	step = time.Now()
	tag, err := tx.Exec(ctx, upsertSQL(table))
	if err != nil {
		return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepUpsert, Table: table.Name, Err: err}
	}
	report.RowsUpserted = tag.RowsAffected()
	l.logger.Debug("Inserted %d new row(s) into %s in %s", report.RowsUpserted, table.Name, time.Since(step).Round(time.Millisecond))

	if err = tx.Commit(ctx); err != nil {
		return fxload.LoadReport{}, &fxload.LoadError{Step: fxload.StepCommit, Table: table.Name, Err: err}
	}

	l.logger.Info("Loaded %s: %d row(s) staged, %d new in %s",
		table.Name, report.RowsCopied, report.RowsUpserted, time.Since(start).Round(time.Millisecond))
	return report, nil
}
