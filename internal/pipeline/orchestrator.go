package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/fxload/internal/aggregate"
	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/stage"
	"github.com/vvka-141/fxload/internal/warehouse"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Orchestrator sequences aggregation, staging and loading.
type Orchestrator struct {
	logger   fxload.Logger
	factory  CollaboratorFactory
	newRunID func() uuid.UUID
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCollaborators replaces the collaborator factory with fixed collaborators.
func WithCollaborators(c Collaborators) Option {
	return func(o *Orchestrator) {
		o.factory = func(context.Context, config.Config, fxload.Logger) (Collaborators, error) {
			return c, nil
		}
	}
}

// WithFactory sets the collaborator factory.
func WithFactory(f CollaboratorFactory) Option {
	return func(o *Orchestrator) { o.factory = f }
}

// New creates an Orchestrator. Panics if logger is nil.
func New(logger fxload.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		panic("logger cannot be nil")
	}
	o := &Orchestrator{
		logger:   logger,
		factory:  DefaultCollaborators,
		newRunID: uuid.New,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one pipeline run, bounded by cfg.Timeout when it is set. The returned error is
// one of the fxload typed errors; the failure has already been logged.
func (o *Orchestrator) Run(ctx context.Context, cfg config.Config) (fxload.PipelineResult, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		o.logger.Critical("Configuration invalid: %v", err)
		return fxload.PipelineResult{}, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	result := fxload.PipelineResult{
		RunID:    o.newRunID(),
		Pipeline: cfg.PipelineName,
		Mode:     cfg.Mode,
	}
	o.logger.Info("Run %s started (mode %s, spreadsheet %s, target %s)",
		result.RunID, cfg.Mode, cfg.SpreadsheetID, cfg.TargetTable)

	collab, err := o.factory(ctx, cfg, o.logger)
	if err != nil {
		err = &fxload.ConfigError{Invalid: []string{err.Error()}}
		o.logger.Critical("Run %s failed: %v", result.RunID, err)
		return fxload.PipelineResult{}, err
	}

	artifacts, worksheets, rows, err := o.extractAndStage(ctx, cfg, collab)
	if err != nil {
		o.logger.Critical("Run %s failed: %v", result.RunID, err)
		return fxload.PipelineResult{}, err
	}
	result.Artifacts = artifacts
	result.Worksheets = worksheets
	result.Rows = rows

	step := time.Now()
	loader := warehouse.NewLoader(collab.Connector, collab.Dialect, o.logger)
	report, err := loader.LoadArtifacts(ctx, artifacts, cfg.TargetTable)
	if err != nil {
		o.logger.Critical("Run %s failed: %v", result.RunID, err)
		return fxload.PipelineResult{}, err
	}
	o.logger.Info("Load finished in %s", time.Since(step).Round(time.Millisecond))

	result.Load = report
	result.Duration = time.Since(start)
	o.logger.Info("Run %s succeeded: %d worksheet(s), %d row(s), %d new in %s",
		result.RunID, result.Worksheets, result.Rows, report.RowsUpserted, result.Duration.Round(time.Millisecond))
	return result, nil
}

func (o *Orchestrator) extractAndStage(ctx context.Context, cfg config.Config, collab Collaborators) ([]fxload.ArtifactHandle, int, int, error) {
	aggregator := aggregate.New(collab.Source, o.logger, aggregate.WithConcurrency(cfg.SheetsConcurrency))
	stager := stage.New(collab.Store, o.logger)

	step := time.Now()
	switch cfg.Mode {
	case fxload.ModePerPair:
		sets, err := aggregator.PerPair(ctx, cfg.SpreadsheetID)
		if err != nil {
			return nil, 0, 0, err
		}
		o.logger.Info("Read %d worksheet(s) in %s", len(sets), time.Since(step).Round(time.Millisecond))

		if err := checkDistinctLocators(cfg.StorageURI, sets); err != nil {
			return nil, 0, 0, err
		}

		step = time.Now()
		artifacts := make([]fxload.ArtifactHandle, 0, len(sets))
		rows := 0
		for _, set := range sets {
			handle, err := stager.Stage(ctx, set.Rows, stage.PairLocator(cfg.StorageURI, set.Pair))
			if err != nil {
				return nil, 0, 0, err
			}
			artifacts = append(artifacts, handle)
			rows += len(set.Rows)
		}
		o.logger.Info("Staged %d artifact(s) in %s", len(artifacts), time.Since(step).Round(time.Millisecond))
		return artifacts, len(sets), rows, nil

	default:
		sets, err := aggregator.PerPair(ctx, cfg.SpreadsheetID)
		if err != nil {
			return nil, 0, 0, err
		}
		rows := aggregate.Concat(sets)
		o.logger.Info("Read %d worksheet(s), %d row(s) in %s", len(sets), len(rows), time.Since(step).Round(time.Millisecond))

		step = time.Now()
		handle, err := stager.Stage(ctx, rows, cfg.StorageURI)
		if err != nil {
			return nil, 0, 0, err
		}
		o.logger.Info("Staged %s in %s", handle.Locator, time.Since(step).Round(time.Millisecond))
		return []fxload.ArtifactHandle{handle}, len(sets), len(rows), nil
	}
}

// checkDistinctLocators rejects two worksheets that would be staged at the
// same locator, such as "A_2B" and "A2_B" which both map to A__B.csv.
func checkDistinctLocators(base string, sets []fxload.PairRowSet) error {
	seen := make(map[string]fxload.PairLabel, len(sets))
	for _, s := range sets {
		locator := stage.PairLocator(base, s.Pair)
		if prev, ok := seen[locator]; ok {
			return &fxload.LabelError{
				Label:  s.Pair.String(),
				Reason: fmt.Sprintf("stages to %s, as does worksheet pair %s", locator, prev),
			}
		}
		seen[locator] = s.Pair
	}
	return nil
}
