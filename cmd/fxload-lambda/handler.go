package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/logging"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Event is the optional invocation payload. Scheduled invocations send an
// empty or unrelated payload and run with the environment configuration.
type Event struct {
	Mode          string `json:"mode,omitempty"`
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	StorageURI    string `json:"storage_uri,omitempty"`
	TargetTable   string `json:"target_table,omitempty"`
}

// Response is returned to the invoker on success.
type Response struct {
	RunID        string   `json:"run_id"`
	Worksheets   int      `json:"worksheets"`
	Rows         int      `json:"rows"`
	Artifacts    []string `json:"artifacts"`
	RowsCopied   int64    `json:"rows_copied"`
	RowsUpserted int64    `json:"rows_upserted"`
}

type runner interface {
	Run(ctx context.Context, cfg config.Config) (fxload.PipelineResult, error)
}

type handler struct {
	lookup    func(string) (string, bool)
	newRunner func(fxload.Logger) runner
}

func (h *handler) Handle(ctx context.Context, payload json.RawMessage) (Response, error) {
	var ev Event
	if len(payload) > 0 {
		// Schedulers send their own event shapes; unknown fields are ignored.
		if err := json.Unmarshal(payload, &ev); err != nil {
			ev = Event{}
		}
	}

	cfg, err := config.Load(config.LoadOptions{
		Flags: config.Settings{
			Mode:          ev.Mode,
			SheetID:       ev.SpreadsheetID,
			S3URI:         ev.StorageURI,
			RedshiftTable: ev.TargetTable,
		},
		Lookup:     h.lookup,
		SkipDotEnv: true,
	})
	if err != nil {
		return Response{}, err
	}

	logger := logging.NewConsoleLogger(cfg.LogLevel, cfg.PipelineName)
	result, err := h.newRunner(logger).Run(ctx, cfg)
	if err != nil {
		return Response{}, fmt.Errorf("run failed (exit code %d): %w", fxload.ExitCodeForError(err), err)
	}

	artifacts := make([]string, len(result.Artifacts))
	for i, a := range result.Artifacts {
		artifacts[i] = a.Locator
	}
	return Response{
		RunID:        result.RunID.String(),
		Worksheets:   result.Worksheets,
		Rows:         result.Rows,
		Artifacts:    artifacts,
		RowsCopied:   result.Load.RowsCopied,
		RowsUpserted: result.Load.RowsUpserted,
	}, nil
}
