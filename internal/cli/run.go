package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/logging"
	"github.com/vvka-141/fxload/internal/pipeline"
	"github.com/vvka-141/fxload/internal/tui"
	"github.com/vvka-141/fxload/pkg/fxload"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once",
	Long: `Run reads the spreadsheet, stages the rows and loads them into the warehouse.

The run stops at the first failure. A failed load is rolled back, so the
target table is either fully updated or unchanged. Artifacts staged before a
failure stay in object storage and are overwritten by the next run.

Secrets are read from the environment only:
  PIPELINE_GOOGLE_SERVICE_ACCOUNT     service account JSON (or --service-account-file)
  PIPELINE_AWS_ACCESS_KEY_ID          S3 and Redshift COPY credentials
  PIPELINE_AWS_SECRET_ACCESS_KEY
  PIPELINE_WAREHOUSE_AZURE_CLIENT_SECRET

Examples:
  # Consolidated run configured from the environment
  fxload run

  # One artifact per currency pair
  fxload run --mode per-pair --storage-uri s3://fx-artifacts/daily

  # Local workbook into a local PostgreSQL
  fxload run --sheets-source xlsx --sheet-id ./rates.xlsx \
    --storage-uri file:///var/lib/postgresql/fx/rates.csv \
    --dialect postgres --dsn postgresql://etl@localhost/fx --table fx_rates`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

// runner executes one pipeline run.
type runner interface {
	Run(ctx context.Context, cfg config.Config) (fxload.PipelineResult, error)
}

// newRunner is replaced in tests.
var newRunner = func(logger fxload.Logger) runner {
	return pipeline.New(logger)
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSettingsFlags(runCmd, &settingsFlags)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(cfg.LogLevel, cfg.PipelineName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling run...")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := newRunner(logger).Run(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderReport(result, isStyled(out)))
	return nil
}

func isStyled(w io.Writer) bool {
	return tui.IsStyled(w)
}
