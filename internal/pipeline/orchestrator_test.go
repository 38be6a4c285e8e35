package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/sheets"
	"github.com/vvka-141/fxload/internal/storage"
	"github.com/vvka-141/fxload/internal/warehouse"
	"github.com/vvka-141/fxload/pkg/fxload"
)

const sheetID = "rates"

func testConfig(t *testing.T, mode string) config.Config {
	t.Helper()
	cfg, err := config.Resolve(config.Settings{
		PipelineName:       "fx-test",
		Mode:               mode,
		SheetsSource:       sheets.KindXLSX,
		SheetID:            sheetID,
		S3URI:              "s3://bucket/fx/rates.csv",
		AWSAccessKeyID:     "AKIATEST",
		AWSSecretAccessKey: "secret",
		RedshiftDSN:        "postgres://etl:pw@cluster:5439/dev",
		RedshiftTable:      "public.fx_rates",
	})
	require.NoError(t, err)
	return cfg
}

func table(rows ...[]string) fxload.RawTable {
	return fxload.RawTable{Header: []string{"Date", "Close"}, Rows: rows}
}

func twoSheetSource() *sheets.MemorySource {
	src := sheets.NewMemorySource()
	src.Add(sheetID, "EUR2USD", table([]string{"2024-01-02", "1.095"}, []string{"2024-01-03", "1.092"}))
	src.Add(sheetID, "GBP2USD", table([]string{"2024-01-02", "1.27"}))
	return src
}

type harness struct {
	source *sheets.MemorySource
	store  *storage.MemoryStore
	wh     *fakeWarehouse
	orch   *Orchestrator
}

func newHarness(src *sheets.MemorySource) *harness {
	store := storage.NewMemoryStore()
	wh := newFakeWarehouse(store)
	orch := New(nullLogger{}, WithCollaborators(Collaborators{
		Source:    src,
		Store:     store,
		Connector: wh,
		Dialect:   warehouse.NewRedshiftDialect(warehouse.RedshiftOptions{IAMRole: "arn:aws:iam::1:role/copy"}),
	}))
	return &harness{source: src, store: store, wh: wh, orch: orch}
}

func key(date, from, to string) fxload.RowKey {
	return fxload.RowKey{Date: date, CurrencyFrom: from, CurrencyTo: to}
}

func TestRun_ConsolidatedLoadsEveryWorksheet(t *testing.T) {
	h := newHarness(twoSheetSource())

	result, err := h.orch.Run(context.Background(), testConfig(t, "consolidated"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, "fx-test", result.Pipeline)
	assert.Equal(t, 2, result.Worksheets)
	assert.Equal(t, 3, result.Rows)
	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, "s3://bucket/fx/rates.csv", result.Artifacts[0].Locator)
	assert.Equal(t, int64(3), result.Load.RowsCopied)
	assert.Equal(t, int64(3), result.Load.RowsUpserted)

	body, ok := h.store.Get("s3://bucket/fx/rates.csv")
	require.True(t, ok)
	assert.Equal(t, "date,currency_from,currency_to,close\n"+
		"2024-01-02,EUR,USD,1.095\n"+
		"2024-01-03,EUR,USD,1.092\n"+
		"2024-01-02,GBP,USD,1.27\n", string(body))

	assert.Equal(t, map[fxload.RowKey]string{
		key("2024-01-02", "EUR", "USD"): "1.095",
		key("2024-01-03", "EUR", "USD"): "1.092",
		key("2024-01-02", "GBP", "USD"): "1.27",
	}, h.wh.rows())
}

func TestRun_PerPairStagesOneArtifactPerWorksheet(t *testing.T) {
	h := newHarness(twoSheetSource())
	cfg := testConfig(t, "per-pair")
	cfg.StorageURI = "s3://bucket/fx/"

	result, err := h.orch.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"s3://bucket/fx/EUR_USD.csv", "s3://bucket/fx/GBP_USD.csv"}, h.store.Puts())
	require.Len(t, result.Artifacts, 2)
	assert.Equal(t, 2, result.Artifacts[0].Rows)
	assert.Equal(t, 1, result.Artifacts[1].Rows)
	assert.Equal(t, int64(3), result.Load.RowsUpserted)
	assert.Len(t, h.wh.rows(), 3)
}

func TestRun_SecondRunInsertsNothing(t *testing.T) {
	h := newHarness(twoSheetSource())
	cfg := testConfig(t, "consolidated")

	first, err := h.orch.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := h.orch.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(3), first.Load.RowsUpserted)
	assert.Equal(t, int64(3), second.Load.RowsCopied)
	assert.Equal(t, int64(0), second.Load.RowsUpserted)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, h.wh.rows(), 3)
}

func TestRun_ExistingRowsAreNeverUpdated(t *testing.T) {
	h := newHarness(twoSheetSource())
	h.wh.seed("2024-01-02", "EUR", "USD", "1.2")

	result, err := h.orch.Run(context.Background(), testConfig(t, "consolidated"))
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Load.RowsUpserted)
	assert.Equal(t, "1.2", h.wh.rows()[key("2024-01-02", "EUR", "USD")])
}

func TestRun_BadLabelStopsBeforeStaging(t *testing.T) {
	src := twoSheetSource()
	src.Add(sheetID, "EURUSD", table([]string{"2024-01-02", "1"}))
	h := newHarness(src)

	_, err := h.orch.Run(context.Background(), testConfig(t, "consolidated"))

	var labelErr *fxload.LabelError
	require.True(t, errors.As(err, &labelErr))
	assert.Equal(t, "EURUSD", labelErr.Label)
	assert.Empty(t, h.store.Puts())
	assert.Zero(t, h.wh.connects())
	assert.Equal(t, fxload.ExitWorksheetError, fxload.ExitCodeForError(err))
}

func TestRun_SchemaErrorStopsBeforeStaging(t *testing.T) {
	src := twoSheetSource()
	src.Add(sheetID, "JPY2USD", table([]string{"2024-01-02", "abc"}))
	h := newHarness(src)

	_, err := h.orch.Run(context.Background(), testConfig(t, "per-pair"))

	require.ErrorIs(t, err, fxload.ErrSchema)
	assert.Empty(t, h.store.Puts())
	assert.Zero(t, h.wh.connects())
}

func TestRun_DuplicatePairInPerPairMode(t *testing.T) {
	src := twoSheetSource()
	src.Add(sheetID, " EUR2USD", table([]string{"2024-01-04", "1.1"}))
	h := newHarness(src)

	_, err := h.orch.Run(context.Background(), testConfig(t, "per-pair"))

	require.ErrorIs(t, err, fxload.ErrLabel)
	assert.Empty(t, h.store.Puts())
}

func TestRun_PerPairLocatorCollision(t *testing.T) {
	src := sheets.NewMemorySource()
	src.Add(sheetID, "A_2B", table([]string{"2024-01-05", "9"}))
	src.Add(sheetID, "A2_B", table([]string{"2024-01-06", "7"}))
	h := newHarness(src)
	cfg := testConfig(t, "per-pair")
	cfg.StorageURI = "s3://bucket/fx"

	_, err := h.orch.Run(context.Background(), cfg)

	var labelErr *fxload.LabelError
	require.True(t, errors.As(err, &labelErr))
	assert.Equal(t, "A2_B", labelErr.Label)
	assert.Contains(t, labelErr.Reason, "s3://bucket/fx/A__B.csv")
	assert.Empty(t, h.store.Puts())
	assert.Zero(t, h.wh.connects())
}

func TestRun_ExtraObjectUnderPrefixFailsLoad(t *testing.T) {
	h := newHarness(twoSheetSource())
	h.wh.extraRows = 2

	_, err := h.orch.Run(context.Background(), testConfig(t, "consolidated"))

	var loadErr *fxload.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, fxload.StepCopy, loadErr.Step)
	assert.Empty(t, h.wh.rows())
}

func TestRun_CopyFailureLeavesTargetUnchanged(t *testing.T) {
	h := newHarness(twoSheetSource())
	h.wh.seed("2023-12-29", "EUR", "USD", "1.1")
	h.wh.failOn["COPY"] = errors.New("S3ServiceException: Access Denied")

	_, err := h.orch.Run(context.Background(), testConfig(t, "consolidated"))

	var loadErr *fxload.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, fxload.StepCopy, loadErr.Step)
	assert.Equal(t, fxload.ExitLoadFailed, fxload.ExitCodeForError(err))
	assert.Len(t, h.wh.rows(), 1)

	// The artifact is left behind for the next run to overwrite.
	_, ok := h.store.Get("s3://bucket/fx/rates.csv")
	assert.True(t, ok)
}

func TestRun_CommitFailureLeavesTargetUnchanged(t *testing.T) {
	h := newHarness(twoSheetSource())
	h.wh.failOn["COMMIT"] = errors.New("serialization failure")

	_, err := h.orch.Run(context.Background(), testConfig(t, "consolidated"))

	require.ErrorIs(t, err, fxload.ErrLoad)
	assert.Empty(t, h.wh.rows())
}

func TestRun_StageFailureSkipsWarehouse(t *testing.T) {
	wh := newFakeWarehouse(storage.NewMemoryStore())
	orch := New(nullLogger{}, WithCollaborators(Collaborators{
		Source:    twoSheetSource(),
		Store:     failingStore{},
		Connector: wh,
		Dialect:   warehouse.NewRedshiftDialect(warehouse.RedshiftOptions{IAMRole: "arn"}),
	}))

	_, err := orch.Run(context.Background(), testConfig(t, "consolidated"))

	require.ErrorIs(t, err, fxload.ErrStageWrite)
	assert.Equal(t, fxload.ExitStageWriteFailed, fxload.ExitCodeForError(err))
	assert.Zero(t, wh.connects())
}

func TestRun_InvalidConfigTouchesNothing(t *testing.T) {
	h := newHarness(twoSheetSource())
	cfg := testConfig(t, "consolidated")
	cfg.TargetTable = ""

	_, err := h.orch.Run(context.Background(), cfg)

	var cfgErr *fxload.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Missing, config.EnvRedshiftTable)
	assert.Empty(t, h.store.Puts())
	assert.Zero(t, h.wh.connects())
}

func TestRun_FactoryFailureIsConfigError(t *testing.T) {
	orch := New(nullLogger{}, WithFactory(func(context.Context, config.Config, fxload.Logger) (Collaborators, error) {
		return Collaborators{}, errors.New("spreadsheet source: bad key")
	}))

	_, err := orch.Run(context.Background(), testConfig(t, "consolidated"))

	require.ErrorIs(t, err, fxload.ErrConfig)
	assert.Contains(t, err.Error(), "bad key")
}

func TestRun_TimeoutCancelsRun(t *testing.T) {
	wh := newFakeWarehouse(storage.NewMemoryStore())
	orch := New(nullLogger{}, WithCollaborators(Collaborators{
		Source:    blockingSource{},
		Store:     storage.NewMemoryStore(),
		Connector: wh,
		Dialect:   warehouse.NewRedshiftDialect(warehouse.RedshiftOptions{IAMRole: "arn"}),
	}))
	cfg := testConfig(t, "consolidated")
	cfg.Timeout = 20 * time.Millisecond

	_, err := orch.Run(context.Background(), cfg)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, wh.connects())
}

func TestNew_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestDefaultCollaborators_FileAndPostgres(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Resolve(config.Settings{
		SheetsSource:     sheets.KindXLSX,
		SheetID:          dir + "/rates.xlsx",
		S3URI:            "file://" + dir + "/rates.csv",
		RedshiftDSN:      "postgres://etl:pw@localhost:5432/fx",
		RedshiftTable:    "fx_rates",
		WarehouseDialect: "postgres",
	})
	require.NoError(t, err)

	collab, err := DefaultCollaborators(context.Background(), cfg, nullLogger{})
	require.NoError(t, err)

	assert.IsType(t, &sheets.XLSXSource{}, collab.Source)
	assert.IsType(t, &storage.Router{}, collab.Store)
	assert.Equal(t, fxload.DialectPostgres, collab.Dialect.Name())
	assert.NotNil(t, collab.Connector)
}
