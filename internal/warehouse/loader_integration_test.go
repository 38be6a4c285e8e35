package warehouse

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fxload/internal/logging"
	"github.com/vvka-141/fxload/internal/stage"
	"github.com/vvka-141/fxload/internal/testinfra"
	"github.com/vvka-141/fxload/pkg/fxload"
)

const createRatesTable = `
DROP TABLE IF EXISTS %[1]s, %[1]s_stage;
CREATE TABLE %[1]s (
    "date"          date          NOT NULL,
    "currency_from" varchar(8)    NOT NULL,
    "currency_to"   varchar(8)    NOT NULL,
    "close"         numeric(18,6) NOT NULL,
    PRIMARY KEY ("date", "currency_from", "currency_to")
);
CREATE TABLE %[1]s_stage (LIKE %[1]s);
ALTER TABLE %[1]s_stage DROP CONSTRAINT IF EXISTS %[1]s_stage_pkey;`

type integrationEnv struct {
	ctr    *testinfra.PostgresContainer
	pool   *pgxpool.Pool
	loader *Loader
	table  string
}

func setupIntegration(t *testing.T, table string) *integrationEnv {
	t.Helper()
	ctr := testinfra.RequireWarehouse(t)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, ctr.ConnString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, fmt.Sprintf(createRatesTable, table))
	require.NoError(t, err)

	loader := NewLoader(NewStandardConnector(ctr.ConnString, logging.NewNullLogger()), NewPostgresDialect(), logging.NewNullLogger())
	return &integrationEnv{ctr: ctr, pool: pool, loader: loader, table: table}
}

// stageArtifact encodes rows and places the artifact where the server can COPY it.
func (e *integrationEnv) stageArtifact(t *testing.T, name string, rows fxload.RowSet) string {
	t.Helper()
	body, err := stage.Encode(rows)
	require.NoError(t, err)

	path := fmt.Sprintf("/tmp/%s_%s.csv", e.table, name)
	require.NoError(t, e.ctr.PutFile(context.Background(), path, body))
	return "file://" + path
}

func (e *integrationEnv) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

func fxRow(date, from, to, close string) fxload.CanonicalRow {
	d, _ := time.Parse(fxload.DateLayout, date)
	return fxload.CanonicalRow{Date: d, CurrencyFrom: from, CurrencyTo: to, Close: decimal.RequireFromString(close)}
}

func TestLoaderIntegration_RerunIsIdempotent(t *testing.T) {
	env := setupIntegration(t, "rates_rerun")
	ctx := context.Background()

	eur := env.stageArtifact(t, "eur", fxload.RowSet{
		fxRow("2024-01-02", "EUR", "USD", "1.10"),
		fxRow("2024-01-03", "EUR", "USD", "1.0925"),
	})
	gbp := env.stageArtifact(t, "gbp", fxload.RowSet{
		fxRow("2024-01-02", "GBP", "USD", "1.27"),
	})

	first, err := env.loader.Load(ctx, []string{eur, gbp}, env.table)
	require.NoError(t, err)
	assert.Equal(t, fxload.LoadReport{RowsCopied: 3, RowsUpserted: 3}, first)

	second, err := env.loader.Load(ctx, []string{eur, gbp}, env.table)
	require.NoError(t, err)
	assert.Equal(t, fxload.LoadReport{RowsCopied: 3, RowsUpserted: 0}, second)

	assert.Equal(t, int64(3), env.count(t, env.table))
}

func TestLoaderIntegration_InsertOnly(t *testing.T) {
	env := setupIntegration(t, "rates_insert_only")
	ctx := context.Background()

	_, err := env.pool.Exec(ctx, `INSERT INTO rates_insert_only VALUES ('2024-01-01', 'EUR', 'USD', 1.10)`)
	require.NoError(t, err)

	art := env.stageArtifact(t, "all", fxload.RowSet{
		fxRow("2024-01-01", "EUR", "USD", "1.20"),
		fxRow("2024-01-02", "EUR", "USD", "1.11"),
	})

	report, err := env.loader.Load(ctx, []string{art}, env.table)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.RowsUpserted)

	var closeValue string
	require.NoError(t, env.pool.QueryRow(ctx,
		`SELECT close::text FROM rates_insert_only WHERE "date" = '2024-01-01'`).Scan(&closeValue))
	assert.Equal(t, "1.100000", closeValue)
}

func TestLoaderIntegration_DuplicateKeysCollapse(t *testing.T) {
	env := setupIntegration(t, "rates_dupes")

	art := env.stageArtifact(t, "dupes", fxload.RowSet{
		fxRow("2024-01-02", "EUR", "USD", "1.10"),
		fxRow("2024-01-02", "EUR", "USD", "1.10"),
		fxRow("2024-01-02", "EUR", "USD", "1.09"),
	})

	report, err := env.loader.Load(context.Background(), []string{art}, env.table)
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.RowsCopied)
	assert.Equal(t, int64(1), report.RowsUpserted)
}

func TestLoaderIntegration_FailedCopyLeavesTablesUnchanged(t *testing.T) {
	env := setupIntegration(t, "rates_failed_copy")
	ctx := context.Background()

	good := env.stageArtifact(t, "good", fxload.RowSet{fxRow("2024-01-02", "EUR", "USD", "1.10")})
	_, err := env.loader.Load(ctx, []string{good}, env.table)
	require.NoError(t, err)
	require.Equal(t, int64(1), env.count(t, "rates_failed_copy_stage"))

	newer := env.stageArtifact(t, "newer", fxload.RowSet{fxRow("2024-01-03", "EUR", "USD", "1.11")})
	_, err = env.loader.Load(ctx, []string{newer, "file:///tmp/does_not_exist.csv"}, env.table)

	var loadErr *fxload.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, fxload.StepCopy, loadErr.Step)

	assert.Equal(t, int64(1), env.count(t, env.table))
	assert.Equal(t, int64(1), env.count(t, "rates_failed_copy_stage"), "stage is restored by the rollback")
}
