package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/fxload/internal/storage"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Dialect renders the warehouse-specific statements of a load.
type Dialect interface {
	Name() string

	// ClearStageSQL empties the stage table without leaving the transaction.
	ClearStageSQL(t Table) string

	// CopySQL bulk-loads one artifact into the stage table.
	CopySQL(t Table, locator string) (string, error)

	// CopiedRows reports how many rows the last CopySQL loaded.
	CopiedRows(ctx context.Context, tx fxload.DBTx, tag pgconn.CommandTag) (int64, error)
}

// RedshiftOptions carries the credentials Redshift uses to read from S3.
// IAMRole takes precedence over the key pair when set.
type RedshiftOptions struct {
	AccessKeyID     string
	SecretAccessKey string
	IAMRole         string

	// Region of the bucket, when it differs from the cluster's.
	Region string
}

// RedshiftDialect loads from s3:// artifacts with COPY. COPY treats the
// locator as a key prefix, so every object whose key starts with it is
// loaded; Loader.LoadArtifacts rejects a copy whose row count differs from
// the staged artifact.
type RedshiftDialect struct {
	opts RedshiftOptions
}

func NewRedshiftDialect(opts RedshiftOptions) *RedshiftDialect {
	return &RedshiftDialect{opts: opts}
}

func (d *RedshiftDialect) Name() string { return fxload.DialectRedshift }

func (d *RedshiftDialect) ClearStageSQL(t Table) string {
	return fmt.Sprintf(sqlDeleteAll, t.QuotedStage())
}

func (d *RedshiftDialect) CopySQL(t Table, locator string) (string, error) {
	if storage.Scheme(locator) != storage.SchemeS3 {
		return "", fmt.Errorf("redshift can only COPY from s3:// locators, got %s", locator)
	}

	var auth string
	switch {
	case d.opts.IAMRole != "":
		auth = "IAM_ROLE " + quoteLiteral(d.opts.IAMRole)
	case d.opts.AccessKeyID != "" && d.opts.SecretAccessKey != "":
		auth = "CREDENTIALS " + quoteLiteral(fmt.Sprintf("aws_access_key_id=%s;aws_secret_access_key=%s",
			d.opts.AccessKeyID, d.opts.SecretAccessKey))
	default:
		return "", fmt.Errorf("redshift COPY requires an IAM role or an access key pair")
	}

	region := ""
	if d.opts.Region != "" {
		region = "\nREGION " + quoteLiteral(d.opts.Region)
	}

	return fmt.Sprintf(sqlRedshiftCopy, t.QuotedStage(), columnList(""), quoteLiteral(locator), auth, region), nil
}

func (d *RedshiftDialect) CopiedRows(ctx context.Context, tx fxload.DBTx, _ pgconn.CommandTag) (int64, error) {
	var n int64
	if err := tx.QueryRow(ctx, sqlRedshiftCopyCount).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to read copy count: %w", err)
	}
	return n, nil
}

// PostgresDialect loads file:// artifacts with server-side COPY. The path
// must be readable by the database server process.
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string { return fxload.DialectPostgres }

func (d *PostgresDialect) ClearStageSQL(t Table) string {
	return fmt.Sprintf(sqlTruncate, t.QuotedStage())
}

func (d *PostgresDialect) CopySQL(t Table, locator string) (string, error) {
	loc, err := storage.ParseLocator(locator)
	if err != nil {
		return "", err
	}
	if loc.Scheme != storage.SchemeFile {
		return "", fmt.Errorf("postgres can only COPY from file:// locators, got %s", locator)
	}
	return fmt.Sprintf(sqlPostgresCopy, t.QuotedStage(), columnList(""), quoteLiteral(loc.Key)), nil
}

func (d *PostgresDialect) CopiedRows(_ context.Context, _ fxload.DBTx, tag pgconn.CommandTag) (int64, error) {
	return tag.RowsAffected(), nil
}

// NewDialect returns the dialect registered under name.
func NewDialect(name string, opts RedshiftOptions) (Dialect, error) {
	switch name {
	case fxload.DialectRedshift, "":
		return NewRedshiftDialect(opts), nil
	case fxload.DialectPostgres:
		return NewPostgresDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported warehouse dialect %q (want %s or %s)", name, fxload.DialectRedshift, fxload.DialectPostgres)
	}
}
