package warehouse

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// GoogleCloudSQLConnector connects to Cloud SQL for PostgreSQL with IAM
// database authentication through the Cloud SQL Go connector. The DSN
// supplies user and database; host and password are ignored.
type GoogleCloudSQLConnector struct {
	dsn      string
	instance string
	logger   fxload.Logger
}

// NewGoogleCloudSQLConnector creates a connector for instance
// ("project:region:instance").
func NewGoogleCloudSQLConnector(dsn, instance string, logger fxload.Logger) *GoogleCloudSQLConnector {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &GoogleCloudSQLConnector{dsn: dsn, instance: instance, logger: logger}
}

// Connect dials through a new Cloud SQL dialer. The dialer is released when
// the returned connection is closed.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (fxload.DBConnection, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse warehouse DSN: %w", err)
	}
	poolConfig.ConnConfig.Host = c.instance
	poolConfig.ConnConfig.TLSConfig = nil
	poolConfig.ConnConfig.Fallbacks = nil
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}

	configurePool(poolConfig, c.logger)

	pool, err := openPool(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, err
	}

	return NewPoolAdapter(pool, func() { dialer.Close() }), nil
}
