package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/fxload/internal/retry"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Connection pool configuration. A load uses a single transaction, so the
// pool stays small.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 0
	DefaultMaxConnIdleTime = 5 * time.Minute
)

// ConnectorConfig describes how to reach the warehouse.
type ConnectorConfig struct {
	// DSN is a libpq-style URL or keyword/value connection string.
	DSN  string
	Auth fxload.AuthMethod

	// AWSRegion is used by AuthMethodAWSIAM.
	AWSRegion string

	// Service principal for AuthMethodAzureEntraID. When any is empty the
	// default Azure credential chain is used instead.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance) used by AuthMethodGoogleIAM.
	GoogleInstance string
}

func configurePool(poolConfig *pgxpool.Config, logger fxload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = fxload.DefaultAppName
	}
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Debug("warehouse notice: %s", notice.Message)
	}
}

func newRetryExecutor(logger fxload.Logger) *retry.Executor {
	classifier := retry.NewWarehouseErrorClassifier()
	strategy := retry.NewExponentialBackoff(fxload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(fxload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(fxload.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(classifier, strategy, func(attempt int, err error, delay time.Duration) {
		logger.Warning("Warehouse connection failed (attempt %d): %v; retrying in %s",
			attempt+1, err, delay.Round(time.Millisecond))
	})
}

// StandardConnector connects with the credentials carried by the DSN,
// retrying transient failures.
type StandardConnector struct {
	dsn           string
	logger        fxload.Logger
	retryExecutor *retry.Executor
}

func NewStandardConnector(dsn string, logger fxload.Logger) *StandardConnector {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &StandardConnector{
		dsn:           dsn,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
	}
}

func (c *StandardConnector) Connect(ctx context.Context) (fxload.DBConnection, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(c.dsn)
		if err != nil {
			return fmt.Errorf("failed to parse warehouse DSN: %w", err)
		}

		configurePool(poolConfig, c.logger)

		pool, err = openPool(ctx, poolConfig)
		return err
	})
	if err != nil {
		return nil, err
	}

	return NewPoolAdapter(pool, nil), nil
}

// openPool creates the pool and pings it so that bad credentials surface
// here rather than at the first statement.
func openPool(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	cc := poolConfig.ConnConfig
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}
	return pool, nil
}

// NewConnector returns the Connector for cfg.Auth.
func NewConnector(cfg ConnectorConfig, logger fxload.Logger) (fxload.Connector, error) {
	switch cfg.Auth {
	case fxload.AuthMethodStandard:
		return NewStandardConnector(cfg.DSN, logger), nil
	case fxload.AuthMethodAWSIAM:
		return newAWSConnector(cfg, logger)
	case fxload.AuthMethodAzureEntraID:
		return newAzureConnector(cfg, logger)
	case fxload.AuthMethodGoogleIAM:
		return newGoogleConnector(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported warehouse auth method %v", cfg.Auth)
	}
}

func newAWSConnector(cfg ConnectorConfig, logger fxload.Logger) (fxload.Connector, error) {
	parsed, err := pgconn.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse warehouse DSN: %w", err)
	}
	endpoint := fmt.Sprintf("%s:%d", parsed.Host, parsed.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, cfg.AWSRegion, parsed.User)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}
	return NewTokenBasedConnector(cfg.DSN, tokenProvider, "AWS IAM", logger), nil
}

// newAzureConnector uses a service principal when all three of tenant,
// client and secret are set, and the default credential chain otherwise.
func newAzureConnector(cfg ConnectorConfig, logger fxload.Logger) (fxload.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if cfg.AzureTenantID != "" && cfg.AzureClientID != "" && cfg.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(cfg.AzureTenantID, cfg.AzureClientID, cfg.AzureClientSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure service principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure default credential provider: %w", err)
		}
	}
	return NewTokenBasedConnector(cfg.DSN, tokenProvider, "Azure", logger), nil
}

func newGoogleConnector(cfg ConnectorConfig, logger fxload.Logger) (fxload.Connector, error) {
	if cfg.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires an instance connection name (project:region:instance)")
	}
	return NewGoogleCloudSQLConnector(cfg.DSN, cfg.GoogleInstance, logger), nil
}
