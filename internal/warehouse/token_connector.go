package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/fxload/internal/retry"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// tokenExpiryWarning is how close to expiry a freshly issued token may be
// before a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector authenticates with a token from a TokenProvider in
// place of the DSN password. A fresh token is requested for every attempt.
type TokenBasedConnector struct {
	dsn           string
	tokenProvider TokenProvider
	providerName  string
	logger        fxload.Logger
	retryExecutor *retry.Executor
}

// NewTokenBasedConnector creates a connector. providerName appears in logs
// and errors ("AWS IAM", "Azure").
func NewTokenBasedConnector(dsn string, tokenProvider TokenProvider, providerName string, logger fxload.Logger) *TokenBasedConnector {
	if tokenProvider == nil {
		panic("tokenProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TokenBasedConnector{
		dsn:           dsn,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (fxload.DBConnection, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}
		c.logger.Debug("Acquired warehouse token from %s", c.tokenProvider)
		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
			c.logger.Warning("%s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		poolConfig, err := pgxpool.ParseConfig(c.dsn)
		if err != nil {
			return fmt.Errorf("failed to parse warehouse DSN: %w", err)
		}
		poolConfig.ConnConfig.Password = token

		configurePool(poolConfig, c.logger)

		pool, err = openPool(ctx, poolConfig)
		return err
	})
	if err != nil {
		return nil, err
	}

	return NewPoolAdapter(pool, nil), nil
}
