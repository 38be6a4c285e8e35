// Package retry retries warehouse connection attempts with exponential
// backoff.
//
// Only connecting is retried. Statements inside the load transaction are
// never retried here: a failed load is rolled back and reported upward.
//
//	classifier := retry.NewWarehouseErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy, nil)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
