package testinfra

import (
	"context"
	"sync"
	"testing"
)

var (
	sharedOnce      sync.Once
	sharedContainer *PostgresContainer
	sharedErr       error
)

// getOrStartPostgres starts one container per test binary. It is left for
// the testcontainers reaper to remove when the process exits.
func getOrStartPostgres() (*PostgresContainer, error) {
	sharedOnce.Do(func() {
		sharedContainer, sharedErr = StartPostgres(context.Background())
	})
	return sharedContainer, sharedErr
}

// SkipIfShort skips the test in -short mode.
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireWarehouse returns the shared Postgres container, skipping the test
// when running with -short or when Docker is unavailable.
func RequireWarehouse(t *testing.T) *PostgresContainer {
	t.Helper()

	SkipIfShort(t)
	ctr, err := getOrStartPostgres()
	if err != nil {
		t.Skipf("Docker unavailable: %v", err)
	}
	return ctr
}
