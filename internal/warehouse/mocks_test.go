package warehouse

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// mockConnector hands out a single mockConn.
type mockConnector struct {
	conn       *mockConn
	connectErr error
}

func (m *mockConnector) Connect(ctx context.Context) (fxload.DBConnection, error) {
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	return m.conn, nil
}

type mockConn struct {
	tx       *mockTx
	beginErr error
	closed   bool
}

func (m *mockConn) Begin(ctx context.Context) (fxload.DBTx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func (m *mockConn) Close() { m.closed = true }

// mockTx records statements. failOn maps a statement prefix to the error
// returned when a statement starting with it is executed.
type mockTx struct {
	mu          sync.Mutex
	statements  []string
	failOn      map[string]error
	copyCount   int64
	upserted    int64
	commitErr   error
	committed   bool
	rolledBack  bool
	scanErr     error
	rollbackCtx context.Context
}

func newMockTx() *mockTx {
	return &mockTx{failOn: map[string]error{}}
}

func (m *mockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statements = append(m.statements, sql)

	for prefix, err := range m.failOn {
		if strings.HasPrefix(sql, prefix) {
			return pgconn.CommandTag{}, err
		}
	}

	switch {
	case strings.HasPrefix(sql, "COPY"):
		return pgconn.NewCommandTag("COPY 3"), nil
	case strings.HasPrefix(sql, "INSERT"):
		return pgconn.NewCommandTag("INSERT 0 " + strconv.FormatInt(m.upserted, 10)), nil
	case strings.HasPrefix(sql, "TRUNCATE"):
		return pgconn.NewCommandTag("TRUNCATE TABLE"), nil
	default:
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) fxload.Row {
	m.mu.Lock()
	m.statements = append(m.statements, sql)
	m.mu.Unlock()
	return mockRow{value: m.copyCount, err: m.scanErr}
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.committed {
		return nil
	}
	m.rolledBack = true
	m.rollbackCtx = ctx
	return nil
}

type mockRow struct {
	value int64
	err   error
}

func (r mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("expected one destination")
	}
	p, ok := dest[0].(*int64)
	if !ok {
		return errors.New("expected *int64")
	}
	*p = r.value
	return nil
}

type mockTokenProvider struct {
	token string
	err   error
	calls int
}

func (m *mockTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	m.calls++
	if m.err != nil {
		return "", time.Time{}, m.err
	}
	return m.token, time.Now().Add(time.Hour), nil
}

func (m *mockTokenProvider) String() string { return "mockTokenProvider" }
