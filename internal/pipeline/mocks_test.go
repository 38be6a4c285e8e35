package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vvka-141/fxload/internal/storage"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// fakeWarehouse interprets the statements a load issues against an
// in-memory stage and target. Artifacts are read from store.
type fakeWarehouse struct {
	mu      sync.Mutex
	store   *storage.MemoryStore
	target  map[fxload.RowKey]string
	connect int
	failOn  map[string]error

	// extraRows are added to every COPY, as when other objects share the
	// artifact's key prefix.
	extraRows int
}

func newFakeWarehouse(store *storage.MemoryStore) *fakeWarehouse {
	return &fakeWarehouse{
		store:  store,
		target: map[fxload.RowKey]string{},
		failOn: map[string]error{},
	}
}

func (w *fakeWarehouse) seed(date, from, to, close string) {
	w.target[fxload.RowKey{Date: date, CurrencyFrom: from, CurrencyTo: to}] = close
}

func (w *fakeWarehouse) rows() map[fxload.RowKey]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[fxload.RowKey]string, len(w.target))
	for k, v := range w.target {
		out[k] = v
	}
	return out
}

func (w *fakeWarehouse) connects() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connect
}

func (w *fakeWarehouse) Connect(ctx context.Context) (fxload.DBConnection, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connect++
	return &fakeConn{w: w}, nil
}

type fakeConn struct {
	w *fakeWarehouse
}

func (c *fakeConn) Begin(ctx context.Context) (fxload.DBTx, error) {
	return &fakeTx{w: c.w}, nil
}

func (c *fakeConn) Close() {}

type stagedRow struct {
	key   fxload.RowKey
	close string
}

type fakeTx struct {
	w          *fakeWarehouse
	stage      []stagedRow
	inserted   map[fxload.RowKey]string
	lastCopied int64
	done       bool
}

var copyFrom = regexp.MustCompile(`FROM '([^']*)'`)

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.done {
		return pgconn.CommandTag{}, errors.New("tx closed")
	}
	for prefix, err := range t.w.failOn {
		if strings.HasPrefix(sql, prefix) {
			return pgconn.CommandTag{}, err
		}
	}

	switch {
	case strings.HasPrefix(sql, "DELETE"), strings.HasPrefix(sql, "TRUNCATE"):
		t.stage = nil
		return pgconn.NewCommandTag("DELETE 0"), nil

	case strings.HasPrefix(sql, "COPY"):
		m := copyFrom.FindStringSubmatch(sql)
		if m == nil {
			return pgconn.CommandTag{}, fmt.Errorf("no FROM in %q", sql)
		}
		body, ok := t.w.store.Get(m[1])
		if !ok {
			return pgconn.CommandTag{}, fmt.Errorf("artifact %s does not exist", m[1])
		}
		records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
		if err != nil {
			return pgconn.CommandTag{}, err
		}
		for _, r := range records[1:] {
			t.stage = append(t.stage, stagedRow{
				key:   fxload.RowKey{Date: r[0], CurrencyFrom: r[1], CurrencyTo: r[2]},
				close: r[3],
			})
		}
		for i := 0; i < t.w.extraRows; i++ {
			t.stage = append(t.stage, stagedRow{
				key:   fxload.RowKey{Date: fmt.Sprintf("2023-01-%02d", i+1), CurrencyFrom: "XXX", CurrencyTo: "YYY"},
				close: "1",
			})
		}
		t.lastCopied = int64(len(records) - 1 + t.w.extraRows)
		return pgconn.NewCommandTag(fmt.Sprintf("COPY %d", t.lastCopied)), nil

	case strings.HasPrefix(sql, "INSERT"):
		best := map[fxload.RowKey]string{}
		var order []fxload.RowKey
		for _, r := range t.stage {
			cur, seen := best[r.key]
			if !seen {
				order = append(order, r.key)
				best[r.key] = r.close
				continue
			}
			if decimal.RequireFromString(r.close).LessThan(decimal.RequireFromString(cur)) {
				best[r.key] = r.close
			}
		}
		t.w.mu.Lock()
		defer t.w.mu.Unlock()
		t.inserted = map[fxload.RowKey]string{}
		for _, k := range order {
			if _, exists := t.w.target[k]; !exists {
				t.inserted[k] = best[k]
			}
		}
		return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", len(t.inserted))), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement %q", sql)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) fxload.Row {
	return fakeRow{n: t.lastCopied}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if err := t.w.failOn["COMMIT"]; err != nil {
		return err
	}
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	for k, v := range t.inserted {
		t.w.target[k] = v
	}
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}

type fakeRow struct {
	n int64
}

func (r fakeRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.n
	return nil
}

// failingStore rejects every write.
type failingStore struct{}

func (failingStore) Put(ctx context.Context, locator string, body []byte) error {
	return errors.New("access denied")
}

// blockingSource waits for the context before failing.
type blockingSource struct{}

func (blockingSource) ListWorksheets(ctx context.Context, id string) ([]fxload.Worksheet, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingSource) ReadAll(ctx context.Context, id string, ws fxload.Worksheet) (fxload.RawTable, error) {
	return fxload.RawTable{}, nil
}

type nullLogger struct{}

func (nullLogger) Debug(string, ...interface{})    {}
func (nullLogger) Info(string, ...interface{})     {}
func (nullLogger) Warning(string, ...interface{})  {}
func (nullLogger) Error(string, ...interface{})    {}
func (nullLogger) Critical(string, ...interface{}) {}
