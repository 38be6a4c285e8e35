package aggregate

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/fxload/pkg/fxload"
)

type fakeSource struct {
	mu       sync.Mutex
	order    []string
	tables   map[string]fxload.RawTable
	readErrs map[string]error
	listErr  error
	reads    []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{tables: map[string]fxload.RawTable{}, readErrs: map[string]error{}}
}

func (f *fakeSource) add(title string, rows ...[]string) *fakeSource {
	f.order = append(f.order, title)
	f.tables[title] = fxload.RawTable{Header: []string{"Date", "Close"}, Rows: rows}
	return f
}

func (f *fakeSource) ListWorksheets(ctx context.Context, id string) ([]fxload.Worksheet, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]fxload.Worksheet, len(f.order))
	for i, title := range f.order {
		out[i] = fxload.Worksheet{ID: int64(i), Title: title, Index: i}
	}
	return out, nil
}

func (f *fakeSource) ReadAll(ctx context.Context, id string, ws fxload.Worksheet) (fxload.RawTable, error) {
	f.mu.Lock()
	f.reads = append(f.reads, ws.Title)
	f.mu.Unlock()

	if err := f.readErrs[ws.Title]; err != nil {
		return fxload.RawTable{}, err
	}
	t, ok := f.tables[ws.Title]
	if !ok {
		return fxload.RawTable{}, fmt.Errorf("no worksheet %s", ws.Title)
	}
	return t, nil
}

type nullLogger struct{}

func (nullLogger) Debug(string, ...interface{})    {}
func (nullLogger) Info(string, ...interface{})     {}
func (nullLogger) Warning(string, ...interface{})  {}
func (nullLogger) Error(string, ...interface{})    {}
func (nullLogger) Critical(string, ...interface{}) {}
