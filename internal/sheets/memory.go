package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// MemorySource serves worksheets held in memory. Safe for concurrent use.
type MemorySource struct {
	mu     sync.RWMutex
	sheets map[string][]memorySheet
}

type memorySheet struct {
	title string
	table fxload.RawTable
}

func NewMemorySource() *MemorySource {
	return &MemorySource{sheets: make(map[string][]memorySheet)}
}

// Add appends a worksheet to a spreadsheet.
func (m *MemorySource) Add(spreadsheetID, title string, table fxload.RawTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[spreadsheetID] = append(m.sheets[spreadsheetID], memorySheet{title: title, table: table})
}

func (m *MemorySource) ListWorksheets(ctx context.Context, spreadsheetID string) ([]fxload.Worksheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sheets, ok := m.sheets[spreadsheetID]
	if !ok {
		return nil, fmt.Errorf("spreadsheet %s not found", spreadsheetID)
	}
	out := make([]fxload.Worksheet, len(sheets))
	for i, s := range sheets {
		out[i] = fxload.Worksheet{ID: int64(i), Title: s.title, Index: i}
	}
	return out, nil
}

func (m *MemorySource) ReadAll(ctx context.Context, spreadsheetID string, ws fxload.Worksheet) (fxload.RawTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sheets[spreadsheetID] {
		if s.title == ws.Title {
			return s.table, nil
		}
	}
	return fxload.RawTable{}, fmt.Errorf("worksheet %s not found in %s", ws.Title, spreadsheetID)
}
