package ledger

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a ledger held in memory. It is used when no spreadsheet credentials are configured.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

func (m *Memory) FindRow(_ context.Context, sheetID, ticketID string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, r := range m.sheets[sheetID] {
		if r[0] == ticketID {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (m *Memory) CreateRow(_ context.Context, sheetID, ticketID, applicant string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sheets[sheetID] = append(m.sheets[sheetID], NewRow(ticketID, applicant))
	return nil
}

func (m *Memory) UpdateCell(_ context.Context, sheetID string, row int, column Column, value string) error {
	col, err := column.index()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.sheets[sheetID]
	if row < 1 || row > len(rows) {
		return fmt.Errorf("%w: row %d", ErrInvalidCell, row)
	}
	rows[row-1][col] = value
	return nil
}

func (m *Memory) Cell(_ context.Context, sheetID string, row int, column Column) (string, error) {
	col, err := column.index()
	if err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.sheets[sheetID]
	if row < 1 || row > len(rows) {
		return "", fmt.Errorf("%w: row %d", ErrInvalidCell, row)
	}
	return rows[row-1][col], nil
}

// Rows returns a copy of every row in the sheet.
func (m *Memory) Rows(sheetID string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]string, len(m.sheets[sheetID]))
	for i, r := range m.sheets[sheetID] {
		out[i] = append([]string(nil), r...)
	}
	return out
}
