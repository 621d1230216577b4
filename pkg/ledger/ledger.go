package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/migrator/pkg/entities"
)

// Column is a spreadsheet column letter.
type Column string

// Ledger row layout: [ticketId, answer1..answer4, status, decidedBy, decidedAt, applicantName].
const (
	ColumnTicket    Column = "A"
	ColumnAnswer1   Column = "B"
	ColumnAnswer2   Column = "C"
	ColumnAnswer3   Column = "D"
	ColumnAnswer4   Column = "E"
	ColumnStatus    Column = "F"
	ColumnDecidedBy Column = "G"
	ColumnDecidedAt Column = "H"
	ColumnApplicant Column = "I"
)

const (
	firstColumn = ColumnTicket
	lastColumn  = ColumnApplicant

	defaultSheetName = "Sheet1"
)

// ErrInvalidCell is returned for a row or column outside the ledger layout.
var ErrInvalidCell = errors.New("invalid ledger cell")

// Client is a row-oriented ledger keyed by ticket. Rows are 1-based.
type Client interface {
	// FindRow scans the ticket column for an exact match. It returns false if the ticket has no row.
	FindRow(ctx context.Context, sheetID, ticketID string) (int, bool, error)

	// CreateRow appends a pending row for the ticket.
	CreateRow(ctx context.Context, sheetID, ticketID, applicant string) error

	// UpdateCell overwrites a single cell.
	UpdateCell(ctx context.Context, sheetID string, row int, column Column, value string) error

	// Cell reads a single cell. Empty cells read as "".
	Cell(ctx context.Context, sheetID string, row int, column Column) (string, error)
}

// NewRow builds the initial row for a ticket.
func NewRow(ticketID, applicant string) []string {
	return []string{ticketID, "", "", "", "", string(entities.OutcomePending), "", "", applicant}
}

func (c Column) index() (int, error) {
	if len(c) != 1 || c[0] < firstColumn[0] || c[0] > lastColumn[0] {
		return 0, fmt.Errorf("%w: column %q", ErrInvalidCell, string(c))
	}
	return int(c[0] - firstColumn[0]), nil
}

func cellRef(sheetName string, row int, column Column) (string, error) {
	if row < 1 {
		return "", fmt.Errorf("%w: row %d", ErrInvalidCell, row)
	}
	if _, err := column.index(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!%s%d", sheetName, column, row), nil
}
