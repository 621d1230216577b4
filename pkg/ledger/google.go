package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/migrator/pkg/ledger/monitoring"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	// rawInput stores values exactly as given so answers read back unchanged.
	rawInput = "RAW"

	insertRows = "INSERT_ROWS"
)

type googleClient struct {
	// l is the logger.
	l *slog.Logger

	// svc is the sheets API service.
	svc *gsheets.Service

	// sheetName is the tab within each spreadsheet that holds the ledger.
	sheetName string
}

// NewGoogleClient creates a ledger backed by Google Sheets using service account credentials.
func NewGoogleClient(ctx context.Context, l *slog.Logger, credentials []byte, sheetName string) (Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating sheets service: %w", err)
	}
	return newGoogleClient(l, svc, sheetName), nil
}

func newGoogleClient(l *slog.Logger, svc *gsheets.Service, sheetName string) *googleClient {
	if sheetName == "" {
		sheetName = defaultSheetName
	}

	return &googleClient{
		l:         l.With(slog.String(logging.KeyComponent, "google_ledger")),
		svc:       svc,
		sheetName: sheetName,
	}
}

// observe records the metrics for a single API call.
func observe(operation string) func(err error) {
	t := prometheus.NewTimer(monitoring.SheetsLatency.WithLabelValues(operation))
	return func(err error) {
		t.ObserveDuration()
		result := "success"
		if err != nil {
			result = "error"
		}
		monitoring.SheetsTotalRequests.WithLabelValues(operation, result).Inc()
	}
}

func (g *googleClient) FindRow(ctx context.Context, sheetID, ticketID string) (row int, found bool, err error) {
	done := observe("find_row")
	defer func() { done(err) }()

	resp, err := g.svc.Spreadsheets.Values.
		Get(sheetID, fmt.Sprintf("%s!%s:%s", g.sheetName, ColumnTicket, ColumnTicket)).
		Context(ctx).
		Do()
	if err != nil {
		return 0, false, fmt.Errorf("error reading ticket column: %w", err)
	}

	for i, r := range resp.Values {
		if len(r) == 0 {
			continue
		}
		if fmt.Sprint(r[0]) == ticketID {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (g *googleClient) CreateRow(ctx context.Context, sheetID, ticketID, applicant string) (err error) {
	done := observe("create_row")
	defer func() { done(err) }()

	cells := NewRow(ticketID, applicant)
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	_, err = g.svc.Spreadsheets.Values.
		Append(sheetID, fmt.Sprintf("%s!%s:%s", g.sheetName, firstColumn, lastColumn), &gsheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption(rawInput).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error appending row: %w", err)
	}

	g.l.Debug("Created ledger row", slog.String(logging.KeyTicket, ticketID))
	return nil
}

func (g *googleClient) UpdateCell(ctx context.Context, sheetID string, row int, column Column, value string) (err error) {
	done := observe("update_cell")
	defer func() { done(err) }()

	ref, err := cellRef(g.sheetName, row, column)
	if err != nil {
		return err
	}

	_, err = g.svc.Spreadsheets.Values.
		Update(sheetID, ref, &gsheets.ValueRange{
			Values: [][]interface{}{{value}},
		}).
		ValueInputOption(rawInput).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error updating cell %s: %w", ref, err)
	}
	return nil
}

func (g *googleClient) Cell(ctx context.Context, sheetID string, row int, column Column) (value string, err error) {
	done := observe("read_cell")
	defer func() { done(err) }()

	ref, err := cellRef(g.sheetName, row, column)
	if err != nil {
		return "", err
	}

	resp, err := g.svc.Spreadsheets.Values.Get(sheetID, ref).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("error reading cell %s: %w", ref, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}
