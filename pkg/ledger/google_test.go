package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// fakeSheets serves the subset of the Sheets values API used by the ledger.
type fakeSheets struct {
	mu          sync.Mutex
	rows        map[string][][]string
	inputOption []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// /v4/spreadsheets/{id}/values/{range}[:append]
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/"), "/values/", 2)
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	sheetID, rng := parts[0], parts[1]

	switch r.Method {
	case http.MethodGet:
		resp := &gsheets.ValueRange{Range: rng}
		if strings.HasSuffix(rng, "!A:A") {
			for _, row := range f.rows[sheetID] {
				resp.Values = append(resp.Values, []interface{}{row[0]})
			}
		} else {
			row, col := parseRef(rng)
			if row <= len(f.rows[sheetID]) && f.rows[sheetID][row-1][col] != "" {
				resp.Values = [][]interface{}{{f.rows[sheetID][row-1][col]}}
			}
		}
		_ = json.NewEncoder(w).Encode(resp)

	case http.MethodPost:
		f.inputOption = append(f.inputOption, r.URL.Query().Get("valueInputOption"))
		vr := new(gsheets.ValueRange)
		_ = json.NewDecoder(r.Body).Decode(vr)
		for _, v := range vr.Values {
			row := make([]string, len(v))
			for i, c := range v {
				row[i] = fmt.Sprint(c)
			}
			f.rows[sheetID] = append(f.rows[sheetID], row)
		}
		_ = json.NewEncoder(w).Encode(&gsheets.AppendValuesResponse{SpreadsheetId: sheetID})

	case http.MethodPut:
		f.inputOption = append(f.inputOption, r.URL.Query().Get("valueInputOption"))
		vr := new(gsheets.ValueRange)
		_ = json.NewDecoder(r.Body).Decode(vr)
		row, col := parseRef(rng)
		f.rows[sheetID][row-1][col] = fmt.Sprint(vr.Values[0][0])
		_ = json.NewEncoder(w).Encode(&gsheets.UpdateValuesResponse{SpreadsheetId: sheetID})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// parseRef parses "Sheet1!F5" into a 1-based row and 0-based column.
func parseRef(ref string) (int, int) {
	cell := ref[strings.Index(ref, "!")+1:]
	row, _ := strconv.Atoi(cell[1:])
	return row, int(cell[0] - 'A')
}

func newTestGoogleClient(t *testing.T, handler http.Handler) *googleClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gsheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	l, err := logging.CommonLogger(logging.NewConfig(`tests`).WithWriter(io.Discard))
	require.NoError(t, err, "Failed to create logger")
	return newGoogleClient(l, svc, "")
}

func TestGoogleClient_RowLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSheets{rows: map[string][][]string{
		"sheet-1": {{"ticket-1", "", "", "", "", "PENDING", "", "", "bob"}},
	}}
	c := newTestGoogleClient(t, fake)

	_, found, err := c.FindRow(ctx, "sheet-1", "ticket-42")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.CreateRow(ctx, "sheet-1", "ticket-42", "alice"))

	row, found, err := c.FindRow(ctx, "sheet-1", "ticket-42")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2, row)

	require.NoError(t, c.UpdateCell(ctx, "sheet-1", row, ColumnAnswer1, "=SUM(1,2)"))
	got, err := c.Cell(ctx, "sheet-1", row, ColumnAnswer1)
	require.NoError(t, err)
	require.Equal(t, "=SUM(1,2)", got)

	got, err = c.Cell(ctx, "sheet-1", row, ColumnDecidedBy)
	require.NoError(t, err)
	require.Empty(t, got)

	require.Equal(t, []string{"ticket-42", "=SUM(1,2)", "", "", "", "PENDING", "", "", "alice"}, fake.rows["sheet-1"][1])
	require.Equal(t, []string{"RAW", "RAW"}, fake.inputOption, "values are stored as typed")
}

func TestGoogleClient_Errors(t *testing.T) {
	ctx := context.Background()
	c := newTestGoogleClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, _, err := c.FindRow(ctx, "sheet-1", "ticket-1")
	require.ErrorContains(t, err, "error reading ticket column")

	require.ErrorContains(t, c.CreateRow(ctx, "sheet-1", "ticket-1", "alice"), "error appending row")
	require.ErrorContains(t, c.UpdateCell(ctx, "sheet-1", 1, ColumnStatus, "APPROVED"), "error updating cell Sheet1!F1")
	require.ErrorIs(t, c.UpdateCell(ctx, "sheet-1", 0, ColumnStatus, "APPROVED"), ErrInvalidCell)
}
