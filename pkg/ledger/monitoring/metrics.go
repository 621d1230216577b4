package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SheetsLatency is the duration of spreadsheet API calls.
	SheetsLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ledger_sheets_latency",
			Help: "Duration of spreadsheet API calls",
		},
		[]string{"operation"},
	)

	// SheetsTotalRequests is the total number of spreadsheet API calls.
	SheetsTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_sheets_total_requests",
			Help: "Total number of spreadsheet API calls",
		},
		[]string{"operation", "result"},
	)
)
