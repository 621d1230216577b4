package monitoring

import (
	"fmt"

	"github.com/Jacobbrewer1/migrator/cmd/bot/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalDiscordEvents is the total number of events.
	TotalDiscordEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_discord_events", config.AppName),
			Help: "Total number of events",
		},
		[]string{"event"},
	)

	// HttpTotalRequests is the total number of http requests.
	HttpTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_http_total_requests", config.AppName),
			Help: "Total number of http requests",
		},
		[]string{"path", "method", "status_code"},
	)

	// HttpRequestDuration is the duration of the http request.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_http_request_duration", config.AppName),
			Help: "Duration of the http request",
		},
		[]string{"path", "method", "status_code"},
	)

	TotalDiscordGuilds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_total_discord_guilds", config.AppName),
			Help: "Total number of discord guilds",
		},
	)

	DiscordCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_discord_command_duration", config.AppName),
			Help: "Duration of the discord command",
		},
		[]string{"command"},
	)

	// DiscordCommandTotal is the total number of commands by result.
	DiscordCommandTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_discord_command_total", config.AppName),
			Help: "Total number of discord commands",
		},
		[]string{"command", "result"},
	)

	// InterviewAnswers is the total number of interview answers received.
	InterviewAnswers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_interview_answers_total", config.AppName),
			Help: "Total number of interview answers received",
		},
	)

	// TicketDecisions is the total number of ticket decisions.
	TicketDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_ticket_decisions_total", config.AppName),
			Help: "Total number of ticket decisions",
		},
		[]string{"outcome", "complete"},
	)

	// SubscriptionSweeps is the total number of guild subscription checks by result.
	SubscriptionSweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_subscription_sweeps_total", config.AppName),
			Help: "Total number of guild subscription checks",
		},
		[]string{"result"},
	)
)
