package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/migrator/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/Jacobbrewer1/migrator/pkg/messages"
	"github.com/Jacobbrewer1/migrator/pkg/request"
	"github.com/Jacobbrewer1/migrator/pkg/tickets"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// commandTimeout bounds the work done for a single slash command.
	commandTimeout = 30 * time.Second

	// eventTimeout bounds the work done for a single gateway event.
	eventTimeout = 30 * time.Second
)

// commandProcessor runs a slash command and returns the response. When an error is returned with a non-empty
// response the response is shown instead of the default message for the error.
type commandProcessor func(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error)

type command struct {
	process commandProcessor

	// public responses are visible to everyone in the channel.
	public bool
}

func eventContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), eventTimeout)
}

func middlewareHttp(a IApp, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				request.Encode(a.Log(), cw, http.StatusInternalServerError, request.NewMessage(request.ErrInternalServer.Error()))
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches slash commands. Every command is deferred first so slow ledger calls do not
// time the interaction out.
func interactionHandler(a IApp, commands map[string]command) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		name := i.ApplicationCommandData().Name
		l := a.Log().With(
			slog.String(logging.KeyCommand, name),
			slog.String(logging.KeyRequestID, uuid.NewString()),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyChannelID, i.ChannelID),
		)

		cmd, ok := commands[name]
		if !ok {
			l.Error("No processor found for command")
			if err := respondSlashError(a, i); err != nil {
				l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(name))
		defer t.ObserveDuration()

		if err := deferResponse(a, i, cmd.public); err != nil {
			l.Error("Error deferring interaction", slog.String(logging.KeyError, err.Error()))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		content, err := runProcessor(ctx, a, i, cmd.process, l)
		monitoring.DiscordCommandTotal.WithLabelValues(name, commandResult(err)).Inc()

		if err != nil {
			if isExpected(err) {
				l.Info("Command refused", slog.String(logging.KeyError, err.Error()))
			} else {
				l.Error("Error processing command", slog.String(logging.KeyError, err.Error()))
			}

			if content == "" {
				content = userMessage(err)
			}
			if cmd.public {
				// Errors are only shown to the user that ran the command.
				replaceWithEphemeral(a, i, content, l)
				return
			}
		}

		if _, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
			l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func runProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate, process commandProcessor, l *slog.Logger) (content string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			l.Error("Panic in command",
				slog.String(logging.KeyError, fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)
			content, err = "", fmt.Errorf("panic: %v", rec)
		}
	}()
	return process(ctx, a, i)
}

func deferResponse(a IApp, i *discordgo.InteractionCreate, public bool) error {
	data := new(discordgo.InteractionResponseData)
	if !public {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

func replaceWithEphemeral(a IApp, i *discordgo.InteractionCreate, content string, l *slog.Logger) {
	if err := a.Session().InteractionResponseDelete(i.Interaction); err != nil {
		l.Warn("Error deleting deferred response", slog.String(logging.KeyError, err.Error()))
	}
	_, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err == nil {
		return
	}

	// The interaction was never acknowledged, so respond to it directly.
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownWebhook {
		err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
	if err != nil {
		l.Error("Error sending followup", slog.String(logging.KeyError, err.Error()))
	}
}

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: messages.ErrUserErrorProcessing,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// expectedErrors are refusals reported to the user as they are.
var expectedErrors = []error{
	tickets.ErrNotConfigured,
	tickets.ErrDisabled,
	tickets.ErrForbidden,
	tickets.ErrTicketNotFound,
	tickets.ErrWrongContext,
	tickets.ErrSessionActive,
	tickets.ErrInvalidConfig,
}

func isExpected(err error) bool {
	for _, e := range expectedErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// commandResult is the metrics label for the outcome of a command.
func commandResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case isExpected(err):
		return "refused"
	case errors.Is(err, tickets.ErrExternalUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// userMessage is the message shown to the user for an error.
func userMessage(err error) string {
	switch {
	case errors.Is(err, tickets.ErrNotConfigured):
		return messages.ErrUserNotConfigured
	case errors.Is(err, tickets.ErrDisabled):
		return messages.ErrUserDisabled
	case errors.Is(err, tickets.ErrForbidden):
		return messages.ErrUserForbidden
	case errors.Is(err, tickets.ErrTicketNotFound):
		return messages.ErrUserTicketNotFound
	case errors.Is(err, tickets.ErrWrongContext):
		return messages.ErrUserWrongContext
	case errors.Is(err, tickets.ErrSessionActive):
		return messages.ErrUserSessionActive
	case errors.Is(err, tickets.ErrInvalidConfig):
		detail := strings.TrimPrefix(err.Error(), tickets.ErrInvalidConfig.Error()+": ")
		return fmt.Sprintf(messages.ErrUserInvalidConfig, strings.ReplaceAll(detail, "\n", "; "))
	case errors.Is(err, tickets.ErrExternalUnavailable):
		return messages.ErrUserExternalUnavailable
	default:
		return messages.ErrUserErrorProcessing
	}
}
