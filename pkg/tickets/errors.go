package tickets

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the guild has not been set up.
	ErrNotConfigured = errors.New("guild not configured")

	// ErrDisabled is returned when the guild subscription has expired.
	ErrDisabled = errors.New("guild subscription expired")

	// ErrForbidden is returned when the user is not allowed to run the command.
	ErrForbidden = errors.New("forbidden")

	// ErrTicketNotFound is returned when the ticket has no ledger row.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrWrongContext is returned when a ticket command is used outside a ticket channel.
	ErrWrongContext = errors.New("command used outside a ticket channel")

	// ErrExternalUnavailable is returned when the chat gateway, ledger or config store fails.
	ErrExternalUnavailable = errors.New("external service unavailable")

	// ErrSessionActive is returned when an interview is already running in the ticket channel.
	ErrSessionActive = errors.New("interview already active for ticket")

	// ErrInvalidConfig is returned when setup parameters are missing or invalid.
	ErrInvalidConfig = errors.New("invalid guild configuration")
)

// errSkipSave is returned by an update function to leave the stored record untouched.
var errSkipSave = errors.New("skip save")

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: error %s: %w", ErrExternalUnavailable, op, err)
}
