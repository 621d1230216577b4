package messages

// User facing errors.
const (
	// ErrUserErrorProcessing is returned when a command fails for an unexpected reason.
	ErrUserErrorProcessing = "❌ Something went wrong while processing your request. Please try again later."

	ErrUserNotConfigured = "❌ Bot inactive. This server has not been set up yet."

	ErrUserDisabled = "❌ Bot inactive. The subscription for this server has expired, please contact the owner."

	ErrUserForbidden = "❌ No permission."

	ErrUserOwnerOnly = "❌ Owner only."

	ErrUserTicketNotFound = "❌ Ticket not found. Run /fill-details in the ticket first."

	ErrUserWrongContext = "❌ Ticket only command."

	ErrUserSessionActive = "❌ The details for this ticket are already being filled in."

	ErrUserInvalidConfig = "❌ Invalid setup: %s"

	ErrUserExternalUnavailable = "⚠️ An external service is unavailable right now. Nothing further was changed, please try again."
)

// Command responses.
const (
	SetupCompleted = "✅ Setup completed. You have been subscribed for 30 days."

	ServiceExtended = "✅ Service extended by 30 days."

	WelcomeUpdated = "✅ Welcome message updated successfully."

	ActionCompleted = "✅ Action completed."

	// DecisionLedgerFailed is sent when the vote closed but the sheet could not be updated.
	DecisionLedgerFailed = "⚠️ The vote was closed but the decision could not be written to the sheet. Run the command again to retry."

	// DecisionNotMoved is sent when the sheet was updated but the channel could not be moved.
	DecisionNotMoved = "⚠️ The ticket was marked **%s** in the sheet, but the channel could not be moved. Please move it manually or run the command again."
)

// Channel messages.
const (
	VoteOpen = "🗳️ **Vote for %s**"

	VoteClosed = "🔒 **VOTING CLOSED: %s**\n✅ Yes: %d | ❌ No: %d"

	// VoteClosedNoTally is used when the reactions could not be read.
	VoteClosedNoTally = "🔒 **VOTING CLOSED: %s**"

	InterviewCompleted = "✅ **Details recorded. Please upload screenshots of your ROK profile, Bag, Commanders/ Equipments and wait for officers.**"

	InterviewRetry = "⚠️ Your answer could not be saved. Please send it again."

	TicketApproved = "✅ This ticket has been **approved** by %s."

	TicketRejected = "❌ This ticket has been **rejected** by %s."

	TicketRejectedReason = "❌ This ticket has been **rejected** by %s.\nReason: %s"

	ExpiryWarning = "⚠️ **Migration Manager Notice**\n\n" +
		"This bot will stop working in **5 days**.\n" +
		"Please contact the owner to continue using the service."
)
