package logging

const (
	// KeyError is the key for an error.
	KeyError = "err"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyComponent is the key for the core component name.
	KeyComponent = "component"

	// KeyGuildID is the key for a guild ID.
	KeyGuildID = "guild_id"

	// KeyChannelID is the key for a channel ID.
	KeyChannelID = "channel_id"

	// KeyUserID is the key for a user ID.
	KeyUserID = "user_id"

	// KeyTicket is the key for a ticket name.
	KeyTicket = "ticket"

	// KeyCommand is the key for a slash command name.
	KeyCommand = "command"

	// KeyRequestID is the key for the ID given to a single interaction.
	KeyRequestID = "request_id"
)
