package tickets

// Gateway is the chat platform as seen by the ticket workflow. Every call is a round trip to the platform.
type Gateway interface {
	// SendMessage posts a message to a channel and returns its ID.
	SendMessage(channelID, content string) (string, error)

	// AddReaction adds a reaction from the bot to a message.
	AddReaction(channelID, messageID, emoji string) error

	// EditMessage replaces the content of a message sent by the bot.
	EditMessage(channelID, messageID, content string) error

	// ReactionCounts returns the number of reactions on a message by emoji, including the bot's own.
	ReactionCounts(channelID, messageID string) (map[string]int, error)

	// MoveChannel moves a channel into a category.
	MoveChannel(channelID, categoryID string) error

	// PostableTextChannels lists the text channels in a guild the bot can send messages to.
	PostableTextChannels(guildID string) ([]string, error)
}
