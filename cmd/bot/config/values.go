package config

import "time"

const (
	// AppName is the name of the application.
	AppName = "migrator"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvBotOwnerId is the environment variable for the user allowed to set up and renew guilds.
	EnvBotOwnerId = `BOT_OWNER_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvGoogleCreds is the environment variable for the Google service account JSON.
	EnvGoogleCreds = `GOOGLE_CREDS`

	// EnvSheetTab is the environment variable for the spreadsheet tab holding the ledger.
	EnvSheetTab = `SHEET_TAB`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvSweepInterval is the environment variable for how often subscriptions are checked.
	EnvSweepInterval = `SWEEP_INTERVAL`
)

const (
	defaultMonitoringPort = "8080"
	defaultSheetTab       = "Sheet1"
	defaultSweepInterval  = time.Hour
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// BotOwnerId is the ID of the user allowed to set up and renew guilds.
	BotOwnerId string

	// MongoUri is the URI for the MongoDB database. Guild configuration is kept in memory when empty.
	MongoUri string

	// GoogleCreds is the Google service account JSON. The ledger is kept in memory when empty.
	GoogleCreds string

	// SheetTab is the spreadsheet tab holding the ledger.
	SheetTab string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// SweepInterval is how often subscriptions are checked.
	SweepInterval time.Duration
)
