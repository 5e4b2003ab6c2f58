package commands

const (
	DEFAULT_SETTINGS = ".env"
	DEFAULT_LOGFILE  = "ozon_integration.log"

	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
)
