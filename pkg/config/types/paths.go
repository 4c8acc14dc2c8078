package types

// Viper key paths for every configuration value. Kept in one place so flag
// definitions, defaults and lookups cannot drift apart.
const (
	APIHost                  = "API.Host"
	APIPort                  = "API.Port"
	APIReadHeaderTimeout     = "API.ReadHeaderTimeout"
	APIReadTimeout           = "API.ReadTimeout"
	APIWriteTimeout          = "API.WriteTimeout"
	APIRequestHandlerTimeout = "API.RequestHandlerTimeout"
	APIMaxBytesToReadInBody  = "API.MaxBytesToReadInBody"
	APIThrottleLimit         = "API.ThrottleLimit"

	LedgerEndpoint            = "Ledger.Endpoint"
	LedgerCommitment          = "Ledger.Commitment"
	LedgerProgramID           = "Ledger.ProgramID"
	LedgerRequestTimeout      = "Ledger.RequestTimeout"
	LedgerReadRetries         = "Ledger.ReadRetries"
	LedgerConfirmPollInterval = "Ledger.ConfirmPollInterval"

	LogLevel = "Log.Level"
)
