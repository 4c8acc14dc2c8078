package configflags

import "github.com/sfdn-project/oracle-gateway/pkg/config/types"

var APIFlags = []Definition{
	{
		FlagName:     "host",
		DefaultValue: Default.API.Host,
		ConfigPath:   types.APIHost,
		Description:  `The address the HTTP server binds to.`,
	},
	{
		FlagName:     "port",
		DefaultValue: Default.API.Port,
		ConfigPath:   types.APIPort,
		Description:  `The port the HTTP server listens on.`,
	},
	{
		FlagName:     "request-handler-timeout",
		DefaultValue: Default.API.RequestHandlerTimeout,
		ConfigPath:   types.APIRequestHandlerTimeout,
		Description:  `How long a single request may spend inside its handler.`,
	},
	{
		FlagName:     "throttle-limit",
		DefaultValue: Default.API.ThrottleLimit,
		ConfigPath:   types.APIThrottleLimit,
		Description:  `The maximum number of requests per second per client.`,
	},
}

var LedgerFlags = []Definition{
	{
		FlagName:     "rpc-endpoint",
		DefaultValue: Default.Ledger.Endpoint,
		ConfigPath:   types.LedgerEndpoint,
		Description:  `The JSON-RPC URL of the ledger node the gateway fronts.`,
	},
	{
		FlagName:     "commitment",
		DefaultValue: Default.Ledger.Commitment,
		ConfigPath:   types.LedgerCommitment,
		Description:  `The confirmation policy for every ledger call: processed, confirmed or finalized.`,
	},
	{
		FlagName:     "program-id",
		DefaultValue: Default.Ledger.ProgramID,
		ConfigPath:   types.LedgerProgramID,
		Description:  `The base58 address of the deployed oracle program.`,
	},
	{
		FlagName:     "request-timeout",
		DefaultValue: Default.Ledger.RequestTimeout,
		ConfigPath:   types.LedgerRequestTimeout,
		Description:  `How long each submit or fetch against the ledger node may take.`,
	},
	{
		FlagName:     "read-retries",
		DefaultValue: Default.Ledger.ReadRetries,
		ConfigPath:   types.LedgerReadRetries,
		Description:  `How many extra attempts an idempotent read gets. Submissions are never retried.`,
	},
}
