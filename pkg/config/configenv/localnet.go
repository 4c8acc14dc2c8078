//nolint:gomnd
package configenv

import (
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
)

// Localnet holds the defaults for a gateway fronting a local test validator,
// which confirms in milliseconds and needs none of mainnet's patience.
var Localnet = types.GatewayConfig{
	API: types.APIConfig{
		Host:                  "127.0.0.1",
		Port:                  8080,
		ReadHeaderTimeout:     types.Duration(10 * time.Second),
		ReadTimeout:           types.Duration(20 * time.Second),
		WriteTimeout:          types.Duration(20 * time.Second),
		RequestHandlerTimeout: types.Duration(30 * time.Second),
		MaxBytesToReadInBody:  "10MB",
		ThrottleLimit:         1000,
	},
	Ledger: types.LedgerConfig{
		Endpoint:            rpc.LocalNet_RPC,
		Commitment:          string(rpc.CommitmentProcessed),
		ProgramID:           oracle.DefaultProgramID.String(),
		RequestTimeout:      types.Duration(10 * time.Second),
		ReadRetries:         0,
		ConfirmPollInterval: types.Duration(100 * time.Millisecond),
	},
	Log: types.LogConfig{
		Level: "debug",
	},
}
