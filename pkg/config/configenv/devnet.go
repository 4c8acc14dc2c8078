//nolint:gomnd
package configenv

import (
	"time"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
)

// Devnet holds the defaults for a gateway fronting the devnet cluster.
var Devnet = types.GatewayConfig{
	API: types.APIConfig{
		Host:                  "0.0.0.0",
		Port:                  8080,
		ReadHeaderTimeout:     types.Duration(10 * time.Second),
		ReadTimeout:           types.Duration(20 * time.Second),
		WriteTimeout:          types.Duration(20 * time.Second),
		RequestHandlerTimeout: types.Duration(30 * time.Second),
		MaxBytesToReadInBody:  "10MB",
		ThrottleLimit:         1000,
	},
	Ledger: types.LedgerConfig{
		Endpoint:            rpc.DevNet_RPC,
		Commitment:          string(rpc.CommitmentConfirmed),
		ProgramID:           oracle.DefaultProgramID.String(),
		RequestTimeout:      types.Duration(30 * time.Second),
		ReadRetries:         2,
		ConfirmPollInterval: types.Duration(500 * time.Millisecond),
	},
	Log: types.LogConfig{
		Level: "debug",
	},
}
