package config

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/sfdn-project/oracle-gateway/pkg/config/configenv"
	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
)

// Environment names the ledger cluster a gateway deployment fronts and
// selects the matching default configuration.
type Environment string

const (
	EnvironmentMainnet  Environment = "mainnet"
	EnvironmentDevnet   Environment = "devnet"
	EnvironmentLocalnet Environment = "localnet"
)

// GetEnvironment reads the deployment environment from the
// ORACLE_GATEWAY_ENVIRONMENT variable. A fresh binary should never point at
// mainnet by accident, so anything unset or unknown falls back to devnet.
func GetEnvironment() Environment {
	env := Environment(os.Getenv(KeyAsEnvVar("Environment")))
	switch env {
	case EnvironmentMainnet, EnvironmentDevnet, EnvironmentLocalnet:
		return env
	case "":
		return EnvironmentDevnet
	default:
		log.Warn().Str("Environment", string(env)).Msg("Unknown environment, using devnet defaults")
		return EnvironmentDevnet
	}
}

// ForEnvironment returns the default configuration for the current
// deployment environment.
func ForEnvironment() types.GatewayConfig {
	switch GetEnvironment() {
	case EnvironmentMainnet:
		return configenv.Mainnet
	case EnvironmentLocalnet:
		return configenv.Localnet
	default:
		return configenv.Devnet
	}
}
