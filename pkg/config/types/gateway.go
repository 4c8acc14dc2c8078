package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/hashicorp/go-multierror"
)

// GatewayConfig is the root of the gateway's configuration tree. Field names
// double as the viper key path, e.g. Ledger.Endpoint.
type GatewayConfig struct {
	API    APIConfig    `yaml:"API"`
	Ledger LedgerConfig `yaml:"Ledger"`
	Log    LogConfig    `yaml:"Log"`
}

type APIConfig struct {
	// Host is the address the HTTP server binds to.
	Host string `yaml:"Host"`
	// Port is the port the HTTP server listens on.
	Port uint16 `yaml:"Port"`
	// ReadHeaderTimeout, ReadTimeout and WriteTimeout are TCP level deadlines
	// applied to every connection.
	ReadHeaderTimeout Duration `yaml:"ReadHeaderTimeout"`
	ReadTimeout       Duration `yaml:"ReadTimeout"`
	WriteTimeout      Duration `yaml:"WriteTimeout"`
	// RequestHandlerTimeout bounds how long a single request may spend inside
	// its handler, including the round trips to the ledger.
	RequestHandlerTimeout Duration `yaml:"RequestHandlerTimeout"`
	// MaxBytesToReadInBody is a human friendly body size limit, e.g. "10MB".
	MaxBytesToReadInBody string `yaml:"MaxBytesToReadInBody"`
	// ThrottleLimit is the maximum number of requests per second per client.
	ThrottleLimit int `yaml:"ThrottleLimit"`
}

type LedgerConfig struct {
	// Endpoint is the JSON-RPC URL of the ledger node the gateway fronts.
	Endpoint string `yaml:"Endpoint"`
	// Commitment is the confirmation policy applied to every ledger call,
	// one of processed, confirmed or finalized.
	Commitment string `yaml:"Commitment"`
	// ProgramID is the base58 address of the deployed oracle program.
	ProgramID string `yaml:"ProgramID"`
	// RequestTimeout bounds each submit or fetch against the ledger node.
	RequestTimeout Duration `yaml:"RequestTimeout"`
	// ReadRetries is how many extra attempts an idempotent read gets.
	// Submissions are never retried.
	ReadRetries int `yaml:"ReadRetries"`
	// ConfirmPollInterval is the cadence at which a submitted signature is
	// polled for confirmation.
	ConfirmPollInterval Duration `yaml:"ConfirmPollInterval"`
}

type LogConfig struct {
	// Level is the global log level: trace, debug, info, warn or error.
	Level string `yaml:"Level"`
}

// Validate reports every problem with the configuration rather than stopping
// at the first one found.
func (c GatewayConfig) Validate() error {
	var mErr *multierror.Error

	if c.API.Host == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("API.Host is required"))
	}
	if c.API.ThrottleLimit <= 0 {
		mErr = multierror.Append(mErr, fmt.Errorf("API.ThrottleLimit must be positive, got %d", c.API.ThrottleLimit))
	}
	for key, timeout := range map[string]Duration{
		"API.ReadHeaderTimeout":     c.API.ReadHeaderTimeout,
		"API.ReadTimeout":           c.API.ReadTimeout,
		"API.WriteTimeout":          c.API.WriteTimeout,
		"API.RequestHandlerTimeout": c.API.RequestHandlerTimeout,
		"Ledger.RequestTimeout":     c.Ledger.RequestTimeout,
	} {
		if timeout <= 0 {
			mErr = multierror.Append(mErr, fmt.Errorf("%s must be positive, got %s", key, timeout))
		}
	}

	if c.Ledger.Endpoint == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("Ledger.Endpoint is required"))
	}
	switch c.Ledger.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		mErr = multierror.Append(mErr, fmt.Errorf(
			"Ledger.Commitment must be one of processed, confirmed or finalized, got %q", c.Ledger.Commitment))
	}
	if c.Ledger.ProgramID == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("Ledger.ProgramID is required"))
	} else if _, err := solana.PublicKeyFromBase58(c.Ledger.ProgramID); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("Ledger.ProgramID is not a base58 public key: %w", err))
	}
	if c.Ledger.ReadRetries < 0 {
		mErr = multierror.Append(mErr, fmt.Errorf("Ledger.ReadRetries must not be negative, got %d", c.Ledger.ReadRetries))
	}

	return mErr.ErrorOrNil()
}
