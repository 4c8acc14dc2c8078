//go:build unit || !integration

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validConfig() GatewayConfig {
	return GatewayConfig{
		API: APIConfig{
			Host:                  "0.0.0.0",
			Port:                  8080,
			ReadHeaderTimeout:     Duration(10 * time.Second),
			ReadTimeout:           Duration(20 * time.Second),
			WriteTimeout:          Duration(20 * time.Second),
			RequestHandlerTimeout: Duration(30 * time.Second),
			MaxBytesToReadInBody:  "10MB",
			ThrottleLimit:         1000,
		},
		Ledger: LedgerConfig{
			Endpoint:            "http://127.0.0.1:8899",
			Commitment:          "confirmed",
			ProgramID:           "GqEkgwLMtTZ2XmP4LnwJUQbAQWUR3PMfTN8pNojBH6ks",
			RequestTimeout:      Duration(30 * time.Second),
			ReadRetries:         2,
			ConfirmPollInterval: Duration(500 * time.Millisecond),
		},
		Log: LogConfig{Level: "info"},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Ledger.Endpoint = ""
	cfg.Ledger.Commitment = "hopeful"
	cfg.Ledger.ProgramID = "not-base58!"
	cfg.API.ThrottleLimit = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ledger.Endpoint")
	assert.Contains(t, err.Error(), "Ledger.Commitment")
	assert.Contains(t, err.Error(), "Ledger.ProgramID")
	assert.Contains(t, err.Error(), "API.ThrottleLimit")
}

func TestValidateRejectsNonPositiveTimeouts(t *testing.T) {
	cfg := validConfig()
	cfg.API.RequestHandlerTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API.RequestHandlerTimeout")
}

func TestDurationMarshalsAsText(t *testing.T) {
	// Config files should carry "1m30s", not a nanosecond count.
	out, err := yaml.Marshal(struct {
		Timeout Duration `yaml:"Timeout"`
	}{Timeout: Duration(90 * time.Second)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "1m30s")
}

func TestDurationRoundTripsThroughText(t *testing.T) {
	text, err := Duration(90 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	var decoded Duration
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, 90*time.Second, decoded.AsTimeDuration())

	assert.Error(t, decoded.UnmarshalText([]byte("ninety seconds")))
}
