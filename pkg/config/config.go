package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
)

const (
	environmentVariablePrefix = "ORACLE_GATEWAY"
	inferConfigTypes          = true

	configType = "yaml"
	configName = "config"
)

var (
	environmentVariableReplace = strings.NewReplacer(".", "_")
	configDecoderHook          = viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())
)

// Init initializes the configuration under path with the defaults for the
// current environment and writes them to a config file there, so operators
// have a complete file to edit rather than a blank one.
func Init(path string) (types.GatewayConfig, error) {
	return initConfig(path,
		WithDefaultConfig(ForEnvironment()),
		WithFileHandler(WriteConfigHandler),
	)
}

// Load reads the config file under path if one exists. Values resolve in the
// usual viper order: flags over environment variables over the file over the
// environment defaults.
func Load(path string) (types.GatewayConfig, error) {
	return initConfig(path,
		WithDefaultConfig(ForEnvironment()),
		WithFileHandler(ReadConfigHandler),
	)
}

type Params struct {
	FileName      string
	FileType      string
	FileHandler   func(fileName string) error
	DefaultConfig types.GatewayConfig
}

func initConfig(path string, opts ...Option) (types.GatewayConfig, error) {
	params := &Params{
		FileName:      configName,
		FileType:      configType,
		FileHandler:   NoopConfigHandler,
		DefaultConfig: ForEnvironment(),
	}
	for _, opt := range opts {
		opt(params)
	}

	viper.AddConfigPath(path)
	viper.SetConfigName(params.FileName)
	viper.SetConfigType(params.FileType)
	viper.SetEnvPrefix(environmentVariablePrefix)
	viper.SetTypeByDefaultValue(inferConfigTypes)
	viper.SetEnvKeyReplacer(environmentVariableReplace)
	SetDefault(params.DefaultConfig)

	if err := params.FileHandler(filepath.Join(path, fmt.Sprintf("%s.%s", params.FileName, params.FileType))); err != nil {
		return types.GatewayConfig{}, err
	}

	viper.AutomaticEnv()

	var out types.GatewayConfig
	if err := viper.Unmarshal(&out, configDecoderHook); err != nil {
		return types.GatewayConfig{}, err
	}

	return out, nil
}

// SetDefault seeds viper with every value from cfg. Defaults are what remain
// when no flag, environment variable or config file says otherwise.
func SetDefault(cfg types.GatewayConfig) {
	viper.SetDefault(types.APIHost, cfg.API.Host)
	viper.SetDefault(types.APIPort, cfg.API.Port)
	viper.SetDefault(types.APIReadHeaderTimeout, cfg.API.ReadHeaderTimeout.String())
	viper.SetDefault(types.APIReadTimeout, cfg.API.ReadTimeout.String())
	viper.SetDefault(types.APIWriteTimeout, cfg.API.WriteTimeout.String())
	viper.SetDefault(types.APIRequestHandlerTimeout, cfg.API.RequestHandlerTimeout.String())
	viper.SetDefault(types.APIMaxBytesToReadInBody, cfg.API.MaxBytesToReadInBody)
	viper.SetDefault(types.APIThrottleLimit, cfg.API.ThrottleLimit)
	viper.SetDefault(types.LedgerEndpoint, cfg.Ledger.Endpoint)
	viper.SetDefault(types.LedgerCommitment, cfg.Ledger.Commitment)
	viper.SetDefault(types.LedgerProgramID, cfg.Ledger.ProgramID)
	viper.SetDefault(types.LedgerRequestTimeout, cfg.Ledger.RequestTimeout.String())
	viper.SetDefault(types.LedgerReadRetries, cfg.Ledger.ReadRetries)
	viper.SetDefault(types.LedgerConfirmPollInterval, cfg.Ledger.ConfirmPollInterval.String())
	viper.SetDefault(types.LogLevel, cfg.Log.Level)
}

// Reset clears all configuration, useful for testing.
func Reset() {
	viper.Reset()
}
