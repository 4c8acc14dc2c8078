package config

import (
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
)

type Option func(options *Params)

func WithFileName(name string) Option {
	return func(options *Params) {
		options.FileName = name
	}
}

func WithFileType(ftype string) Option {
	return func(options *Params) {
		options.FileType = ftype
	}
}

func WithDefaultConfig(cfg types.GatewayConfig) Option {
	return func(options *Params) {
		options.DefaultConfig = cfg
	}
}

func WithFileHandler(handler func(name string) error) Option {
	return func(options *Params) {
		options.FileHandler = handler
	}
}

func NoopConfigHandler(fileName string) error {
	return nil
}

// WriteConfigHandler persists the resolved configuration to fileName so the
// operator has a complete file to edit, then reads it back in as the file
// layer of the configuration.
func WriteConfigHandler(fileName string) error {
	var cfg types.GatewayConfig
	if err := viper.Unmarshal(&cfg, configDecoderHook); err != nil {
		return err
	}

	cfgBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	flags := os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	f, err := os.OpenFile(fileName, flags, os.FileMode(0o644)) //nolint:gomnd
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(cfgBytes); err != nil {
		return err
	}

	return viper.ReadInConfig()
}

// ReadConfigHandler reads the config file if one exists. A missing file is
// fine, the environment defaults cover everything.
func ReadConfigHandler(fileName string) error {
	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	return viper.ReadInConfig()
}
