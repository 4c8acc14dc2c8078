package configflags

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sfdn-project/oracle-gateway/pkg/config"
	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
)

// Default is the configuration the flag defaults are drawn from, so help text
// shows the values the current environment would actually use.
var Default = config.ForEnvironment()

// A Definition connects a command line flag to the viper key it configures.
type Definition struct {
	FlagName             string
	ConfigPath           string
	DefaultValue         interface{}
	Description          string
	EnvironmentVariables []string
}

// RegisterFlags adds the flags from every definition group to the command.
func RegisterFlags(cmd *cobra.Command, register map[string][]Definition) error {
	for name, defs := range register {
		fset := pflag.NewFlagSet(name, pflag.ContinueOnError)
		for _, def := range defs {
			switch value := def.DefaultValue.(type) {
			case string:
				fset.String(def.FlagName, value, def.Description)
			case bool:
				fset.Bool(def.FlagName, value, def.Description)
			case int:
				fset.Int(def.FlagName, value, def.Description)
			case uint16:
				fset.Uint16(def.FlagName, value, def.Description)
			case time.Duration:
				fset.Duration(def.FlagName, value, def.Description)
			case types.Duration:
				fset.Duration(def.FlagName, value.AsTimeDuration(), def.Description)
			default:
				return fmt.Errorf("unhandled type %T for flag %s", value, def.FlagName)
			}
		}
		cmd.Flags().AddFlagSet(fset)
	}
	return nil
}

// BindFlags connects the flags to their viper keys and environment variable
// aliases. Binding happens in the command's PreRun so that commands sharing a
// flag name cannot clobber each other's keys.
func BindFlags(cmd *cobra.Command, register map[string][]Definition) error {
	for _, defs := range register {
		for _, def := range defs {
			flag := cmd.Flags().Lookup(def.FlagName)
			if flag == nil {
				return fmt.Errorf("flag %s is not registered on command %s", def.FlagName, cmd.Name())
			}
			if err := viper.BindPFlag(def.ConfigPath, flag); err != nil {
				return err
			}
			if err := viper.BindEnv(append([]string{def.ConfigPath}, def.EnvironmentVariables...)...); err != nil {
				return err
			}
		}
	}
	return nil
}
