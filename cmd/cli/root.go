package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sfdn-project/oracle-gateway/cmd/cli/serve"
	version_cmd "github.com/sfdn-project/oracle-gateway/cmd/cli/version"
	"github.com/sfdn-project/oracle-gateway/cmd/util"
	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
	"github.com/sfdn-project/oracle-gateway/pkg/logger"
)

// ShutdownSignals are the signals that stop a running command cleanly.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oracle-gateway",
		Short: "HTTP gateway for the oracle program",
		Long:  `oracle-gateway fronts an on-chain oracle program with a JSON HTTP API.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// An explicit --log-level applies before any command logic runs.
			// The serve command re-applies the level once the full
			// configuration is resolved.
			if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
				return logger.ParseAndSetLevel(flag.Value.String())
			}
			return nil
		},
	}

	defaultRepo, err := util.DefaultRepoDir()
	if err != nil {
		util.Fatal(rootCmd, err, 1)
	}

	rootCmd.PersistentFlags().String(
		"repo", defaultRepo,
		`Path to the directory holding the gateway's config file.`,
	)
	_ = viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))

	rootCmd.PersistentFlags().String(
		"log-level", "info",
		`The global log level: trace, debug, info, warn or error.`,
	)
	_ = viper.BindPFlag(types.LogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serve.NewCmd())
	rootCmd.AddCommand(version_cmd.NewCmd())

	return rootCmd
}

func Execute() {
	rootCmd := NewRootCmd()

	// Ensure commands are able to stop cleanly if someone presses ctrl+c.
	ctx, cancel := signal.NotifyContext(context.Background(), ShutdownSignals...)
	defer cancel()
	rootCmd.SetContext(ctx)

	viper.SetEnvPrefix("ORACLE_GATEWAY")
	viper.AutomaticEnv()

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		util.Fatal(rootCmd, err, 1)
	}
}
