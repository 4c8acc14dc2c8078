package serve

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sfdn-project/oracle-gateway/cmd/util"
	"github.com/sfdn-project/oracle-gateway/cmd/util/flags/configflags"
	"github.com/sfdn-project/oracle-gateway/pkg/config"
	"github.com/sfdn-project/oracle-gateway/pkg/config/types"
	"github.com/sfdn-project/oracle-gateway/pkg/ledger"
	"github.com/sfdn-project/oracle-gateway/pkg/logger"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/endpoint/admin"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/endpoint/governance"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/endpoint/health"
	oracle_endpoint "github.com/sfdn-project/oracle-gateway/pkg/publicapi/endpoint/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/version"
)

const shutdownGrace = 10 * time.Second

const serveExample = `  # Start a gateway against the devnet cluster with the stock settings
  oracle-gateway serve

  # Front a local test validator instead
  ORACLE_GATEWAY_ENVIRONMENT=localnet oracle-gateway serve

  # Point at a specific RPC node and program deployment
  oracle-gateway serve --rpc-endpoint http://validator.internal:8899 --program-id <base58>`

func NewCmd() *cobra.Command {
	serveFlags := map[string][]configflags.Definition{
		"api":    configflags.APIFlags,
		"ledger": configflags.LedgerFlags,
	}

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the oracle gateway",
		Long:    "Start the HTTP gateway that fronts the oracle program with a JSON API.",
		Example: serveExample,
		Args:    cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			// Bind here rather than at registration so commands sharing a
			// flag name cannot clobber each other's viper keys.
			if err := configflags.BindFlags(cmd, serveFlags); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}

	if err := configflags.RegisterFlags(serveCmd, serveFlags); err != nil {
		util.Fatal(serveCmd, err, 1)
	}

	return serveCmd
}

func serve(cmd *cobra.Command) error {
	ctx := cmd.Context()

	repoDir := viper.GetString("repo")
	if err := util.EnsureRepoDir(repoDir); err != nil {
		return err
	}

	// First run writes a complete config file next to the repo so operators
	// have something to edit; later runs read it back.
	var cfg types.GatewayConfig
	configPath := filepath.Join(repoDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg, err = config.Init(repoDir)
		if err != nil {
			return errors.Wrap(err, "failed to initialize configuration")
		}
	} else if err != nil {
		return errors.Wrap(err, "failed to stat the config file")
	} else {
		cfg, err = config.Load(repoDir)
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if err := logger.ParseAndSetLevel(cfg.Log.Level); err != nil {
		return err
	}

	// Validate guarantees the program ID parses.
	programID := solana.MustPublicKeyFromBase58(cfg.Ledger.ProgramID)
	program := oracle.NewProgram(programID)

	client := ledger.NewClient(ledger.ClientParams{
		Endpoint:       cfg.Ledger.Endpoint,
		Commitment:     rpc.CommitmentType(cfg.Ledger.Commitment),
		RequestTimeout: cfg.Ledger.RequestTimeout.AsTimeDuration(),
		ReadRetries:    cfg.Ledger.ReadRetries,
		PollInterval:   cfg.Ledger.ConfirmPollInterval.AsTimeDuration(),
	})

	router := echo.New()
	health.NewEndpoint(health.EndpointParams{
		Router: router,
		Ledger: client,
	})
	oracle_endpoint.NewEndpoint(oracle_endpoint.EndpointParams{
		Router:  router,
		Program: program,
		Ledger:  client,
	})
	admin.NewEndpoint(admin.EndpointParams{
		Router:  router,
		Program: program,
		Ledger:  client,
	})
	governance.NewEndpoint(governance.EndpointParams{
		Router:  router,
		Program: program,
		Ledger:  client,
	})

	server, err := publicapi.NewAPIServer(publicapi.ServerParams{
		Router:  router,
		Address: cfg.API.Host,
		Port:    cfg.API.Port,
		Config: publicapi.Config{
			ReadHeaderTimeout:     cfg.API.ReadHeaderTimeout.AsTimeDuration(),
			ReadTimeout:           cfg.API.ReadTimeout.AsTimeDuration(),
			WriteTimeout:          cfg.API.WriteTimeout.AsTimeDuration(),
			RequestHandlerTimeout: cfg.API.RequestHandlerTimeout.AsTimeDuration(),
			MaxBytesToReadInBody:  cfg.API.MaxBytesToReadInBody,
			ThrottleLimit:         cfg.API.ThrottleLimit,
			LogLevel:              cfg.Log.Level,
		},
		Headers: versionHeaders(),
	})
	if err != nil {
		return err
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return errors.Wrap(err, "failed to start the API server")
	}
	log.Ctx(ctx).Info().
		Stringer("Address", server.GetURI()).
		Str("Cluster", cfg.Ledger.Endpoint).
		Str("Program", cfg.Ledger.ProgramID).
		Str("Commitment", cfg.Ledger.Commitment).
		Msg("Oracle gateway is listening")

	<-ctx.Done()
	log.Info().Msg("Shutting down the oracle gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// versionHeaders is the build metadata every response carries, so operators
// can tell which gateway build they are talking to.
func versionHeaders() map[string]string {
	buildInfo := version.Get()
	headers := map[string]string{
		apimodels.HTTPHeaderGatewayGitVersion: buildInfo.GitVersion,
		apimodels.HTTPHeaderGatewayBuildOS:    buildInfo.GOOS,
		apimodels.HTTPHeaderGatewayArch:       buildInfo.GOARCH,
	}
	if buildInfo.GitCommit != "" {
		headers[apimodels.HTTPHeaderGatewayGitCommit] = buildInfo.GitCommit
	}
	if !buildInfo.BuildDate.IsZero() {
		headers[apimodels.HTTPHeaderGatewayBuildDate] = buildInfo.BuildDate.UTC().Format(time.RFC3339)
	}
	return headers
}
