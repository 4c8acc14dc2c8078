package admin

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"

	"github.com/sfdn-project/oracle-gateway/pkg/ledger"
	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/middleware"
)

type EndpointParams struct {
	Router  *echo.Echo
	Program oracle.Program
	Ledger  ledger.Invoker
}

// Endpoint owns the operator-only surface: one-time program bootstrap and
// the emergency brake.
type Endpoint struct {
	router  *echo.Echo
	program oracle.Program
	ledger  ledger.Invoker
}

func NewEndpoint(params EndpointParams) *Endpoint {
	e := &Endpoint{
		router:  params.Router,
		program: params.Program,
		ledger:  params.Ledger,
	}

	g := e.router.Group("/api")
	g.Use(middleware.SetContentType(echo.MIMEApplicationJSON))
	g.POST("/initialize", e.initialize)
	g.POST("/emergency/pause", e.pause)
	g.POST("/emergency/unpause", e.unpause)
	return e
}

// initialize godoc
//
//	@ID			admin/initialize
//	@Summary	Creates the program's global state, stake vault and governance accounts.
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.InitializeResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/initialize [post]
func (e *Endpoint) initialize(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.InitializeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authority, err := apimodels.ParseSignerField("AuthoritySecret", req.AuthoritySecret)
	if err != nil {
		return err
	}
	mint, err := apimodels.ParsePublicKeyField("TokenMint", req.TokenMint)
	if err != nil {
		return err
	}

	if req.QuorumPercentage > models.MaxQuorumPercentage {
		return models.NewInvalidFieldError("QuorumPercentage",
			"%d exceeds the maximum of %d", req.QuorumPercentage, models.MaxQuorumPercentage)
	}

	args := oracle.InitializeProgramArgs{QuorumPercentage: req.QuorumPercentage}
	if args.RewardRate, err = apimodels.ParseUint64Field("RewardRate", req.RewardRate); err != nil {
		return err
	}
	if args.ProposalThreshold, err = apimodels.ParseUint64Field("ProposalThreshold", req.ProposalThreshold); err != nil {
		return err
	}
	if args.VotingPeriod, err = apimodels.ParseUint64Field("VotingPeriod", req.VotingPeriod); err != nil {
		return err
	}
	if args.TimelockDuration, err = apimodels.ParseUint64Field("TimelockDuration", req.TimelockDuration); err != nil {
		return err
	}
	if args.TotalSupply, err = apimodels.ParseUint64Field("TotalSupply", req.TotalSupply); err != nil {
		return err
	}

	globalState, _, err := e.program.GlobalStateAddress()
	if err != nil {
		return err
	}
	tokenVault, _, err := e.program.TokenVaultAddress()
	if err != nil {
		return err
	}
	governance, _, err := e.program.GovernanceAddress()
	if err != nil {
		return err
	}
	vaultAuthority, _, err := e.program.VaultAuthorityAddress()
	if err != nil {
		return err
	}
	vaultTokenAccount, _, err := solana.FindAssociatedTokenAddress(vaultAuthority, mint)
	if err != nil {
		return models.NewBaseError("deriving vault token account: %s", err).
			WithCode(models.InternalError)
	}

	instruction, err := e.program.InitializeProgram(args, authority.PublicKey(), mint, vaultTokenAccount)
	if err != nil {
		return err
	}

	signature, err := e.ledger.SubmitInstructions(ctx, authority, nil, instruction)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apimodels.InitializeResponse{
		Signature:      signature.String(),
		GlobalState:    globalState.String(),
		TokenVault:     tokenVault.String(),
		VaultAuthority: vaultAuthority.String(),
		Governance:     governance.String(),
	})
}

// pause godoc
//
//	@ID			admin/pause
//	@Summary	Halts all price updates and staking until unpaused.
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/emergency/pause [post]
func (e *Endpoint) pause(c echo.Context) error {
	return e.toggle(c, e.program.EmergencyPause)
}

// unpause godoc
//
//	@ID			admin/unpause
//	@Summary	Lifts an emergency pause.
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/emergency/unpause [post]
func (e *Endpoint) unpause(c echo.Context) error {
	return e.toggle(c, e.program.EmergencyUnpause)
}

func (e *Endpoint) toggle(c echo.Context, build func(solana.PublicKey) (solana.Instruction, error)) error {
	ctx := c.Request().Context()
	var req apimodels.ToggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authority, err := apimodels.ParseSignerField("AuthoritySecret", req.AuthoritySecret)
	if err != nil {
		return err
	}

	instruction, err := build(authority.PublicKey())
	if err != nil {
		return err
	}

	signature, err := e.ledger.SubmitInstructions(ctx, authority, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}
