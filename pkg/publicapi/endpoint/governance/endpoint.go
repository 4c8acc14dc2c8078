package governance

import (
	"context"
	"net/http"
	"strings"

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

// Endpoint serves proposal lifecycle operations and the governance
// parameter record.
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

	g := e.router.Group("/api/governance")
	g.Use(middleware.SetContentType(echo.MIMEApplicationJSON))
	g.Use(middleware.SetCrossOrigin())
	g.GET("", e.getGovernance)
	g.POST("/proposals/create", e.createProposal)
	g.GET("/proposals/:id", e.getProposal)
	g.POST("/proposals/:id/vote", e.vote)
	g.POST("/proposals/:id/execute", e.execute)
	g.POST("/proposals/:id/execute-action", e.executeAction)
	return e
}

func proposalIDParam(c echo.Context) (uint64, error) {
	return apimodels.ParseUint64Field("id", c.Param("id"))
}

func (e *Endpoint) loadGovernance(ctx context.Context) (*oracle.Governance, error) {
	address, _, err := e.program.GovernanceAddress()
	if err != nil {
		return nil, err
	}
	data, err := e.ledger.AccountData(ctx, address)
	if err != nil {
		if models.IsErrorWithCode(err, models.NotFoundError) {
			return nil, models.NewBaseError("the oracle program has not been initialized").
				WithCode(models.NotFoundError).
				WithHint("POST /api/initialize first")
		}
		return nil, err
	}
	return oracle.DecodeGovernance(data)
}

func (e *Endpoint) loadProposal(ctx context.Context, id uint64) (*oracle.Proposal, error) {
	address, _, err := e.program.ProposalAddress(id)
	if err != nil {
		return nil, err
	}
	data, err := e.ledger.AccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	return oracle.DecodeProposal(data)
}

// actionFromRequest turns the flat wire payload into the typed action,
// deriving program addresses from the natural keys the caller supplied.
// Everything the program would reject about the action's shape is caught
// here, before any transaction is paid for.
func (e *Endpoint) actionFromRequest(payload apimodels.ProposalActionRequest) (models.ProposalAction, error) {
	kind, err := models.ParseProposalKind(payload.Kind)
	if err != nil {
		return nil, models.NewInvalidFieldError("Action.Kind", "%s", err)
	}

	var action models.ProposalAction
	switch kind {
	case models.ProposalKindUpdateRewardRate:
		rate, err := apimodels.ParseUint64Field("Action.NewRate", payload.NewRate)
		if err != nil {
			return nil, err
		}
		action = models.UpdateRewardRateAction{NewRate: rate}

	case models.ProposalKindUpdateMinPublishers:
		symbol, err := apimodels.ParseSymbolField("Action.Symbol", payload.Symbol)
		if err != nil {
			return nil, err
		}
		feed, _, err := e.program.PriceAddress(symbol)
		if err != nil {
			return nil, err
		}
		action = models.UpdateMinPublishersAction{Feed: feed, NewMin: payload.MinPublishers}

	case models.ProposalKindSlashPublisher:
		authority, err := apimodels.ParsePublicKeyField("Action.PublisherAuthority", payload.PublisherAuthority)
		if err != nil {
			return nil, err
		}
		record, _, err := e.program.PublisherAddress(authority)
		if err != nil {
			return nil, err
		}
		action = models.SlashPublisherAction{Publisher: record, Percentage: payload.Percentage}

	case models.ProposalKindEmergencyPause:
		action = models.EmergencyPauseAction{}

	case models.ProposalKindEmergencyUnpause:
		action = models.EmergencyUnpauseAction{}

	case models.ProposalKindUpdateGovernanceParams:
		params := models.UpdateGovernanceParamsAction{QuorumPercentage: payload.QuorumPercentage}
		if payload.ProposalThreshold != "" {
			v, err := apimodels.ParseUint64Field("Action.ProposalThreshold", payload.ProposalThreshold)
			if err != nil {
				return nil, err
			}
			params.ProposalThreshold = &v
		}
		if payload.VotingPeriod != "" {
			v, err := apimodels.ParseUint64Field("Action.VotingPeriod", payload.VotingPeriod)
			if err != nil {
				return nil, err
			}
			params.VotingPeriod = &v
		}
		if payload.TimelockDuration != "" {
			v, err := apimodels.ParseUint64Field("Action.TimelockDuration", payload.TimelockDuration)
			if err != nil {
				return nil, err
			}
			params.TimelockDuration = &v
		}
		action = params
	}

	if err := action.Validate(); err != nil {
		return nil, models.NewInvalidFieldError("Action", "%s", err)
	}
	return action, nil
}

// createProposal godoc
//
//	@ID			governance/createProposal
//	@Summary	Opens a governance proposal carrying one typed action.
//	@Tags		Governance
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.CreateProposalResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/governance/proposals/create [post]
func (e *Endpoint) createProposal(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.CreateProposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	proposer, err := apimodels.ParseSignerField("ProposerSecret", req.ProposerSecret)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Description) == "" {
		return models.NewMissingFieldError("Description")
	}
	action, err := e.actionFromRequest(req.Action)
	if err != nil {
		return err
	}

	governance, err := e.loadGovernance(ctx)
	if err != nil {
		return err
	}
	proposerToken, _, err := solana.FindAssociatedTokenAddress(proposer.PublicKey(), governance.GovernanceToken)
	if err != nil {
		return models.NewBaseError("deriving proposer token account: %s", err).
			WithCode(models.InternalError)
	}

	// The sequence number is read just before submission. If another
	// proposal lands in between, the program rejects the stale
	// derivation and the client simply retries.
	sequence := governance.ProposalCount
	instruction, err := e.program.CreateProposal(action, req.Description, sequence, proposer.PublicKey(), proposerToken)
	if err != nil {
		return err
	}

	signature, err := e.ledger.SubmitInstructions(ctx, proposer, nil, instruction)
	if err != nil {
		return err
	}

	proposal, _, err := e.program.ProposalAddress(sequence)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.CreateProposalResponse{
		Signature:  signature.String(),
		Proposal:   proposal.String(),
		ProposalID: apimodels.FormatUint64(sequence),
	})
}

// getProposal godoc
//
//	@ID			governance/getProposal
//	@Summary	Returns a proposal's action, tallies and execution state.
//	@Tags		Governance
//	@Produce	json
//	@Param		id	path	string	true	"Proposal sequence number"
//	@Success	200	{object}	apimodels.ProposalResponse
//	@Failure	404	{object}	apimodels.APIError
//	@Router		/api/governance/proposals/{id} [get]
func (e *Endpoint) getProposal(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := proposalIDParam(c)
	if err != nil {
		return err
	}
	proposal, err := e.loadProposal(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.NewProposalResponse(proposal))
}

// vote godoc
//
//	@ID			governance/vote
//	@Summary	Casts a yes, no or abstain ballot weighted by token balance.
//	@Tags		Governance
//	@Accept		json
//	@Produce	json
//	@Param		id	path	string	true	"Proposal sequence number"
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/governance/proposals/{id}/vote [post]
func (e *Endpoint) vote(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := proposalIDParam(c)
	if err != nil {
		return err
	}
	var req apimodels.VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	voter, err := apimodels.ParseSignerField("VoterSecret", req.VoterSecret)
	if err != nil {
		return err
	}
	choice, err := models.ParseVoteChoice(req.Choice)
	if err != nil {
		return models.NewInvalidFieldError("Choice", "%s", err)
	}

	governance, err := e.loadGovernance(ctx)
	if err != nil {
		return err
	}
	voterToken, _, err := solana.FindAssociatedTokenAddress(voter.PublicKey(), governance.GovernanceToken)
	if err != nil {
		return models.NewBaseError("deriving voter token account: %s", err).
			WithCode(models.InternalError)
	}

	instruction, err := e.program.VoteProposal(choice, id, voter.PublicKey(), voterToken)
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, voter, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// execute godoc
//
//	@ID			governance/execute
//	@Summary	Finalizes a proposal whose voting period has ended.
//	@Tags		Governance
//	@Accept		json
//	@Produce	json
//	@Param		id	path	string	true	"Proposal sequence number"
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/governance/proposals/{id}/execute [post]
func (e *Endpoint) execute(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := proposalIDParam(c)
	if err != nil {
		return err
	}
	var req apimodels.ExecuteProposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller, err := apimodels.ParseSignerField("CallerSecret", req.CallerSecret)
	if err != nil {
		return err
	}

	instruction, err := e.program.ExecuteProposal(id)
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, caller, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// executeAction godoc
//
//	@ID			governance/executeAction
//	@Summary	Applies an executed proposal's action to its target accounts.
//	@Tags		Governance
//	@Accept		json
//	@Produce	json
//	@Param		id	path	string	true	"Proposal sequence number"
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/governance/proposals/{id}/execute-action [post]
func (e *Endpoint) executeAction(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := proposalIDParam(c)
	if err != nil {
		return err
	}
	var req apimodels.ExecuteActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authority, err := apimodels.ParseSignerField("AuthoritySecret", req.AuthoritySecret)
	if err != nil {
		return err
	}

	// The action decides which optional accounts the program expects;
	// read the proposal to find out.
	proposal, err := e.loadProposal(ctx, id)
	if err != nil {
		return err
	}
	var priceAccount, publisherAccount *solana.PublicKey
	switch a := proposal.Action.(type) {
	case models.UpdateMinPublishersAction:
		feed := a.Feed
		priceAccount = &feed
	case models.SlashPublisherAction:
		publisher := a.Publisher
		publisherAccount = &publisher
	}

	instruction, err := e.program.ExecuteGovernanceAction(id, authority.PublicKey(), priceAccount, publisherAccount)
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, authority, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// getGovernance godoc
//
//	@ID			governance/get
//	@Summary	Returns the governance parameters and proposal count.
//	@Tags		Governance
//	@Produce	json
//	@Success	200	{object}	apimodels.GovernanceResponse
//	@Failure	404	{object}	apimodels.APIError
//	@Router		/api/governance [get]
func (e *Endpoint) getGovernance(c echo.Context) error {
	governance, err := e.loadGovernance(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.NewGovernanceResponse(governance))
}
