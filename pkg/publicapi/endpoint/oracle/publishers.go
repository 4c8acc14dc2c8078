package oracle

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sfdn-project/oracle-gateway/pkg/credentials"
	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
)

// addPublisher godoc
//
//	@ID			oracle/addPublisher
//	@Summary	Registers a publisher and transfers its initial stake to the vault.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.AddPublisherResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/publishers/add [post]
func (e *Endpoint) addPublisher(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.AddPublisherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publisher, err := apimodels.ParseSignerField("PublisherSecret", req.PublisherSecret)
	if err != nil {
		return err
	}

	// The publisher funds its own registration unless a separate payer
	// was supplied.
	payer := credentials.Signer(publisher)
	extraSigners := []credentials.Signer(nil)
	if strings.TrimSpace(req.PayerSecret) != "" {
		payer, err = apimodels.ParseSignerField("PayerSecret", req.PayerSecret)
		if err != nil {
			return err
		}
		extraSigners = []credentials.Signer{publisher}
	}

	if strings.TrimSpace(req.Name) == "" {
		return models.NewMissingFieldError("Name")
	}
	initialStake, err := apimodels.ParseUint64Field("InitialStake", req.InitialStake)
	if err != nil {
		return err
	}

	publisherToken, vaultToken, err := e.stakeAccounts(ctx, publisher.PublicKey())
	if err != nil {
		return err
	}

	instruction, err := e.program.AddPublisher(oracle.AddPublisherArgs{
		Name:         req.Name,
		InitialStake: initialStake,
	}, publisher.PublicKey(), payer.PublicKey(), publisherToken, vaultToken)
	if err != nil {
		return err
	}

	signature, err := e.ledger.SubmitInstructions(ctx, payer, extraSigners, instruction)
	if err != nil {
		return err
	}

	record, _, err := e.program.PublisherAddress(publisher.PublicKey())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.AddPublisherResponse{
		Signature: signature.String(),
		Publisher: record.String(),
	})
}

// getPublisher godoc
//
//	@ID			oracle/getPublisher
//	@Summary	Returns a publisher's stake and reputation record by its authority key.
//	@Tags		Oracle
//	@Produce	json
//	@Param		address	path	string	true	"Publisher authority, base58"
//	@Success	200	{object}	apimodels.PublisherResponse
//	@Failure	404	{object}	apimodels.APIError
//	@Router		/api/publishers/{address} [get]
func (e *Endpoint) getPublisher(c echo.Context) error {
	ctx := c.Request().Context()
	authority, err := apimodels.ParsePublicKeyField("address", c.Param("address"))
	if err != nil {
		return err
	}

	address, _, err := e.program.PublisherAddress(authority)
	if err != nil {
		return err
	}
	data, err := e.ledger.AccountData(ctx, address)
	if err != nil {
		return err
	}
	record, err := oracle.DecodePublisher(data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.NewPublisherResponse(record))
}

// stake godoc
//
//	@ID			oracle/stake
//	@Summary	Moves additional tokens from the publisher's account into the vault.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/publishers/stake [post]
func (e *Endpoint) stake(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.StakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publisher, err := apimodels.ParseSignerField("PublisherSecret", req.PublisherSecret)
	if err != nil {
		return err
	}
	amount, err := apimodels.ParseUint64Field("Amount", req.Amount)
	if err != nil {
		return err
	}
	if amount == 0 {
		return models.NewInvalidFieldError("Amount", "must be positive")
	}

	publisherToken, vaultToken, err := e.stakeAccounts(ctx, publisher.PublicKey())
	if err != nil {
		return err
	}

	instruction, err := e.program.StakeTokens(amount, publisher.PublicKey(), publisherToken, vaultToken)
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, publisher, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// unstake godoc
//
//	@ID			oracle/unstake
//	@Summary	Starts unbonding part of the publisher's stake.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/publishers/unstake [post]
func (e *Endpoint) unstake(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.UnstakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publisher, err := apimodels.ParseSignerField("PublisherSecret", req.PublisherSecret)
	if err != nil {
		return err
	}
	amount, err := apimodels.ParseUint64Field("Amount", req.Amount)
	if err != nil {
		return err
	}
	if amount == 0 {
		return models.NewInvalidFieldError("Amount", "must be positive")
	}

	instruction, err := e.program.UnstakeTokens(amount, publisher.PublicKey())
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, publisher, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// withdrawUnbonded godoc
//
//	@ID			oracle/withdrawUnbonded
//	@Summary	Pays out stake whose unbonding period has elapsed.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/publishers/withdraw-unbonded [post]
func (e *Endpoint) withdrawUnbonded(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.WithdrawUnbondedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publisher, err := apimodels.ParseSignerField("PublisherSecret", req.PublisherSecret)
	if err != nil {
		return err
	}

	publisherToken, vaultToken, err := e.stakeAccounts(ctx, publisher.PublicKey())
	if err != nil {
		return err
	}

	instruction, err := e.program.WithdrawUnbonded(publisher.PublicKey(), publisherToken, vaultToken)
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, publisher, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}
