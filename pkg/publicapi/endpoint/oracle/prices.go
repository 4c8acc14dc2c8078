package oracle

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
)

// updatePrice godoc
//
//	@ID			oracle/updatePrice
//	@Summary	Publishes one price observation to a feed.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/prices/update [post]
func (e *Endpoint) updatePrice(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.UpdatePriceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publisher, err := apimodels.ParseSignerField("PublisherSecret", req.PublisherSecret)
	if err != nil {
		return err
	}
	symbol, err := apimodels.ParseSymbolField("Symbol", req.Symbol)
	if err != nil {
		return err
	}
	price, err := apimodels.ParseInt64Field("Price", req.Price)
	if err != nil {
		return err
	}
	// the program rejects non-positive prices; fail fast instead
	if price <= 0 {
		return models.NewInvalidFieldError("Price", "must be positive, got %d", price)
	}
	confidence, err := apimodels.ParseUint64Field("Confidence", req.Confidence)
	if err != nil {
		return err
	}

	instruction, err := e.program.UpdatePrice(oracle.UpdatePriceArgs{
		Price:      price,
		Confidence: confidence,
	}, symbol, publisher.PublicKey())
	if err != nil {
		return err
	}

	signature, err := e.ledger.SubmitInstructions(ctx, publisher, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// aggregatePrice godoc
//
//	@ID			oracle/aggregatePrice
//	@Summary	Forces a feed to recompute its aggregate from current observations.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.TransactionResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/prices/aggregate [post]
func (e *Endpoint) aggregatePrice(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.AggregatePriceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller, err := apimodels.ParseSignerField("CallerSecret", req.CallerSecret)
	if err != nil {
		return err
	}
	symbol, err := apimodels.ParseSymbolField("Symbol", req.Symbol)
	if err != nil {
		return err
	}

	instruction, err := e.program.AggregatePrice(symbol)
	if err != nil {
		return err
	}
	signature, err := e.ledger.SubmitInstructions(ctx, caller, nil, instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.TransactionResponse{Signature: signature.String()})
}

// getPrice godoc
//
//	@ID			oracle/getPrice
//	@Summary	Returns a feed's aggregate, EMA and active observations.
//	@Description	A feed with no successful aggregation yet is returned with an unknown status and zeroed aggregate rather than an error.
//	@Tags		Oracle
//	@Produce	json
//	@Param		symbol	path	string	true	"Product symbol, e.g. BTC/USD"
//	@Success	200	{object}	apimodels.PriceResponse
//	@Failure	404	{object}	apimodels.APIError
//	@Router		/api/prices/{symbol} [get]
func (e *Endpoint) getPrice(c echo.Context) error {
	ctx := c.Request().Context()
	symbol, err := symbolParam(c)
	if err != nil {
		return err
	}

	feed, err := e.loadFeed(ctx, symbol)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.NewPriceResponse(symbol, feed, time.Now()))
}

// getVault godoc
//
//	@ID			oracle/getVault
//	@Summary	Returns the stake vault's totals and reward parameters.
//	@Tags		Oracle
//	@Produce	json
//	@Success	200	{object}	apimodels.VaultResponse
//	@Failure	404	{object}	apimodels.APIError
//	@Router		/api/vault [get]
func (e *Endpoint) getVault(c echo.Context) error {
	ctx := c.Request().Context()
	address, _, err := e.program.TokenVaultAddress()
	if err != nil {
		return err
	}
	data, err := e.ledger.AccountData(ctx, address)
	if err != nil {
		return err
	}
	vault, err := oracle.DecodeTokenVault(data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.NewVaultResponse(vault))
}
