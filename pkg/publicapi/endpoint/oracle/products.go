package oracle

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
)

// createProduct godoc
//
//	@ID			oracle/createProduct
//	@Summary	Registers a product and its price feed account.
//	@Tags		Oracle
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	apimodels.CreateProductResponse
//	@Failure	400	{object}	apimodels.APIError
//	@Failure	502	{object}	apimodels.APIError
//	@Router		/api/products/create [post]
func (e *Endpoint) createProduct(c echo.Context) error {
	ctx := c.Request().Context()
	var req apimodels.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authority, err := apimodels.ParseSignerField("AuthoritySecret", req.AuthoritySecret)
	if err != nil {
		return err
	}

	symbol, err := apimodels.ParseSymbolField("Symbol", req.Symbol)
	if err != nil {
		return err
	}
	assetType, err := models.ParseAssetType(req.AssetType)
	if err != nil {
		return models.NewInvalidFieldError("AssetType", "%s", err)
	}
	priceType, err := models.ParsePriceType(req.PriceType)
	if err != nil {
		return models.NewInvalidFieldError("PriceType", "%s", err)
	}
	if req.MinPublishers == 0 || req.MinPublishers > models.MaxPublishers {
		return models.NewInvalidFieldError("MinPublishers",
			"must be between 1 and %d", models.MaxPublishers)
	}

	instruction, err := e.program.CreateProduct(oracle.CreateProductArgs{
		Symbol:        symbol,
		AssetType:     assetType,
		Description:   req.Description,
		PriceType:     priceType,
		MinPublishers: req.MinPublishers,
		Exponent:      req.Exponent,
	}, authority.PublicKey())
	if err != nil {
		return err
	}

	signature, err := e.ledger.SubmitInstructions(ctx, authority, nil, instruction)
	if err != nil {
		return err
	}

	product, _, err := e.program.ProductAddress(symbol)
	if err != nil {
		return err
	}
	feed, _, err := e.program.PriceAddress(symbol)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.CreateProductResponse{
		Signature: signature.String(),
		Product:   product.String(),
		PriceFeed: feed.String(),
	})
}

// getProduct godoc
//
//	@ID			oracle/getProduct
//	@Summary	Returns a product's registration record.
//	@Tags		Oracle
//	@Produce	json
//	@Param		symbol	path	string	true	"Product symbol, e.g. BTC/USD"
//	@Success	200	{object}	apimodels.ProductResponse
//	@Failure	404	{object}	apimodels.APIError
//	@Router		/api/products/{symbol} [get]
func (e *Endpoint) getProduct(c echo.Context) error {
	ctx := c.Request().Context()
	symbol, err := symbolParam(c)
	if err != nil {
		return err
	}

	address, _, err := e.program.ProductAddress(symbol)
	if err != nil {
		return err
	}
	data, err := e.ledger.AccountData(ctx, address)
	if err != nil {
		return err
	}
	product, err := oracle.DecodeProduct(data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.NewProductResponse(product))
}
