package oracle

import (
	"context"

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

// Endpoint serves the oracle's product, publisher and price surface.
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
	g.Use(middleware.SetCrossOrigin())

	// Symbols such as BTC/USD contain a slash, so GET routes match the
	// rest of the path rather than a single segment. The static POST
	// routes are registered on the same groups and take precedence.
	g.POST("/products/create", e.createProduct)
	g.GET("/products/*", e.getProduct)

	g.POST("/publishers/add", e.addPublisher)
	g.POST("/publishers/stake", e.stake)
	g.POST("/publishers/unstake", e.unstake)
	g.POST("/publishers/withdraw-unbonded", e.withdrawUnbonded)
	g.GET("/publishers/:address", e.getPublisher)

	g.POST("/prices/update", e.updatePrice)
	g.POST("/prices/aggregate", e.aggregatePrice)
	g.GET("/prices/*", e.getPrice)

	g.GET("/vault", e.getVault)
	return e
}

// symbolParam pulls the feed symbol out of a wildcard route.
func symbolParam(c echo.Context) (string, error) {
	return apimodels.ParseSymbolField("symbol", c.Param("*"))
}

func (e *Endpoint) loadGlobalState(ctx context.Context) (*oracle.GlobalState, error) {
	address, _, err := e.program.GlobalStateAddress()
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
	return oracle.DecodeGlobalState(data)
}

func (e *Endpoint) loadFeed(ctx context.Context, symbol string) (*oracle.PriceFeed, error) {
	address, _, err := e.program.PriceAddress(symbol)
	if err != nil {
		return nil, err
	}
	data, err := e.ledger.AccountData(ctx, address)
	if err != nil {
		return nil, err
	}
	return oracle.DecodePriceFeed(data)
}

// stakeAccounts resolves the publisher-side and vault-side token accounts
// for the mint the program was initialized with.
func (e *Endpoint) stakeAccounts(ctx context.Context, publisher solana.PublicKey) (publisherToken, vaultToken solana.PublicKey, err error) {
	state, err := e.loadGlobalState(ctx)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	vaultAuthority, _, err := e.program.VaultAuthorityAddress()
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	publisherToken, _, err = solana.FindAssociatedTokenAddress(publisher, state.TokenMint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, models.NewBaseError("deriving publisher token account: %s", err).
			WithCode(models.InternalError)
	}
	vaultToken, _, err = solana.FindAssociatedTokenAddress(vaultAuthority, state.TokenMint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, models.NewBaseError("deriving vault token account: %s", err).
			WithCode(models.InternalError)
	}
	return publisherToken, vaultToken, nil
}
