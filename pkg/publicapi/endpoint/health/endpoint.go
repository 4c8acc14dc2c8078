package health

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfdn-project/oracle-gateway/pkg/ledger"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/middleware"
)

type EndpointParams struct {
	Router *echo.Echo
	Ledger ledger.Invoker
}

type Endpoint struct {
	router *echo.Echo
	ledger ledger.Invoker
}

func NewEndpoint(params EndpointParams) *Endpoint {
	e := &Endpoint{
		router: params.Router,
		ledger: params.Ledger,
	}

	g := e.router.Group("/api")
	g.Use(middleware.SetContentType(echo.MIMEApplicationJSON))
	g.Use(middleware.SetCrossOrigin())
	g.GET("/health", e.health)
	return e
}

// health godoc
//
//	@ID			health
//	@Summary	Reports gateway liveness and the RPC node's current slot.
//	@Tags		Ops
//	@Produce	json
//	@Success	200	{object}	apimodels.HealthResponse
//	@Failure	503	{object}	apimodels.APIError
//	@Router		/api/health [get]
func (e *Endpoint) health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := e.ledger.Healthy(ctx); err != nil {
		return err
	}
	slot, err := e.ledger.Slot(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apimodels.HealthResponse{
		Status: "OK",
		Slot:   apimodels.FormatUint64(slot),
	})
}
