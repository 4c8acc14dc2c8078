package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
)

// CustomHTTPErrorHandler renders every error leaving a handler as the one
// APIError JSON envelope, so clients never see echo's default error shape.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	var apiError *apimodels.APIError

	var baseErr *models.BaseError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &baseErr):
		apiError = apimodels.FromBaseError(baseErr)

	case errors.As(err, &echoErr):
		// raised by echo itself or its middleware, e.g. a body over the
		// size limit or an unroutable path
		message, _ := echoErr.Message.(string)
		if message == "" {
			message = http.StatusText(echoErr.Code)
		}
		if c.Echo().Debug && echoErr.Internal != nil {
			message += ". " + echoErr.Internal.Error()
		}
		apiError = apimodels.NewAPIError(echoErr.Code, message)
		apiError.Code = string(models.InternalError)
		apiError.Component = "APIServer"
		if echoErr.Code == http.StatusNotFound {
			apiError.Code = string(models.NotFoundError)
		}

	default:
		// handlers return classified errors, so reaching this branch is
		// itself a bug worth hiding details for
		message := "internal server error"
		if c.Echo().Debug {
			message += ". " + err.Error()
		}
		apiError = apimodels.NewAPIError(http.StatusInternalServerError, message)
		apiError.Code = string(models.InternalError)
		apiError.Component = "Unknown"
	}

	// The RequestID middleware stamps the response header; fall back to a
	// client-supplied ID so the envelope is still traceable.
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = c.Request().Header.Get(echo.HeaderXRequestID)
	}
	apiError.RequestID = requestID

	// Keep whatever status an earlier write already committed.
	if c.Response().Committed {
		return
	}

	var responseErr error
	if c.Request().Method == http.MethodHead {
		responseErr = c.NoContent(apiError.HTTPStatusCode)
	} else {
		responseErr = c.JSON(apiError.HTTPStatusCode, apiError)
	}
	if responseErr != nil {
		log.Error().Err(responseErr).
			Str("OriginalError", err.Error()).
			Msg("failed to write error response")
	}
}
