//go:build unit || !integration

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
)

type CustomHTTPErrorHandlerTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (suite *CustomHTTPErrorHandlerTestSuite) SetupTest() {
	suite.echo = echo.New()
	suite.echo.HTTPErrorHandler = CustomHTTPErrorHandler
}

func (suite *CustomHTTPErrorHandlerTestSuite) handle(req *http.Request, err error) (*httptest.ResponseRecorder, apimodels.APIError) {
	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)
	CustomHTTPErrorHandler(err, c)

	var apiError apimodels.APIError
	if rec.Body.Len() > 0 {
		suite.Require().NoError(json.NewDecoder(rec.Body).Decode(&apiError))
	}
	return rec, apiError
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestBaseError() {
	err := models.NewBaseError("publisher %s is not registered", "alice").
		WithCode(models.NotFoundError).
		WithComponent("Oracle").
		WithHint("register the publisher first")

	rec, apiError := suite.handle(httptest.NewRequest(http.MethodGet, "/", nil), err)

	suite.Equal(http.StatusNotFound, rec.Result().StatusCode)
	suite.Equal("publisher alice is not registered", apiError.Message)
	suite.Equal(string(models.NotFoundError), apiError.Code)
	suite.Equal("Oracle", apiError.Component)
	suite.Equal("register the publisher first", apiError.Hint)
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestWrappedBaseError() {
	wrapped := fmt.Errorf("loading feed: %w",
		models.NewBaseError("bad symbol").WithCode(models.ValidationFailed))

	rec, apiError := suite.handle(httptest.NewRequest(http.MethodGet, "/", nil), wrapped)

	suite.Equal(http.StatusBadRequest, rec.Result().StatusCode)
	suite.Equal(string(models.ValidationFailed), apiError.Code)
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestEchoHTTPError() {
	err := echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")

	rec, apiError := suite.handle(httptest.NewRequest(http.MethodPost, "/", nil), err)

	suite.Equal(http.StatusRequestEntityTooLarge, rec.Result().StatusCode)
	suite.Equal("request body too large", apiError.Message)
	suite.Equal(string(models.InternalError), apiError.Code)
	suite.Equal("APIServer", apiError.Component)
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestEchoNotFoundMapsToNotFoundCode() {
	_, apiError := suite.handle(
		httptest.NewRequest(http.MethodGet, "/nope", nil),
		echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	suite.Equal(string(models.NotFoundError), apiError.Code)
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestDefaultError() {
	rec, apiError := suite.handle(
		httptest.NewRequest(http.MethodGet, "/", nil),
		errors.New("unclassified failure with secrets in it"))

	suite.Equal(http.StatusInternalServerError, rec.Result().StatusCode)
	suite.Equal("internal server error", apiError.Message)
	suite.Equal(string(models.InternalError), apiError.Code)
	suite.Equal("Unknown", apiError.Component)
	suite.NotContains(apiError.Message, "secrets")
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestHeadRequestHasNoBody() {
	rec, _ := suite.handle(
		httptest.NewRequest(http.MethodHead, "/", nil),
		errors.New("test error"))

	suite.Equal(http.StatusInternalServerError, rec.Result().StatusCode)
	suite.Empty(rec.Body.String())
}

func (suite *CustomHTTPErrorHandlerTestSuite) TestRequestIDPropagation() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "test-request-id")

	rec, apiError := suite.handle(req, errors.New("test error"))

	suite.Equal(http.StatusInternalServerError, rec.Result().StatusCode)
	suite.Equal("test-request-id", apiError.RequestID)
}

func TestCustomHTTPErrorHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CustomHTTPErrorHandlerTestSuite))
}
