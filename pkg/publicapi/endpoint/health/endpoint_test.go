//go:build unit || !integration

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdn-project/oracle-gateway/pkg/credentials"
	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/middleware"
)

type fakeInvoker struct {
	slot      uint64
	healthErr error
}

func (f *fakeInvoker) SubmitInstructions(context.Context, credentials.Signer, []credentials.Signer, ...solana.Instruction) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func (f *fakeInvoker) AccountData(context.Context, solana.PublicKey) ([]byte, error) {
	return nil, nil
}

func (f *fakeInvoker) Slot(context.Context) (uint64, error) { return f.slot, nil }

func (f *fakeInvoker) Healthy(context.Context) error { return f.healthErr }

func serve(t *testing.T, invoker *fakeInvoker) *httptest.ResponseRecorder {
	t.Helper()
	router := echo.New()
	router.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	NewEndpoint(EndpointParams{Router: router, Ledger: invoker})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthReportsSlot(t *testing.T) {
	rr := serve(t, &fakeInvoker{slot: 251_403_188})

	require.Equal(t, http.StatusOK, rr.Code)
	var payload apimodels.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, "OK", payload.Status)
	assert.Equal(t, "251403188", payload.Slot)
}

func TestHealthUnreachableNode(t *testing.T) {
	rr := serve(t, &fakeInvoker{
		healthErr: models.NewBaseError("rpc node reports unhealthy: node is behind").
			WithCode(models.NetworkFailure).
			WithRetryable(),
	})

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var payload apimodels.APIError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, string(models.NetworkFailure), payload.Code)
}
