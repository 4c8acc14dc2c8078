//go:build unit || !integration

package admin

import (
	"bytes"
	"context"
	"encoding/base64"
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
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/apimodels"
	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/middleware"
)

type recordedSubmission struct {
	payer        solana.PublicKey
	extraSigners []solana.PublicKey
	instructions []solana.Instruction
}

type fakeInvoker struct {
	signature   solana.Signature
	submissions []recordedSubmission
}

func (f *fakeInvoker) SubmitInstructions(_ context.Context, payer credentials.Signer, extraSigners []credentials.Signer, instructions ...solana.Instruction) (solana.Signature, error) {
	sub := recordedSubmission{payer: payer.PublicKey(), instructions: instructions}
	for _, signer := range extraSigners {
		sub.extraSigners = append(sub.extraSigners, signer.PublicKey())
	}
	f.submissions = append(f.submissions, sub)
	return f.signature, nil
}

func (f *fakeInvoker) AccountData(context.Context, solana.PublicKey) ([]byte, error) {
	return nil, models.NewBaseError("account not found").WithCode(models.NotFoundError)
}

func (f *fakeInvoker) Slot(context.Context) (uint64, error) { return 0, nil }

func (f *fakeInvoker) Healthy(context.Context) error { return nil }

func newTestRouter(t *testing.T) (*echo.Echo, oracle.Program, *fakeInvoker) {
	t.Helper()
	router := echo.New()
	router.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	program := oracle.NewProgram(oracle.DefaultProgramID)
	invoker := &fakeInvoker{signature: solana.Signature{7, 7, 7}}
	NewEndpoint(EndpointParams{Router: router, Program: program, Ledger: invoker})
	return router, program, invoker
}

func testSecret() (string, solana.PublicKey) {
	wallet := solana.NewWallet()
	return base64.StdEncoding.EncodeToString(wallet.PrivateKey), wallet.PublicKey()
}

func postJSON(t *testing.T, router *echo.Echo, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func validInitializeRequest(secret string) apimodels.InitializeRequest {
	return apimodels.InitializeRequest{
		AuthoritySecret:   secret,
		TokenMint:         solana.NewWallet().PublicKey().String(),
		RewardRate:        "100",
		ProposalThreshold: "1000000",
		VotingPeriod:      "432000",
		QuorumPercentage:  10,
		TimelockDuration:  "86400",
		TotalSupply:       "1000000000",
	}
}

func TestInitializeSubmitsAndReturnsAddresses(t *testing.T) {
	router, program, invoker := newTestRouter(t)
	secret, authority := testSecret()

	rr := postJSON(t, router, "/api/initialize", validInitializeRequest(secret))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var payload apimodels.InitializeResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, invoker.signature.String(), payload.Signature)

	globalState, _, err := program.GlobalStateAddress()
	require.NoError(t, err)
	assert.Equal(t, globalState.String(), payload.GlobalState)
	governance, _, err := program.GovernanceAddress()
	require.NoError(t, err)
	assert.Equal(t, governance.String(), payload.Governance)

	require.Len(t, invoker.submissions, 1)
	sub := invoker.submissions[0]
	assert.Equal(t, authority, sub.payer)
	assert.Empty(t, sub.extraSigners)
	require.Len(t, sub.instructions, 1)
	assert.Equal(t, program.ID(), sub.instructions[0].ProgramID())
}

func TestInitializeRejectsExcessiveQuorum(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, _ := testSecret()

	body := validInitializeRequest(secret)
	body.QuorumPercentage = 101
	rr := postJSON(t, router, "/api/initialize", body)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var payload apimodels.APIError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, string(models.ValidationFailed), payload.Code)
	assert.Contains(t, payload.Message, "QuorumPercentage")
	assert.Empty(t, invoker.submissions, "nothing should be submitted for an invalid request")
}

func TestInitializeRejectsBadMint(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, _ := testSecret()

	body := validInitializeRequest(secret)
	body.TokenMint = "not-a-mint"
	rr := postJSON(t, router, "/api/initialize", body)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, invoker.submissions)
}

func TestInitializeDoesNotEchoBadSecret(t *testing.T) {
	router, _, invoker := newTestRouter(t)

	body := validInitializeRequest("this-is-not-base64!!!")
	rr := postJSON(t, router, "/api/initialize", body)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var payload apimodels.APIError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, string(models.InvalidCredential), payload.Code)
	assert.NotContains(t, rr.Body.String(), "this-is-not-base64")
	assert.Empty(t, invoker.submissions)
}

func TestPauseSubmitsAuthorityTransaction(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, authority := testSecret()

	rr := postJSON(t, router, "/api/emergency/pause", apimodels.ToggleRequest{AuthoritySecret: secret})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var payload apimodels.TransactionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, invoker.signature.String(), payload.Signature)

	require.Len(t, invoker.submissions, 1)
	assert.Equal(t, authority, invoker.submissions[0].payer)
}

func TestUnpauseRequiresSecret(t *testing.T) {
	router, _, invoker := newTestRouter(t)

	rr := postJSON(t, router, "/api/emergency/unpause", apimodels.ToggleRequest{})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, invoker.submissions)
}
