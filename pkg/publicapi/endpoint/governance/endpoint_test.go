//go:build unit || !integration

package governance

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
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
	instructions []solana.Instruction
}

type fakeInvoker struct {
	signature   solana.Signature
	accounts    map[solana.PublicKey][]byte
	submissions []recordedSubmission
}

func (f *fakeInvoker) SubmitInstructions(_ context.Context, payer credentials.Signer, _ []credentials.Signer, instructions ...solana.Instruction) (solana.Signature, error) {
	f.submissions = append(f.submissions, recordedSubmission{
		payer:        payer.PublicKey(),
		instructions: instructions,
	})
	return f.signature, nil
}

func (f *fakeInvoker) AccountData(_ context.Context, address solana.PublicKey) ([]byte, error) {
	if data, ok := f.accounts[address]; ok {
		return data, nil
	}
	return nil, models.NewBaseError("account %s does not exist", address).
		WithCode(models.NotFoundError)
}

func (f *fakeInvoker) Slot(context.Context) (uint64, error) { return 0, nil }

func (f *fakeInvoker) Healthy(context.Context) error { return nil }

func newTestRouter(t *testing.T) (*echo.Echo, oracle.Program, *fakeInvoker) {
	t.Helper()
	router := echo.New()
	router.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	program := oracle.NewProgram(oracle.DefaultProgramID)
	invoker := &fakeInvoker{
		signature: solana.Signature{9, 9, 9},
		accounts:  make(map[solana.PublicKey][]byte),
	}
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

func seedGovernance(t *testing.T, program oracle.Program, invoker *fakeInvoker, governance oracle.Governance) {
	t.Helper()
	address, _, err := program.GovernanceAddress()
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write(oracle.Sighash("account", "GovernanceState"))
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(governance))
	invoker.accounts[address] = buf.Bytes()
}

// seedProposal lays down a proposal record the way the program would,
// including the borsh tagged-union form of its action.
func seedProposal(t *testing.T, program oracle.Program, invoker *fakeInvoker, id uint64, action models.ProposalAction) {
	t.Helper()
	address, _, err := program.ProposalAddress(id)
	require.NoError(t, err)

	proposer := solana.NewWallet().PublicKey()
	var buf bytes.Buffer
	buf.Write(oracle.Sighash("account", "Proposal"))
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteBytes(proposer[:], false))
	require.NoError(t, action.MarshalWithEncoder(enc))
	require.NoError(t, enc.WriteString("seeded proposal"))
	for _, v := range []uint64{12, 2, 1, 5_000, 437_000} {
		require.NoError(t, enc.WriteUint64(v, bin.LE))
	}
	require.NoError(t, enc.WriteBool(true))
	require.NoError(t, enc.WriteInt64(1_700_000_000, bin.LE))
	require.NoError(t, enc.WriteUint64(id, bin.LE))
	require.NoError(t, enc.WriteUint8(255))
	invoker.accounts[address] = buf.Bytes()
}

func TestCreateProposalUsesNextSequence(t *testing.T) {
	router, program, invoker := newTestRouter(t)
	secret, proposer := testSecret()
	seedGovernance(t, program, invoker, oracle.Governance{
		GovernanceToken: solana.NewWallet().PublicKey(),
		ProposalCount:   7,
	})

	rr := postJSON(t, router, "/api/governance/proposals/create", apimodels.CreateProposalRequest{
		ProposerSecret: secret,
		Description:    "double the reward rate",
		Action: apimodels.ProposalActionRequest{
			Kind:    "update_reward_rate",
			NewRate: "200",
		},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var payload apimodels.CreateProposalResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, "7", payload.ProposalID)
	expected, _, err := program.ProposalAddress(7)
	require.NoError(t, err)
	assert.Equal(t, expected.String(), payload.Proposal)

	require.Len(t, invoker.submissions, 1)
	assert.Equal(t, proposer, invoker.submissions[0].payer)
}

func TestCreateProposalRejectsUnknownKind(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, _ := testSecret()

	rr := postJSON(t, router, "/api/governance/proposals/create", apimodels.CreateProposalRequest{
		ProposerSecret: secret,
		Description:    "do something",
		Action:         apimodels.ProposalActionRequest{Kind: "delete_everything"},
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Action.Kind")
	assert.Empty(t, invoker.submissions)
}

func TestCreateProposalValidatesActionBounds(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, _ := testSecret()

	rr := postJSON(t, router, "/api/governance/proposals/create", apimodels.CreateProposalRequest{
		ProposerSecret: secret,
		Description:    "slash them hard",
		Action: apimodels.ProposalActionRequest{
			Kind:               "slash_publisher",
			PublisherAuthority: solana.NewWallet().PublicKey().String(),
			Percentage:         101,
		},
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var payload apimodels.APIError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, string(models.ValidationFailed), payload.Code)
	assert.Contains(t, payload.Message, "slash percentage")
	assert.Empty(t, invoker.submissions)
}

func TestCreateProposalRequiresDescription(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, _ := testSecret()

	rr := postJSON(t, router, "/api/governance/proposals/create", apimodels.CreateProposalRequest{
		ProposerSecret: secret,
		Action:         apimodels.ProposalActionRequest{Kind: "emergency_pause"},
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Description")
	assert.Empty(t, invoker.submissions)
}

func TestVoteSubmits(t *testing.T) {
	router, program, invoker := newTestRouter(t)
	secret, voter := testSecret()
	seedGovernance(t, program, invoker, oracle.Governance{
		GovernanceToken: solana.NewWallet().PublicKey(),
	})

	rr := postJSON(t, router, "/api/governance/proposals/7/vote", apimodels.VoteRequest{
		VoterSecret: secret,
		Choice:      "yes",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, invoker.submissions, 1)
	assert.Equal(t, voter, invoker.submissions[0].payer)
}

func TestVoteRejectsUnknownChoice(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, _ := testSecret()

	rr := postJSON(t, router, "/api/governance/proposals/7/vote", apimodels.VoteRequest{
		VoterSecret: secret,
		Choice:      "maybe",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Choice")
	assert.Empty(t, invoker.submissions)
}

func TestExecuteSubmits(t *testing.T) {
	router, _, invoker := newTestRouter(t)
	secret, caller := testSecret()

	rr := postJSON(t, router, "/api/governance/proposals/3/execute", apimodels.ExecuteProposalRequest{
		CallerSecret: secret,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, invoker.submissions, 1)
	assert.Equal(t, caller, invoker.submissions[0].payer)
}

func TestExecuteActionPassesTargetAccount(t *testing.T) {
	router, program, invoker := newTestRouter(t)
	secret, _ := testSecret()

	feed, _, err := program.PriceAddress("BTC/USD")
	require.NoError(t, err)
	seedProposal(t, program, invoker, 3, models.UpdateMinPublishersAction{Feed: feed, NewMin: 5})

	rr := postJSON(t, router, "/api/governance/proposals/3/execute-action", apimodels.ExecuteActionRequest{
		AuthoritySecret: secret,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, invoker.submissions, 1)
	require.Len(t, invoker.submissions[0].instructions, 1)
	accounts := invoker.submissions[0].instructions[0].Accounts()
	assert.True(t, lo.ContainsBy(accounts, func(meta *solana.AccountMeta) bool {
		return meta.PublicKey.Equals(feed)
	}), "the targeted feed must ride along as an account")
}

func TestGetProposalDecodesAction(t *testing.T) {
	router, program, invoker := newTestRouter(t)

	feed, _, err := program.PriceAddress("BTC/USD")
	require.NoError(t, err)
	seedProposal(t, program, invoker, 3, models.UpdateMinPublishersAction{Feed: feed, NewMin: 5})

	req := httptest.NewRequest(http.MethodGet, "/api/governance/proposals/3", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var payload apimodels.ProposalResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, "3", payload.ProposalID)
	assert.Equal(t, "update_min_publishers", payload.Action.Kind)
	assert.Equal(t, feed.String(), payload.Action.Feed)
	assert.EqualValues(t, 5, payload.Action.MinPublishers)
	assert.Equal(t, "12", payload.YesVotes)
}

func TestGetProposalRejectsNonNumericID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/governance/proposals/abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetGovernanceUninitialized(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/governance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var payload apimodels.APIError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Contains(t, payload.Hint, "initialize")
}
