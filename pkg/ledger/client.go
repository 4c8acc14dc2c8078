// Package ledger is the gateway's one connection to the cluster: it
// assembles, signs and submits transactions, waits for the configured
// commitment, and fetches raw account records. It owns the line between
// "the caller got it wrong" and "the cluster said no": everything leaving
// this package is a classified error.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sfdn-project/oracle-gateway/pkg/credentials"
	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

const component = "Ledger"

var tracer = otel.Tracer("oracle-gateway/ledger")

// Invoker is the slice of the client the HTTP layer consumes. Tests
// substitute it with a fake so no handler test ever needs a cluster.
type Invoker interface {
	// SubmitInstructions signs and submits one transaction and blocks
	// until it reaches the configured commitment. Exactly one submission
	// happens per call; a timeout after submission does not resubmit.
	SubmitInstructions(ctx context.Context, payer credentials.Signer, extraSigners []credentials.Signer, instructions ...solana.Instruction) (solana.Signature, error)

	// AccountData fetches an account's raw record bytes.
	AccountData(ctx context.Context, address solana.PublicKey) ([]byte, error)

	// Slot reports the cluster's current slot at the configured commitment.
	Slot(ctx context.Context) (uint64, error)

	// Healthy reports whether the RPC node considers itself usable.
	Healthy(ctx context.Context) error
}

// ClientParams configure the single long-lived cluster connection.
type ClientParams struct {
	Endpoint string
	// Commitment is the one confirmation policy used for every call.
	Commitment rpc.CommitmentType
	// RequestTimeout bounds each submit or fetch, including the
	// commitment wait.
	RequestTimeout time.Duration
	// ReadRetries is how many extra attempts an idempotent read gets.
	// Writes never retry.
	ReadRetries int
	// PollInterval is the signature status polling cadence.
	PollInterval time.Duration
}

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultReadRetries    = 2
)

type Client struct {
	rpc         *rpc.Client
	commitment  rpc.CommitmentType
	timeout     time.Duration
	readRetries int
	poll        time.Duration
}

var _ Invoker = (*Client)(nil)

func NewClient(params ClientParams) *Client {
	if params.Commitment == "" {
		params.Commitment = rpc.CommitmentConfirmed
	}
	if params.RequestTimeout <= 0 {
		params.RequestTimeout = DefaultRequestTimeout
	}
	if params.PollInterval <= 0 {
		params.PollInterval = DefaultPollInterval
	}
	if params.ReadRetries < 0 {
		params.ReadRetries = 0
	}
	return &Client{
		rpc:         rpc.New(params.Endpoint),
		commitment:  params.Commitment,
		timeout:     params.RequestTimeout,
		readRetries: params.ReadRetries,
		poll:        params.PollInterval,
	}
}

func (c *Client) SubmitInstructions(ctx context.Context, payer credentials.Signer, extraSigners []credentials.Signer, instructions ...solana.Instruction) (solana.Signature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "ledger.SubmitInstructions", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		transactionsSubmitted.WithLabelValues(outcomeNetwork).Inc()
		return solana.Signature{}, c.transportError(err, "fetching recent blockhash")
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.Signature{}, models.NewBaseError("assembling transaction: %s", err).
			WithCode(models.InternalError).
			WithComponent(component)
	}

	if err := signTransaction(tx, append([]credentials.Signer{payer}, extraSigners...)); err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, c.submitError(err)
	}
	span.SetAttributes(attribute.String("signature", sig.String()))

	if err := c.awaitCommitment(ctx, sig); err != nil {
		return sig, err
	}

	transactionsSubmitted.WithLabelValues(outcomeOK).Inc()
	return sig, nil
}

func (c *Client) AccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "ledger.AccountData", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("address", address.String()))

	var lastErr error
	for attempt := 0; attempt <= c.readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				accountFetches.WithLabelValues(outcomeNetwork).Inc()
				return nil, c.transportError(lastErr, "fetching account "+address.String())
			case <-time.After(time.Duration(attempt) * c.poll):
			}
		}

		res, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				accountFetches.WithLabelValues(outcomeNotFound).Inc()
				return nil, c.notFound(address)
			}
			// reads are idempotent, so a transient failure earns
			// another attempt within the deadline
			lastErr = err
			continue
		}
		if res == nil || res.Value == nil || res.Value.Data == nil {
			accountFetches.WithLabelValues(outcomeNotFound).Inc()
			return nil, c.notFound(address)
		}

		accountFetches.WithLabelValues(outcomeOK).Inc()
		return res.Value.Data.GetBinary(), nil
	}

	accountFetches.WithLabelValues(outcomeNetwork).Inc()
	return nil, c.transportError(lastErr, "fetching account "+address.String())
}

func (c *Client) Slot(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slot, err := c.rpc.GetSlot(ctx, c.commitment)
	if err != nil {
		return 0, c.transportError(err, "fetching current slot")
	}
	return slot, nil
}

func (c *Client) Healthy(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	health, err := c.rpc.GetHealth(ctx)
	if err != nil {
		return c.transportError(err, "checking node health")
	}
	if health != rpc.HealthOk {
		return models.NewBaseError("rpc node reports health %q", health).
			WithCode(models.NetworkFailure).
			WithRetryable().
			WithComponent(component)
	}
	return nil
}

// signTransaction fills the signature slots in required-key order. Every
// required key must be covered by exactly the signers the request carried;
// a gap means the gateway built an instruction it cannot authorize.
func signTransaction(tx *solana.Transaction, signers []credentials.Signer) error {
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return models.NewBaseError("encoding transaction message: %s", err).
			WithCode(models.InternalError).
			WithComponent(component)
	}

	required := tx.Message.AccountKeys[:tx.Message.Header.NumRequiredSignatures]
	tx.Signatures = make([]solana.Signature, len(required))
	for i, key := range required {
		key := key
		signer, found := lo.Find(signers, func(s credentials.Signer) bool {
			return s.PublicKey() == key
		})
		if !found {
			return models.NewBaseError("no signer available for required key %s", key).
				WithCode(models.InternalError).
				WithComponent(component)
		}
		sig, err := signer.SignMessage(message)
		if err != nil {
			return models.NewBaseError("signing as %s: %s", key, err).
				WithCode(models.InternalError).
				WithComponent(component)
		}
		tx.Signatures[i] = sig
	}
	return nil
}

// awaitCommitment polls signature status until the configured commitment,
// a program-level failure, or the deadline. The transaction is already on
// the wire when this runs, so a deadline here is reported as such rather
// than retried.
func (c *Client) awaitCommitment(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	target := commitmentRank(c.commitment)
	for {
		select {
		case <-ctx.Done():
			transactionsSubmitted.WithLabelValues(outcomeTimeout).Inc()
			return models.NewBaseError("transaction %s was submitted but did not reach %s commitment in time", sig, c.commitment).
				WithCode(models.NetworkFailure).
				WithComponent(component).
				WithHint("the transaction may still land; check the signature before resubmitting").
				WithDetails(map[string]string{"Signature": sig.String()})
		case <-ticker.C:
			statuses, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
			if err != nil || statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if status.Err != nil {
				transactionsSubmitted.WithLabelValues(outcomeRejected).Inc()
				return models.NewBaseError("program rejected transaction %s: %v", sig, status.Err).
					WithCode(models.ProgramRejected).
					WithComponent(component).
					WithDetails(map[string]string{"Signature": sig.String()})
			}
			if commitmentRank(rpc.CommitmentType(status.ConfirmationStatus)) >= target {
				return nil
			}
		}
	}
}

func commitmentRank(c rpc.CommitmentType) int {
	switch c {
	case rpc.CommitmentProcessed:
		return 0
	case rpc.CommitmentConfirmed:
		return 1
	case rpc.CommitmentFinalized:
		return 2
	default:
		return 1
	}
}

func (c *Client) notFound(address solana.PublicKey) error {
	return models.NewBaseError("account %s does not exist at %s commitment", address, c.commitment).
		WithCode(models.NotFoundError).
		WithComponent(component)
}

// submitError separates "the node refused the transaction" from "the node
// was unreachable". An RPC-level error on submission carries the program's
// own rejection (preflight simulation), which travels upward verbatim.
func (c *Client) submitError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		transactionsSubmitted.WithLabelValues(outcomeRejected).Inc()
		base := models.NewBaseError("program rejected transaction: %s", rpcErr.Message).
			WithCode(models.ProgramRejected).
			WithComponent(component)
		if logs := simulationLogs(rpcErr.Data); logs != "" {
			base = base.WithDetails(map[string]string{"Logs": logs})
		}
		return base
	}

	transactionsSubmitted.WithLabelValues(outcomeNetwork).Inc()
	return c.transportError(err, "submitting transaction")
}

func (c *Client) transportError(err error, doing string) error {
	if err == nil {
		err = errors.New("no response within the deadline")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.NewBaseError("%s: deadline exceeded", doing).
			WithCode(models.NetworkFailure).
			WithRetryable().
			WithComponent(component)
	}
	return models.NewBaseError("%s: %s", doing, err).
		WithCode(models.NetworkFailure).
		WithRetryable().
		WithComponent(component)
}

// simulationLogs digs the program log lines out of a preflight failure's
// data payload, if the node attached them.
func simulationLogs(data interface{}) string {
	payload, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	rawLogs, ok := payload["logs"].([]interface{})
	if !ok {
		return ""
	}
	lines := make([]string, 0, len(rawLogs))
	for _, l := range rawLogs {
		if s, ok := l.(string); ok {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
