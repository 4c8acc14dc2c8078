package apimodels

// Request bodies for the write endpoints.
//
// Fields named *Secret carry a base64-encoded ed25519 keypair that signs the
// resulting transaction. Secrets live only for the duration of the request:
// they are never logged, never persisted, and never echoed back in any
// response or error.

// InitializeRequest bootstraps the program's global state, stake vault and
// governance accounts. TokenMint is the SPL mint staking will use.
type InitializeRequest struct {
	AuthoritySecret   string `json:"AuthoritySecret"`
	TokenMint         string `json:"TokenMint"`
	RewardRate        string `json:"RewardRate"`
	ProposalThreshold string `json:"ProposalThreshold"`
	VotingPeriod      string `json:"VotingPeriod"`
	QuorumPercentage  uint8  `json:"QuorumPercentage"`
	TimelockDuration  string `json:"TimelockDuration"`
	TotalSupply       string `json:"TotalSupply"`
}

// ToggleRequest drives the emergency pause and unpause endpoints.
type ToggleRequest struct {
	AuthoritySecret string `json:"AuthoritySecret"`
}

type CreateProductRequest struct {
	AuthoritySecret string `json:"AuthoritySecret"`
	Symbol          string `json:"Symbol"`
	AssetType       string `json:"AssetType"`
	Description     string `json:"Description"`
	PriceType       string `json:"PriceType"`
	MinPublishers   uint8  `json:"MinPublishers"`
	Exponent        int32  `json:"Exponent"`
}

// AddPublisherRequest registers a publisher. PayerSecret covers the new
// account's rent when set; otherwise the publisher pays for itself.
type AddPublisherRequest struct {
	PublisherSecret string `json:"PublisherSecret"`
	PayerSecret     string `json:"PayerSecret,omitempty"`
	Name            string `json:"Name"`
	InitialStake    string `json:"InitialStake"`
}

type StakeRequest struct {
	PublisherSecret string `json:"PublisherSecret"`
	Amount          string `json:"Amount"`
}

type UnstakeRequest struct {
	PublisherSecret string `json:"PublisherSecret"`
	Amount          string `json:"Amount"`
}

type WithdrawUnbondedRequest struct {
	PublisherSecret string `json:"PublisherSecret"`
}

type UpdatePriceRequest struct {
	PublisherSecret string `json:"PublisherSecret"`
	Symbol          string `json:"Symbol"`
	Price           string `json:"Price"`
	Confidence      string `json:"Confidence"`
}

// AggregatePriceRequest forces a re-aggregation of a feed outside the usual
// on-publish path. Any keypair may pay for it.
type AggregatePriceRequest struct {
	CallerSecret string `json:"CallerSecret"`
	Symbol       string `json:"Symbol"`
}

// ProposalActionRequest selects and parameterizes a governance action. Kind
// decides which of the remaining fields matter; the rest stay empty.
//
// Targets are given by their natural keys (a feed by its product symbol, a
// publisher by its authority) and the gateway derives the program addresses.
type ProposalActionRequest struct {
	Kind string `json:"Kind"`

	// update_reward_rate
	NewRate string `json:"NewRate,omitempty"`

	// update_min_publishers
	Symbol        string `json:"Symbol,omitempty"`
	MinPublishers uint8  `json:"MinPublishers,omitempty"`

	// slash_publisher
	PublisherAuthority string `json:"PublisherAuthority,omitempty"`
	Percentage         uint8  `json:"Percentage,omitempty"`

	// update_governance_params; all optional, at least one required
	ProposalThreshold string `json:"ProposalThreshold,omitempty"`
	VotingPeriod      string `json:"VotingPeriod,omitempty"`
	QuorumPercentage  *uint8 `json:"QuorumPercentage,omitempty"`
	TimelockDuration  string `json:"TimelockDuration,omitempty"`
}

type CreateProposalRequest struct {
	ProposerSecret string                `json:"ProposerSecret"`
	Description    string                `json:"Description"`
	Action         ProposalActionRequest `json:"Action"`
}

type VoteRequest struct {
	VoterSecret string `json:"VoterSecret"`
	Choice      string `json:"Choice"`
}

// ExecuteProposalRequest finalizes a passed proposal. The program checks the
// outcome and timelock itself; the caller only pays the fee.
type ExecuteProposalRequest struct {
	CallerSecret string `json:"CallerSecret"`
}

// ExecuteActionRequest applies an executed proposal's action to its target
// accounts. Only the program authority may apply actions.
type ExecuteActionRequest struct {
	AuthoritySecret string `json:"AuthoritySecret"`
}
