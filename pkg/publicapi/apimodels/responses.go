package apimodels

import (
	"time"

	"github.com/samber/lo"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/oracle"
)

// TransactionResponse acknowledges a submitted transaction.
type TransactionResponse struct {
	Signature string `json:"Signature"`
}

// InitializeResponse reports the signature plus the program accounts the
// transaction created, so operators can bookmark them.
type InitializeResponse struct {
	Signature      string `json:"Signature"`
	GlobalState    string `json:"GlobalState"`
	TokenVault     string `json:"TokenVault"`
	VaultAuthority string `json:"VaultAuthority"`
	Governance     string `json:"Governance"`
}

type CreateProductResponse struct {
	Signature string `json:"Signature"`
	Product   string `json:"Product"`
	PriceFeed string `json:"PriceFeed"`
}

type AddPublisherResponse struct {
	Signature string `json:"Signature"`
	Publisher string `json:"Publisher"`
}

type CreateProposalResponse struct {
	Signature  string `json:"Signature"`
	Proposal   string `json:"Proposal"`
	ProposalID string `json:"ProposalID"`
}

type HealthResponse struct {
	Status string `json:"Status"`
	Slot   string `json:"Slot"`
}

type ProductResponse struct {
	Symbol       string `json:"Symbol"`
	AssetType    string `json:"AssetType"`
	Description  string `json:"Description"`
	PriceAccount string `json:"PriceAccount"`
	Authority    string `json:"Authority"`
}

func NewProductResponse(product *oracle.Product) ProductResponse {
	return ProductResponse{
		Symbol:       product.Symbol,
		AssetType:    product.AssetType.String(),
		Description:  product.Description,
		PriceAccount: product.PriceAccount.String(),
		Authority:    product.Authority.String(),
	}
}

// PublisherObservation is one active slot of a feed's publisher slab.
type PublisherObservation struct {
	Publisher  string `json:"Publisher"`
	Price      string `json:"Price"`
	Confidence string `json:"Confidence"`
	Timestamp  string `json:"Timestamp"`
	Slot       string `json:"Slot"`
	Stake      string `json:"Stake"`
}

type EmaSummary struct {
	Price        string `json:"Price"`
	Confidence   string `json:"Confidence"`
	Observations string `json:"Observations"`
}

// PriceResponse is the full read-side view of a feed: the stored aggregate,
// the smoothed EMA, and the active observations behind them. Stale is a
// gateway-side freshness signal layered on top of the stored status; the
// status itself is only rewritten by on-chain aggregation.
type PriceResponse struct {
	Symbol         string                 `json:"Symbol"`
	Price          string                 `json:"Price"`
	Confidence     string                 `json:"Confidence"`
	Exponent       int32                  `json:"Exponent"`
	Status         string                 `json:"Status"`
	Timestamp      string                 `json:"Timestamp"`
	Slot           string                 `json:"Slot"`
	Stale          bool                   `json:"Stale"`
	PublisherCount uint8                  `json:"PublisherCount"`
	MinPublishers  uint8                  `json:"MinPublishers"`
	LastUpdateSlot string                 `json:"LastUpdateSlot"`
	Ema            EmaSummary             `json:"Ema"`
	Publishers     []PublisherObservation `json:"Publishers"`
}

func NewPriceResponse(symbol string, feed *oracle.PriceFeed, now time.Time) PriceResponse {
	aggregate := feed.Aggregate
	stale := aggregate.Timestamp == 0 ||
		now.Unix()-aggregate.Timestamp > models.StalenessThresholdSeconds

	return PriceResponse{
		Symbol:         symbol,
		Price:          FormatInt64(aggregate.Price),
		Confidence:     FormatUint64(aggregate.Confidence),
		Exponent:       aggregate.Exponent,
		Status:         aggregate.Status.String(),
		Timestamp:      FormatInt64(aggregate.Timestamp),
		Slot:           FormatUint64(aggregate.Slot),
		Stale:          stale,
		PublisherCount: feed.PublisherCount,
		MinPublishers:  feed.MinPublishers,
		LastUpdateSlot: FormatUint64(feed.LastUpdateSlot),
		Ema: EmaSummary{
			Price:        FormatInt64(feed.Ema.EmaPrice),
			Confidence:   FormatUint64(feed.Ema.EmaConfidence),
			Observations: FormatUint64(feed.Ema.NumObservations),
		},
		Publishers: lo.Map(feed.ActivePublishers(), func(p oracle.PublisherPrice, _ int) PublisherObservation {
			return PublisherObservation{
				Publisher:  p.Publisher.String(),
				Price:      FormatInt64(p.Price),
				Confidence: FormatUint64(p.Confidence),
				Timestamp:  FormatInt64(p.Timestamp),
				Slot:       FormatUint64(p.Slot),
				Stake:      FormatUint64(p.Stake),
			}
		}),
	}
}

type PublisherResponse struct {
	Authority       string `json:"Authority"`
	Name            string `json:"Name"`
	StakedAmount    string `json:"StakedAmount"`
	StakeAccount    string `json:"StakeAccount"`
	Reputation      string `json:"Reputation"`
	RegisteredAt    string `json:"RegisteredAt"`
	SlashCount      uint32 `json:"SlashCount"`
	LastSlashSlot   string `json:"LastSlashSlot"`
	UnbondingAmount string `json:"UnbondingAmount"`
	UnbondingStart  string `json:"UnbondingStart"`
}

func NewPublisherResponse(publisher *oracle.Publisher) PublisherResponse {
	return PublisherResponse{
		Authority:       publisher.Authority.String(),
		Name:            publisher.Name,
		StakedAmount:    FormatUint64(publisher.StakedAmount),
		StakeAccount:    publisher.StakeAccount.String(),
		Reputation:      FormatUint64(publisher.Reputation),
		RegisteredAt:    FormatInt64(publisher.RegisteredAt),
		SlashCount:      publisher.SlashCount,
		LastSlashSlot:   FormatUint64(publisher.LastSlashSlot),
		UnbondingAmount: FormatUint64(publisher.UnbondingAmount),
		UnbondingStart:  FormatInt64(publisher.UnbondingStart),
	}
}

type VaultResponse struct {
	TotalStaked             string `json:"TotalStaked"`
	TotalRewardsDistributed string `json:"TotalRewardsDistributed"`
	RewardRate              string `json:"RewardRate"`
	LastDistributionSlot    string `json:"LastDistributionSlot"`
	TokenMint               string `json:"TokenMint"`
	VaultTokenAccount       string `json:"VaultTokenAccount"`
	Authority               string `json:"Authority"`
}

func NewVaultResponse(vault *oracle.TokenVault) VaultResponse {
	return VaultResponse{
		TotalStaked:             FormatUint64(vault.TotalStaked),
		TotalRewardsDistributed: FormatUint64(vault.TotalRewardsDistributed),
		RewardRate:              FormatUint64(vault.RewardRate),
		LastDistributionSlot:    FormatUint64(vault.LastDistributionSlot),
		TokenMint:               vault.TokenMint.String(),
		VaultTokenAccount:       vault.VaultTokenAccount.String(),
		Authority:               vault.Authority.String(),
	}
}

type GovernanceResponse struct {
	GovernanceToken   string `json:"GovernanceToken"`
	ProposalThreshold string `json:"ProposalThreshold"`
	VotingPeriod      string `json:"VotingPeriod"`
	QuorumPercentage  uint8  `json:"QuorumPercentage"`
	TimelockDuration  string `json:"TimelockDuration"`
	ProposalCount     string `json:"ProposalCount"`
	TotalSupply       string `json:"TotalSupply"`
	Authority         string `json:"Authority"`
}

func NewGovernanceResponse(governance *oracle.Governance) GovernanceResponse {
	return GovernanceResponse{
		GovernanceToken:   governance.GovernanceToken.String(),
		ProposalThreshold: FormatUint64(governance.ProposalThreshold),
		VotingPeriod:      FormatUint64(governance.VotingPeriod),
		QuorumPercentage:  governance.QuorumPercentage,
		TimelockDuration:  FormatUint64(governance.TimelockDuration),
		ProposalCount:     FormatUint64(governance.ProposalCount),
		TotalSupply:       FormatUint64(governance.TotalSupply),
		Authority:         governance.Authority.String(),
	}
}

// ProposalActionSummary mirrors ProposalActionRequest on the way out, except
// that targets appear as the program addresses the action was recorded with.
type ProposalActionSummary struct {
	Kind string `json:"Kind"`

	NewRate string `json:"NewRate,omitempty"`

	Feed          string `json:"Feed,omitempty"`
	MinPublishers uint8  `json:"MinPublishers,omitempty"`

	Publisher  string `json:"Publisher,omitempty"`
	Percentage uint8  `json:"Percentage,omitempty"`

	ProposalThreshold string `json:"ProposalThreshold,omitempty"`
	VotingPeriod      string `json:"VotingPeriod,omitempty"`
	QuorumPercentage  *uint8 `json:"QuorumPercentage,omitempty"`
	TimelockDuration  string `json:"TimelockDuration,omitempty"`
}

func NewProposalActionSummary(action models.ProposalAction) ProposalActionSummary {
	summary := ProposalActionSummary{Kind: action.Kind().String()}
	switch a := action.(type) {
	case models.UpdateRewardRateAction:
		summary.NewRate = FormatUint64(a.NewRate)
	case models.UpdateMinPublishersAction:
		summary.Feed = a.Feed.String()
		summary.MinPublishers = a.NewMin
	case models.SlashPublisherAction:
		summary.Publisher = a.Publisher.String()
		summary.Percentage = a.Percentage
	case models.UpdateGovernanceParamsAction:
		if a.ProposalThreshold != nil {
			summary.ProposalThreshold = FormatUint64(*a.ProposalThreshold)
		}
		if a.VotingPeriod != nil {
			summary.VotingPeriod = FormatUint64(*a.VotingPeriod)
		}
		summary.QuorumPercentage = a.QuorumPercentage
		if a.TimelockDuration != nil {
			summary.TimelockDuration = FormatUint64(*a.TimelockDuration)
		}
	}
	return summary
}

type ProposalResponse struct {
	ProposalID    string                `json:"ProposalID"`
	Proposer      string                `json:"Proposer"`
	Description   string                `json:"Description"`
	Action        ProposalActionSummary `json:"Action"`
	YesVotes      string                `json:"YesVotes"`
	NoVotes       string                `json:"NoVotes"`
	AbstainVotes  string                `json:"AbstainVotes"`
	StartSlot     string                `json:"StartSlot"`
	EndSlot       string                `json:"EndSlot"`
	Executed      bool                  `json:"Executed"`
	ExecutionTime string                `json:"ExecutionTime"`
}

func NewProposalResponse(proposal *oracle.Proposal) ProposalResponse {
	return ProposalResponse{
		ProposalID:    FormatUint64(proposal.ProposalID),
		Proposer:      proposal.Proposer.String(),
		Description:   proposal.Description,
		Action:        NewProposalActionSummary(proposal.Action),
		YesVotes:      FormatUint64(proposal.YesVotes),
		NoVotes:       FormatUint64(proposal.NoVotes),
		AbstainVotes:  FormatUint64(proposal.AbstainVotes),
		StartSlot:     FormatUint64(proposal.StartSlot),
		EndSlot:       FormatUint64(proposal.EndSlot),
		Executed:      proposal.Executed,
		ExecutionTime: FormatInt64(proposal.ExecutionTime),
	}
}
