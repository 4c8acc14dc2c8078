package oracle

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// On-chain record names, pinned because they feed the account
// discriminators. Go type names below are free to differ.
const (
	recordGlobalState = "GlobalState"
	recordProduct     = "ProductAccount"
	recordPriceFeed   = "PriceAccount"
	recordPublisher   = "PublisherAccount"
	recordTokenVault  = "TokenVault"
	recordGovernance  = "GovernanceState"
	recordProposal    = "Proposal"
)

// GlobalState is the program's singleton configuration record.
type GlobalState struct {
	Authority          solana.PublicKey
	TokenMint          solana.PublicKey
	TokenVault         solana.PublicKey
	VaultAuthority     solana.PublicKey
	Governance         solana.PublicKey
	Paused             bool
	TotalProducts      uint64
	TotalPublishers    uint64
	Version            uint8
	Bump               uint8
	VaultAuthorityBump uint8
}

// Product describes one listed instrument and points at its price feed.
type Product struct {
	Symbol       string
	AssetType    models.AssetType
	Description  string
	PriceAccount solana.PublicKey
	Authority    solana.PublicKey
	Bump         uint8
}

// PriceData is one aggregate observation.
type PriceData struct {
	Price      int64
	Confidence uint64
	Exponent   int32
	Timestamp  int64
	Slot       uint64
	Status     models.PriceStatus
}

// PublisherPrice is one slot of a feed's publisher slab.
type PublisherPrice struct {
	Publisher  solana.PublicKey
	Price      int64
	Confidence uint64
	Timestamp  int64
	Slot       uint64
	Stake      uint64
	Active     bool
}

// EmaData tracks the exponential moving average the program maintains
// alongside the plain aggregate.
type EmaData struct {
	EmaPrice        int64
	EmaConfidence   uint64
	NumObservations uint64
}

// PriceFeed is a product's full feed record, including the fixed-capacity
// publisher slab.
type PriceFeed struct {
	ProductAccount solana.PublicKey
	PriceType      models.PriceType
	Aggregate      PriceData
	Publishers     [models.MaxPublishers]PublisherPrice
	PublisherCount uint8
	MinPublishers  uint8
	LastUpdateSlot uint64
	Ema            EmaData
	Authority      solana.PublicKey
	Exponent       int32
	Bump           uint8
}

// ActivePublishers returns only the slab slots currently in use.
func (f *PriceFeed) ActivePublishers() []PublisherPrice {
	return lo.Filter(f.Publishers[:], func(p PublisherPrice, _ int) bool {
		return p.Active
	})
}

// Publisher is a registered price publisher's stake and reputation record.
type Publisher struct {
	Authority       solana.PublicKey
	StakedAmount    uint64
	StakeAccount    solana.PublicKey
	Reputation      uint64
	Name            string
	RegisteredAt    int64
	SlashCount      uint32
	LastSlashSlot   uint64
	UnbondingAmount uint64
	UnbondingStart  int64
	Bump            uint8
}

// TokenVault is the staking vault's bookkeeping record.
type TokenVault struct {
	TotalStaked             uint64
	TotalRewardsDistributed uint64
	RewardRate              uint64
	LastDistributionSlot    uint64
	TokenMint               solana.PublicKey
	VaultTokenAccount       solana.PublicKey
	VaultAuthority          solana.PublicKey
	Authority               solana.PublicKey
	Bump                    uint8
}

// Governance is the governance parameter record.
type Governance struct {
	GovernanceToken   solana.PublicKey
	ProposalThreshold uint64
	VotingPeriod      uint64
	QuorumPercentage  uint8
	TimelockDuration  uint64
	ProposalCount     uint64
	TotalSupply       uint64
	Authority         solana.PublicKey
	Bump              uint8
}

// Proposal is one governance proposal and its running tally.
type Proposal struct {
	Proposer      solana.PublicKey
	Action        models.ProposalAction
	Description   string
	YesVotes      uint64
	NoVotes       uint64
	AbstainVotes  uint64
	StartSlot     uint64
	EndSlot       uint64
	Executed      bool
	ExecutionTime int64
	ProposalID    uint64
	Bump          uint8
}

// UnmarshalWithDecoder decodes the record body by hand because the action
// union cannot be reached by reflection.
func (x *Proposal) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := decoder.Decode(&x.Proposer); err != nil {
		return err
	}
	action, err := models.DecodeProposalAction(decoder)
	if err != nil {
		return err
	}
	x.Action = action
	if err := decoder.Decode(&x.Description); err != nil {
		return err
	}
	if err := decoder.Decode(&x.YesVotes); err != nil {
		return err
	}
	if err := decoder.Decode(&x.NoVotes); err != nil {
		return err
	}
	if err := decoder.Decode(&x.AbstainVotes); err != nil {
		return err
	}
	if err := decoder.Decode(&x.StartSlot); err != nil {
		return err
	}
	if err := decoder.Decode(&x.EndSlot); err != nil {
		return err
	}
	if err := decoder.Decode(&x.Executed); err != nil {
		return err
	}
	if err := decoder.Decode(&x.ExecutionTime); err != nil {
		return err
	}
	if err := decoder.Decode(&x.ProposalID); err != nil {
		return err
	}
	return decoder.Decode(&x.Bump)
}

func DecodeGlobalState(data []byte) (*GlobalState, error) {
	out := new(GlobalState)
	return out, decodeRecord(data, recordGlobalState, out)
}

func DecodeProduct(data []byte) (*Product, error) {
	out := new(Product)
	return out, decodeRecord(data, recordProduct, out)
}

func DecodePriceFeed(data []byte) (*PriceFeed, error) {
	out := new(PriceFeed)
	return out, decodeRecord(data, recordPriceFeed, out)
}

func DecodePublisher(data []byte) (*Publisher, error) {
	out := new(Publisher)
	return out, decodeRecord(data, recordPublisher, out)
}

func DecodeTokenVault(data []byte) (*TokenVault, error) {
	out := new(TokenVault)
	return out, decodeRecord(data, recordTokenVault, out)
}

func DecodeGovernance(data []byte) (*Governance, error) {
	out := new(Governance)
	return out, decodeRecord(data, recordGovernance, out)
}

func DecodeProposal(data []byte) (*Proposal, error) {
	out := new(Proposal)
	return out, decodeRecord(data, recordProposal, out)
}

// decodeRecord verifies the record's discriminator, then borsh-decodes the
// body into out.
func decodeRecord(data []byte, record string, out interface{}) error {
	disc := accountDiscriminator(record)
	if len(data) < len(disc) || !bytes.Equal(data[:len(disc)], disc) {
		return fmt.Errorf("account data does not carry a %s record", record)
	}
	if err := bin.NewBorshDecoder(data[len(disc):]).Decode(out); err != nil {
		return fmt.Errorf("decoding %s record: %w", record, err)
	}
	return nil
}
