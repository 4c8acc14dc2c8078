package models

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ProposalKind enumerates the actions a governance proposal can carry.
// Values are the program's borsh variant indexes.
type ProposalKind uint8

const (
	ProposalKindUpdateRewardRate ProposalKind = iota
	ProposalKindUpdateMinPublishers
	ProposalKindSlashPublisher
	ProposalKindEmergencyPause
	ProposalKindEmergencyUnpause
	ProposalKindUpdateGovernanceParams
)

func (k ProposalKind) String() string {
	switch k {
	case ProposalKindUpdateRewardRate:
		return "update_reward_rate"
	case ProposalKindUpdateMinPublishers:
		return "update_min_publishers"
	case ProposalKindSlashPublisher:
		return "slash_publisher"
	case ProposalKindEmergencyPause:
		return "emergency_pause"
	case ProposalKindEmergencyUnpause:
		return "emergency_unpause"
	case ProposalKindUpdateGovernanceParams:
		return "update_governance_params"
	default:
		return fmt.Sprintf("ProposalKind(%d)", uint8(k))
	}
}

func ParseProposalKind(s string) (ProposalKind, error) {
	for typ := ProposalKindUpdateRewardRate; typ <= ProposalKindUpdateGovernanceParams; typ++ {
		if equal(typ.String(), s) {
			return typ, nil
		}
	}

	return ProposalKindUpdateRewardRate, fmt.Errorf("invalid proposal kind: %s", s)
}

func ProposalKinds() []ProposalKind {
	var res []ProposalKind
	for typ := ProposalKindUpdateRewardRate; typ <= ProposalKindUpdateGovernanceParams; typ++ {
		res = append(res, typ)
	}

	return res
}

func (k ProposalKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ProposalKind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseProposalKind(string(text))
	return
}

// ProposalAction is the closed set of payloads a governance proposal can
// carry. Each variant holds only its own typed fields, validates its own
// bounds, and knows its borsh tagged-union form, so a malformed action is
// rejected before any transaction is assembled.
type ProposalAction interface {
	Kind() ProposalKind
	Validate() error
	MarshalWithEncoder(encoder *bin.Encoder) error

	isProposalAction()
}

// UpdateRewardRateAction replaces the vault's staking reward rate.
type UpdateRewardRateAction struct {
	NewRate uint64
}

func (UpdateRewardRateAction) Kind() ProposalKind { return ProposalKindUpdateRewardRate }
func (UpdateRewardRateAction) isProposalAction()  {}

func (a UpdateRewardRateAction) Validate() error { return nil }

func (a UpdateRewardRateAction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	return encoder.WriteUint64(a.NewRate, bin.LE)
}

// UpdateMinPublishersAction changes the quorum of publishers a feed needs
// before it aggregates.
type UpdateMinPublishersAction struct {
	Feed   solana.PublicKey
	NewMin uint8
}

func (UpdateMinPublishersAction) Kind() ProposalKind { return ProposalKindUpdateMinPublishers }
func (UpdateMinPublishersAction) isProposalAction()  {}

func (a UpdateMinPublishersAction) Validate() error {
	if a.Feed.IsZero() {
		return fmt.Errorf("feed address is required")
	}
	if a.NewMin == 0 || a.NewMin > MaxPublishers {
		return fmt.Errorf("min publishers must be between 1 and %d", MaxPublishers)
	}
	return nil
}

func (a UpdateMinPublishersAction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	if err := encoder.WriteBytes(a.Feed[:], false); err != nil {
		return err
	}
	return encoder.WriteUint8(a.NewMin)
}

// SlashPublisherAction burns a percentage of a publisher's stake.
type SlashPublisherAction struct {
	Publisher  solana.PublicKey
	Percentage uint8
}

func (SlashPublisherAction) Kind() ProposalKind { return ProposalKindSlashPublisher }
func (SlashPublisherAction) isProposalAction()  {}

func (a SlashPublisherAction) Validate() error {
	if a.Publisher.IsZero() {
		return fmt.Errorf("publisher address is required")
	}
	if a.Percentage > MaxSlashPercentage {
		return fmt.Errorf("slash percentage must not exceed %d", MaxSlashPercentage)
	}
	return nil
}

func (a SlashPublisherAction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	if err := encoder.WriteBytes(a.Publisher[:], false); err != nil {
		return err
	}
	return encoder.WriteUint8(a.Percentage)
}

// EmergencyPauseAction halts the whole program through governance rather
// than the admin key.
type EmergencyPauseAction struct{}

func (EmergencyPauseAction) Kind() ProposalKind { return ProposalKindEmergencyPause }
func (EmergencyPauseAction) isProposalAction()  {}

func (a EmergencyPauseAction) Validate() error { return nil }

func (a EmergencyPauseAction) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(a.Kind()))
}

// EmergencyUnpauseAction lifts a governance-imposed pause.
type EmergencyUnpauseAction struct{}

func (EmergencyUnpauseAction) Kind() ProposalKind { return ProposalKindEmergencyUnpause }
func (EmergencyUnpauseAction) isProposalAction()  {}

func (a EmergencyUnpauseAction) Validate() error { return nil }

func (a EmergencyUnpauseAction) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(a.Kind()))
}

// UpdateGovernanceParamsAction tunes the governance parameters. Nil fields
// are left untouched by the program.
type UpdateGovernanceParamsAction struct {
	ProposalThreshold *uint64
	VotingPeriod      *uint64
	QuorumPercentage  *uint8
	TimelockDuration  *uint64
}

func (UpdateGovernanceParamsAction) Kind() ProposalKind { return ProposalKindUpdateGovernanceParams }
func (UpdateGovernanceParamsAction) isProposalAction()  {}

func (a UpdateGovernanceParamsAction) Validate() error {
	if a.ProposalThreshold == nil && a.VotingPeriod == nil &&
		a.QuorumPercentage == nil && a.TimelockDuration == nil {
		return fmt.Errorf("at least one governance parameter must be set")
	}
	if a.QuorumPercentage != nil && *a.QuorumPercentage > MaxQuorumPercentage {
		return fmt.Errorf("quorum percentage must not exceed %d", MaxQuorumPercentage)
	}
	return nil
}

func (a UpdateGovernanceParamsAction) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(a.Kind())); err != nil {
		return err
	}
	if err := writeOptionalUint64(encoder, a.ProposalThreshold); err != nil {
		return err
	}
	if err := writeOptionalUint64(encoder, a.VotingPeriod); err != nil {
		return err
	}
	if err := writeOptionalUint8(encoder, a.QuorumPercentage); err != nil {
		return err
	}
	return writeOptionalUint64(encoder, a.TimelockDuration)
}

// DecodeProposalAction reads the borsh tagged-union form back into its
// concrete variant. Used when decoding proposal records fetched from the
// cluster.
func DecodeProposalAction(decoder *bin.Decoder) (ProposalAction, error) {
	tag, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch ProposalKind(tag) {
	case ProposalKindUpdateRewardRate:
		rate, err := decoder.ReadUint64(bin.LE)
		if err != nil {
			return nil, err
		}
		return UpdateRewardRateAction{NewRate: rate}, nil

	case ProposalKindUpdateMinPublishers:
		feed, err := readPublicKey(decoder)
		if err != nil {
			return nil, err
		}
		newMin, err := decoder.ReadUint8()
		if err != nil {
			return nil, err
		}
		return UpdateMinPublishersAction{Feed: feed, NewMin: newMin}, nil

	case ProposalKindSlashPublisher:
		publisher, err := readPublicKey(decoder)
		if err != nil {
			return nil, err
		}
		percentage, err := decoder.ReadUint8()
		if err != nil {
			return nil, err
		}
		return SlashPublisherAction{Publisher: publisher, Percentage: percentage}, nil

	case ProposalKindEmergencyPause:
		return EmergencyPauseAction{}, nil

	case ProposalKindEmergencyUnpause:
		return EmergencyUnpauseAction{}, nil

	case ProposalKindUpdateGovernanceParams:
		action := UpdateGovernanceParamsAction{}
		if action.ProposalThreshold, err = readOptionalUint64(decoder); err != nil {
			return nil, err
		}
		if action.VotingPeriod, err = readOptionalUint64(decoder); err != nil {
			return nil, err
		}
		if action.QuorumPercentage, err = readOptionalUint8(decoder); err != nil {
			return nil, err
		}
		if action.TimelockDuration, err = readOptionalUint64(decoder); err != nil {
			return nil, err
		}
		return action, nil

	default:
		return nil, fmt.Errorf("invalid proposal kind tag %d", tag)
	}
}

func writeOptionalUint64(encoder *bin.Encoder, v *uint64) error {
	if v == nil {
		return encoder.WriteUint8(0)
	}
	if err := encoder.WriteUint8(1); err != nil {
		return err
	}
	return encoder.WriteUint64(*v, bin.LE)
}

func writeOptionalUint8(encoder *bin.Encoder, v *uint8) error {
	if v == nil {
		return encoder.WriteUint8(0)
	}
	if err := encoder.WriteUint8(1); err != nil {
		return err
	}
	return encoder.WriteUint8(*v)
}

func readOptionalUint64(decoder *bin.Decoder) (*uint64, error) {
	present, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	v, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readOptionalUint8(decoder *bin.Decoder) (*uint8, error) {
	present, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	v, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readPublicKey(decoder *bin.Decoder) (solana.PublicKey, error) {
	b, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}
