package models

import (
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
)

// The enum types below mirror tagged unions of the oracle program. Their
// numeric values are the borsh variant indexes the program serializes, so
// the constant order must never change. Parsing is case-insensitive and
// total: every string either maps to a declared variant or fails, before
// anything is sent to the cluster.

// AssetType identifies the market category a product belongs to.
type AssetType uint8

const (
	AssetTypeCrypto AssetType = iota
	AssetTypeEquity
	AssetTypeForex
	AssetTypeCommodity
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeCrypto:
		return "crypto"
	case AssetTypeEquity:
		return "equity"
	case AssetTypeForex:
		return "forex"
	case AssetTypeCommodity:
		return "commodity"
	default:
		return fmt.Sprintf("AssetType(%d)", uint8(t))
	}
}

func ParseAssetType(s string) (AssetType, error) {
	for typ := AssetTypeCrypto; typ <= AssetTypeCommodity; typ++ {
		if equal(typ.String(), s) {
			return typ, nil
		}
	}

	return AssetTypeCrypto, fmt.Errorf("invalid asset type: %s", s)
}

func AssetTypes() []AssetType {
	var res []AssetType
	for typ := AssetTypeCrypto; typ <= AssetTypeCommodity; typ++ {
		res = append(res, typ)
	}

	return res
}

func (t AssetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AssetType) UnmarshalText(text []byte) (err error) {
	*t, err = ParseAssetType(string(text))
	return
}

func (t AssetType) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(t))
}

func (t *AssetType) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	tag, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	if tag > uint8(AssetTypeCommodity) {
		return fmt.Errorf("invalid asset type tag %d", tag)
	}
	*t = AssetType(tag)
	return nil
}

// PriceType distinguishes the instrument a feed quotes.
type PriceType uint8

const (
	PriceTypeSpot PriceType = iota
	PriceTypeFutures
	PriceTypeOption
)

func (t PriceType) String() string {
	switch t {
	case PriceTypeSpot:
		return "spot"
	case PriceTypeFutures:
		return "futures"
	case PriceTypeOption:
		return "option"
	default:
		return fmt.Sprintf("PriceType(%d)", uint8(t))
	}
}

func ParsePriceType(s string) (PriceType, error) {
	for typ := PriceTypeSpot; typ <= PriceTypeOption; typ++ {
		if equal(typ.String(), s) {
			return typ, nil
		}
	}

	return PriceTypeSpot, fmt.Errorf("invalid price type: %s", s)
}

func PriceTypes() []PriceType {
	var res []PriceType
	for typ := PriceTypeSpot; typ <= PriceTypeOption; typ++ {
		res = append(res, typ)
	}

	return res
}

func (t PriceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PriceType) UnmarshalText(text []byte) (err error) {
	*t, err = ParsePriceType(string(text))
	return
}

func (t PriceType) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(t))
}

func (t *PriceType) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	tag, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	if tag > uint8(PriceTypeOption) {
		return fmt.Errorf("invalid price type tag %d", tag)
	}
	*t = PriceType(tag)
	return nil
}

// VoteChoice is a ballot cast on a governance proposal.
type VoteChoice uint8

const (
	VoteYes VoteChoice = iota
	VoteNo
	VoteAbstain
)

func (v VoteChoice) String() string {
	switch v {
	case VoteYes:
		return "yes"
	case VoteNo:
		return "no"
	case VoteAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("VoteChoice(%d)", uint8(v))
	}
}

func ParseVoteChoice(s string) (VoteChoice, error) {
	for typ := VoteYes; typ <= VoteAbstain; typ++ {
		if equal(typ.String(), s) {
			return typ, nil
		}
	}

	return VoteYes, fmt.Errorf("invalid vote choice: %s", s)
}

func VoteChoices() []VoteChoice {
	var res []VoteChoice
	for typ := VoteYes; typ <= VoteAbstain; typ++ {
		res = append(res, typ)
	}

	return res
}

func (v VoteChoice) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *VoteChoice) UnmarshalText(text []byte) (err error) {
	*v, err = ParseVoteChoice(string(text))
	return
}

func (v VoteChoice) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(v))
}

func (v *VoteChoice) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	tag, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	if tag > uint8(VoteAbstain) {
		return fmt.Errorf("invalid vote choice tag %d", tag)
	}
	*v = VoteChoice(tag)
	return nil
}

// PriceStatus reports the trading state of an aggregate. It only ever
// flows outward: the program computes it, the gateway just relays it.
type PriceStatus uint8

const (
	PriceStatusTrading PriceStatus = iota
	PriceStatusHalted
	PriceStatusAuction
	PriceStatusUnknown
)

func (s PriceStatus) String() string {
	switch s {
	case PriceStatusTrading:
		return "trading"
	case PriceStatusHalted:
		return "halted"
	case PriceStatusAuction:
		return "auction"
	case PriceStatusUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("PriceStatus(%d)", uint8(s))
	}
}

func ParsePriceStatus(s string) (PriceStatus, error) {
	for typ := PriceStatusTrading; typ <= PriceStatusUnknown; typ++ {
		if equal(typ.String(), s) {
			return typ, nil
		}
	}

	return PriceStatusUnknown, fmt.Errorf("invalid price status: %s", s)
}

func (s PriceStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PriceStatus) UnmarshalText(text []byte) (err error) {
	*s, err = ParsePriceStatus(string(text))
	return
}

func (s PriceStatus) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint8(uint8(s))
}

func (s *PriceStatus) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	tag, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	if tag > uint8(PriceStatusUnknown) {
		return fmt.Errorf("invalid price status tag %d", tag)
	}
	*s = PriceStatus(tag)
	return nil
}

func equal(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return strings.EqualFold(a, b)
}
