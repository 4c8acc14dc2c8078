//go:build unit || !integration

package models

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetType(t *testing.T) {
	tests := []struct {
		input   string
		want    AssetType
		wantErr bool
	}{
		{input: "crypto", want: AssetTypeCrypto},
		{input: "CRYPTO", want: AssetTypeCrypto},
		{input: " Equity ", want: AssetTypeEquity},
		{input: "forex", want: AssetTypeForex},
		{input: "Commodity", want: AssetTypeCommodity},
		{input: "stocks", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAssetType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVoteChoiceIsTotal(t *testing.T) {
	// Every documented spelling maps to exactly one ballot; anything else
	// is rejected before a transaction is ever assembled.
	accepted := map[string]VoteChoice{
		"yes":     VoteYes,
		"YES":     VoteYes,
		"No":      VoteNo,
		"no":      VoteNo,
		"abstain": VoteAbstain,
		"Abstain": VoteAbstain,
	}
	for input, want := range accepted {
		got, err := ParseVoteChoice(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"maybe", "nay", "y", "", "yes "} {
		if input == "yes " {
			// surrounding whitespace is tolerated
			got, err := ParseVoteChoice(input)
			require.NoError(t, err)
			assert.Equal(t, VoteYes, got)
			continue
		}
		_, err := ParseVoteChoice(input)
		assert.Error(t, err, "expected %q to be rejected", input)
	}
}

func TestEnumWireTags(t *testing.T) {
	// The program serializes enums as their variant index; constant order
	// is the wire contract.
	encode := func(marshal func(*bin.Encoder) error) byte {
		var buf bytes.Buffer
		require.NoError(t, marshal(bin.NewBorshEncoder(&buf)))
		require.Equal(t, 1, buf.Len())
		return buf.Bytes()[0]
	}

	assert.EqualValues(t, 0, encode(AssetTypeCrypto.MarshalWithEncoder))
	assert.EqualValues(t, 3, encode(AssetTypeCommodity.MarshalWithEncoder))
	assert.EqualValues(t, 1, encode(PriceTypeFutures.MarshalWithEncoder))
	assert.EqualValues(t, 2, encode(VoteAbstain.MarshalWithEncoder))
	assert.EqualValues(t, 0, encode(PriceStatusTrading.MarshalWithEncoder))
	assert.EqualValues(t, 3, encode(PriceStatusUnknown.MarshalWithEncoder))
}

func TestEnumDecodeRejectsUnknownTag(t *testing.T) {
	var status PriceStatus
	err := status.UnmarshalWithDecoder(bin.NewBorshDecoder([]byte{7}))
	assert.Error(t, err)

	var vote VoteChoice
	err = vote.UnmarshalWithDecoder(bin.NewBorshDecoder([]byte{3}))
	assert.Error(t, err)
}

func TestEnumJSONText(t *testing.T) {
	text, err := AssetTypeForex.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "forex", string(text))

	var typ PriceType
	require.NoError(t, typ.UnmarshalText([]byte("Futures")))
	assert.Equal(t, PriceTypeFutures, typ)

	assert.Error(t, typ.UnmarshalText([]byte("swap")))
}
