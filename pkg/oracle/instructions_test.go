//go:build unit || !integration

package oracle

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// Discriminators are the wire contract with the deployed program; the
// expected bytes here were computed independently of Sighash.
func TestInstructionDiscriminators(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"initialize_program", "b06bcda8189daf67"},
		{"create_product", "b79bca772b72aee1"},
		{"add_publisher", "2608ea2c4b1da392"},
		{"update_price", "3d22759b4b227bd0"},
		{"stake_tokens", "887e5ba228830d7f"},
		{"unstake_tokens", "3a77d78fcbdf2056"},
		{"withdraw_unbonded", "edac349dc27c4fa8"},
		{"aggregate_price", "1041242d749445f3"},
		{"create_proposal", "847444aed8a0c616"},
		{"vote_proposal", "f76872f0ed29c824"},
		{"execute_proposal", "ba3c74856c806f1c"},
		{"execute_governance_action", "2dbf8fab8df3381e"},
		{"emergency_pause", "158f1b8ec8b5d2ff"},
		{"emergency_unpause", "53f9c339cebd1f55"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, hex.EncodeToString(instructionDiscriminator(tt.method)))
		})
	}
}

func TestAccountDiscriminators(t *testing.T) {
	assert.Equal(t, "a32e4aa8d87b8562", hex.EncodeToString(accountDiscriminator(recordGlobalState)))
	assert.Equal(t, "55e4e271da5b745c", hex.EncodeToString(accountDiscriminator(recordPriceFeed)))
	assert.Equal(t, "1a5ebdbb74883521", hex.EncodeToString(accountDiscriminator(recordProposal)))
}

func TestUpdatePriceInstruction(t *testing.T) {
	p := testProgram()
	authority := solana.NewWallet().PublicKey()

	inst, err := p.UpdatePrice(UpdatePriceArgs{Price: -2, Confidence: 7}, "BTC/USD", authority)
	require.NoError(t, err)
	assert.Equal(t, p.ID(), inst.ProgramID())

	data, err := inst.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+8+8)
	assert.Equal(t, instructionDiscriminator("update_price"), data[:8])
	assert.EqualValues(t, -2, int64(binary.LittleEndian.Uint64(data[8:16])))
	assert.EqualValues(t, 7, binary.LittleEndian.Uint64(data[16:24]))

	global, _, _ := p.GlobalStateAddress()
	product, _, _ := p.ProductAddress("BTC/USD")
	price, _, _ := p.PriceAddress("BTC/USD")
	publisher, _, _ := p.PublisherAddress(authority)

	metas := inst.Accounts()
	require.Len(t, metas, 5)
	assert.Equal(t, global, metas[0].PublicKey)
	assert.False(t, metas[0].IsWritable)
	assert.Equal(t, product, metas[1].PublicKey)
	assert.Equal(t, price, metas[2].PublicKey)
	assert.True(t, metas[2].IsWritable)
	assert.Equal(t, publisher, metas[3].PublicKey)
	assert.False(t, metas[3].IsWritable)
	assert.Equal(t, authority, metas[4].PublicKey)
	assert.True(t, metas[4].IsSigner)
}

func TestCreateProductEncoding(t *testing.T) {
	p := testProgram()
	authority := solana.NewWallet().PublicKey()

	inst, err := p.CreateProduct(CreateProductArgs{
		Symbol:        "BTC/USD",
		AssetType:     models.AssetTypeCrypto,
		Description:   "Bitcoin vs US Dollar",
		PriceType:     models.PriceTypeSpot,
		MinPublishers: 3,
		Exponent:      -8,
	}, authority)
	require.NoError(t, err)

	data, err := inst.Data()
	require.NoError(t, err)
	assert.Equal(t, instructionDiscriminator("create_product"), data[:8])

	// borsh strings carry a u32 little-endian length
	assert.EqualValues(t, 7, binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, "BTC/USD", string(data[12:19]))
	assert.EqualValues(t, 0, data[19], "crypto tag")

	tail := data[len(data)-6:]
	assert.EqualValues(t, 0, tail[0], "spot tag")
	assert.EqualValues(t, 3, tail[1])
	assert.EqualValues(t, -8, int32(binary.LittleEndian.Uint32(tail[2:])))

	metas := inst.Accounts()
	require.Len(t, metas, 5)
	assert.True(t, metas[3].IsSigner)
	assert.Equal(t, solana.SystemProgramID, metas[4].PublicKey)
}

func TestExecuteGovernanceActionOptionalAccounts(t *testing.T) {
	p := testProgram()
	authority := solana.NewWallet().PublicKey()

	// neither optional present: the program id stands in, read-only
	inst, err := p.ExecuteGovernanceAction(4, authority, nil, nil)
	require.NoError(t, err)
	metas := inst.Accounts()
	require.Len(t, metas, 7)
	assert.Equal(t, p.ID(), metas[4].PublicKey)
	assert.False(t, metas[4].IsWritable)
	assert.Equal(t, p.ID(), metas[5].PublicKey)

	// a slash proposal passes only the publisher record, writable
	target := solana.NewWallet().PublicKey()
	inst, err = p.ExecuteGovernanceAction(4, authority, nil, &target)
	require.NoError(t, err)
	metas = inst.Accounts()
	assert.Equal(t, target, metas[5].PublicKey)
	assert.True(t, metas[5].IsWritable)
}

func TestCreateProposalValidatesAction(t *testing.T) {
	p := testProgram()
	proposer := solana.NewWallet().PublicKey()
	tokens := solana.NewWallet().PublicKey()

	_, err := p.CreateProposal(models.SlashPublisherAction{
		Publisher:  solana.NewWallet().PublicKey(),
		Percentage: 101,
	}, "too much", 0, proposer, tokens)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slash percentage")

	inst, err := p.CreateProposal(models.EmergencyPauseAction{}, "halt", 2, proposer, tokens)
	require.NoError(t, err)

	proposal, _, _ := p.ProposalAddress(2)
	metas := inst.Accounts()
	require.Len(t, metas, 6)
	assert.Equal(t, proposal, metas[2].PublicKey)
	assert.True(t, metas[2].IsWritable)
	assert.Equal(t, proposer, metas[4].PublicKey)
	assert.True(t, metas[4].IsSigner)
}

func TestVoteProposalEncodesBallot(t *testing.T) {
	p := testProgram()
	voter := solana.NewWallet().PublicKey()
	tokens := solana.NewWallet().PublicKey()

	inst, err := p.VoteProposal(models.VoteAbstain, 9, voter, tokens)
	require.NoError(t, err)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Len(t, data, 9)
	assert.Equal(t, instructionDiscriminator("vote_proposal"), data[:8])
	assert.EqualValues(t, 2, data[8])
}
