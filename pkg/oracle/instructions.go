package oracle

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// Builders below produce one instruction each, with the account list in
// the exact order and mutability the program declares. Derivable addresses
// are derived here; callers pass only what cannot be derived (signers,
// token accounts, mints).

// InitializeProgramArgs are the bootstrap economics. Amounts are in the
// staking token's base units; periods are in slots or seconds as the
// program defines them.
type InitializeProgramArgs struct {
	RewardRate        uint64
	ProposalThreshold uint64
	VotingPeriod      uint64
	QuorumPercentage  uint8
	TimelockDuration  uint64
	TotalSupply       uint64
}

func (p Program) InitializeProgram(args InitializeProgramArgs, authority, tokenMint, vaultTokenAccount solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	vaultAuthority, _, err := p.VaultAuthorityAddress()
	if err != nil {
		return nil, err
	}
	tokenVault, _, err := p.TokenVaultAddress()
	if err != nil {
		return nil, err
	}
	governance, _, err := p.GovernanceAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode("initialize_program", func(enc *bin.Encoder) error {
		if err := enc.WriteUint64(args.RewardRate, bin.LE); err != nil {
			return err
		}
		if err := enc.WriteUint64(args.ProposalThreshold, bin.LE); err != nil {
			return err
		}
		if err := enc.WriteUint64(args.VotingPeriod, bin.LE); err != nil {
			return err
		}
		if err := enc.WriteUint8(args.QuorumPercentage); err != nil {
			return err
		}
		if err := enc.WriteUint64(args.TimelockDuration, bin.LE); err != nil {
			return err
		}
		return enc.WriteUint64(args.TotalSupply, bin.LE)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState).WRITE(),
		solana.Meta(vaultAuthority),
		solana.Meta(tokenVault).WRITE(),
		solana.Meta(governance).WRITE(),
		solana.Meta(tokenMint),
		solana.Meta(vaultTokenAccount),
		solana.Meta(authority).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// CreateProductArgs describe a new product and its feed.
type CreateProductArgs struct {
	Symbol        string
	AssetType     models.AssetType
	Description   string
	PriceType     models.PriceType
	MinPublishers uint8
	Exponent      int32
}

func (p Program) CreateProduct(args CreateProductArgs, authority solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	product, _, err := p.ProductAddress(args.Symbol)
	if err != nil {
		return nil, err
	}
	price, _, err := p.PriceAddress(args.Symbol)
	if err != nil {
		return nil, err
	}

	data, err := p.encode("create_product", func(enc *bin.Encoder) error {
		if err := enc.WriteString(args.Symbol); err != nil {
			return err
		}
		if err := args.AssetType.MarshalWithEncoder(enc); err != nil {
			return err
		}
		if err := enc.WriteString(args.Description); err != nil {
			return err
		}
		if err := args.PriceType.MarshalWithEncoder(enc); err != nil {
			return err
		}
		if err := enc.WriteUint8(args.MinPublishers); err != nil {
			return err
		}
		return enc.WriteInt32(args.Exponent, bin.LE)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState).WRITE(),
		solana.Meta(product).WRITE(),
		solana.Meta(price).WRITE(),
		solana.Meta(authority).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// AddPublisherArgs register a publisher under its authority key.
type AddPublisherArgs struct {
	Name         string
	InitialStake uint64
}

func (p Program) AddPublisher(args AddPublisherArgs, publisherAuthority, payer, publisherTokenAccount, vaultTokenAccount solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	publisher, _, err := p.PublisherAddress(publisherAuthority)
	if err != nil {
		return nil, err
	}
	tokenVault, _, err := p.TokenVaultAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode("add_publisher", func(enc *bin.Encoder) error {
		if err := enc.WriteString(args.Name); err != nil {
			return err
		}
		return enc.WriteUint64(args.InitialStake, bin.LE)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState).WRITE(),
		solana.Meta(publisher).WRITE(),
		solana.Meta(tokenVault).WRITE(),
		solana.Meta(publisherTokenAccount).WRITE(),
		solana.Meta(vaultTokenAccount).WRITE(),
		solana.Meta(publisherAuthority).SIGNER(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

// UpdatePriceArgs carry one observation. Price is signed; the feed's
// exponent scales it.
type UpdatePriceArgs struct {
	Price      int64
	Confidence uint64
}

func (p Program) UpdatePrice(args UpdatePriceArgs, symbol string, publisherAuthority solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	product, _, err := p.ProductAddress(symbol)
	if err != nil {
		return nil, err
	}
	price, _, err := p.PriceAddress(symbol)
	if err != nil {
		return nil, err
	}
	publisher, _, err := p.PublisherAddress(publisherAuthority)
	if err != nil {
		return nil, err
	}

	data, err := p.encode("update_price", func(enc *bin.Encoder) error {
		if err := enc.WriteInt64(args.Price, bin.LE); err != nil {
			return err
		}
		return enc.WriteUint64(args.Confidence, bin.LE)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState),
		solana.Meta(product),
		solana.Meta(price).WRITE(),
		solana.Meta(publisher),
		solana.Meta(publisherAuthority).SIGNER(),
	}, data), nil
}

func (p Program) StakeTokens(amount uint64, publisherAuthority, publisherTokenAccount, vaultTokenAccount solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	publisher, _, err := p.PublisherAddress(publisherAuthority)
	if err != nil {
		return nil, err
	}
	tokenVault, _, err := p.TokenVaultAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode("stake_tokens", func(enc *bin.Encoder) error {
		return enc.WriteUint64(amount, bin.LE)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState),
		solana.Meta(publisher).WRITE(),
		solana.Meta(tokenVault).WRITE(),
		solana.Meta(publisherTokenAccount).WRITE(),
		solana.Meta(vaultTokenAccount).WRITE(),
		solana.Meta(publisherAuthority).SIGNER(),
		solana.Meta(solana.TokenProgramID),
	}, data), nil
}

func (p Program) UnstakeTokens(amount uint64, publisherAuthority solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	publisher, _, err := p.PublisherAddress(publisherAuthority)
	if err != nil {
		return nil, err
	}

	data, err := p.encode("unstake_tokens", func(enc *bin.Encoder) error {
		return enc.WriteUint64(amount, bin.LE)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState),
		solana.Meta(publisher).WRITE(),
		solana.Meta(publisherAuthority).SIGNER(),
	}, data), nil
}

func (p Program) WithdrawUnbonded(publisherAuthority, publisherTokenAccount, vaultTokenAccount solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	publisher, _, err := p.PublisherAddress(publisherAuthority)
	if err != nil {
		return nil, err
	}
	vaultAuthority, _, err := p.VaultAuthorityAddress()
	if err != nil {
		return nil, err
	}
	tokenVault, _, err := p.TokenVaultAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode("withdraw_unbonded", nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState),
		solana.Meta(publisher).WRITE(),
		solana.Meta(vaultAuthority),
		solana.Meta(tokenVault).WRITE(),
		solana.Meta(publisherTokenAccount).WRITE(),
		solana.Meta(vaultTokenAccount).WRITE(),
		solana.Meta(publisherAuthority).SIGNER(),
		solana.Meta(solana.TokenProgramID),
	}, data), nil
}

func (p Program) AggregatePrice(symbol string) (solana.Instruction, error) {
	product, _, err := p.ProductAddress(symbol)
	if err != nil {
		return nil, err
	}
	price, _, err := p.PriceAddress(symbol)
	if err != nil {
		return nil, err
	}

	data, err := p.encode("aggregate_price", nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(product),
		solana.Meta(price).WRITE(),
	}, data), nil
}

// CreateProposal opens proposal number sequence. The program requires the
// sequence to equal its current governance proposal counter; callers read
// it from the governance record first.
func (p Program) CreateProposal(action models.ProposalAction, description string, sequence uint64, proposer, proposerTokenAccount solana.PublicKey) (solana.Instruction, error) {
	if err := action.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s proposal: %w", action.Kind(), err)
	}

	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	governance, _, err := p.GovernanceAddress()
	if err != nil {
		return nil, err
	}
	proposal, _, err := p.ProposalAddress(sequence)
	if err != nil {
		return nil, err
	}

	data, err := p.encode("create_proposal", func(enc *bin.Encoder) error {
		if err := action.MarshalWithEncoder(enc); err != nil {
			return err
		}
		return enc.WriteString(description)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState),
		solana.Meta(governance).WRITE(),
		solana.Meta(proposal).WRITE(),
		solana.Meta(proposerTokenAccount),
		solana.Meta(proposer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, data), nil
}

func (p Program) VoteProposal(vote models.VoteChoice, proposalID uint64, voter, voterTokenAccount solana.PublicKey) (solana.Instruction, error) {
	proposal, _, err := p.ProposalAddress(proposalID)
	if err != nil {
		return nil, err
	}

	data, err := p.encode("vote_proposal", func(enc *bin.Encoder) error {
		return vote.MarshalWithEncoder(enc)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(proposal).WRITE(),
		solana.Meta(voterTokenAccount),
		solana.Meta(voter).SIGNER(),
	}, data), nil
}

// ExecuteProposal tallies a finished vote. The program declares no signer;
// the transaction's fee payer is the only signature involved.
func (p Program) ExecuteProposal(proposalID uint64) (solana.Instruction, error) {
	proposal, _, err := p.ProposalAddress(proposalID)
	if err != nil {
		return nil, err
	}
	governance, _, err := p.GovernanceAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode("execute_proposal", nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(proposal).WRITE(),
		solana.Meta(governance),
	}, data), nil
}

// ExecuteGovernanceAction applies an executed proposal's effect. The feed
// and publisher accounts are optional slots; pass nil when the proposal's
// kind does not touch them and the program id is sent in their place, per
// the runtime's optional-account convention.
func (p Program) ExecuteGovernanceAction(proposalID uint64, authority solana.PublicKey, priceAccount, publisherAccount *solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}
	proposal, _, err := p.ProposalAddress(proposalID)
	if err != nil {
		return nil, err
	}
	governance, _, err := p.GovernanceAddress()
	if err != nil {
		return nil, err
	}
	tokenVault, _, err := p.TokenVaultAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode("execute_governance_action", nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState).WRITE(),
		solana.Meta(proposal),
		solana.Meta(governance),
		solana.Meta(tokenVault).WRITE(),
		p.optionalMeta(priceAccount),
		p.optionalMeta(publisherAccount),
		solana.Meta(authority).SIGNER(),
	}, data), nil
}

func (p Program) EmergencyPause(authority solana.PublicKey) (solana.Instruction, error) {
	return p.adminToggle("emergency_pause", authority)
}

func (p Program) EmergencyUnpause(authority solana.PublicKey) (solana.Instruction, error) {
	return p.adminToggle("emergency_unpause", authority)
}

func (p Program) adminToggle(method string, authority solana.PublicKey) (solana.Instruction, error) {
	globalState, _, err := p.GlobalStateAddress()
	if err != nil {
		return nil, err
	}

	data, err := p.encode(method, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(p.id, solana.AccountMetaSlice{
		solana.Meta(globalState).WRITE(),
		solana.Meta(authority).SIGNER(),
	}, data), nil
}

// optionalMeta renders an absent optional account as the program's own id,
// read-only, which is how the runtime spells None.
func (p Program) optionalMeta(account *solana.PublicKey) *solana.AccountMeta {
	if account == nil {
		return solana.Meta(p.id)
	}
	return solana.Meta(*account).WRITE()
}

func (p Program) encode(method string, write func(*bin.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(instructionDiscriminator(method))
	if write != nil {
		if err := write(bin.NewBorshEncoder(&buf)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
