package oracle

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Seed tags fixed by the program. Every namespace prefixes its own
// derivations, so equal caller seeds under different tags can never
// produce the same address.
const (
	seedGlobalState    = "global_state"
	seedVaultAuthority = "vault_authority"
	seedTokenVault     = "token_vault"
	seedGovernance     = "governance"
	seedProduct        = "product"
	seedPrice          = "price"
	seedPublisher      = "publisher"
	seedProposal       = "proposal"
)

// GlobalStateAddress derives the singleton global configuration record.
func (p Program) GlobalStateAddress() (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedGlobalState))
}

// VaultAuthorityAddress derives the signing authority for vault transfers.
// No record lives there; the program signs with it.
func (p Program) VaultAuthorityAddress() (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedVaultAuthority))
}

// TokenVaultAddress derives the staking vault bookkeeping record.
func (p Program) TokenVaultAddress() (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedTokenVault))
}

// GovernanceAddress derives the governance parameter record.
func (p Program) GovernanceAddress() (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedGovernance))
}

// ProductAddress derives the product record for a symbol.
func (p Program) ProductAddress(symbol string) (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedProduct), []byte(symbol))
}

// PriceAddress derives the price feed record for a symbol.
func (p Program) PriceAddress(symbol string) (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedPrice), []byte(symbol))
}

// PublisherAddress derives the publisher record owned by an authority key.
func (p Program) PublisherAddress(authority solana.PublicKey) (solana.PublicKey, uint8, error) {
	return p.derive([]byte(seedPublisher), authority.Bytes())
}

// ProposalAddress derives the proposal record for a sequence number. The
// program numbers proposals from its governance counter, little-endian.
func (p Program) ProposalAddress(id uint64) (solana.PublicKey, uint8, error) {
	seq := make([]byte, 8)
	binary.LittleEndian.PutUint64(seq, id)
	return p.derive([]byte(seedProposal), seq)
}

func (p Program) derive(seeds ...[]byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, p.id)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return addr, bump, nil
}
