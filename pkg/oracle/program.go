// Package oracle binds the deployed SFDN oracle program: its address
// derivations, instruction encodings and account record layouts. Everything
// here is pure computation — nothing talks to the network.
package oracle

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the address the oracle program is deployed under.
// Deployments against a fork can override it in configuration.
var DefaultProgramID = solana.MustPublicKeyFromBase58("GqEkgwLMtTZ2XmP4LnwJUQbAQWUR3PMfTN8pNojBH6ks")

// Program is a handle on one deployment of the oracle program. All
// derivations and instruction builders hang off it; the zero value is not
// usable.
type Program struct {
	id solana.PublicKey
}

func NewProgram(id solana.PublicKey) Program {
	return Program{id: id}
}

// ID returns the program's address.
func (p Program) ID() solana.PublicKey {
	return p.id
}

// Sighash computes the 8-byte discriminator the program's runtime expects
// at the front of instruction data and account records:
// sha256("<namespace>:<name>")[:8].
func Sighash(namespace, name string) []byte {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	return h[:8]
}

const (
	methodNamespace  = "global"
	accountNamespace = "account"
)

func instructionDiscriminator(method string) []byte {
	return Sighash(methodNamespace, method)
}

func accountDiscriminator(record string) []byte {
	return Sighash(accountNamespace, record)
}
