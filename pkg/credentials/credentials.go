// Package credentials reconstructs signing identities from
// request-supplied secrets. Secrets live only for the request that carried
// them: nothing here logs, stores or copies key material beyond the
// returned signer.
package credentials

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// Signer authorizes transactions for one public identity. Key custody is
// behind this interface so an in-memory keypair, a remote signing service
// or an HSM can all satisfy it; only the message bytes ever cross it.
type Signer interface {
	PublicKey() solana.PublicKey
	SignMessage(message []byte) (solana.Signature, error)
}

// secretKeyLength is the raw ed25519 form: 32 seed bytes followed by the
// 32-byte public half.
const secretKeyLength = ed25519.PrivateKeySize

// FromBase64 decodes a base64 secret key into an in-memory signer. The
// error messages deliberately never include the offending input.
func FromBase64(encoded string) (*KeypairSigner, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, models.NewBaseError("secret key is not valid base64").
			WithCode(models.InvalidCredential).
			WithHint("expected the standard base64 form of a 64-byte ed25519 secret key")
	}
	if len(raw) != secretKeyLength {
		return nil, models.NewBaseError("secret key must decode to %d bytes, got %d", secretKeyLength, len(raw)).
			WithCode(models.InvalidCredential)
	}

	// the embedded public half must match the one derived from the seed,
	// otherwise signatures would verify against a different identity
	derived := ed25519.PrivateKey(raw).Public().(ed25519.PublicKey)
	if !bytes.Equal(derived, raw[ed25519.SeedSize:]) {
		return nil, models.NewBaseError("secret key failed its validity check").
			WithCode(models.InvalidCredential)
	}

	return &KeypairSigner{key: solana.PrivateKey(raw)}, nil
}

// KeypairSigner signs with a locally held ed25519 keypair.
type KeypairSigner struct {
	key solana.PrivateKey
}

func (s *KeypairSigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

func (s *KeypairSigner) SignMessage(message []byte) (solana.Signature, error) {
	return s.key.Sign(message)
}

// String identifies the signer by its public key only, so accidental
// formatting can never leak the secret.
func (s *KeypairSigner) String() string {
	return s.key.PublicKey().String()
}
