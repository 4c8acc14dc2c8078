//go:build unit || !integration

package credentials

import (
	"encoding/base64"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

func TestRoundTrip(t *testing.T) {
	wallet := solana.NewWallet()
	encoded := base64.StdEncoding.EncodeToString(wallet.PrivateKey)

	signer, err := FromBase64(encoded)
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey(), signer.PublicKey())

	// surrounding whitespace is tolerated
	signer, err = FromBase64("  " + encoded + "\n")
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey(), signer.PublicKey())
}

func TestSignaturesVerify(t *testing.T) {
	wallet := solana.NewWallet()
	signer, err := FromBase64(base64.StdEncoding.EncodeToString(wallet.PrivateKey))
	require.NoError(t, err)

	message := []byte("one transaction message")
	sig, err := signer.SignMessage(message)
	require.NoError(t, err)
	assert.True(t, sig.Verify(wallet.PublicKey(), message))
}

func TestRejectsGarbage(t *testing.T) {
	_, err := FromBase64("not base64!!!")
	require.Error(t, err)
	assert.True(t, models.IsErrorWithCode(err, models.InvalidCredential))

	// valid base64, wrong length
	_, err = FromBase64(base64.StdEncoding.EncodeToString([]byte("short")))
	require.Error(t, err)
	assert.True(t, models.IsErrorWithCode(err, models.InvalidCredential))

	_, err = FromBase64("")
	assert.Error(t, err)
}

func TestRejectsMismatchedPublicHalf(t *testing.T) {
	wallet := solana.NewWallet()
	raw := make([]byte, len(wallet.PrivateKey))
	copy(raw, wallet.PrivateKey)
	raw[40] ^= 0xff // corrupt the embedded public key

	_, err := FromBase64(base64.StdEncoding.EncodeToString(raw))
	require.Error(t, err)
	assert.True(t, models.IsErrorWithCode(err, models.InvalidCredential))
}

func TestErrorsNeverEchoSecret(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("super-secret-but-wrong-length"))
	_, err := FromBase64(secret)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), secret)
	assert.NotContains(t, err.Error(), "super-secret")
}
