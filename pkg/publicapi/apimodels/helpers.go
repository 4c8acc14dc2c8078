package apimodels

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/sfdn-project/oracle-gateway/pkg/credentials"
	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// Request bodies carry 64-bit chain quantities as decimal strings because
// JSON numbers lose precision past 2^53. The helpers below turn those
// strings into typed values, naming the offending field on failure so the
// client learns exactly what to fix.

func ParseUint64Field(field, value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, models.NewMissingFieldError(field)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, models.NewInvalidFieldError(field, "%q is not an unsigned 64-bit decimal", value)
	}
	return parsed, nil
}

func ParseInt64Field(field, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, models.NewMissingFieldError(field)
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, models.NewInvalidFieldError(field, "%q is not a signed 64-bit decimal", value)
	}
	return parsed, nil
}

// ParseSymbolField checks a product symbol before it reaches address
// derivation; a symbol longer than one seed can never exist on chain.
func ParseSymbolField(field, value string) (string, error) {
	symbol := strings.TrimSpace(value)
	if symbol == "" {
		return "", models.NewMissingFieldError(field)
	}
	if len(symbol) > solana.MaxSeedLength {
		return "", models.NewInvalidFieldError(field, "%q is longer than %d bytes", symbol, solana.MaxSeedLength)
	}
	return symbol, nil
}

func ParsePublicKeyField(field, value string) (solana.PublicKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return solana.PublicKey{}, models.NewMissingFieldError(field)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, models.NewInvalidFieldError(field, "%q is not a base58 public key", value)
	}
	return key, nil
}

// ParseSignerField loads a base64-encoded keypair, tagging any credential
// error with the field it arrived in. The secret itself never appears in
// the error.
func ParseSignerField(field, secret string) (credentials.Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, models.NewMissingFieldError(field)
	}
	signer, err := credentials.FromBase64(secret)
	if err != nil {
		var baseErr *models.BaseError
		if errors.As(err, &baseErr) {
			return nil, baseErr.WithDetails(map[string]string{"Field": field})
		}
		return nil, err
	}
	return signer, nil
}

// FormatUint64 and FormatInt64 are the response-side counterparts.

func FormatUint64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func FormatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
