package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidKDFParams is returned when key derivation parameters are unusable.
// It is a configuration error and must abort startup.
var ErrInvalidKDFParams = errors.New("crypto: invalid kdf parameters")

// KDFParams contains Argon2id cost parameters.
type KDFParams struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
	KeyLen uint32
}

// DefaultKDFParams returns the parameters every vault is derived with:
// Argon2id, 19 MiB of memory, 2 passes, 4 lanes, 32-byte output.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:   2,
		MemKiB: 19456,
		Par:    4,
		KeyLen: KeySize,
	}
}

// Validate checks the parameters against what Argon2id and the cipher accept.
func (p KDFParams) Validate() error {
	switch {
	case p.KeyLen != KeySize:
		return fmt.Errorf("%w: key length %d, want %d", ErrInvalidKDFParams, p.KeyLen, KeySize)
	case p.Time < 1:
		return fmt.Errorf("%w: time must be at least 1", ErrInvalidKDFParams)
	case p.Par < 1:
		return fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidKDFParams)
	case p.MemKiB < 8*uint32(p.Par):
		return fmt.Errorf("%w: memory %d KiB is below 8*parallelism", ErrInvalidKDFParams, p.MemKiB)
	}
	return nil
}

// KDF derives symmetric keys from passphrases.
type KDF struct {
	params KDFParams
}

// NewKDF returns a KDF for validated parameters.
func NewKDF(params KDFParams) (*KDF, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &KDF{params: params}, nil
}

// Params returns the parameters the KDF was built with.
func (k *KDF) Params() KDFParams {
	return k.params
}

// Derive returns a KeyLen-byte key for passphrase and salt. The same inputs
// always produce the same key. The caller owns the result and must wipe it.
func (k *KDF) Derive(passphrase string, salt []byte) []byte {
	pass := []byte(passphrase)
	defer Wipe(pass)

	return argon2.IDKey(pass, salt, k.params.Time, k.params.MemKiB, k.params.Par, k.params.KeyLen)
}
