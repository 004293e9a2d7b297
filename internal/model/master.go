package model

import "context"

// MasterStore persists the single master record of a vault.
type MasterStore interface {
	GetMaster(ctx context.Context) (WrappedMasterKey, error)
	CreateMaster(ctx context.Context, wrapped WrappedMasterKey) error
}

// WrappedMasterKey is the master key encrypted under the passphrase-derived key.
type WrappedMasterKey struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}
