package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/model"
)

// Open loads the master record from the store and unlocks it with passphrase.
func (e *Engine) Open(ctx context.Context, passphrase string) (*Session, error) {
	wrapped, err := e.store.GetMaster(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get master record: %w", err)
	}
	defer wipeWrapped(&wrapped)

	return e.Unlock(passphrase, wrapped)
}

// Unlock derives the key for passphrase and unwraps the master key. It is
// the only way a plaintext master key is produced after bootstrap. Every
// failure is reported as ErrAuthenticationFailed.
func (e *Engine) Unlock(passphrase string, wrapped model.WrappedMasterKey) (*Session, error) {
	if len(wrapped.Salt) != crypto.SaltSize {
		e.logger.Warn("Vault engine: unlock failed")
		return nil, ErrAuthenticationFailed
	}

	derived := e.kdf.Derive(passphrase, wrapped.Salt)
	defer crypto.Wipe(derived)

	masterKey, err := crypto.Decrypt(derived, wrapped.Nonce, wrapped.Ciphertext)
	if err != nil || len(masterKey) != crypto.KeySize {
		crypto.Wipe(masterKey)
		e.logger.Warn("Vault engine: unlock failed")
		return nil, ErrAuthenticationFailed
	}

	s := newSession(masterKey, e.store, e.logger)
	e.logger.Info("Vault engine: vault unlocked", "session_id", s.ID().String())

	return s, nil
}

func wipeWrapped(w *model.WrappedMasterKey) {
	crypto.Wipe(w.Salt)
	crypto.Wipe(w.Nonce)
	crypto.Wipe(w.Ciphertext)
}
