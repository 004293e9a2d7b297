package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/model"
)

// Bootstrap creates the master key of a new vault, wraps it under a key
// derived from passphrase and persists the wrapped form. It does not unlock
// the vault.
func (e *Engine) Bootstrap(ctx context.Context, passphrase string) (model.WrappedMasterKey, error) {
	e.logger.Debug("Vault engine: bootstrapping vault")

	if passphrase == "" {
		return model.WrappedMasterKey{}, ErrEmptyPassphrase
	}

	initialized, err := e.Initialized(ctx)
	if err != nil {
		return model.WrappedMasterKey{}, err
	}
	if initialized {
		return model.WrappedMasterKey{}, ErrAlreadyInitialized
	}

	wrapped, err := e.wrapNewMasterKey(passphrase)
	if err != nil {
		e.logger.Error("Vault engine: failed to wrap master key", "error", err.Error())
		return model.WrappedMasterKey{}, fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}

	err = e.store.CreateMaster(ctx, wrapped)
	if errors.Is(err, model.ErrMasterExists) {
		return model.WrappedMasterKey{}, ErrAlreadyInitialized
	}
	if err != nil {
		e.logger.Error("Vault engine: failed to persist master record", "error", err.Error())
		return model.WrappedMasterKey{}, fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}

	e.logger.Info("Vault engine: vault bootstrapped")

	return wrapped, nil
}

func (e *Engine) wrapNewMasterKey(passphrase string) (model.WrappedMasterKey, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		return model.WrappedMasterKey{}, err
	}

	derived := e.kdf.Derive(passphrase, salt)
	defer crypto.Wipe(derived)

	masterKey, err := crypto.NewMasterKey()
	if err != nil {
		return model.WrappedMasterKey{}, err
	}
	defer crypto.Wipe(masterKey)

	nonce, ciphertext, err := crypto.Seal(derived, masterKey)
	if err != nil {
		return model.WrappedMasterKey{}, err
	}

	return model.WrappedMasterKey{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}
