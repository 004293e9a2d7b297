package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/logger"
	"github.com/dtroode/gophkeeper-vault/internal/model"
)

// Engine bootstraps and unlocks a vault kept in a store.
type Engine struct {
	store  model.Store
	kdf    *crypto.KDF
	logger *logger.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	kdf crypto.KDFParams
}

// WithKDFParams replaces the default key derivation parameters. A vault can
// only be unlocked with the parameters it was bootstrapped with.
func WithKDFParams(params crypto.KDFParams) Option {
	return func(o *engineOptions) {
		o.kdf = params
	}
}

// NewEngine creates an Engine. It fails only on invalid key derivation
// parameters, which callers should treat as fatal.
func NewEngine(store model.Store, logger *logger.Logger, opts ...Option) (*Engine, error) {
	o := engineOptions{kdf: crypto.DefaultKDFParams()}
	for _, opt := range opts {
		opt(&o)
	}

	kdf, err := crypto.NewKDF(o.kdf)
	if err != nil {
		return nil, fmt.Errorf("failed to configure key derivation: %w", err)
	}

	return &Engine{
		store:  store,
		kdf:    kdf,
		logger: logger,
	}, nil
}

// Initialized reports whether the vault has a master record.
func (e *Engine) Initialized(ctx context.Context) (bool, error) {
	_, err := e.store.GetMaster(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get master record: %w", err)
	}
	return true, nil
}
