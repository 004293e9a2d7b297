package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/howeyc/gopass"

	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/logger"
	"github.com/dtroode/gophkeeper-vault/internal/vault"
)

// Prompter reads a secret from the terminal without echoing it.
type Prompter func(prompt string) ([]byte, error)

// TerminalPrompter reads secrets from in, writing prompts to out.
func TerminalPrompter(in gopass.FdReader, out io.Writer) Prompter {
	return func(prompt string) ([]byte, error) {
		return gopass.GetPasswdPrompt(prompt, true, in, out)
	}
}

// EngineFactory opens the vault store on first use.
type EngineFactory func(ctx context.Context) (*vault.Engine, error)

// App carries what commands share.
type App struct {
	ctx       context.Context
	newEngine EngineFactory
	prompt    Prompter
	out       io.Writer
	logger    *logger.Logger

	once    sync.Once
	engine  *vault.Engine
	manager *vault.Manager
	err     error
}

// New creates an App.
func New(ctx context.Context, newEngine EngineFactory, prompt Prompter, out io.Writer, logger *logger.Logger) *App {
	return &App{
		ctx:       ctx,
		newEngine: newEngine,
		prompt:    prompt,
		out:       out,
		logger:    logger,
	}
}

func (a *App) vaultEngine() (*vault.Engine, error) {
	a.once.Do(func() {
		a.engine, a.err = a.newEngine(a.ctx)
		if a.err == nil {
			a.manager = vault.NewManager(a.engine)
		}
	})
	return a.engine, a.err
}

func (a *App) readSecret(prompt string) (string, error) {
	b, err := a.prompt(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	defer crypto.Wipe(b)
	return string(b), nil
}

// withSession unlocks the vault, runs fn and locks the vault again.
func (a *App) withSession(fn func(*vault.Session) error) error {
	if _, err := a.vaultEngine(); err != nil {
		return err
	}

	passphrase, err := a.readSecret("Master passphrase: ")
	if err != nil {
		return err
	}

	if err := a.manager.Unlock(a.ctx, passphrase); err != nil {
		a.logger.Debug("CLI: unlock failed", "error", err)
		return describe(err)
	}
	defer a.manager.Lock()

	return describe(a.manager.Do(fn))
}

// describe turns engine errors into messages fit for the terminal.
func describe(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vault.ErrAuthenticationFailed):
		return errors.New("authentication failed")
	case errors.Is(err, vault.ErrNotInitialized):
		return errors.New("vault is not initialized, run init first")
	case errors.Is(err, vault.ErrAlreadyInitialized):
		return errors.New("vault is already initialized")
	}
	return err
}
