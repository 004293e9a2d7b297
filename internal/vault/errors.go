package vault

import "errors"

var (
	// ErrAuthenticationFailed is returned for a wrong passphrase. It carries no detail.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrDecryptionFailed is returned when a field cannot be decrypted by an unlocked session.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrBootstrapFailed is returned when the master record could not be persisted.
	ErrBootstrapFailed = errors.New("bootstrap failed")
	// ErrAlreadyInitialized is returned by Bootstrap on a vault that has a master record.
	ErrAlreadyInitialized = errors.New("vault already initialized")
	// ErrNotInitialized is returned by Open on a vault without a master record.
	ErrNotInitialized = errors.New("vault not initialized")
	// ErrEmptyPassphrase is returned by Bootstrap for an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase is empty")
	// ErrSessionClosed is returned by operations on a destroyed session.
	ErrSessionClosed = errors.New("session closed")
	// ErrLocked is returned by Manager when no session is active.
	ErrLocked = errors.New("vault is locked")
	// ErrAlreadyUnlocked is returned by Manager.Unlock when a session is active.
	ErrAlreadyUnlocked = errors.New("vault is already unlocked")
)
