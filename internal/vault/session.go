package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/google/uuid"

	"github.com/dtroode/gophkeeper-vault/internal/crypto"
	"github.com/dtroode/gophkeeper-vault/internal/logger"
	"github.com/dtroode/gophkeeper-vault/internal/model"
)

// Session is an unlocked vault. It holds the only plaintext copy of the
// master key, in locked memory, until Destroy is called.
type Session struct {
	id     uuid.UUID
	store  model.RecordStore
	logger *logger.Logger

	mu  sync.Mutex
	key *memguard.LockedBuffer
}

// newSession moves masterKey into locked memory and wipes the original.
func newSession(masterKey []byte, store model.RecordStore, logger *logger.Logger) *Session {
	return &Session{
		id:     uuid.New(),
		store:  store,
		logger: logger,
		key:    memguard.NewBufferFromBytes(masterKey),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Destroy wipes the master key. Calling it more than once is a no-op.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return
	}
	s.key.Destroy()
	s.key = nil

	s.logger.Info("Vault session: destroyed", "session_id", s.id.String())
}

// Alive reports whether the session has not been destroyed.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.key != nil
}

// EncryptField encrypts plaintext under the master key with a fresh nonce.
func (s *Session) EncryptField(plaintext string) (nonce, ciphertext []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.encryptField(plaintext)
}

// DecryptField reverses EncryptField.
func (s *Session) DecryptField(nonce, ciphertext []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.decryptField(nonce, ciphertext)
}

// SealField encrypts plaintext and encodes nonce and ciphertext as text for storage.
func (s *Session) SealField(plaintext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sealField(plaintext)
}

// OpenField decodes and decrypts a value produced by SealField.
func (s *Session) OpenField(stored string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.openField(stored)
}

// CreateRecord encrypts the password of c and stores the record.
func (s *Session) CreateRecord(ctx context.Context, c model.Credential) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.sealCredential(c)
	if err != nil {
		return 0, err
	}

	id, err := s.store.Put(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("failed to put record: %w", err)
	}

	s.logger.Debug("Vault session: record created", "session_id", s.id.String(), "record_id", id)

	return id, nil
}

// ReadRecord loads a record and decrypts its password. If the password
// cannot be decrypted the error wraps ErrDecryptionFailed and the returned
// credential holds every field except the password.
func (s *Session) ReadRecord(ctx context.Context, id int64) (model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return model.Credential{}, ErrSessionClosed
	}

	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to get record by id: %w", err)
	}

	// On a decryption failure c still carries the plaintext fields.
	return s.openRecord(record)
}

// ListRecords loads all records. A record whose password cannot be
// decrypted is returned with Err set; it does not fail the listing.
func (s *Session) ListRecords(ctx context.Context) ([]model.CredentialResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return nil, ErrSessionClosed
	}

	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	out := make([]model.CredentialResult, 0, len(records))
	for _, record := range records {
		c, err := s.openRecord(record)
		out = append(out, model.CredentialResult{Credential: c, Err: err})
	}

	return out, nil
}

// UpdateRecord replaces a record. The password is encrypted again with a new nonce.
func (s *Session) UpdateRecord(ctx context.Context, id int64, c model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.sealCredential(c)
	if err != nil {
		return err
	}
	record.ID = id

	if err := s.store.Update(ctx, id, record); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	s.logger.Debug("Vault session: record updated", "session_id", s.id.String(), "record_id", id)

	return nil
}

// DeleteRecord removes a record.
func (s *Session) DeleteRecord(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return ErrSessionClosed
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.logger.Debug("Vault session: record deleted", "session_id", s.id.String(), "record_id", id)

	return nil
}

func (s *Session) encryptField(plaintext string) ([]byte, []byte, error) {
	if s.key == nil {
		return nil, nil, ErrSessionClosed
	}

	pt := []byte(plaintext)
	defer crypto.Wipe(pt)

	nonce, ciphertext, err := crypto.Seal(s.key.Bytes(), pt)
	if err != nil {
		s.logger.Error("Vault session: failed to encrypt field",
			"session_id", s.id.String(),
			"error", err.Error())
		return nil, nil, fmt.Errorf("failed to encrypt field: %w", err)
	}

	return nonce, ciphertext, nil
}

func (s *Session) decryptField(nonce, ciphertext []byte) (string, error) {
	if s.key == nil {
		return "", ErrSessionClosed
	}

	pt, err := crypto.Decrypt(s.key.Bytes(), nonce, ciphertext)
	if err != nil {
		// The key never changes for a session, so this is corruption.
		s.logger.Error("Vault session: failed to decrypt field",
			"session_id", s.id.String(),
			"error", err.Error())
		return "", ErrDecryptionFailed
	}
	defer crypto.Wipe(pt)

	return string(pt), nil
}

func (s *Session) sealField(plaintext string) (string, error) {
	nonce, ciphertext, err := s.encryptField(plaintext)
	if err != nil {
		return "", err
	}
	return crypto.EncodeField(nonce, ciphertext), nil
}

func (s *Session) openField(stored string) (string, error) {
	if s.key == nil {
		return "", ErrSessionClosed
	}

	nonce, ciphertext, err := crypto.DecodeField(stored)
	if err != nil {
		s.logger.Error("Vault session: malformed field",
			"session_id", s.id.String(),
			"error", err.Error())
		return "", ErrDecryptionFailed
	}
	return s.decryptField(nonce, ciphertext)
}

func (s *Session) sealCredential(c model.Credential) (model.Record, error) {
	password, err := s.sealField(c.Password)
	if err != nil {
		return model.Record{}, err
	}

	return model.Record{
		ID:       c.ID,
		Service:  c.Service,
		Email:    c.Email,
		Username: c.Username,
		Password: password,
		Notes:    c.Notes,
	}, nil
}

func (s *Session) openRecord(record model.Record) (model.Credential, error) {
	c := model.Credential{
		ID:       record.ID,
		Service:  record.Service,
		Email:    record.Email,
		Username: record.Username,
		Notes:    record.Notes,
	}

	password, err := s.openField(record.Password)
	if err != nil {
		return c, fmt.Errorf("record %d: %w", record.ID, err)
	}
	c.Password = password

	return c, nil
}
