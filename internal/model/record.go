package model

import "context"

// RecordStore defines persistence operations for credential records.
type RecordStore interface {
	Put(ctx context.Context, record Record) (int64, error)
	GetAll(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	Update(ctx context.Context, id int64, record Record) error
	Delete(ctx context.Context, id int64) error
}

// Record is a credential row as it is stored. Password holds the
// transport-encoded nonce and ciphertext, never the plaintext.
type Record struct {
	ID       int64
	Service  string
	Email    string
	Username string
	Password string
	Notes    string
}

// Credential is the decrypted view of a Record.
type Credential struct {
	ID       int64
	Service  string
	Email    string
	Username string
	Password string
	Notes    string
}

// CredentialResult is one entry of a listing. Err is set when the
// record's password could not be decrypted.
type CredentialResult struct {
	Credential Credential
	Err        error
}
