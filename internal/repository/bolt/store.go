package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/dtroode/gophkeeper-vault/internal/model"
)

var (
	masterBucket  = []byte("master")
	recordsBucket = []byte("records")
	masterKey     = []byte("wrapped")
)

var _ model.Store = (*Store)(nil)

// Store keeps a vault in a single bbolt file.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the vault file at path. timeout bounds the wait for
// the file lock held by another process.
func Open(path string, timeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open vault file: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the vault file. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type masterRow struct {
	Salt               []byte `json:"salt"`
	Nonce              []byte `json:"nonce"`
	EncryptedMasterKey []byte `json:"encrypted_master_key"`
}

type recordRow struct {
	Service  string `json:"service"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes"`
}

// GetMaster returns the master record or model.ErrNotFound.
func (s *Store) GetMaster(ctx context.Context) (model.WrappedMasterKey, error) {
	var row masterRow
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(masterBucket)
		if b == nil {
			return model.ErrNotFound
		}
		v := b.Get(masterKey)
		if v == nil {
			return model.ErrNotFound
		}
		return json.Unmarshal(v, &row)
	})
	if err != nil {
		return model.WrappedMasterKey{}, err
	}

	return model.WrappedMasterKey{
		Salt:       row.Salt,
		Nonce:      row.Nonce,
		Ciphertext: row.EncryptedMasterKey,
	}, nil
}

// CreateMaster writes the master record and creates the empty record
// bucket in one transaction.
func (s *Store) CreateMaster(ctx context.Context, wrapped model.WrappedMasterKey) error {
	v, err := json.Marshal(masterRow{
		Salt:               wrapped.Salt,
		Nonce:              wrapped.Nonce,
		EncryptedMasterKey: wrapped.Ciphertext,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal master record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(masterBucket)
		if err != nil {
			return fmt.Errorf("failed to create master bucket: %w", err)
		}
		if b.Get(masterKey) != nil {
			return model.ErrMasterExists
		}
		if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
			return fmt.Errorf("failed to create records bucket: %w", err)
		}
		return b.Put(masterKey, v)
	})
}

// Put stores a new record and returns its id.
func (s *Store) Put(ctx context.Context, record model.Record) (int64, error) {
	v, err := json.Marshal(toRow(record))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal record: %w", err)
	}

	var id uint64
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(recordsBucket)
		if err != nil {
			return fmt.Errorf("failed to create records bucket: %w", err)
		}
		id, err = b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate record id: %w", err)
		}
		return b.Put(itob(id), v)
	})
	if err != nil {
		return 0, err
	}

	return int64(id), nil
}

// GetAll returns every record ordered by id.
func (s *Store) GetAll(ctx context.Context) ([]model.Record, error) {
	var records []model.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			record, err := fromRow(k, v)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetByID returns a record or model.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (model.Record, error) {
	var record model.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil || id <= 0 {
			return model.ErrNotFound
		}
		k := itob(uint64(id))
		v := b.Get(k)
		if v == nil {
			return model.ErrNotFound
		}

		var err error
		record, err = fromRow(k, v)
		return err
	})
	if err != nil {
		return model.Record{}, err
	}

	return record, nil
}

// Update replaces an existing record.
func (s *Store) Update(ctx context.Context, id int64, record model.Record) error {
	v, err := json.Marshal(toRow(record))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil || id <= 0 {
			return model.ErrNotFound
		}
		k := itob(uint64(id))
		if b.Get(k) == nil {
			return model.ErrNotFound
		}
		return b.Put(k, v)
	})
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil || id <= 0 {
			return model.ErrNotFound
		}
		k := itob(uint64(id))
		if b.Get(k) == nil {
			return model.ErrNotFound
		}
		return b.Delete(k)
	})
}

func toRow(r model.Record) recordRow {
	return recordRow{
		Service:  r.Service,
		Email:    r.Email,
		Username: r.Username,
		Password: r.Password,
		Notes:    r.Notes,
	}
}

func fromRow(k, v []byte) (model.Record, error) {
	var row recordRow
	if err := json.Unmarshal(v, &row); err != nil {
		return model.Record{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return model.Record{
		ID:       int64(binary.BigEndian.Uint64(k)),
		Service:  row.Service,
		Email:    row.Email,
		Username: row.Username,
		Password: row.Password,
		Notes:    row.Notes,
	}, nil
}

// itob encodes ids big-endian so bbolt iterates them in numeric order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
