package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gophkeeper-vault/internal/model"
)

var _ model.MasterStore = (*MasterRepository)(nil)

type MasterRepository struct {
	db querier
}

func NewMasterRepository(db *Connection) *MasterRepository {
	return &MasterRepository{
		db: db,
	}
}

func (r *MasterRepository) GetMaster(ctx context.Context) (model.WrappedMasterKey, error) {
	query := `SELECT salt, nonce, encrypted_master_key FROM master_table WHERE id = 1`

	var wrapped model.WrappedMasterKey
	err := r.db.QueryRow(ctx, query).Scan(&wrapped.Salt, &wrapped.Nonce, &wrapped.Ciphertext)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.WrappedMasterKey{}, model.ErrNotFound
		}
		return model.WrappedMasterKey{}, fmt.Errorf("failed to get master record: %w", err)
	}

	return wrapped, nil
}

// CreateMaster inserts the single master row. The records table exists
// from the migrations, so this insert is the only commit point.
func (r *MasterRepository) CreateMaster(ctx context.Context, wrapped model.WrappedMasterKey) error {
	query := `INSERT INTO master_table (id, salt, nonce, encrypted_master_key)
			  VALUES (1, $1, $2, $3)
			  ON CONFLICT (id) DO NOTHING`

	cmd, err := r.db.Exec(ctx, query, wrapped.Salt, wrapped.Nonce, wrapped.Ciphertext)
	if err != nil {
		return fmt.Errorf("failed to create master record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrMasterExists
	}

	return nil
}
