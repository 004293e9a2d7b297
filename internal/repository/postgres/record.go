package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gophkeeper-vault/internal/model"
)

var _ model.RecordStore = (*RecordRepository)(nil)

type RecordRepository struct {
	db querier
}

func NewRecordRepository(db *Connection) *RecordRepository {
	return &RecordRepository{
		db: db,
	}
}

func (r *RecordRepository) Put(ctx context.Context, record model.Record) (int64, error) {
	query := `INSERT INTO records (service, email, username, password, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		record.Service, record.Email, record.Username, record.Password, record.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create record: %w", err)
	}

	return id, nil
}

func (r *RecordRepository) GetAll(ctx context.Context) ([]model.Record, error) {
	query := `SELECT id, service, email, username, password, notes FROM records ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var record model.Record
		err := rows.Scan(
			&record.ID, &record.Service, &record.Email,
			&record.Username, &record.Password, &record.Notes,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id int64) (model.Record, error) {
	query := `SELECT id, service, email, username, password, notes FROM records WHERE id = $1`

	var record model.Record
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.Service, &record.Email,
		&record.Username, &record.Password, &record.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Record{}, model.ErrNotFound
		}
		return model.Record{}, fmt.Errorf("failed to get record by id: %w", err)
	}

	return record, nil
}

func (r *RecordRepository) Update(ctx context.Context, id int64, record model.Record) error {
	query := `UPDATE records
			  SET service = $2, email = $3, username = $4, password = $5, notes = $6, updated_at = NOW()
			  WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query,
		id, record.Service, record.Email, record.Username, record.Password, record.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM records WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
