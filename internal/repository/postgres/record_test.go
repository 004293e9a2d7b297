package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-vault/internal/model"
)

func TestNewRecordRepository(t *testing.T) {
	db := &Connection{}
	repo := NewRecordRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestRecordRepository_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("returns generated id", func(t *testing.T) {
		q := &fakeQuerier{row: []any{int64(42)}}
		repo := &RecordRepository{db: q}

		id, err := repo.Put(ctx, model.Record{Service: "mail", Email: "e", Username: "u", Password: "enc", Notes: "n"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.Equal(t, []any{"mail", "e", "u", "enc", "n"}, q.rowArgs)
		assert.Contains(t, q.rowSQL, "RETURNING id")
	})

	t.Run("propagates error", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		repo := &RecordRepository{db: &fakeQuerier{rowErr: dbErr}}

		_, err := repo.Put(ctx, model.Record{})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRecordRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		q       *fakeQuerier
		want    model.Record
		wantErr error
	}{
		{
			name: "successful retrieval",
			q:    &fakeQuerier{row: []any{int64(1), "mail", "a@example.com", "alice", "enc", "notes"}},
			want: model.Record{ID: 1, Service: "mail", Email: "a@example.com", Username: "alice", Password: "enc", Notes: "notes"},
		},
		{
			name:    "not found",
			q:       &fakeQuerier{rowErr: pgx.ErrNoRows},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "database error",
			q:       &fakeQuerier{rowErr: errors.New("boom")},
			wantErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RecordRepository{db: tt.q}

			got, err := repo.GetByID(ctx, 1)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordRepository_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("scans all rows", func(t *testing.T) {
		q := &fakeQuerier{rows: [][]any{
			{int64(1), "mail", "", "", "enc1", ""},
			{int64(2), "bank", "b@example.com", "bob", "enc2", "n"},
		}}
		repo := &RecordRepository{db: q}

		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Record{
			{ID: 1, Service: "mail", Password: "enc1"},
			{ID: 2, Service: "bank", Email: "b@example.com", Username: "bob", Password: "enc2", Notes: "n"},
		}, got)
	})

	t.Run("empty", func(t *testing.T) {
		repo := &RecordRepository{db: &fakeQuerier{}}

		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		dbErr := errors.New("boom")
		repo := &RecordRepository{db: &fakeQuerier{queryErr: dbErr}}

		_, err := repo.GetAll(ctx)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("rows error", func(t *testing.T) {
		dbErr := errors.New("stream broken")
		repo := &RecordRepository{db: &fakeQuerier{rowsErr: dbErr}}

		_, err := repo.GetAll(ctx)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRecordRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		tag     pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{name: "one row", tag: pgconn.NewCommandTag("UPDATE 1")},
		{name: "no rows", tag: pgconn.NewCommandTag("UPDATE 0"), wantErr: model.ErrNotFound},
		{name: "exec error", execErr: errors.New("boom"), wantErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{execTag: tt.tag, execErr: tt.execErr}
			repo := &RecordRepository{db: q}

			updateErr := repo.Update(ctx, 9, model.Record{Service: "s", Password: "enc"})
			deleteErr := repo.Delete(ctx, 9)

			for _, err := range []error{updateErr, deleteErr} {
				if tt.wantErr == nil {
					assert.NoError(t, err)
					continue
				}
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			}
			assert.Equal(t, []any{int64(9)}, q.execArgs)
		})
	}
}
