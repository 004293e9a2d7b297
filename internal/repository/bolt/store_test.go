package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-vault/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "vault.db")
	s, err := Open(path, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_Master(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	_, err := s.GetMaster(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	wrapped := model.WrappedMasterKey{
		Salt:       make([]byte, 32),
		Nonce:      []byte("123456789012"),
		Ciphertext: []byte("ciphertext"),
	}
	require.NoError(t, s.CreateMaster(ctx, wrapped))

	got, err := s.GetMaster(ctx)
	require.NoError(t, err)
	assert.Equal(t, wrapped, got)

	err = s.CreateMaster(ctx, model.WrappedMasterKey{Salt: []byte("other")})
	assert.ErrorIs(t, err, model.ErrMasterExists)

	got, err = s.GetMaster(ctx)
	require.NoError(t, err)
	assert.Equal(t, wrapped, got)
}

func TestStore_CreateMasterCreatesRecordTable(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	require.NoError(t, s.CreateMaster(ctx, model.WrappedMasterKey{Salt: []byte("s")}))

	records, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_RecordCRUD(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	id1, err := s.Put(ctx, model.Record{Service: "mail", Email: "a@example.com", Username: "a", Password: "enc1", Notes: "n"})
	require.NoError(t, err)
	id2, err := s.Put(ctx, model.Record{Service: "bank", Password: "enc2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	got, err := s.GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, model.Record{ID: id1, Service: "mail", Email: "a@example.com", Username: "a", Password: "enc1", Notes: "n"}, got)

	require.NoError(t, s.Update(ctx, id1, model.Record{Service: "mail", Password: "enc3"}))
	got, err = s.GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "enc3", got.Password)
	assert.Empty(t, got.Email)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id1, all[0].ID)
	assert.Equal(t, id2, all[1].ID)

	require.NoError(t, s.Delete(ctx, id1))
	_, err = s.GetByID(ctx, id1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	tests := []struct {
		name string
		call func() error
	}{
		{name: "get missing bucket", call: func() error { _, err := s.GetByID(ctx, 1); return err }},
		{name: "update missing bucket", call: func() error { return s.Update(ctx, 1, model.Record{}) }},
		{name: "delete missing bucket", call: func() error { return s.Delete(ctx, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), model.ErrNotFound)
		})
	}

	_, err := s.Put(ctx, model.Record{Service: "x"})
	require.NoError(t, err)

	for _, id := range []int64{0, -1, 42} {
		_, err := s.GetByID(ctx, id)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, s.Update(ctx, id, model.Record{}), model.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, id), model.ErrNotFound)
	}

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)

	require.NoError(t, s.CreateMaster(ctx, model.WrappedMasterKey{Salt: []byte("salt")}))
	id, err := s.Put(ctx, model.Record{Service: "mail", Password: "enc"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path, time.Second)
	require.NoError(t, err)
	defer reopened.Close()

	master, err := reopened.GetMaster(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), master.Salt)

	got, err := reopened.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "enc", got.Password)
}

func TestStore_CloseTwice(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "vault.db"), time.Second)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
