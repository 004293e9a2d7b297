package vault

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/gophkeeper-vault/internal/model"
)

// MockStore mocks the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetMaster(ctx context.Context) (model.WrappedMasterKey, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.WrappedMasterKey), args.Error(1)
}

func (m *MockStore) CreateMaster(ctx context.Context, wrapped model.WrappedMasterKey) error {
	args := m.Called(ctx, wrapped)
	return args.Error(0)
}

func (m *MockStore) Put(ctx context.Context, record model.Record) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetAll(ctx context.Context) ([]model.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (model.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id int64, record model.Record) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
