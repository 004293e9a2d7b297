package postgres

import (
	"github.com/dtroode/gophkeeper-vault/internal/model"
)

var _ model.Store = (*Store)(nil)

// Store combines the repositories over one connection.
type Store struct {
	*MasterRepository
	*RecordRepository
	conn *Connection
}

func NewStore(conn *Connection) *Store {
	return &Store{
		MasterRepository: NewMasterRepository(conn),
		RecordRepository: NewRecordRepository(conn),
		conn:             conn,
	}
}

func (s *Store) Close() error {
	return s.conn.Close()
}
