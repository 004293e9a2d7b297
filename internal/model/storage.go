package model

// Store is the storage collaborator of a vault.
type Store interface {
	MasterStore
	RecordStore
	Close() error
}
