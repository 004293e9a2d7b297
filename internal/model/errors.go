package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrMasterExists is returned by CreateMaster when the vault already has a master record.
	ErrMasterExists = errors.New("master record already exists")
)
