package statestore

import "errors"

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet
var ErrNoSnapshot = errors.New("no snapshot available")

// Store is a durable byte sink for game snapshots. Save replaces the
// previous snapshot; Load returns the most recent one.
type Store interface {
	Save(data []byte) error
	Load() ([]byte, error)
}
