// Package store persists hunts and their reports in Postgres.
package store

import (
	"errors"

	"github.com/Yy2z/crypto-hunter/core/db"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store provides typed accessors over the database.
type Store struct {
	Hunts *HuntStore
}

func New(database *db.DB) *Store {
	return &Store{
		Hunts: &HuntStore{db: database},
	}
}
