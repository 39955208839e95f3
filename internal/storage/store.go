// Package storage persists hotel snapshots, either as the five flat text
// files of the historical format or in a SQLite database, and keeps
// timestamped backups of either.
package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"hotel/internal/hotel"
)

// ErrPersistence marks I/O failures while loading or saving.
var ErrPersistence = errors.New("persistence failure")

// Store reads and writes hotel snapshots.
type Store interface {
	// Exists reports whether anything was saved before.
	Exists() bool
	Load() (hotel.State, error)
	Save(hotel.State) error
	// Snapshot copies the persisted data into dir.
	Snapshot(dir string) error
	Close() error
}

const (
	DriverFlat   = "flat"
	DriverSQLite = "sqlite"
)

// Open returns the store selected by driver.
func Open(driver, dataDir, sqlitePath string, logger *zerolog.Logger) (Store, error) {
	switch driver {
	case DriverFlat, "":
		return NewFileStore(dataDir, logger), nil
	case DriverSQLite:
		return NewSQLiteStore(sqlitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
