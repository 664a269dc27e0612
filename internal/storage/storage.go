// Package storage provides the string-keyed, string-valued stores the
// meal planner persists its JSON blobs into.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/menufacil/internal/db"
)

// Store is a flat key-value store. A missing key is a valid state and is
// reported by Get returning ok == false.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Options selects and configures a Store implementation.
type Options struct {
	// Driver is one of memory, file, postgres or sqlite.
	Driver string
	// DSN is the Postgres connection string or the SQLite database path.
	DSN string
	// File is the JSON file used by the file driver.
	File string
}

// Open builds the Store described by opts. The returned close function
// releases any underlying connection and is never nil.
func Open(opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), noop, nil
	case DriverFile, "":
		fs, err := NewFileStore(opts.File)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	case DriverPostgres:
		conn, err := db.InitPostgres(opts.DSN)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresStore(conn), conn.Close, nil
	case DriverSQLite:
		conn, err := db.InitSQLite(opts.DSN)
		if err != nil {
			return nil, noop, err
		}
		return NewSQLiteStore(conn), conn.Close, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}
