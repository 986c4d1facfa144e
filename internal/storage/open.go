package storage

import (
	"context"
	"fmt"
	"strings"
)

// Backend names a CodeStore implementation
type Backend string

// Supported backends
const (
	BackendSQLite Backend = "sqlite"
	BackendCSV    Backend = "csv"
	BackendJSON   Backend = "json"
	BackendBadger Backend = "badger"
)

// Default store locations per backend
const (
	DefaultSQLitePath = "hsn_codes.db"
	DefaultCSVPath    = "Tests/HSN_codes_cleaned.csv"
	DefaultJSONPath   = "hsn_codes.json"
	DefaultBadgerPath = "hsn_codes.badger"
)

// ParseBackend maps a backend name or alias to a Backend
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3", "database", "db":
		return BackendSQLite, nil
	case "csv":
		return BackendCSV, nil
	case "json":
		return BackendJSON, nil
	case "badger", "kv":
		return BackendBadger, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedBackend, name)
	}
}

// DefaultPath returns the default store location for backend
func DefaultPath(backend Backend) string {
	switch backend {
	case BackendCSV:
		return DefaultCSVPath
	case BackendJSON:
		return DefaultJSONPath
	case BackendBadger:
		return DefaultBadgerPath
	default:
		return DefaultSQLitePath
	}
}

// Writable reports whether the importer can populate backend
func (b Backend) Writable() bool {
	return b == BackendSQLite || b == BackendBadger
}

// Open opens an existing store for querying. A missing or unreadable store
// fails with types.ErrStoreUnavailable.
func Open(ctx context.Context, backend Backend, path string) (CodeStore, error) {
	if path == "" {
		path = DefaultPath(backend)
	}

	var (
		store CodeStore
		err   error
	)
	switch backend {
	case BackendSQLite:
		store, err = OpenSQLiteStore(ctx, path)
	case BackendCSV:
		store, err = OpenCSVStore(path)
	case BackendJSON:
		store, err = OpenJSONStore(path)
	case BackendBadger:
		store, err = OpenBadgerStore(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// OpenWritable opens or creates a store the importer can populate
func OpenWritable(backend Backend, path string) (WritableStore, error) {
	if path == "" {
		path = DefaultPath(backend)
	}

	var (
		store WritableStore
		err   error
	)
	switch backend {
	case BackendSQLite:
		store, err = NewSQLiteStore(path)
	case BackendBadger:
		store, err = NewBadgerStore(path, false)
	case BackendCSV, BackendJSON:
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, backend)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
