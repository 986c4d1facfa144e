package storage

import (
	"context"
	"errors"

	"github.com/dshills/hsncheck/pkg/types"
)

var (
	// ErrStoreClosed is returned by operations on a closed store
	ErrStoreClosed = errors.New("store is closed")
	// ErrUnsupportedBackend is returned for an unknown backend name
	ErrUnsupportedBackend = errors.New("unsupported backend")
	// ErrReadOnly is returned when a writable store is requested from a file backend
	ErrReadOnly = errors.New("backend is read-only")
	// ErrMalformedDocument is returned when a document or table file has the wrong shape
	ErrMalformedDocument = errors.New("malformed document")
)

// CodeStore defines the read contract the validation engine depends on.
// Implementations must be safe for concurrent reads.
type CodeStore interface {
	// LookupByPrefix returns all records whose code equals code or starts with it.
	// Order is deterministic per implementation.
	LookupByPrefix(ctx context.Context, code string) ([]types.CodeRecord, error)

	// SearchByDescription returns records whose description contains substring,
	// ignoring case. An empty substring matches every record.
	SearchByDescription(ctx context.Context, substring string) ([]types.CodeRecord, error)

	// Exists reports whether a record with exactly this code exists
	Exists(ctx context.Context, code string) (bool, error)

	// Close releases held resources. It is safe to call more than once.
	Close() error
}

// RecordWriter persists records, replacing the description of existing codes
type RecordWriter interface {
	UpsertRecords(ctx context.Context, records []types.CodeRecord) (int, error)
}

// Resetter discards every stored record
type Resetter interface {
	Reset(ctx context.Context) error
}

// WritableStore is a store that can be populated by the importer
type WritableStore interface {
	CodeStore
	RecordWriter
	Resetter
}

// FindExact returns the record in records whose code equals code
func FindExact(records []types.CodeRecord, code string) (types.CodeRecord, bool) {
	for _, rec := range records {
		if rec.Code == code {
			return rec, true
		}
	}
	return types.CodeRecord{}, false
}
