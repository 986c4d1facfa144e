// Package storage provides the CodeStore contract and its backends.
//
// The validation engine depends only on CodeStore. Four implementations are
// available, selected at construction time:
//   - sqlite: relational table hsn_codes(code UNIQUE, description)
//   - csv: tabular file with HSNCode and Description columns
//   - json: document file, an array of {hsn_code, description} objects
//   - badger: key-value store keyed hsn:<code>
//
// All implementations normalize rows into types.CodeRecord at the boundary and
// are safe for concurrent reads.
//
// # Basic Usage
//
//	store, err := storage.Open(ctx, storage.BackendSQLite, "hsn_codes.db")
//	if err != nil {
//	    log.Fatal(err) // wraps types.ErrStoreUnavailable
//	}
//	defer store.Close()
//
//	records, err := store.LookupByPrefix(ctx, "0101")
//
// # Populating a Store
//
// The sqlite and badger backends are writable:
//
//	store, err := storage.OpenWritable(storage.BackendSQLite, "hsn_codes.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	n, err := store.UpsertRecords(ctx, records)
//
// The csv and json backends load their whole file at open time and are
// read-only.
//
// # Database Schema
//
// Tables:
//   - schema_version: applied migrations, compared with semver
//   - hsn_codes: one row per code, unique on code, indexed by code
//
// # Build Tags
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
package storage
