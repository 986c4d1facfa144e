package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/dshills/hsncheck/pkg/types"
)

// codeKeyPrefix namespaces HSN records in the key space
const codeKeyPrefix = "hsn:"

// badgerManifest is the file every badger database directory carries
const badgerManifest = "MANIFEST"

// BadgerStore implements WritableStore on a BadgerDB key-value store.
// Each record is stored as hsn:<code> -> description, so prefix lookup is a
// key prefix scan and results come back in code order.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

var _ WritableStore = (*BadgerStore)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

// NewBadgerStore opens a BadgerDB database in dir, creating the directory if
// needed. With inMemory set, dir is ignored and nothing touches disk.
func NewBadgerStore(dir string, inMemory bool) (*BadgerStore, error) {
	if inMemory {
		return openBadger(badger.DefaultOptions("").WithInMemory(true))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
	return openBadger(badger.DefaultOptions(dir))
}

// OpenBadgerStore opens an existing BadgerDB database. A directory without a
// badger manifest is not a store and is left untouched.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrStoreUnavailable, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, badgerManifest)); err != nil {
		return nil, fmt.Errorf("%w: %s is not a badger store: %w", types.ErrStoreUnavailable, dir, err)
	}
	return openBadger(badger.DefaultOptions(dir))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	logger := slog.Default().With("component", "badger")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger: %w", types.ErrStoreUnavailable, err)
	}

	return &BadgerStore{db: db, logger: logger}, nil
}

// Close closes the BadgerDB database.
func (s *BadgerStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// IsClosed returns true if the database is closed.
func (s *BadgerStore) IsClosed() bool {
	return s.db.IsClosed()
}

func codeKey(code string) []byte {
	return []byte(codeKeyPrefix + code)
}

// LookupByPrefix scans keys starting with hsn:<code>
func (s *BadgerStore) LookupByPrefix(ctx context.Context, code string) ([]types.CodeRecord, error) {
	return s.scan(ctx, codeKey(code), func(types.CodeRecord) bool { return true })
}

// SearchByDescription scans every record and matches descriptions ignoring case
func (s *BadgerStore) SearchByDescription(ctx context.Context, substring string) ([]types.CodeRecord, error) {
	needle := strings.ToLower(substring)
	return s.scan(ctx, []byte(codeKeyPrefix), func(rec types.CodeRecord) bool {
		return strings.Contains(strings.ToLower(rec.Description), needle)
	})
}

// Exists reports whether hsn:<code> is set
func (s *BadgerStore) Exists(ctx context.Context, code string) (bool, error) {
	if err := s.check(ctx); err != nil {
		return false, err
	}

	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(codeKey(code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: failed to check code: %w", types.ErrStoreUnavailable, err)
	}
	return found, nil
}

// UpsertRecords writes records through a write batch
func (s *BadgerStore) UpsertRecords(ctx context.Context, records []types.CodeRecord) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := wb.Set(codeKey(rec.Code), []byte(rec.Description)); err != nil {
			return 0, fmt.Errorf("failed to write code %s: %w", rec.Code, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush records: %w", err)
	}
	s.logger.Debug("records written", "count", len(records))
	return len(records), nil
}

// Reset drops every record key
func (s *BadgerStore) Reset(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.db.DropPrefix(codeKey("")); err != nil {
		return fmt.Errorf("failed to drop records: %w", err)
	}
	return nil
}

func (s *BadgerStore) check(ctx context.Context) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	return ctx.Err()
}

// scan iterates keys under prefix and collects the records accepted by keep
func (s *BadgerStore) scan(ctx context.Context, prefix []byte, keep func(types.CodeRecord) bool) ([]types.CodeRecord, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	records := make([]types.CodeRecord, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := iter.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			rec := types.CodeRecord{
				Code:        strings.TrimPrefix(string(item.Key()), codeKeyPrefix),
				Description: string(value),
			}
			if keep(rec) {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan codes: %w", types.ErrStoreUnavailable, err)
	}
	return records, nil
}
