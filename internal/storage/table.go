package storage

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/dshills/hsncheck/pkg/types"
)

// tableStore serves the CodeStore contract from records held in memory.
// It backs the file-based stores, which load the whole file at open time.
type tableStore struct {
	records []types.CodeRecord
	index   map[string]int // code -> position of first record with that code
	lowered []string       // lower-cased descriptions, parallel to records
	closed  atomic.Bool
}

func newTableStore(records []types.CodeRecord) *tableStore {
	t := &tableStore{
		records: records,
		index:   make(map[string]int, len(records)),
		lowered: make([]string, len(records)),
	}
	for i, rec := range records {
		if _, ok := t.index[rec.Code]; !ok {
			t.index[rec.Code] = i
		}
		t.lowered[i] = strings.ToLower(rec.Description)
	}
	return t
}

func (t *tableStore) check(ctx context.Context) error {
	if t.closed.Load() {
		return ErrStoreClosed
	}
	return ctx.Err()
}

// LookupByPrefix returns records starting with code in file order
func (t *tableStore) LookupByPrefix(ctx context.Context, code string) ([]types.CodeRecord, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	matches := make([]types.CodeRecord, 0)
	for _, rec := range t.records {
		if strings.HasPrefix(rec.Code, code) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// SearchByDescription returns records whose description contains substring, ignoring case
func (t *tableStore) SearchByDescription(ctx context.Context, substring string) ([]types.CodeRecord, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	needle := strings.ToLower(substring)
	matches := make([]types.CodeRecord, 0)
	for i, rec := range t.records {
		if strings.Contains(t.lowered[i], needle) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Exists reports whether code is present exactly
func (t *tableStore) Exists(ctx context.Context, code string) (bool, error) {
	if err := t.check(ctx); err != nil {
		return false, err
	}
	_, ok := t.index[code]
	return ok, nil
}

// Len returns the number of loaded records
func (t *tableStore) Len() int {
	return len(t.records)
}

// Close marks the store closed. File handles are released at open time.
func (t *tableStore) Close() error {
	t.closed.Store(true)
	return nil
}
