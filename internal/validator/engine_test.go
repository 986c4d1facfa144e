package validator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/hsncheck/internal/storage"
	"github.com/dshills/hsncheck/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var sampleRecords = []types.CodeRecord{
	{Code: "01", Description: "Live animals"},
	{Code: "0101", Description: "Live horses, asses, mules and hinnies"},
	{Code: "01012100", Description: "Pure-bred breeding horses"},
	{Code: "02", Description: "Meat and edible meat offal"},
	{Code: "1006", Description: "Rice"},
}

// fakeStore is an in-memory CodeStore that counts calls and can inject faults
type fakeStore struct {
	mu      sync.Mutex
	records []types.CodeRecord
	calls   int

	err          error           // returned by every query when set
	phantomCodes map[string]bool // Exists reports true but lookups return nothing
	closed       bool
}

func newFakeStore(records ...types.CodeRecord) *fakeStore {
	return &fakeStore{records: records}
}

func (f *fakeStore) record() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) LookupByPrefix(ctx context.Context, code string) ([]types.CodeRecord, error) {
	if err := f.record(); err != nil {
		return nil, err
	}
	if f.phantomCodes[code] {
		return nil, nil
	}
	var out []types.CodeRecord
	for _, rec := range f.records {
		if strings.HasPrefix(rec.Code, code) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchByDescription(ctx context.Context, substring string) ([]types.CodeRecord, error) {
	if err := f.record(); err != nil {
		return nil, err
	}
	var out []types.CodeRecord
	for _, rec := range f.records {
		if strings.Contains(strings.ToLower(rec.Description), strings.ToLower(substring)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) Exists(ctx context.Context, code string) (bool, error) {
	if err := f.record(); err != nil {
		return false, err
	}
	if f.phantomCodes[code] {
		return true, nil
	}
	_, ok := storage.FindExact(f.records, code)
	return ok, nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

// panicStore fails the test if the engine touches it
type panicStore struct{ t *testing.T }

func (p panicStore) LookupByPrefix(context.Context, string) ([]types.CodeRecord, error) {
	p.t.Fatal("LookupByPrefix called for malformed input")
	return nil, nil
}

func (p panicStore) SearchByDescription(context.Context, string) ([]types.CodeRecord, error) {
	p.t.Fatal("SearchByDescription called unexpectedly")
	return nil, nil
}

func (p panicStore) Exists(context.Context, string) (bool, error) {
	p.t.Fatal("Exists called for malformed input")
	return false, nil
}

func (p panicStore) Close() error { return nil }

func TestValidate_MalformedInputNeverQueriesStore(t *testing.T) {
	engine := New(panicStore{t: t})
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"single digit", "1", "1"},
		{"odd short", " 7 ", "7"},
		{"too long", "123456789", "123456789"},
		{"letters", "abc", "abc"},
		{"mixed", "01a1", "01a1"},
		{"inner space", "01 01", "01 01"},
		{"decimal", "12.34", "12.34"},
		{"sign", "-0101", "-0101"},
		{"arabic-indic digits", "١٢٣٤", "١٢٣٤"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Validate(ctx, tt.raw)
			require.NoError(t, err)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.want, res.Code)
			assert.Equal(t, types.ReasonInvalidFormat, res.Reason)
			assert.Empty(t, res.ParentMatches)
			assert.Nil(t, res.Detail)
			assert.NoError(t, res.Validate())
		})
	}
}

func TestValidate_ExactMatch(t *testing.T) {
	engine := New(newFakeStore(sampleRecords...))

	res, err := engine.Validate(context.Background(), "  0101\n")
	require.NoError(t, err)

	want := types.ValidationResult{
		Valid:  true,
		Code:   "0101",
		Detail: &types.CodeRecord{Code: "0101", Description: "Live horses, asses, mules and hinnies"},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ParentFallback(t *testing.T) {
	engine := New(newFakeStore(sampleRecords...))
	ctx := context.Background()

	tests := []struct {
		name    string
		code    string
		parents []string
	}{
		{"8 digits under 2 and 4", "01012900", []string{"01", "0101"}},
		{"6 digits under 2 and 4", "010129", []string{"01", "0101"}},
		{"4 digits under 2", "0102", []string{"01"}},
		{"odd length checks even prefixes", "0101299", []string{"01", "0101"}},
		{"only 4-digit parent", "10061010", []string{"1006"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Validate(ctx, tt.code)
			require.NoError(t, err)
			assert.False(t, res.Valid)
			assert.Equal(t, types.ReasonParentsFound, res.Reason)
			assert.Nil(t, res.Detail)

			var got []string
			for _, p := range res.ParentMatches {
				got = append(got, p.Code)
				assert.True(t, strings.HasPrefix(tt.code, p.Code))
				assert.Less(t, len(p.Code), len(tt.code))
				assert.Zero(t, len(p.Code)%2)
			}
			assert.Equal(t, tt.parents, got)
		})
	}
}

func TestValidate_NotFound(t *testing.T) {
	engine := New(newFakeStore(sampleRecords...))
	ctx := context.Background()

	for _, code := range []string{"99", "9999", "99999999", "03"} {
		res, err := engine.Validate(ctx, code)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, code, res.Code)
		assert.Equal(t, types.ReasonNotFound, res.Reason)
		assert.Nil(t, res.ParentMatches)
	}
}

func TestValidate_TwoDigitMissHasNoParents(t *testing.T) {
	store := newFakeStore(sampleRecords...)
	engine := New(store)

	res, err := engine.Validate(context.Background(), "05")
	require.NoError(t, err)
	assert.Equal(t, types.ReasonNotFound, res.Reason)
	assert.Equal(t, 1, store.Calls(), "only the exact Exists check should run")
}

func TestValidate_Idempotent(t *testing.T) {
	engine := New(newFakeStore(sampleRecords...))
	ctx := context.Background()

	for _, code := range []string{"01", "01019999", "x1", "77"} {
		first, err := engine.Validate(ctx, code)
		require.NoError(t, err)
		second, err := engine.Validate(ctx, code)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first, second))
	}
}

func TestValidate_StoreError(t *testing.T) {
	store := newFakeStore(sampleRecords...)
	store.err = types.ErrStoreUnavailable
	engine := New(store)

	_, err := engine.Validate(context.Background(), "0101")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStoreUnavailable))
}

func TestValidate_InternalConsistency(t *testing.T) {
	t.Run("exact code", func(t *testing.T) {
		store := newFakeStore(sampleRecords...)
		store.phantomCodes = map[string]bool{"0202": true}
		engine := New(store)

		_, err := engine.Validate(context.Background(), "0202")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrInternalConsistency)
	})

	t.Run("parent code", func(t *testing.T) {
		store := newFakeStore(sampleRecords...)
		store.phantomCodes = map[string]bool{"03": true}
		engine := New(store)

		_, err := engine.Validate(context.Background(), "030101")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrInternalConsistency)
	})
}

func TestSearchByDescription(t *testing.T) {
	engine := New(newFakeStore(sampleRecords...))
	ctx := context.Background()

	records, err := engine.SearchByDescription(ctx, "HORSES")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "0101", records[0].Code)
	assert.Equal(t, "01012100", records[1].Code)

	all, err := engine.SearchByDescription(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(sampleRecords))

	none, err := engine.SearchByDescription(ctx, "spacecraft")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchByDescription_StoreError(t *testing.T) {
	store := newFakeStore()
	store.err = types.ErrStoreUnavailable
	engine := New(store)

	_, err := engine.SearchByDescription(context.Background(), "rice")
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}

func TestFindCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "no digits here", nil},
		{"single digit ignored", "item 7 of 9", nil},
		{"two codes", "ship 0101 and 1006 today", []string{"0101", "1006"}},
		{"repeats kept", "12 then 12 again", []string{"12", "12"}},
		{"too long ignored", "order 1234567890", nil},
		{"glued to letters ignored", "abc123 x99y", nil},
		{"punctuation boundaries", "(0101),1006.", []string{"0101", "1006"}},
		{"underscore is a word char", "_0101_", nil},
		{"eight digits", "code:01012100", []string{"01012100"}},
		{"decimal splits", "12.50", []string{"12", "50"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindCandidates(tt.text))
		})
	}
}

func TestExtractCodes(t *testing.T) {
	engine := New(newFakeStore(sampleRecords...))

	results, err := engine.ExtractCodes(context.Background(), "Invoice lists 0101, 01019900 and 99 plus 0101 again")
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "0101", results[0].Code)
	assert.True(t, results[0].Valid)

	assert.Equal(t, "01019900", results[1].Code)
	assert.Equal(t, types.ReasonParentsFound, results[1].Reason)

	assert.Equal(t, "99", results[2].Code)
	assert.Equal(t, types.ReasonNotFound, results[2].Reason)

	assert.Empty(t, cmp.Diff(results[0], results[3]))
}

func TestExtractCodes_NoCandidates(t *testing.T) {
	engine := New(panicStore{t: t})

	results, err := engine.ExtractCodes(context.Background(), "nothing to see")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestExtractCodes_StoreError(t *testing.T) {
	store := newFakeStore(sampleRecords...)
	store.err = types.ErrStoreUnavailable
	engine := New(store)

	_, err := engine.ExtractCodes(context.Background(), "code 0101")
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}

func TestEngine_CloseReleasesStore(t *testing.T) {
	store := newFakeStore()
	engine := New(store)
	require.NoError(t, engine.Close())
	assert.True(t, store.closed)
}

func TestOpen_MissingStore(t *testing.T) {
	_, err := Open(context.Background(), storage.BackendSQLite, t.TempDir()+"/missing.db")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}

func TestValidate_OnlyChapterKnown(t *testing.T) {
	engine := New(newFakeStore(types.CodeRecord{Code: "01", Description: "Live animals"}))

	res, err := engine.Validate(context.Background(), "0101")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []types.CodeRecord{{Code: "01", Description: "Live animals"}}, res.ParentMatches)
}

func TestValidate_EmptyStore(t *testing.T) {
	engine := New(newFakeStore())

	res, err := engine.Validate(context.Background(), "01")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, types.ReasonNotFound, res.Reason)
	assert.Nil(t, res.ParentMatches)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "parent_matches")
}

func TestExtractCodes_StandaloneRunsOnly(t *testing.T) {
	engine := New(newFakeStore())

	results, err := engine.ExtractCodes(context.Background(), "item 12345678 and code 99")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "12345678", results[0].Code)
	assert.Equal(t, "99", results[1].Code)

	results, err = engine.ExtractCodes(context.Background(), "serial 1234567890 only")
	require.NoError(t, err)
	assert.Empty(t, results)
}
