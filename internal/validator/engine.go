package validator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/dshills/hsncheck/internal/storage"
	"github.com/dshills/hsncheck/pkg/types"
)

// candidatePattern matches standalone runs of 2-8 digits
var candidatePattern = regexp.MustCompile(`\b[0-9]{2,8}\b`)

// Engine validates and searches HSN codes against a CodeStore
type Engine struct {
	store  storage.CodeStore
	logger *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine that takes ownership of store
func New(store storage.CodeStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open opens the store for backend at path and wraps it in an engine.
// Store failures wrap types.ErrStoreUnavailable.
func Open(ctx context.Context, backend storage.Backend, path string, opts ...Option) (*Engine, error) {
	store, err := storage.Open(ctx, backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	return New(store, opts...), nil
}

// Close releases the underlying store
func (e *Engine) Close() error {
	return e.store.Close()
}

// Validate checks a raw code against the store, falling back to its parent
// categories on a miss
func (e *Engine) Validate(ctx context.Context, raw string) (types.ValidationResult, error) {
	code := types.NormalizeCode(raw)

	if !types.IsWellFormedCode(code) {
		e.logger.Debug("rejected malformed code", "code", code)
		return types.NewInvalidResult(code, types.ReasonInvalidFormat, nil), nil
	}

	detail, found, err := e.fetchExact(ctx, code)
	if err != nil {
		return types.ValidationResult{Code: code}, err
	}
	if found {
		e.logger.Debug("code found", "code", code)
		return types.NewValidResult(code, detail), nil
	}

	var parents []types.CodeRecord
	for _, prefix := range types.ParentCodes(code) {
		parent, found, err := e.fetchExact(ctx, prefix)
		if err != nil {
			return types.ValidationResult{Code: code}, err
		}
		if found {
			parents = append(parents, parent)
		}
	}

	if len(parents) > 0 {
		e.logger.Debug("code not found, parents exist", "code", code, "parents", len(parents))
		return types.NewInvalidResult(code, types.ReasonParentsFound, parents), nil
	}

	e.logger.Debug("code not found", "code", code)
	return types.NewInvalidResult(code, types.ReasonNotFound, nil), nil
}

// fetchExact returns the record stored under exactly code
func (e *Engine) fetchExact(ctx context.Context, code string) (types.CodeRecord, bool, error) {
	ok, err := e.store.Exists(ctx, code)
	if err != nil {
		return types.CodeRecord{}, false, fmt.Errorf("failed to check code %s: %w", code, err)
	}
	if !ok {
		return types.CodeRecord{}, false, nil
	}

	records, err := e.store.LookupByPrefix(ctx, code)
	if err != nil {
		return types.CodeRecord{}, false, fmt.Errorf("failed to look up code %s: %w", code, err)
	}

	rec, ok := storage.FindExact(records, code)
	if !ok {
		e.logger.Error("store reported code but returned no record", "code", code, "matches", len(records))
		return types.CodeRecord{}, false, fmt.Errorf("%w: code %s exists but lookup returned no exact record", types.ErrInternalConsistency, code)
	}
	return rec, true, nil
}

// SearchByDescription returns the store's case-insensitive substring matches.
// Empty text matches every record.
func (e *Engine) SearchByDescription(ctx context.Context, text string) ([]types.CodeRecord, error) {
	records, err := e.store.SearchByDescription(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search descriptions: %w", err)
	}
	return records, nil
}

// FindCandidates returns the standalone 2-8 digit runs in text, left to right
func FindCandidates(text string) []string {
	return candidatePattern.FindAllString(text, -1)
}

// ExtractCodes validates every candidate code found in text, preserving order
// and repeats
func (e *Engine) ExtractCodes(ctx context.Context, text string) ([]types.ValidationResult, error) {
	candidates := FindCandidates(text)
	results := make([]types.ValidationResult, 0, len(candidates))

	for _, candidate := range candidates {
		res, err := e.Validate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
