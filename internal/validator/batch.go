package validator

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/hsncheck/pkg/types"
)

// ValidateAll validates codes concurrently on at most workers goroutines
// (runtime.NumCPU() when workers <= 0). Results are in input order. The first
// store error cancels the remaining work and is returned.
func (e *Engine) ValidateAll(ctx context.Context, codes []string, workers int) ([]types.ValidationResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]types.ValidationResult, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, code := range codes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Validate(gctx, code)
			if err != nil {
				return fmt.Errorf("failed to validate %q: %w", code, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("batch validated", "codes", len(codes), "workers", workers)
	return results, nil
}
