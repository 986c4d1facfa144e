package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dshills/hsncheck/internal/config"
	"github.com/dshills/hsncheck/internal/dataset"
	"github.com/dshills/hsncheck/internal/importer"
	"github.com/dshills/hsncheck/internal/storage"
	"github.com/dshills/hsncheck/internal/validator"
	"github.com/dshills/hsncheck/pkg/types"
)

// setupOptions tweak a provisioning run
type setupOptions struct {
	forceClean bool
	replace    bool
}

// provision builds the configured store from the CSV sources and reports the
// number of records it now holds. A store that did not exist before a failed
// run is removed again so the next run does not mistake it for a real one.
func provision(ctx context.Context, cfg *config.Config, opts setupOptions) (int, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return 0, err
	}
	path := cfg.StorePath()

	_, statErr := os.Stat(path)
	existed := statErr == nil

	n, err := buildStore(ctx, cfg, backend, path, opts)
	if err != nil {
		if !existed {
			removeStore(backend, path)
		}
		return 0, err
	}
	return n, nil
}

func buildStore(ctx context.Context, cfg *config.Config, backend storage.Backend, path string, opts setupOptions) (int, error) {
	switch backend {
	case storage.BackendCSV:
		if _, err := os.Stat(path); err == nil && !opts.forceClean {
			records, err := dataset.LoadCSVFile(path)
			if err != nil {
				return 0, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return len(records), nil
		}
		stats, err := dataset.CleanFile(cfg.Data.RawCSV, path)
		if err != nil {
			return 0, fmt.Errorf("failed to clean %s: %w", cfg.Data.RawCSV, err)
		}
		return stats.Final, nil

	case storage.BackendJSON:
		records, err := loadCleaned(cfg, opts.forceClean)
		if err != nil {
			return 0, err
		}
		if err := dataset.WriteJSONFile(path, records); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return len(records), nil

	default:
		store, err := storage.OpenWritable(backend, path)
		if err != nil {
			return 0, err
		}
		defer store.Close()

		ic := cfg.ImportConfig()
		ic.ForceClean = opts.forceClean
		ic.Replace = opts.replace

		stats, err := importer.New(store).WithLogger(slog.Default()).Run(ctx, ic)
		if err != nil {
			return 0, err
		}
		return stats.RecordsLoaded, nil
	}
}

// removeStore deletes a half-built store along with sqlite's journal files
func removeStore(backend storage.Backend, path string) {
	paths := []string{path}
	if backend == storage.BackendSQLite {
		paths = append(paths, path+"-wal", path+"-shm", path+"-journal")
	}
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			slog.Warn("failed to remove incomplete store", "path", p, "error", err)
		}
	}
}

// loadCleaned returns the cleaned records, producing the cleaned CSV first
// when needed
func loadCleaned(cfg *config.Config, forceClean bool) ([]types.CodeRecord, error) {
	if _, err := os.Stat(cfg.Data.CleanedCSV); forceClean || err != nil {
		if _, err := dataset.CleanFile(cfg.Data.RawCSV, cfg.Data.CleanedCSV); err != nil {
			return nil, fmt.Errorf("failed to clean %s: %w", cfg.Data.RawCSV, err)
		}
	}
	return dataset.LoadCSVFile(cfg.Data.CleanedCSV)
}

// openEngine opens the configured store, provisioning it first when it does
// not exist yet
func openEngine(ctx context.Context, cfg *config.Config, notices io.Writer) (*validator.Engine, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}
	path := cfg.StorePath()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(notices, "Store not found. Running setup first...")
		n, err := provision(ctx, cfg, setupOptions{})
		if err != nil {
			return nil, fmt.Errorf("setup failed: %w", err)
		}
		fmt.Fprintf(notices, "Setup complete. %d records loaded.\n", n)
	}

	return validator.Open(ctx, backend, path, validator.WithLogger(slog.Default()))
}
