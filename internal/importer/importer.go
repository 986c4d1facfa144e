package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dshills/hsncheck/internal/dataset"
	"github.com/dshills/hsncheck/internal/storage"
	"github.com/dshills/hsncheck/pkg/types"
)

// Default file locations and batch size
const (
	DefaultRawPath     = "Tests/HSN codes.csv"
	DefaultCleanedPath = "Tests/HSN_codes_cleaned.csv"
	DefaultBatchSize   = 500
)

var (
	// ErrImportInProgress is returned when Run is called while another run is active
	ErrImportInProgress = errors.New("import already in progress")

	// ErrNoSource is returned when neither the cleaned nor the raw CSV exists
	ErrNoSource = errors.New("no source data")

	// ErrResetUnsupported is returned when Replace is set on a writer that cannot reset
	ErrResetUnsupported = errors.New("store does not support reset")
)

// Importer loads cleaned HSN records into a store
type Importer struct {
	writer storage.RecordWriter
	logger *slog.Logger
	lock   runLock
}

// Config controls a single import run
type Config struct {
	RawPath     string // Raw CSV export (default: DefaultRawPath)
	CleanedPath string // Cleaned CSV, produced from RawPath when missing (default: DefaultCleanedPath)
	BatchSize   int    // Records per transaction (default: DefaultBatchSize)
	ForceClean  bool   // Re-clean even when the cleaned file exists
	Replace     bool   // Discard existing records before loading
}

// Statistics describes a completed run
type Statistics struct {
	Cleaned        *dataset.CleanStats // nil when the existing cleaned file was reused
	RecordsLoaded  int
	RecordsSkipped int
	Batches        int
	Duration       time.Duration
}

// New creates an importer writing to writer
func New(writer storage.RecordWriter) *Importer {
	return &Importer{
		writer: writer,
		logger: slog.Default(),
	}
}

// WithLogger replaces the importer's logger
func (imp *Importer) WithLogger(logger *slog.Logger) *Importer {
	if logger != nil {
		imp.logger = logger
	}
	return imp
}

func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.RawPath == "" {
		out.RawPath = DefaultRawPath
	}
	if out.CleanedPath == "" {
		out.CleanedPath = DefaultCleanedPath
	}
	if out.BatchSize <= 0 {
		out.BatchSize = DefaultBatchSize
	}
	return out
}

// Run cleans the raw export if needed and loads the cleaned records
func (imp *Importer) Run(ctx context.Context, config *Config) (*Statistics, error) {
	if !imp.lock.TryAcquire() {
		return nil, ErrImportInProgress
	}
	defer imp.lock.Release()

	cfg := config.withDefaults()
	startTime := time.Now()
	stats := &Statistics{}

	cleanStats, err := imp.ensureCleaned(cfg)
	if err != nil {
		return nil, err
	}
	stats.Cleaned = cleanStats

	records, err := dataset.LoadCSVFile(cfg.CleanedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load cleaned data: %w", err)
	}

	if cfg.Replace {
		resetter, ok := imp.writer.(storage.Resetter)
		if !ok {
			return nil, ErrResetUnsupported
		}
		if err := resetter.Reset(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset store: %w", err)
		}
	}

	valid := make([]types.CodeRecord, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			imp.logger.Warn("skipping record", "code", rec.Code, "error", err)
			stats.RecordsSkipped++
			continue
		}
		valid = append(valid, rec)
	}

	if err := imp.loadBatches(ctx, valid, cfg.BatchSize, stats); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(startTime)
	imp.logger.Info("import complete",
		"loaded", stats.RecordsLoaded,
		"skipped", stats.RecordsSkipped,
		"batches", stats.Batches,
		"duration", stats.Duration)
	return stats, nil
}

// ensureCleaned produces the cleaned CSV when required
func (imp *Importer) ensureCleaned(cfg Config) (*dataset.CleanStats, error) {
	if !cfg.ForceClean {
		if _, err := os.Stat(cfg.CleanedPath); err == nil {
			imp.logger.Debug("using existing cleaned file", "path", cfg.CleanedPath)
			return nil, nil
		}
	}

	if _, err := os.Stat(cfg.RawPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: neither %s nor %s exists", ErrNoSource, cfg.CleanedPath, cfg.RawPath)
		}
		return nil, fmt.Errorf("failed to stat raw data: %w", err)
	}

	imp.logger.Info("cleaning raw data", "input", cfg.RawPath, "output", cfg.CleanedPath)
	cs, err := dataset.CleanFile(cfg.RawPath, cfg.CleanedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to clean raw data: %w", err)
	}

	imp.logger.Info("cleaning complete",
		"initial", cs.Initial,
		"other_removed", cs.OtherRemoved,
		"empty_removed", cs.EmptyRemoved,
		"duplicates_removed", cs.DuplicatesRemoved,
		"final", cs.Final,
		"reduction_pct", fmt.Sprintf("%.2f", cs.ReductionPercent()))
	return &cs, nil
}

// loadBatches upserts records in chunks of batchSize
func (imp *Importer) loadBatches(ctx context.Context, records []types.CodeRecord, batchSize int, stats *Statistics) error {
	for start := 0; start < len(records); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+batchSize, len(records))
		n, err := imp.writer.UpsertRecords(ctx, records[start:end])
		if err != nil {
			return fmt.Errorf("failed to write batch at record %d: %w", start, err)
		}

		stats.RecordsLoaded += n
		stats.Batches++
		imp.logger.Debug("batch committed", "batch", stats.Batches, "records", n)
	}
	return nil
}
