package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dshills/hsncheck/pkg/types"
)

// likeEscaper makes user input literal inside a LIKE pattern using ESCAPE '\'
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SQLiteStore implements WritableStore using SQLite
type SQLiteStore struct {
	db *sql.DB

	closeOnce sync.Once
	closeErr  error
}

var _ WritableStore = (*SQLiteStore)(nil)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens or creates a database at dbPath and applies migrations.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", types.ErrStoreUnavailable, err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to apply migrations: %w", types.ErrStoreUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenSQLiteStore opens an existing, already populated database without
// creating or migrating anything
func OpenSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrStoreUnavailable, dbPath)
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", types.ErrStoreUnavailable, err)
	}

	var tableName string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='hsn_codes'").Scan(&tableName)
	if err != nil {
		_ = db.Close()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s has no hsn_codes table", types.ErrStoreUnavailable, dbPath)
		}
		return nil, fmt.Errorf("%w: failed to read schema: %w", types.ErrStoreUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// LookupByPrefix returns records equal to or starting with code, ordered by code
func (s *SQLiteStore) LookupByPrefix(ctx context.Context, code string) ([]types.CodeRecord, error) {
	query := `
		SELECT code, description
		FROM hsn_codes
		WHERE code = ? OR code LIKE ? ESCAPE '\'
		ORDER BY code
	`
	return s.queryRecords(ctx, query, code, likeEscaper.Replace(code)+"%")
}

// SearchByDescription returns records whose description contains substring, ignoring case
func (s *SQLiteStore) SearchByDescription(ctx context.Context, substring string) ([]types.CodeRecord, error) {
	query := `
		SELECT code, description
		FROM hsn_codes
		WHERE LOWER(description) LIKE LOWER(?) ESCAPE '\'
		ORDER BY code
	`
	return s.queryRecords(ctx, query, "%"+likeEscaper.Replace(substring)+"%")
}

// Exists reports whether code is stored exactly
func (s *SQLiteStore) Exists(ctx context.Context, code string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hsn_codes WHERE code = ?", code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check code: %w", types.ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

// Count returns the number of stored records
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hsn_codes").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: failed to count codes: %w", types.ErrStoreUnavailable, err)
	}
	return count, nil
}

// UpsertRecords inserts records in a single transaction, replacing the
// description of codes that already exist
func (s *SQLiteStore) UpsertRecords(ctx context.Context, records []types.CodeRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hsn_codes (code, description)
		VALUES (?, ?)
		ON CONFLICT(code) DO UPDATE SET
			description = excluded.description
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Code, rec.Description); err != nil {
			return 0, fmt.Errorf("failed to upsert code %s: %w", rec.Code, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit records: %w", err)
	}
	return written, nil
}

// Reset drops and recreates the schema, discarding all records
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if err := ResetSchema(ctx, s.db); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]types.CodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query codes: %w", types.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := make([]types.CodeRecord, 0)
	for rows.Next() {
		var rec types.CodeRecord
		if err := rows.Scan(&rec.Code, &rec.Description); err != nil {
			return nil, fmt.Errorf("%w: failed to scan code: %w", types.ErrStoreUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read codes: %w", types.ErrStoreUnavailable, err)
	}
	return records, nil
}
