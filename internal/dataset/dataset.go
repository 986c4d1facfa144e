package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/hsncheck/pkg/types"
)

// Column names of the tabular format
const (
	CodeColumn        = "HSNCode"
	DescriptionColumn = "Description"
)

var (
	// ErrMissingColumn is returned when a required header column is absent
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyFile is returned when the input has no header row
	ErrEmptyFile = errors.New("empty file")
)

// Row is one data row of a tabular file, exactly as read
type Row struct {
	Code        string
	Description string
}

// Record converts the row into a record with trimmed fields
func (r Row) Record() types.CodeRecord {
	return types.CodeRecord{
		Code:        strings.TrimSpace(r.Code),
		Description: strings.TrimSpace(r.Description),
	}
}

// CleanStats reports what Clean removed
type CleanStats struct {
	Initial           int
	OtherRemoved      int
	EmptyRemoved      int
	DuplicatesRemoved int
	Final             int
}

// Removed returns the total number of dropped rows
func (s CleanStats) Removed() int {
	return s.Initial - s.Final
}

// ReductionPercent returns the share of dropped rows in percent
func (s CleanStats) ReductionPercent() float64 {
	if s.Initial == 0 {
		return 0
	}
	return float64(s.Removed()) / float64(s.Initial) * 100
}

// normalizeHeader trims whitespace and a UTF-8 BOM from a header cell, so
// "\nHSNCode" reads as HSNCode
func normalizeHeader(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}

// ReadCSV reads a tabular file with HSNCode and Description columns. Other
// columns are ignored and short rows yield empty fields.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	codeIdx, descIdx := -1, -1
	for i, name := range header {
		switch normalizeHeader(name) {
		case CodeColumn:
			if codeIdx < 0 {
				codeIdx = i
			}
		case DescriptionColumn:
			if descIdx < 0 {
				descIdx = i
			}
		}
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, CodeColumn)
	}
	if descIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, DescriptionColumn)
	}

	rows := make([]Row, 0)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, Row{
			Code:        field(fields, codeIdx),
			Description: field(fields, descIdx),
		})
	}
	return rows, nil
}

func field(fields []string, idx int) string {
	if idx < len(fields) {
		return fields[idx]
	}
	return ""
}

// Clean drops rows whose description mentions "other" in any case, trims
// codes, collapses whitespace in descriptions, drops rows left
// empty and removes exact duplicates keeping the first occurrence.
func Clean(rows []Row) ([]types.CodeRecord, CleanStats) {
	stats := CleanStats{Initial: len(rows)}
	seen := make(map[types.CodeRecord]struct{}, len(rows))
	records := make([]types.CodeRecord, 0, len(rows))

	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Description), "other") {
			stats.OtherRemoved++
			continue
		}

		rec := types.CodeRecord{
			Code:        strings.TrimSpace(row.Code),
			Description: strings.Join(strings.Fields(row.Description), " "),
		}
		if rec.Code == "" || rec.Description == "" {
			stats.EmptyRemoved++
			continue
		}

		if _, dup := seen[rec]; dup {
			stats.DuplicatesRemoved++
			continue
		}
		seen[rec] = struct{}{}
		records = append(records, rec)
	}

	stats.Final = len(records)
	return records, stats
}

// WriteCSV writes records with an HSNCode,Description header
func WriteCSV(w io.Writer, records []types.CodeRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{CodeColumn, DescriptionColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write([]string{rec.Code, rec.Description}); err != nil {
			return fmt.Errorf("failed to write code %s: %w", rec.Code, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes records as a document array of {hsn_code, description}
func WriteJSON(w io.Writer, records []types.CodeRecord) error {
	if records == nil {
		records = []types.CodeRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// LoadCSVFile reads and trims the records of a tabular file without cleaning
func LoadCSVFile(path string) ([]types.CodeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	records := make([]types.CodeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records, nil
}

// CleanFile cleans the tabular file at input and writes the result to output
func CleanFile(input, output string) (CleanStats, error) {
	in, err := os.Open(input)
	if err != nil {
		return CleanStats{}, err
	}
	defer in.Close()

	rows, err := ReadCSV(in)
	if err != nil {
		return CleanStats{}, fmt.Errorf("failed to read %s: %w", input, err)
	}

	records, stats := Clean(rows)

	if err := writeFileAtomic(output, func(w io.Writer) error {
		return WriteCSV(w, records)
	}); err != nil {
		return stats, err
	}
	return stats, nil
}

// writeFileAtomic writes through a temporary file in the target directory and
// renames it into place
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// WriteJSONFile writes records as a document file at path
func WriteJSONFile(path string, records []types.CodeRecord) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteJSON(w, records)
	})
}
