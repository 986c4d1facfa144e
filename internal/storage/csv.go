package storage

import (
	"fmt"
	"os"

	"github.com/dshills/hsncheck/internal/dataset"
	"github.com/dshills/hsncheck/pkg/types"
)

// CSVStore serves codes from a cleaned tabular file with HSNCode and
// Description columns
type CSVStore struct {
	*tableStore
	path string
}

var _ CodeStore = (*CSVStore)(nil)

// OpenCSVStore loads the tabular file at path
func OpenCSVStore(path string) (*CSVStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
	defer f.Close()

	rows, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", types.ErrStoreUnavailable, path, err)
	}

	records := make([]types.CodeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}

	return &CSVStore{tableStore: newTableStore(records), path: path}, nil
}

// Path returns the file the store was loaded from
func (s *CSVStore) Path() string {
	return s.path
}
