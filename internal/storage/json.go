package storage

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/dshills/hsncheck/pkg/types"
)

// JSONStore serves codes from a document file: an array of objects with
// hsn_code and description fields
type JSONStore struct {
	*tableStore
	path string
}

var _ CodeStore = (*JSONStore)(nil)

// OpenJSONStore loads the document file at path
func OpenJSONStore(path string) (*JSONStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	records, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", types.ErrStoreUnavailable, path, err)
	}

	return &JSONStore{tableStore: newTableStore(records), path: path}, nil
}

// Path returns the file the store was loaded from
func (s *JSONStore) Path() string {
	return s.path
}

// DecodeDocument parses a document array into records
func DecodeDocument(data []byte) ([]types.CodeRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrMalformedDocument)
	}

	records := make([]types.CodeRecord, 0)
	var decodeErr error

	_, err := jsonparser.ArrayEach(trimmed, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if decodeErr != nil {
			return
		}
		if err != nil {
			decodeErr = err
			return
		}
		if dataType != jsonparser.Object {
			decodeErr = fmt.Errorf("%w: element at offset %d is not an object", ErrMalformedDocument, offset)
			return
		}

		code, err := documentField(value, "hsn_code")
		if err != nil {
			decodeErr = fmt.Errorf("element at offset %d: %w", offset, err)
			return
		}
		description, err := documentField(value, "description")
		if err != nil {
			decodeErr = fmt.Errorf("element at offset %d: %w", offset, err)
			return
		}

		records = append(records, types.CodeRecord{
			Code:        strings.TrimSpace(code),
			Description: strings.TrimSpace(description),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return records, nil
}

// documentField reads key from obj as a string. Numeric codes are kept verbatim.
func documentField(obj []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(obj, key)
	if err != nil {
		return "", fmt.Errorf("%w: field %q: %w", ErrMalformedDocument, key, err)
	}

	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", fmt.Errorf("%w: field %q: %w", ErrMalformedDocument, key, err)
		}
		return s, nil
	case jsonparser.Number:
		return string(value), nil
	default:
		return "", fmt.Errorf("%w: field %q must be a string or number", ErrMalformedDocument, key)
	}
}
