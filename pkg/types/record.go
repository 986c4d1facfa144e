package types

import (
	"regexp"
	"strings"
)

// MinCodeLength and MaxCodeLength bound the number of digits in an HSN code
const (
	MinCodeLength = 2
	MaxCodeLength = 8
)

var codePattern = regexp.MustCompile(`^[0-9]{2,8}$`)

// CodeRecord is an HSN code and its description
type CodeRecord struct {
	Code        string `json:"hsn_code"`
	Description string `json:"description"`
}

// IsWellFormedCode reports whether code is exactly 2-8 ASCII decimal digits.
// It performs no trimming.
func IsWellFormedCode(code string) bool {
	return codePattern.MatchString(code)
}

// NormalizeCode trims surrounding whitespace from a raw code
func NormalizeCode(raw string) string {
	return strings.TrimSpace(raw)
}

// ParentCodes returns the even-length proper prefixes of code, shortest first.
// A 2-digit code has no parents.
func ParentCodes(code string) []string {
	var parents []string
	for i := MinCodeLength; i < len(code); i += 2 {
		parents = append(parents, code[:i])
	}
	return parents
}

// Validate checks the record invariants
func (r CodeRecord) Validate() error {
	if r.Code != strings.TrimSpace(r.Code) || r.Description != strings.TrimSpace(r.Description) {
		return ErrUntrimmedRecord
	}
	if !IsWellFormedCode(r.Code) {
		return ErrInvalidCode
	}
	if r.Description == "" {
		return ErrEmptyDescription
	}
	return nil
}
