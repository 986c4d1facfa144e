package types

// Reasons reported on invalid results
const (
	ReasonInvalidFormat = "Invalid HSN code format. HSN codes should be 2-8 digits."
	ReasonParentsFound  = "Specific HSN code not found, but parent categories exist."
	ReasonNotFound      = "HSN code not found in the database."
)

// ValidationResult is the outcome of validating a single code
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Code  string `json:"code"` // Normalized input

	// Set iff Valid is false
	Reason        string       `json:"reason,omitempty"`
	ParentMatches []CodeRecord `json:"parent_matches,omitempty"` // Shortest prefix first

	// Set iff Valid is true
	Detail *CodeRecord `json:"detail,omitempty"`
}

// NewValidResult builds a result for an exact match
func NewValidResult(code string, detail CodeRecord) ValidationResult {
	return ValidationResult{
		Valid:  true,
		Code:   code,
		Detail: &detail,
	}
}

// NewInvalidResult builds a result for a miss. parents may be empty.
func NewInvalidResult(code, reason string, parents []CodeRecord) ValidationResult {
	res := ValidationResult{
		Code:   code,
		Reason: reason,
	}
	if len(parents) > 0 {
		res.ParentMatches = parents
	}
	return res
}

// HasParents reports whether any ancestor category was found
func (vr *ValidationResult) HasParents() bool {
	return len(vr.ParentMatches) > 0
}

// Validate checks that exactly one of Detail or Reason is populated
func (vr *ValidationResult) Validate() error {
	if vr.Valid {
		if vr.Detail == nil {
			return ErrMissingDetail
		}
		if len(vr.ParentMatches) > 0 {
			return ErrUnexpectedParents
		}
		return nil
	}

	if vr.Reason == "" {
		return ErrMissingReason
	}
	if vr.Detail != nil {
		return ErrUnexpectedDetail
	}
	return nil
}
