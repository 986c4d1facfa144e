package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidResult(t *testing.T) {
	res := NewValidResult("0101", CodeRecord{Code: "0101", Description: "Live horses"})

	assert.True(t, res.Valid)
	require.NotNil(t, res.Detail)
	assert.Equal(t, "0101", res.Detail.Code)
	assert.Empty(t, res.Reason)
	assert.False(t, res.HasParents())
	assert.NoError(t, res.Validate())
}

func TestNewInvalidResult(t *testing.T) {
	t.Run("without parents", func(t *testing.T) {
		res := NewInvalidResult("99", ReasonNotFound, nil)
		assert.False(t, res.Valid)
		assert.Nil(t, res.ParentMatches)
		assert.Nil(t, res.Detail)
		assert.NoError(t, res.Validate())
	})

	t.Run("empty parents slice is dropped", func(t *testing.T) {
		res := NewInvalidResult("99", ReasonNotFound, []CodeRecord{})
		assert.Nil(t, res.ParentMatches)
	})

	t.Run("with parents", func(t *testing.T) {
		parents := []CodeRecord{{Code: "01", Description: "Live animals"}}
		res := NewInvalidResult("0199", ReasonParentsFound, parents)
		assert.True(t, res.HasParents())
		assert.Equal(t, parents, res.ParentMatches)
		assert.NoError(t, res.Validate())
	})
}

func TestValidationResultValidate(t *testing.T) {
	detail := &CodeRecord{Code: "01", Description: "Live animals"}

	tests := []struct {
		name    string
		result  ValidationResult
		wantErr error
	}{
		{"valid without detail", ValidationResult{Valid: true, Code: "01"}, ErrMissingDetail},
		{"valid with parents", ValidationResult{Valid: true, Code: "01", Detail: detail, ParentMatches: []CodeRecord{*detail}}, ErrUnexpectedParents},
		{"invalid without reason", ValidationResult{Code: "01"}, ErrMissingReason},
		{"invalid with detail", ValidationResult{Code: "01", Reason: ReasonNotFound, Detail: detail}, ErrUnexpectedDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.result.Validate(), tt.wantErr)
		})
	}
}

func TestValidationResultJSONOmitsEmptyFields(t *testing.T) {
	res := NewInvalidResult("01", ReasonNotFound, nil)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "reason")
	assert.NotContains(t, fields, "parent_matches")
	assert.NotContains(t, fields, "detail")
}
