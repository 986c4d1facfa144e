package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/hsncheck/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Store failure
	ErrorCodeInconsistentStore = -32001 // Store reported a code it could not return
)

// handleValidateCode handles the validate_hsn_code tool invocation
func (s *Server) handleValidateCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	code, ok := args["code"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "code parameter is required", map[string]interface{}{
			"param":  "code",
			"reason": "missing or not a string",
		})
	}

	res, err := s.engine.Validate(ctx, code)
	if err != nil {
		return nil, s.storeError("validation failed", err)
	}

	return mcp.NewToolResultText(formatJSON(res)), nil
}

// handleSearchCodes handles the search_hsn_codes tool invocation
func (s *Server) handleSearchCodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["description"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "description parameter is required", map[string]interface{}{
			"param":  "description",
			"reason": "missing or not a string",
		})
	}

	limit := getIntDefault(args, "limit", 0)
	if _, present := args["limit"]; present && (limit < 1 || limit > MaxSearchLimit) {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("limit must be between 1 and %d", MaxSearchLimit), map[string]interface{}{
			"param": "limit",
			"value": args["limit"],
		})
	}

	records, err := s.engine.SearchByDescription(ctx, query)
	if err != nil {
		return nil, s.storeError("search failed", err)
	}

	if records == nil {
		records = []types.CodeRecord{}
	}
	total := len(records)
	if limit > 0 && total > limit {
		records = records[:limit]
	}

	response := map[string]interface{}{
		"query":   query,
		"total":   total,
		"results": records,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExtractCodes handles the extract_hsn_codes tool invocation
func (s *Server) handleExtractCodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing or not a string",
		})
	}

	results, err := s.engine.ExtractCodes(ctx, text)
	if err != nil {
		return nil, s.storeError("extraction failed", err)
	}

	response := map[string]interface{}{
		"count":   len(results),
		"results": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// storeError maps an engine error to an MCP error
func (s *Server) storeError(message string, err error) error {
	s.logger.Error(message, "error", err)
	code := ErrorCodeInternalError
	if errors.Is(err, types.ErrInternalConsistency) {
		code = ErrorCodeInconsistentStore
	}
	return newMCPError(code, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
