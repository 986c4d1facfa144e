package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Search limit bounds
const (
	MaxSearchLimit = 1000
)

// validateCodeTool returns the tool definition for validate_hsn_code
func validateCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "validate_hsn_code",
		Description: "Validate an HSN code (2-8 digits) and report its description or closest parent categories",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "HSN code to validate; pass as a string to keep leading zeros",
				},
			},
			Required: []string{"code"},
		},
	}
}

// searchCodesTool returns the tool definition for search_hsn_codes
func searchCodesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_hsn_codes",
		Description: "Search HSN codes whose description contains the given text (case-insensitive)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Text to look for in code descriptions; empty matches everything",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return; omit for all",
					"minimum":     1,
					"maximum":     MaxSearchLimit,
				},
			},
			Required: []string{"description"},
		},
	}
}

// extractCodesTool returns the tool definition for extract_hsn_codes
func extractCodesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_hsn_codes",
		Description: "Find standalone 2-8 digit numbers in text and validate each as an HSN code",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Free text such as an invoice or product listing",
				},
			},
			Required: []string{"text"},
		},
	}
}
