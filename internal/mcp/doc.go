// Package mcp implements the Model Context Protocol (MCP) server for hsncheck.
//
// The server exposes three tools to MCP clients:
//   - validate_hsn_code: Validate one HSN code with parent fallback
//   - search_hsn_codes: Case-insensitive substring search over descriptions
//   - extract_hsn_codes: Find and validate every candidate code in free text
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Basic Usage
//
//	hsncheck --backend sqlite serve
//
// # Tool: validate_hsn_code
//
//	Request:
//	{
//	  "name": "validate_hsn_code",
//	  "arguments": {"code": "01012900"}
//	}
//
//	Response:
//	{
//	  "valid": false,
//	  "code": "01012900",
//	  "reason": "Specific HSN code not found, but parent categories exist.",
//	  "parent_matches": [
//	    {"hsn_code": "01", "description": "Live animals"},
//	    {"hsn_code": "0101", "description": "Live horses, asses, mules and hinnies"}
//	  ]
//	}
//
// # Tool: search_hsn_codes
//
//	Request:
//	{
//	  "name": "search_hsn_codes",
//	  "arguments": {"description": "horses", "limit": 10}
//	}
//
//	Response:
//	{
//	  "query": "horses",
//	  "total": 2,
//	  "results": [{"hsn_code": "0101", "description": "..."}, ...]
//	}
//
// # Tool: extract_hsn_codes
//
//	Request:
//	{
//	  "name": "extract_hsn_codes",
//	  "arguments": {"text": "Invoice lists 0101 and 1006"}
//	}
//
//	Response:
//	{
//	  "count": 2,
//	  "results": [{"valid": true, "code": "0101", ...}, ...]
//	}
//
// # Error Handling
//
// Tool failures are returned as *MCPError:
//   - -32602: Invalid parameters
//   - -32603: Store failure
//   - -32001: Store reported a code it could not return
package mcp
