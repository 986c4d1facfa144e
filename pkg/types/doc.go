// Package types provides shared type definitions for hsncheck.
//
// This package defines the canonical record and result shapes used across the
// store backends, the validation engine, the CLI, and the MCP server. Backend
// specific field names (hsn_code, HSNCode, ...) never leave the storage layer.
//
// # Core Types
//
// CodeRecord is a single HSN code with its description:
//
//	rec := types.CodeRecord{
//	    Code:        "0101",
//	    Description: "Live horses, asses, mules and hinnies",
//	}
//
// HSN codes form a prefix hierarchy: a 2-digit chapter, a 4-digit heading, a
// 6-digit subheading and an 8-digit tariff item. ParentCodes lists the ancestors
// of a code in that hierarchy:
//
//	types.ParentCodes("01012100") // ["01", "0101", "010121"]
//
// # Validation Results
//
// ValidationResult carries either Detail (valid) or Reason plus optional
// ParentMatches (invalid):
//
//	if res.Valid {
//	    fmt.Println(res.Detail.Description)
//	} else {
//	    fmt.Println(res.Reason)
//	    for _, p := range res.ParentMatches {
//	        fmt.Printf("  %s: %s\n", p.Code, p.Description)
//	    }
//	}
//
// # Validation
//
// CodeRecord and ValidationResult implement Validate methods to check their
// invariants:
//
//	if err := rec.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
