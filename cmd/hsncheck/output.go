package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/hsncheck/pkg/types"
)

func printValidation(w io.Writer, res types.ValidationResult) {
	fmt.Fprintf(w, "Code: %s\n", res.Code)
	fmt.Fprintf(w, "Valid: %t\n", res.Valid)

	if res.Valid {
		fmt.Fprintf(w, "Description: %s\n", res.Detail.Description)
		return
	}

	fmt.Fprintf(w, "Reason: %s\n", res.Reason)
	if res.HasParents() {
		fmt.Fprintf(w, "\nParent Categories:\n")
		for _, parent := range res.ParentMatches {
			fmt.Fprintf(w, "  %s: %s\n", parent.Code, parent.Description)
		}
	}
}

func printSearch(w io.Writer, records []types.CodeRecord) {
	fmt.Fprintf(w, "Found %d matching records:\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, rec.Code, rec.Description)
	}
}

func printExtraction(w io.Writer, results []types.ValidationResult) {
	fmt.Fprintf(w, "Extracted %d potential HSN codes:\n", len(results))
	for i, res := range results {
		fmt.Fprintf(w, "%d. %s - Valid: %t\n", i+1, res.Code, res.Valid)
		if res.Valid {
			fmt.Fprintf(w, "   Description: %s\n", res.Detail.Description)
		} else {
			fmt.Fprintf(w, "   Reason: %s\n", res.Reason)
		}
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
