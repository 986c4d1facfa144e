// Package validator implements the HSN validation engine.
//
// The engine sits on top of a storage.CodeStore and answers one question:
// is this code real, and if not, what is the closest known ancestor?
//
// # Basic Usage
//
//	engine, err := validator.Open(ctx, storage.BackendSQLite, "hsn_codes.db")
//	if err != nil {
//	    return err // wraps types.ErrStoreUnavailable
//	}
//	defer engine.Close()
//
//	res, err := engine.Validate(ctx, "01012100")
//
// # Validation Steps
//
//  1. Trim the input.
//  2. Reject anything that is not 2-8 ASCII digits without touching the store.
//  3. Exists + LookupByPrefix for an exact hit.
//  4. On a miss, check the even-length prefixes (2, 4, 6, ...) shorter than the
//     input and collect every one the store knows, shortest first.
//
// Format errors and misses are ordinary results. Only store failures and
// ErrInternalConsistency come back as errors.
//
// # Extraction
//
// ExtractCodes validates every standalone run of 2-8 digits in free text, in
// order of appearance and without de-duplication. Runs embedded in longer
// digit sequences are ignored.
//
// # Batches
//
// ValidateAll validates a list of codes on a bounded number of goroutines and
// returns results in input order.
package validator
