// Package importer populates a writable code store from the HSN CSV export.
//
// A run has two phases:
//
//  1. Clean: when the cleaned CSV is missing (or ForceClean is set) the raw
//     export is cleaned with dataset.Clean and written next to it.
//  2. Load: the cleaned CSV is read and upserted into the store in batches,
//     one transaction per batch.
//
// Records that fail types.CodeRecord.Validate after cleaning are skipped and
// counted rather than failing the run.
//
// # Usage
//
//	store, err := storage.OpenWritable(storage.BackendSQLite, "hsn_codes.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	stats, err := importer.New(store).Run(ctx, &importer.Config{
//	    RawPath:     "Tests/HSN codes.csv",
//	    CleanedPath: "Tests/HSN_codes_cleaned.csv",
//	})
//
// Only one Run may be active per Importer; a concurrent call fails with
// ErrImportInProgress.
package importer
