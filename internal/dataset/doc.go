// Package dataset reads, cleans and writes HSN code datasets.
//
// Raw exports carry noise the query path must not see: catch-all "other"
// rows, ragged whitespace, repeated rows and a header cell that sometimes
// arrives as "\nHSNCode". Clean turns raw rows into records the stores can
// load as-is:
//
//	rows, err := dataset.ReadCSV(f)
//	records, stats := dataset.Clean(rows)
//	err = dataset.WriteCSV(out, records)
//
// CleanFile wraps the three steps for file paths.
package dataset
