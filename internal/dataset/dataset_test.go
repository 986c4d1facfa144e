package dataset

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/hsncheck/pkg/types"
)

const rawCSV = "\"\nHSNCode\",Description\n" +
	"01,Live animals\n" +
	"0101,\"  Live horses,   asses,  mules\"\n" +
	"0101,\"Live horses, asses, mules\"\n" +
	"010190, Other horses\n" +
	"02,MEAT AND EDIBLE MEAT OFFAL\n" +
	"0208,Mother of pearl\n" +
	" 03 ,Fish\n" +
	"04,\n"

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(rawCSV))
	require.NoError(t, err)
	require.Len(t, rows, 8)

	assert.Equal(t, Row{Code: "01", Description: "Live animals"}, rows[0])
	assert.Equal(t, " 03 ", rows[6].Code)
	assert.Equal(t, "", rows[7].Description)
}

func TestReadCSV_ColumnOrderAndExtras(t *testing.T) {
	input := "Rate,Description, HSNCode \n5%,Live animals,01\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{Code: "01", Description: "Live animals"}, rows[0])
}

func TestReadCSV_ShortRow(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("HSNCode,Description\n01\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Description)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadCSV(strings.NewReader("Code,Description\n01,x\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader("HSNCode,Desc\n01,x\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestClean(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(rawCSV))
	require.NoError(t, err)

	records, stats := Clean(rows)

	assert.Equal(t, []types.CodeRecord{
		{Code: "01", Description: "Live animals"},
		{Code: "0101", Description: "Live horses, asses, mules"},
		{Code: "02", Description: "MEAT AND EDIBLE MEAT OFFAL"},
		{Code: "03", Description: "Fish"},
	}, records)

	assert.Equal(t, CleanStats{
		Initial:           8,
		OtherRemoved:      2, // "Other horses" and "Mother of pearl"
		EmptyRemoved:      1,
		DuplicatesRemoved: 1,
		Final:             4,
	}, stats)
	assert.Equal(t, 4, stats.Removed())
	assert.InDelta(t, 50.0, stats.ReductionPercent(), 0.001)
}

func TestClean_KeepsSameCodeWithDifferentDescriptions(t *testing.T) {
	records, stats := Clean([]Row{
		{Code: "01", Description: "Live animals"},
		{Code: "01", Description: "Live animals, chapter 1"},
	})

	assert.Len(t, records, 2)
	assert.Zero(t, stats.DuplicatesRemoved)
}

func TestClean_TrimsCodesOnly(t *testing.T) {
	records, stats := Clean([]Row{
		{Code: "  0101\t", Description: "Live horses"},
		{Code: "01 02", Description: "Live bovine animals"},
	})

	assert.Equal(t, []types.CodeRecord{
		{Code: "0101", Description: "Live horses"},
		{Code: "01 02", Description: "Live bovine animals"},
	}, records)
	assert.Zero(t, stats.EmptyRemoved)
}

func TestClean_Empty(t *testing.T) {
	records, stats := Clean(nil)
	assert.Empty(t, records)
	assert.Zero(t, stats.ReductionPercent())
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	records := []types.CodeRecord{
		{Code: "01", Description: "Live animals"},
		{Code: "0101", Description: "Live horses, asses, mules"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), "HSNCode,Description\n"))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, records[1], rows[1].Record())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []types.CodeRecord{{Code: "01", Description: "Live animals"}}))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []map[string]string{{"hsn_code": "01", "description": "Live animals"}}, decoded)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestCleanFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "HSN codes.csv")
	output := filepath.Join(dir, "out", "HSN_codes_cleaned.csv")
	require.NoError(t, os.WriteFile(input, []byte(rawCSV), 0644))

	stats, err := CleanFile(input, output)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Final)

	records, err := LoadCSVFile(output)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "03", records[3].Code)
}

func TestCleanFile_MissingInput(t *testing.T) {
	_, err := CleanFile(filepath.Join(t.TempDir(), "missing.csv"), filepath.Join(t.TempDir(), "out.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hsn_codes.json")
	require.NoError(t, WriteJSONFile(path, []types.CodeRecord{{Code: "01", Description: "Live animals"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hsn_code": "01"`)
}
