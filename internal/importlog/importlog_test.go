package importlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Command:   "report",
		File:      "ProfitAndLoss.csv",
		Kind:      "profit_and_loss",
		Rows:      8,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "ProfitAndLoss.csv", entries[0].File)
	assert.Equal(t, 8, entries[0].Rows)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Command = "export"
	e2.File = "BalanceSheet.csv"
	e2.Kind = "balance_sheet"
	e2.Rows = 0
	e2.Error = "processing Balance Sheet data: missing required column"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "report", entries[0].Command)
	assert.Equal(t, "export", entries[1].Command)
	assert.Equal(t, e2.Error, entries[1].Error)
}

func TestRead_NotFound(t *testing.T) {
	dir := t.TempDir()
	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	e.Kind = ""
	e.Error = `bad "quoted", value`
	row := MarshalEntry(e)
	assert.Len(t, row, 6)
	assert.Equal(t, "2025-01-15T10:30:00Z", row[colTimestamp])
	assert.Equal(t, "8", row[colRows])

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, e.File, got.File)
	assert.Empty(t, got.Kind)
	assert.Equal(t, e.Error, got.Error)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 6 fields")

	row := MarshalEntry(testEntry())
	row[colRows] = "many"
	_, err = UnmarshalEntry(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rows")

	row = MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing timestamp")
}

func TestAppend_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
