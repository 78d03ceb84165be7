package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	result, err := ParseRecords("name,type\nAcme,ngo\nGlobex,private\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "type"}, result.Headers)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.Rows[0].Index)
	assert.Equal(t, "Acme", result.Rows[0].Cells["name"])
	assert.Equal(t, 3, result.Rows[1].Index)
	assert.Equal(t, "private", result.Rows[1].Cells["type"])
}

func TestParseRecordsQuotedFields(t *testing.T) {
	result, err := ParseRecords("name,description\n\"Acme, Inc\",\"Line one\nline two with \"\"quotes\"\"\"\n")
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Acme, Inc", result.Rows[0].Cells["name"])
	assert.Equal(t, "Line one\nline two with \"quotes\"", result.Rows[0].Cells["description"])
}

func TestParseRecordsRaggedRows(t *testing.T) {
	result, err := ParseRecords("a,b,c\n1,2\n4,5,6,7\n")
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	// Short rows pad with empty cells.
	assert.Equal(t, "", result.Rows[0].Cells["c"])
	// Extra trailing cells are dropped.
	assert.Equal(t, map[string]string{"a": "4", "b": "5", "c": "6"}, result.Rows[1].Cells)
}

func TestParseRecordsAllEmptyRowKeepsIndexes(t *testing.T) {
	result, err := ParseRecords("name,type\nAcme,ngo\n,\nGlobex,private\n")
	require.NoError(t, err)

	// The all-empty middle row consumes index 3 but is excluded, so the
	// last row keeps the index a user would see in a spreadsheet.
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.Rows[0].Index)
	assert.Equal(t, 4, result.Rows[1].Index)
}

func TestParseRecordsBlankLineKeepsPhysicalIndexes(t *testing.T) {
	result, err := ParseRecords("name,type\nAcme,ngo\n\nGlobex,private\n")
	require.NoError(t, err)

	// A bare blank line produces no record, but rows after it still report
	// the line a user would see in their editor.
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.Rows[0].Index)
	assert.Equal(t, 4, result.Rows[1].Index)
	assert.Equal(t, "Globex", result.Rows[1].Cells["name"])
}

func TestParseRecordsQuotedNewlineShiftsLaterIndexes(t *testing.T) {
	result, err := ParseRecords("name,description\nAcme,\"line one\nline two\"\nGlobex,plain\n")
	require.NoError(t, err)

	// The quoted field spans two physical lines, so the next row starts on
	// line 4.
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.Rows[0].Index)
	assert.Equal(t, 4, result.Rows[1].Index)
}

func TestParseRecordsTrimsHeadersAndCells(t *testing.T) {
	result, err := ParseRecords(" name , type \n  Acme  ,  ngo  \n")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "type"}, result.Headers)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Acme", result.Rows[0].Cells["name"])
	assert.Equal(t, "ngo", result.Rows[0].Cells["type"])
}

func TestParseRecordsEmptyInput(t *testing.T) {
	result, err := ParseRecords("")
	require.NoError(t, err)
	assert.Empty(t, result.Headers)
	assert.Empty(t, result.Rows)
}

func TestParseRecordsHeaderOnly(t *testing.T) {
	result, err := ParseRecords("name,type\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "type"}, result.Headers)
	assert.Empty(t, result.Rows)
}
