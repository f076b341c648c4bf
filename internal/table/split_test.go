package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalSplit(t *testing.T) {
	doc := []byte(`{
		"columns": ["name", "score", "active"],
		"index": [0, 1],
		"data": [["alice", 1.50, true], ["bob", null, false]]
	}`)

	tbl, err := UnmarshalSplit(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score", "active"}, tbl.Columns)
	require.Equal(t, 2, tbl.NumRows())

	// Numbers keep their original token text, null becomes the empty cell.
	assert.Equal(t, []string{"alice", "1.50", "true"}, tbl.Rows[0])
	assert.Equal(t, []string{"bob", "", "false"}, tbl.Rows[1])
}

func TestUnmarshalSplit_NestedValues(t *testing.T) {
	tbl, err := UnmarshalSplit([]byte(`{"columns": ["tags"], "data": [[[1, 2]]]}`))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", tbl.Rows[0][0])
}

func TestUnmarshalSplit_MissingColumns(t *testing.T) {
	_, err := UnmarshalSplit([]byte(`{"data": [[1, 2]]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestUnmarshalSplit_RaggedRow(t *testing.T) {
	_, err := UnmarshalSplit([]byte(`{"columns": ["a", "b"], "data": [[1]]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
}

func TestUnmarshalSplit_Malformed(t *testing.T) {
	_, err := UnmarshalSplit([]byte(`{"columns": ["a"`))
	assert.Error(t, err)
}

func TestMarshalSplit(t *testing.T) {
	tbl := &Table{
		Columns: []string{"name", "score"},
		Rows:    [][]string{{"alice", "1.50"}},
	}

	data, err := tbl.MarshalSplit()
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns": ["name", "score"], "data": [["alice", "1.50"]]}`, string(data))
}

func TestMarshalSplit_Empty(t *testing.T) {
	data, err := (&Table{}).MarshalSplit()
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns": [], "data": []}`, string(data))
}

func TestMarshalSplit_RoundTrip(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "x"}, {"", "y"}},
	}

	data, err := tbl.MarshalSplit()
	require.NoError(t, err)

	decoded, err := UnmarshalSplit(data)
	require.NoError(t, err)
	assert.Equal(t, tbl, decoded)
}
