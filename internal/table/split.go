package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// splitDocument is the JSON "split" orientation: column names, an optional
// index, and row data as arrays. The index is accepted and discarded since
// the CSV serialization does not carry it.
type splitDocument struct {
	Columns []string            `json:"columns"`
	Index   []json.RawMessage   `json:"index,omitempty"`
	Data    [][]json.RawMessage `json:"data"`
}

// UnmarshalSplit parses a JSON document in split orientation into a Table.
// Every row must have exactly one value per column.
func UnmarshalSplit(data []byte) (*Table, error) {
	var doc splitDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Columns == nil {
		return nil, fmt.Errorf("split-orient document has no %q field", "columns")
	}

	rows := make([][]string, 0, len(doc.Data))
	for i, record := range doc.Data {
		if len(record) != len(doc.Columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(record), len(doc.Columns))
		}

		row := make([]string, len(record))
		for j, raw := range record {
			cell, err := renderCell(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			row[j] = cell
		}
		rows = append(rows, row)
	}

	return &Table{Columns: doc.Columns, Rows: rows}, nil
}

// MarshalSplit serializes the table as a split-orientation JSON document.
// Cells are strings, so a decoded document does not round-trip JSON value
// types, only their text.
func (t *Table) MarshalSplit() ([]byte, error) {
	doc := struct {
		Columns []string   `json:"columns"`
		Data    [][]string `json:"data"`
	}{Columns: t.Columns, Data: t.Rows}

	if doc.Columns == nil {
		doc.Columns = []string{}
	}
	if doc.Data == nil {
		doc.Data = [][]string{}
	}

	return json.Marshal(doc)
}

// renderCell converts a raw JSON value to its cell text. Strings are
// unquoted, null becomes the empty cell, and every other value keeps its
// original token text so numbers round-trip without float formatting.
func renderCell(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	return string(raw), nil
}
