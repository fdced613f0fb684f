// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package slice provides a datagrid.DataSource over in-memory Go slices and
// maps. It is the simplest way to feed a grid with program-generated data or
// decoded JSON.
package slice

import (
	"fmt"
	"sort"
	"time"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// Source is an immutable in-memory data source. Once constructed it is safe
// for concurrent reads.
type Source struct {
	headers []string
	types   []datagrid.DataType
	rows    [][]datagrid.Value
}

// New creates a data source from the headers, one type per column, and the
// row data. Every row must have exactly one value per column.
// Returns ErrEmptyData when there are no columns, and ErrInvalidRow when row
// lengths do not match the headers.
func New(headers []string, types []datagrid.DataType, rows [][]interface{}) (*Source, error) {
	if len(headers) == 0 {
		return nil, datagrid.ErrEmptyData
	}
	if len(types) != len(headers) {
		return nil, fmt.Errorf("%w: %d types for %d columns", datagrid.ErrInvalidColumn, len(types), len(headers))
	}

	s := &Source{
		headers: append([]string(nil), headers...),
		types:   append([]datagrid.DataType(nil), types...),
		rows:    make([][]datagrid.Value, len(rows)),
	}

	for r, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", datagrid.ErrInvalidRow, r, len(row), len(headers))
		}
		values := make([]datagrid.Value, len(row))
		for c, raw := range row {
			values[c] = datagrid.NewValue(raw, types[c])
		}
		s.rows[r] = values
	}
	return s, nil
}

// NewFromMaps creates a data source from a slice of records, such as decoded
// JSON objects. Columns are the union of all record keys in sorted order (map
// iteration order is not stable, so sorting keeps the column order
// deterministic); the type of each column is inferred from its first non-nil
// value. Keys missing from a record become null cells.
// Returns ErrEmptyData when records is empty or no record has any key.
func NewFromMaps(records []map[string]interface{}) (*Source, error) {
	if len(records) == 0 {
		return nil, datagrid.ErrEmptyData
	}

	seen := make(map[string]bool)
	var headers []string
	for _, record := range records {
		for key := range record {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	if len(headers) == 0 {
		return nil, datagrid.ErrEmptyData
	}
	sort.Strings(headers)

	types := make([]datagrid.DataType, len(headers))
	for i, key := range headers {
		types[i] = datagrid.TypeString
		for _, record := range records {
			if raw, ok := record[key]; ok && raw != nil {
				types[i] = inferType(raw)
				break
			}
		}
	}

	rows := make([][]interface{}, len(records))
	for r, record := range records {
		row := make([]interface{}, len(headers))
		for c, key := range headers {
			row[c] = record[key]
		}
		rows[r] = row
	}
	return New(headers, types, rows)
}

// inferType maps a Go value to the closest column type.
func inferType(raw interface{}) datagrid.DataType {
	switch raw.(type) {
	case bool:
		return datagrid.TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return datagrid.TypeInt
	case float32, float64:
		return datagrid.TypeFloat
	case time.Time:
		return datagrid.TypeTimestamp
	case []byte:
		return datagrid.TypeBinary
	case map[string]interface{}:
		return datagrid.TypeStruct
	case []interface{}:
		return datagrid.TypeList
	default:
		return datagrid.TypeString
	}
}

// RowCount implements datagrid.DataSource.
func (s *Source) RowCount() int {
	return len(s.rows)
}

// ColumnCount implements datagrid.DataSource.
func (s *Source) ColumnCount() int {
	return len(s.headers)
}

// ColumnName implements datagrid.DataSource.
func (s *Source) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.headers) {
		return "", datagrid.ErrInvalidColumn
	}
	return s.headers[col], nil
}

// ColumnType implements datagrid.DataSource.
func (s *Source) ColumnType(col int) (datagrid.DataType, error) {
	if col < 0 || col >= len(s.types) {
		return datagrid.TypeString, datagrid.ErrInvalidColumn
	}
	return s.types[col], nil
}

// Cell implements datagrid.DataSource.
func (s *Source) Cell(row, col int) (datagrid.Value, error) {
	if row < 0 || row >= len(s.rows) {
		return datagrid.Value{}, datagrid.ErrInvalidRow
	}
	if col < 0 || col >= len(s.headers) {
		return datagrid.Value{}, datagrid.ErrInvalidColumn
	}
	return s.rows[row][col], nil
}

// Row implements datagrid.DataSource.
func (s *Source) Row(row int) ([]datagrid.Value, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, datagrid.ErrInvalidRow
	}
	out := make([]datagrid.Value, len(s.rows[row]))
	copy(out, s.rows[row])
	return out, nil
}

// Metadata implements datagrid.DataSource.
func (s *Source) Metadata() datagrid.Metadata {
	return datagrid.Metadata{"source": "slice", "rows": len(s.rows), "columns": len(s.headers)}
}
