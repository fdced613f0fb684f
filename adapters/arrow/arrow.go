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

// Package arrow bridges Apache Arrow tables and the datagrid model, in both
// directions: NewFromTable materializes an Arrow table into a DataSource, and
// ToTable rebuilds an Arrow table from a model's current visible view for
// export.
package arrow

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// Source is a data source materialized from an Arrow table. The table's data
// is copied out during construction, so the table may be released afterwards.
// Immutable and safe for concurrent reads.
type Source struct {
	headers []string
	types   []datagrid.DataType
	rows    [][]datagrid.Value
}

// NewFromTable materializes an Arrow table into a data source. Values are
// extracted per Arrow type and converted to Go values; nested struct and
// list cells are kept as their JSON text.
func NewFromTable(table arrow.Table) (*Source, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil arrow table", datagrid.ErrNoDataSource)
	}

	schema := table.Schema()
	cols := schema.NumFields()
	s := &Source{
		headers: make([]string, cols),
		types:   make([]datagrid.DataType, cols),
		rows:    make([][]datagrid.Value, 0, table.NumRows()),
	}
	for i, field := range schema.Fields() {
		s.headers[i] = field.Name
		s.types[i] = dataTypeFor(field.Type)
	}

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
			row := make([]datagrid.Value, cols)
			for colIdx, col := range rec.Columns() {
				row[colIdx] = cellValue(col, rowIdx, s.types[colIdx])
			}
			s.rows = append(s.rows, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("reading arrow table: %w", err)
	}
	return s, nil
}

// dataTypeFor maps an Arrow type to the model's column type.
func dataTypeFor(dt arrow.DataType) datagrid.DataType {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return datagrid.TypeString
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return datagrid.TypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return datagrid.TypeFloat
	case arrow.BOOL:
		return datagrid.TypeBool
	case arrow.DATE32, arrow.DATE64:
		return datagrid.TypeDate
	case arrow.TIMESTAMP:
		return datagrid.TypeTimestamp
	case arrow.BINARY, arrow.LARGE_BINARY:
		return datagrid.TypeBinary
	case arrow.DECIMAL128:
		return datagrid.TypeDecimal
	case arrow.STRUCT:
		return datagrid.TypeStruct
	case arrow.LIST, arrow.LARGE_LIST:
		return datagrid.TypeList
	default:
		return datagrid.TypeString
	}
}

// cellValue extracts one cell from an Arrow array into a model value.
func cellValue(col arrow.Array, pos int, dt datagrid.DataType) datagrid.Value {
	if col.IsNull(pos) {
		return datagrid.NewNullValue(dt)
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		return datagrid.NewValue(col.(*array.String).Value(pos), dt)
	case arrow.LARGE_STRING:
		return datagrid.NewValue(col.(*array.LargeString).Value(pos), dt)
	case arrow.BOOL:
		return datagrid.NewValue(col.(*array.Boolean).Value(pos), dt)
	case arrow.INT8:
		return datagrid.NewValue(int64(col.(*array.Int8).Value(pos)), dt)
	case arrow.INT16:
		return datagrid.NewValue(int64(col.(*array.Int16).Value(pos)), dt)
	case arrow.INT32:
		return datagrid.NewValue(int64(col.(*array.Int32).Value(pos)), dt)
	case arrow.INT64:
		return datagrid.NewValue(col.(*array.Int64).Value(pos), dt)
	case arrow.UINT8:
		return datagrid.NewValue(int64(col.(*array.Uint8).Value(pos)), dt)
	case arrow.UINT16:
		return datagrid.NewValue(int64(col.(*array.Uint16).Value(pos)), dt)
	case arrow.UINT32:
		return datagrid.NewValue(int64(col.(*array.Uint32).Value(pos)), dt)
	case arrow.UINT64:
		// Kept unsigned: values above MaxInt64 would wrap negative in an
		// int64.
		return datagrid.NewValue(col.(*array.Uint64).Value(pos), dt)
	case arrow.FLOAT16:
		return datagrid.NewValue(float64(col.(*array.Float16).Value(pos).Float32()), dt)
	case arrow.FLOAT32:
		return datagrid.NewValue(float64(col.(*array.Float32).Value(pos)), dt)
	case arrow.FLOAT64:
		return datagrid.NewValue(col.(*array.Float64).Value(pos), dt)
	case arrow.DATE32:
		return datagrid.NewValue(col.(*array.Date32).Value(pos).ToTime(), dt)
	case arrow.DATE64:
		return datagrid.NewValue(col.(*array.Date64).Value(pos).ToTime(), dt)
	case arrow.TIMESTAMP:
		unit := arrow.Nanosecond
		if tsType, ok := col.DataType().(*arrow.TimestampType); ok {
			unit = tsType.Unit
		}
		return datagrid.NewValue(col.(*array.Timestamp).Value(pos).ToTime(unit), dt)
	case arrow.BINARY:
		data := col.(*array.Binary).Value(pos)
		return datagrid.NewValue(append([]byte(nil), data...), dt)
	case arrow.LARGE_BINARY:
		data := col.(*array.LargeBinary).Value(pos)
		return datagrid.NewValue(append([]byte(nil), data...), dt)
	case arrow.DECIMAL128:
		d128 := col.(*array.Decimal128)
		scale := int32(0)
		if decType, ok := col.DataType().(*arrow.Decimal128Type); ok {
			scale = decType.Scale
		}
		return datagrid.NewValue(d128.Value(pos).ToFloat64(scale), dt)
	case arrow.STRUCT, arrow.LIST, arrow.LARGE_LIST:
		return datagrid.NewValue(nestedJSON(col, pos), dt)
	default:
		return datagrid.NewValue(fmt.Sprintf("%v", col), dt)
	}
}

// nestedJSON renders one struct or list cell as JSON text by marshaling a
// one-element slice of the column.
func nestedJSON(col arrow.Array, pos int) string {
	sl := array.NewSlice(col, int64(pos), int64(pos+1))
	defer sl.Release()

	data, err := json.Marshal(sl)
	if err != nil {
		return fmt.Sprintf("%v", sl)
	}
	text := strings.TrimSpace(string(data))
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	return text
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
	return datagrid.Metadata{"source": "arrow", "rows": len(s.rows), "columns": len(s.headers)}
}

// ToTable rebuilds an Arrow table from the model's current visible view:
// visible columns only, rows in their filtered and sorted order. The caller
// owns the returned table and must Release it.
// Returns ErrEmptyData when the view holds no rows.
func ToTable(model *datagrid.TableModel) (arrow.Table, error) {
	if model == nil {
		return nil, datagrid.ErrNoDataSource
	}

	rowCount := model.VisibleRowCount()
	colCount := model.VisibleColumnCount()
	if rowCount == 0 || colCount == 0 {
		return nil, fmt.Errorf("%w: nothing visible to convert", datagrid.ErrEmptyData)
	}

	fields := make([]arrow.Field, colCount)
	for c := 0; c < colCount; c++ {
		name, err := model.VisibleColumnName(c)
		if err != nil {
			return nil, err
		}
		dt, err := model.VisibleColumnType(c)
		if err != nil {
			return nil, err
		}
		fields[c] = arrow.Field{Name: name, Type: arrowTypeFor(dt), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	pool := memory.NewGoAllocator()
	builders := make([]array.Builder, colCount)
	for c := range builders {
		builders[c] = array.NewBuilder(pool, fields[c].Type)
		defer builders[c].Release()
	}

	for r := 0; r < rowCount; r++ {
		row, err := model.VisibleRow(r)
		if err != nil {
			return nil, err
		}
		for c, value := range row {
			appendValue(builders[c], value)
		}
	}

	columns := make([]arrow.Column, colCount)
	for c, builder := range builders {
		arr := builder.NewArray()
		defer arr.Release()
		chunked := arrow.NewChunked(fields[c].Type, []arrow.Array{arr})
		columns[c] = *arrow.NewColumn(fields[c], chunked)
	}

	return array.NewTable(schema, columns, int64(rowCount)), nil
}

// arrowTypeFor maps a model column type to the Arrow type used for export.
// Decimals travel as float64; struct and list cells travel as their JSON
// text.
func arrowTypeFor(dt datagrid.DataType) arrow.DataType {
	switch dt {
	case datagrid.TypeInt:
		return arrow.PrimitiveTypes.Int64
	case datagrid.TypeFloat, datagrid.TypeDecimal:
		return arrow.PrimitiveTypes.Float64
	case datagrid.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case datagrid.TypeDate:
		return arrow.FixedWidthTypes.Date32
	case datagrid.TypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	case datagrid.TypeBinary:
		return arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}
}

// appendValue writes one model value into the column builder matching its
// arrow type. Values that cannot be represented append as null rather than
// aborting the export.
func appendValue(builder array.Builder, v datagrid.Value) {
	if v.IsNull {
		builder.AppendNull()
		return
	}

	switch b := builder.(type) {
	case *array.StringBuilder:
		if s, ok := v.Raw.(string); ok {
			b.Append(s)
		} else {
			b.Append(v.Formatted)
		}
	case *array.Int64Builder:
		if n, ok := toInt64(v.Raw); ok {
			b.Append(n)
		} else {
			b.AppendNull()
		}
	case *array.Float64Builder:
		if f, ok := toFloat64(v.Raw); ok {
			b.Append(f)
		} else {
			b.AppendNull()
		}
	case *array.BooleanBuilder:
		if bl, ok := v.Raw.(bool); ok {
			b.Append(bl)
		} else {
			b.AppendNull()
		}
	case *array.Date32Builder:
		if t, ok := v.Raw.(time.Time); ok {
			b.Append(arrow.Date32FromTime(t))
		} else {
			b.AppendNull()
		}
	case *array.TimestampBuilder:
		t, ok := v.Raw.(time.Time)
		if !ok {
			b.AppendNull()
			return
		}
		ts, err := arrow.TimestampFromTime(t, arrow.Microsecond)
		if err != nil {
			b.AppendNull()
			return
		}
		b.Append(ts)
	case *array.BinaryBuilder:
		if data, ok := v.Raw.([]byte); ok {
			b.Append(data)
		} else {
			b.AppendNull()
		}
	default:
		builder.AppendNull()
	}
}

func toInt64(raw interface{}) (int64, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		if i, ok := toInt64(raw); ok {
			return float64(i), true
		}
		return 0, false
	}
}
