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

// Package export writes the visible view of a table model to CSV, JSON or
// Parquet. Only visible rows and columns are exported, in their current sort
// order, so saved output matches what the grid shows on screen.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	arrowadapter "github.com/magpierre/fyne-datagrid/adapters/arrow"
	"github.com/magpierre/fyne-datagrid/datagrid"
)

// Format represents the supported export formats.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatParquet
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatJSON:
		return "JSON"
	case FormatParquet:
		return "Parquet"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// Extension returns the conventional file extension for the format,
// including the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatParquet:
		return ".parquet"
	default:
		return ""
	}
}

// ViewToCSV writes the visible view as CSV. The first record holds the
// visible column names; null cells are written as empty fields.
// Failures of the output writer wrap datagrid.ErrExportFailed.
func ViewToCSV(m *datagrid.TableModel, w io.Writer) error {
	if m == nil {
		return datagrid.ErrNoDataSource
	}

	writer := csv.NewWriter(w)

	cols := m.VisibleColumnCount()
	headers := make([]string, cols)
	for c := 0; c < cols; c++ {
		name, err := m.VisibleColumnName(c)
		if err != nil {
			return fmt.Errorf("failed to read column name: %w", err)
		}
		headers[c] = name
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("%w: writing CSV header: %v", datagrid.ErrExportFailed, err)
	}

	rows := m.VisibleRowCount()
	record := make([]string, cols)
	for r := 0; r < rows; r++ {
		values, err := m.VisibleRow(r)
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", r, err)
		}
		for c, v := range values {
			record[c] = v.Formatted
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: writing CSV row: %v", datagrid.ErrExportFailed, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flushing CSV output: %v", datagrid.ErrExportFailed, err)
	}
	return nil
}

// ViewToJSON writes the visible view as an indented JSON array of objects,
// one object per row keyed by the visible column names. Scalar values keep
// their native JSON types; dates and timestamps are written as formatted
// strings and nulls as JSON null.
// Failures of the output writer wrap datagrid.ErrExportFailed.
func ViewToJSON(m *datagrid.TableModel, w io.Writer) error {
	if m == nil {
		return datagrid.ErrNoDataSource
	}

	cols := m.VisibleColumnCount()
	names := make([]string, cols)
	for c := 0; c < cols; c++ {
		name, err := m.VisibleColumnName(c)
		if err != nil {
			return fmt.Errorf("failed to read column name: %w", err)
		}
		names[c] = name
	}

	rows := m.VisibleRowCount()
	records := make([]map[string]interface{}, 0, rows)
	for r := 0; r < rows; r++ {
		values, err := m.VisibleRow(r)
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", r, err)
		}
		record := make(map[string]interface{}, cols)
		for c, v := range values {
			record[names[c]] = jsonValue(v)
		}
		records = append(records, record)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("%w: encoding JSON: %v", datagrid.ErrExportFailed, err)
	}
	return nil
}

// jsonValue converts a cell value to its JSON representation.
func jsonValue(v datagrid.Value) interface{} {
	if v.IsNull {
		return nil
	}

	switch v.Type {
	case datagrid.TypeDate, datagrid.TypeTimestamp:
		return v.Formatted
	case datagrid.TypeBinary:
		if b, ok := v.Raw.([]byte); ok {
			return string(b)
		}
		return v.Formatted
	default:
		return v.Raw
	}
}

// ViewToParquet writes the visible view to a Parquet file with Snappy
// compression. The Arrow schema is stored alongside the data so other
// readers can recover the original types.
// File and writer failures wrap datagrid.ErrExportFailed.
func ViewToParquet(m *datagrid.TableModel, filePath string) error {
	table, err := arrowadapter.ToTable(m)
	if err != nil {
		return err
	}
	defer table.Release()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("%w: creating parquet file: %v", datagrid.ErrExportFailed, err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("%w: creating parquet writer: %v", datagrid.ErrExportFailed, err)
	}

	if err := writer.WriteTable(table, table.NumRows()); err != nil {
		writer.Close()
		return fmt.Errorf("%w: writing table to parquet: %v", datagrid.ErrExportFailed, err)
	}

	// Close writes the parquet footer; without it the file is unreadable.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: finalizing parquet file: %v", datagrid.ErrExportFailed, err)
	}
	return nil
}
