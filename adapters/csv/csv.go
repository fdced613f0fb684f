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

// Package csv provides a datagrid.DataSource over CSV data, with optional
// per-column type inference so numeric and boolean columns sort numerically
// instead of lexically.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/magpierre/fyne-datagrid/adapters/slice"
	"github.com/magpierre/fyne-datagrid/datagrid"
)

// Config controls CSV parsing.
type Config struct {
	// Delimiter is the field separator, comma by default.
	Delimiter rune

	// HasHeaders treats the first record as column names. Without it,
	// columns are named column_1, column_2, ...
	HasHeaders bool

	// TrimSpace strips leading and trailing whitespace from every field.
	TrimSpace bool

	// InferTypes detects int, float, bool, date and timestamp columns
	// from the data. A column gets a detected type only when every
	// non-empty field parses as that type; otherwise it stays a string
	// column. Disabled, every column is a string column.
	InferTypes bool
}

// DefaultConfig returns a Config for comma-separated data with a header row,
// trimming and type inference enabled.
func DefaultConfig() Config {
	return Config{
		Delimiter:  ',',
		HasHeaders: true,
		TrimSpace:  true,
		InferTypes: true,
	}
}

// NewFromFile reads a CSV file into a data source.
func NewFromFile(path string, config Config) (datagrid.DataSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()
	return NewFromReader(f, config)
}

// NewFromReader reads CSV data into a data source. All records are read into
// memory; the reader is consumed completely.
// Returns ErrEmptyData when the input holds no records beyond an optional
// header row.
func NewFromReader(r io.Reader, config Config) (datagrid.DataSource, error) {
	reader := csv.NewReader(r)
	if config.Delimiter != 0 {
		reader.Comma = config.Delimiter
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, datagrid.ErrEmptyData
	}

	var headers []string
	if config.HasHeaders {
		headers = records[0]
		records = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
	}
	if config.TrimSpace {
		for i, h := range headers {
			headers[i] = strings.TrimSpace(h)
		}
	}
	if len(records) == 0 {
		return nil, datagrid.ErrEmptyData
	}

	// Square the data: short records pad with empty fields, long records
	// are cut at the header width.
	width := len(headers)
	cells := make([][]string, len(records))
	for r, record := range records {
		row := make([]string, width)
		for c := 0; c < width; c++ {
			if c < len(record) {
				if config.TrimSpace {
					row[c] = strings.TrimSpace(record[c])
				} else {
					row[c] = record[c]
				}
			}
		}
		cells[r] = row
	}

	types := make([]datagrid.DataType, width)
	for c := range types {
		types[c] = datagrid.TypeString
		if config.InferTypes {
			types[c] = inferColumnType(cells, c)
		}
	}

	rows := make([][]interface{}, len(cells))
	for r, row := range cells {
		values := make([]interface{}, width)
		for c, text := range row {
			values[c] = parseField(text, types[c])
		}
		rows[r] = values
	}

	return slice.New(headers, types, rows)
}

var (
	dateLayout       = "2006-01-02"
	timestampLayouts = []string{"2006-01-02 15:04:05", time.RFC3339}
)

// inferColumnType picks the narrowest type every non-empty field of the
// column parses as, falling back to string.
func inferColumnType(cells [][]string, col int) datagrid.DataType {
	candidates := []datagrid.DataType{
		datagrid.TypeInt,
		datagrid.TypeFloat,
		datagrid.TypeBool,
		datagrid.TypeDate,
		datagrid.TypeTimestamp,
	}

	nonEmpty := 0
	for _, row := range cells {
		text := row[col]
		if text == "" {
			continue
		}
		nonEmpty++
		var next []datagrid.DataType
		for _, dt := range candidates {
			if parsesAs(text, dt) {
				next = append(next, dt)
			}
		}
		candidates = next
		if len(candidates) == 0 {
			break
		}
	}

	if nonEmpty == 0 || len(candidates) == 0 {
		return datagrid.TypeString
	}
	return candidates[0]
}

func parsesAs(text string, dt datagrid.DataType) bool {
	switch dt {
	case datagrid.TypeInt:
		_, err := strconv.ParseInt(text, 10, 64)
		return err == nil
	case datagrid.TypeFloat:
		_, err := strconv.ParseFloat(text, 64)
		return err == nil
	case datagrid.TypeBool:
		lower := strings.ToLower(text)
		return lower == "true" || lower == "false"
	case datagrid.TypeDate:
		_, err := time.Parse(dateLayout, text)
		return err == nil
	case datagrid.TypeTimestamp:
		for _, layout := range timestampLayouts {
			if _, err := time.Parse(layout, text); err == nil {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// parseField converts a raw field to the column's type. Empty fields become
// nulls for every non-string column; fields that fail to parse keep their
// text so no data is silently lost.
func parseField(text string, dt datagrid.DataType) interface{} {
	if text == "" && dt != datagrid.TypeString {
		return nil
	}

	switch dt {
	case datagrid.TypeInt:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
	case datagrid.TypeFloat:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	case datagrid.TypeBool:
		switch strings.ToLower(text) {
		case "true":
			return true
		case "false":
			return false
		}
	case datagrid.TypeDate:
		if ts, err := time.Parse(dateLayout, text); err == nil {
			return ts
		}
	case datagrid.TypeTimestamp:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, text); err == nil {
				return ts
			}
		}
	}
	return text
}
