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

package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// CompOp represents a comparison operator.
type CompOp int

const (
	OpEqual CompOp = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpContains
)

// String returns the operator's symbol as written in filter expressions.
func (op CompOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	case OpGreaterEqual:
		return ">="
	case OpLessEqual:
		return "<="
	case OpContains:
		return "~"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// Comparison filters rows by comparing one column against a literal value.
// Column names are matched case-insensitively. Numeric columns compare
// numerically; everything else falls back to case-insensitive string
// comparison on the formatted value. Null cells never match except under
// OpNotEqual.
type Comparison struct {
	// Column is the name of the column to compare.
	Column string

	// Op is the comparison operator.
	Op CompOp

	// Value is the literal to compare against, as written in the expression.
	Value string
}

// Evaluate implements the datagrid.Filter interface.
func (f *Comparison) Evaluate(row []datagrid.Value, columnNames []string) (bool, error) {
	idx := -1
	for i, name := range columnNames {
		if strings.EqualFold(name, f.Column) {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(row) {
		return false, fmt.Errorf("%w: unknown column %q", datagrid.ErrColumnNotFound, f.Column)
	}

	cell := row[idx]
	if cell.IsNull {
		return f.Op == OpNotEqual, nil
	}

	switch f.Op {
	case OpEqual:
		return strings.EqualFold(cell.Formatted, f.Value), nil

	case OpNotEqual:
		return !strings.EqualFold(cell.Formatted, f.Value), nil

	case OpContains:
		return strings.Contains(strings.ToLower(cell.Formatted), strings.ToLower(f.Value)), nil

	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		return f.compareOrdered(cell), nil

	default:
		return false, fmt.Errorf("%w: unknown operator %d", datagrid.ErrInvalidFilter, f.Op)
	}
}

// compareOrdered handles the ordering operators. Values that parse as
// numbers on both sides compare numerically, matching how the grid sorts
// numeric columns; otherwise the comparison is lexicographic and
// case-insensitive.
func (f *Comparison) compareOrdered(cell datagrid.Value) bool {
	var cmp int
	a, err1 := cellAsFloat(cell)
	b, err2 := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err1 == nil && err2 == nil {
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(strings.ToLower(cell.Formatted), strings.ToLower(f.Value))
	}

	switch f.Op {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// cellAsFloat extracts a numeric value from a cell, using the raw value for
// numeric types and falling back to parsing the formatted text.
func cellAsFloat(v datagrid.Value) (float64, error) {
	switch raw := v.Raw.(type) {
	case int:
		return float64(raw), nil
	case int8:
		return float64(raw), nil
	case int16:
		return float64(raw), nil
	case int32:
		return float64(raw), nil
	case int64:
		return float64(raw), nil
	case uint:
		return float64(raw), nil
	case uint8:
		return float64(raw), nil
	case uint16:
		return float64(raw), nil
	case uint32:
		return float64(raw), nil
	case uint64:
		return float64(raw), nil
	case float32:
		return float64(raw), nil
	case float64:
		return raw, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(v.Formatted), 64)
}

// Description implements the datagrid.Filter interface.
func (f *Comparison) Description() string {
	return fmt.Sprintf("%s %s %q", f.Column, f.Op, f.Value)
}
