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

// Package datagrid provides the data model behind the Fyne data-grid widget:
// typed cell values, the data-source contract, view state (filtering, column
// visibility) and the multi-column sort model.
package datagrid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeDate represents date data (without time).
	TypeDate
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeBinary represents binary/blob data.
	TypeBinary
	// TypeDecimal represents decimal/numeric data (fixed precision).
	TypeDecimal
	// TypeStruct represents structured data (nested fields).
	TypeStruct
	// TypeList represents list/array data.
	TypeList
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeDate:
		return "Date"
	case TypeTimestamp:
		return "Timestamp"
	case TypeBinary:
		return "Binary"
	case TypeDecimal:
		return "Decimal"
	case TypeStruct:
		return "Struct"
	case TypeList:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// Value is a typed container for cell values.
// It holds the raw value, type information, and a pre-formatted string for display.
type Value struct {
	// Raw holds the underlying value.
	// The type depends on the DataType field.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null/nil.
	IsNull bool

	// Formatted is a pre-formatted string representation for display.
	// This improves UI performance by avoiding repeated formatting.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return Value{
			Raw:       nil,
			Type:      dataType,
			IsNull:    true,
			Formatted: "",
		}
	}

	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    false,
		Formatted: formatValue(raw, dataType),
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Raw:       nil,
		Type:      dataType,
		IsNull:    true,
		Formatted: "",
	}
}

// formatValue converts a raw value to a formatted string.
func formatValue(raw interface{}, dataType DataType) string {
	if raw == nil {
		return ""
	}

	switch dataType {
	case TypeDate:
		if t, ok := raw.(time.Time); ok {
			return t.Format("2006-01-02")
		}
	case TypeTimestamp:
		if t, ok := raw.(time.Time); ok {
			return t.Format("2006-01-02 15:04:05")
		}
	case TypeFloat:
		switch f := raw.(type) {
		case float32:
			return strconv.FormatFloat(float64(f), 'g', -1, 32)
		case float64:
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	case TypeBinary:
		if b, ok := raw.([]byte); ok {
			return fmt.Sprintf("%d bytes", len(b))
		}
	}

	return fmt.Sprintf("%v", raw)
}

// Compare orders v against other for sorting purposes. It returns a negative
// number when v sorts before other, zero when they are equal, and a positive
// number otherwise. Null values sort after non-null values; two nulls compare
// equal. Values whose raw types do not match the declared DataType fall back
// to comparing their formatted text.
func (v Value) Compare(other Value) int {
	if v.IsNull || other.IsNull {
		switch {
		case v.IsNull && other.IsNull:
			return 0
		case v.IsNull:
			return 1
		default:
			return -1
		}
	}

	switch v.Type {
	case TypeInt:
		a, aok := asInt64(v.Raw)
		b, bok := asInt64(other.Raw)
		if aok && bok {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
		// Unsigned values above MaxInt64 keep their magnitude and sort
		// after every in-range value.
		au, abig := asUint64(v.Raw)
		bu, bbig := asUint64(other.Raw)
		switch {
		case abig && bok:
			return 1
		case aok && bbig:
			return -1
		case abig && bbig:
			switch {
			case au < bu:
				return -1
			case au > bu:
				return 1
			default:
				return 0
			}
		}
	case TypeFloat:
		a, aok := asFloat64(v.Raw)
		b, bok := asFloat64(other.Raw)
		if aok && bok {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	case TypeBool:
		a, aok := v.Raw.(bool)
		b, bok := other.Raw.(bool)
		if aok && bok {
			switch {
			case a == b:
				return 0
			case !a:
				return -1
			default:
				return 1
			}
		}
	case TypeDate, TypeTimestamp:
		a, aok := v.Raw.(time.Time)
		b, bok := other.Raw.(time.Time)
		if aok && bok {
			return a.Compare(b)
		}
	case TypeDecimal:
		a, aerr := strconv.ParseFloat(v.Formatted, 64)
		b, berr := strconv.ParseFloat(other.Formatted, 64)
		if aerr == nil && berr == nil {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(v.Formatted, other.Formatted)
}

// asInt64 widens signed integer kinds to int64. Unsigned kinds convert only
// while the value fits; anything larger goes through asUint64 instead.
func asInt64(raw interface{}) (int64, bool) {
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

// asUint64 catches the unsigned values asInt64 refuses, those above MaxInt64.
func asUint64(raw interface{}) (uint64, bool) {
	switch n := raw.(type) {
	case uint:
		if uint64(n) > math.MaxInt64 {
			return uint64(n), true
		}
	case uint64:
		if n > math.MaxInt64 {
			return n, true
		}
	}
	return 0, false
}

// asFloat64 widens numeric kinds to float64.
func asFloat64(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		if i, ok := asInt64(raw); ok {
			return float64(i), true
		}
		if u, ok := asUint64(raw); ok {
			return float64(u), true
		}
		return 0, false
	}
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}
