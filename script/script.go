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

// Package script compiles user-written Go expressions into cell formatters
// at runtime, backed by the yaegi interpreter. A formatter expression sees
// two variables: value, the cell's formatted text, and raw, the underlying
// typed value. It must evaluate to a string:
//
//	strings.ToUpper(value)
//	fmt.Sprintf("%.2f", raw.(float64))
//
// The fmt, strconv, strings, math and time packages are available inside
// expressions.
package script

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	fynewidget "github.com/magpierre/fyne-datagrid/widget"
)

// ErrNotAString is returned when an expression compiles but does not
// evaluate to a string.
var ErrNotAString = errors.New("formatter expression must evaluate to a string")

// formatterSource wraps the user expression into a complete program the
// interpreter can evaluate. The unused-import checks are relaxed inside the
// interpreter, so every supported package is imported up front.
const formatterSource = `package cell

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

func Format(value string, raw interface{}) string {
	return %s
}
`

// Formatter applies a compiled Go expression to cell values. Compile once
// with NewFormatter and reuse; the zero value is not usable.
//
// A Formatter is not safe for concurrent use. The grid invokes renderers
// from the UI event loop only, so this does not matter for on-screen
// formatting.
type Formatter struct {
	expr string
	fn   func(value string, raw interface{}) string
}

// NewFormatter compiles a formatting expression. Compilation errors from the
// interpreter are returned verbatim, wrapped, so callers can surface them to
// the user.
func NewFormatter(expr string) (*Formatter, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load interpreter stdlib: %w", err)
	}

	if _, err := i.Eval(fmt.Sprintf(formatterSource, expr)); err != nil {
		return nil, fmt.Errorf("failed to compile formatter expression: %w", err)
	}

	v, err := i.Eval("cell.Format")
	if err != nil {
		return nil, fmt.Errorf("failed to extract formatter function: %w", err)
	}
	fn, ok := v.Interface().(func(string, interface{}) string)
	if !ok {
		return nil, ErrNotAString
	}

	return &Formatter{expr: expr, fn: fn}, nil
}

// Expression returns the source expression the formatter was compiled from.
func (f *Formatter) Expression() string {
	return f.expr
}

// Format applies the expression to one cell value. If the interpreted code
// panics, for example on a failed type assertion against raw, the value is
// returned unformatted.
func (f *Formatter) Format(value string, raw interface{}) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = value
		}
	}()
	return f.fn(value, raw)
}

// CellRenderer adapts the formatter into a cell renderer, for use as a
// grid-local or application-wide rendering override. Null cells are shown
// empty without consulting the expression.
func (f *Formatter) CellRenderer() fynewidget.CellRenderer {
	return func(ctx fynewidget.CellContext) fyne.CanvasObject {
		text := ""
		if !ctx.Value.IsNull {
			text = f.Format(ctx.Value.Formatted, ctx.Value.Raw)
		}
		label := widget.NewLabel(text)
		label.Truncation = fyne.TextTruncateEllipsis
		return label
	}
}
