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

// Package widget provides the DataGrid Fyne widget: a data table with
// multi-column sorting, filtering, row selection and customizable rendering.
//
// Four visual slots can be customized per grid or application-wide: the data
// cells, the row-selection checkboxes, the empty-table fallback and the sort
// status indicator shown in column headers. Each slot resolves independently
// on every refresh: a grid-local renderer wins over the application default
// set with SetDefaultRenderers, which wins over the built-in rendering.
package widget

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// CellContext carries everything a cell renderer needs to draw one data
// cell.
type CellContext struct {
	// Row is the visible row index of the cell.
	Row int

	// SourceRow is the row's index in the underlying data source. It is
	// stable across filtering and sorting, so renderers can use it as a
	// reconciliation identity.
	SourceRow int

	// Column describes the column the cell belongs to.
	Column Column

	// Value is the cell's value.
	Value datagrid.Value
}

// Key returns a stable identity for the cell, combining the source row with
// the column key. It does not change when the view is filtered or re-sorted.
func (c CellContext) Key() string {
	return fmt.Sprintf("%d/%s", c.SourceRow, c.Column.Key)
}

// CheckboxContext carries the state a checkbox renderer needs for one
// row-selection checkbox, or for the header select-all checkbox.
type CheckboxContext struct {
	// Header is true for the select-all checkbox in the header row.
	Header bool

	// Row is the source row index the checkbox belongs to, or -1 for the
	// header checkbox.
	Row int

	// Checked is the current selection state.
	Checked bool

	// OnChanged must be invoked with the new state when the user toggles
	// the checkbox.
	OnChanged func(bool)
}

// SortStatus describes a sortable column's place in the current sort for its
// header indicator.
type SortStatus struct {
	// Direction is the column's sort direction, or SortNone when the
	// column is not sorted.
	Direction datagrid.SortDirection

	// Priority is the column's 1-based position in the sort column list,
	// or 0 when the column is not sorted.
	Priority int

	// ActiveColumns is the total number of sorted columns. The built-in
	// indicator uses it to show priority numbers only during multi-column
	// sorts.
	ActiveColumns int
}

// CellRenderer produces the canvas object for one data cell.
type CellRenderer func(CellContext) fyne.CanvasObject

// CheckboxRenderer produces the canvas object for one row-selection
// checkbox.
type CheckboxRenderer func(CheckboxContext) fyne.CanvasObject

// FallbackRenderer produces the canvas object shown in place of the table
// body when no rows are visible.
type FallbackRenderer func() fyne.CanvasObject

// SortStatusRenderer produces the sort indicator for one sortable column
// header.
type SortStatusRenderer func(SortStatus) fyne.CanvasObject

// Renderers holds one optional implementation per customizable slot. A nil
// slot means "no override here"; the next source in the precedence chain is
// consulted instead.
type Renderers struct {
	// Cell renders data cells.
	Cell CellRenderer

	// Checkbox renders row-selection checkboxes.
	Checkbox CheckboxRenderer

	// NoRows renders the empty-table fallback.
	NoRows FallbackRenderer

	// SortStatus renders the header sort indicator.
	SortStatus SortStatusRenderer
}

// Merged resolves r against defaults slot by slot: every slot set on r stays
// as it is, every nil slot takes the default's implementation. Slots resolve
// independently; overriding one never affects another. Merged is pure: both
// inputs are left untouched.
func (r Renderers) Merged(defaults Renderers) Renderers {
	out := r
	if out.Cell == nil {
		out.Cell = defaults.Cell
	}
	if out.Checkbox == nil {
		out.Checkbox = defaults.Checkbox
	}
	if out.NoRows == nil {
		out.NoRows = defaults.NoRows
	}
	if out.SortStatus == nil {
		out.SortStatus = defaults.SortStatus
	}
	return out
}

var (
	defaultsMu       sync.RWMutex
	defaultRenderers Renderers
)

// SetDefaultRenderers installs application-wide default renderers and
// returns a restore function that reinstates the previous defaults. Grids
// consult the defaults on every refresh, so changes take effect on the next
// Refresh of each grid. Set/restore pairs nest:
//
//	restore := widget.SetDefaultRenderers(branded)
//	defer restore()
//
// Grid-local renderers (Config.Renderers) still win over these defaults, and
// the built-in rendering is used where neither provides a slot.
func SetDefaultRenderers(r Renderers) (restore func()) {
	defaultsMu.Lock()
	prev := defaultRenderers
	defaultRenderers = r
	defaultsMu.Unlock()

	return func() {
		defaultsMu.Lock()
		defaultRenderers = prev
		defaultsMu.Unlock()
	}
}

// DefaultRenderers returns the current application-wide default renderers.
func DefaultRenderers() Renderers {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultRenderers
}

// resolveRenderers computes the effective renderers for one rebuild pass:
// grid-local over application default, per slot. Built-in rendering is not
// part of the result; the grid falls back to it wherever the resolved slot
// is still nil (for NoRows the built-in fallback is to render nothing).
func (g *DataGrid) resolveRenderers() Renderers {
	return g.config.Renderers.Merged(DefaultRenderers())
}

// builtinCell is the default cell rendering: a truncated label showing the
// value's formatted text.
func builtinCell(ctx CellContext) fyne.CanvasObject {
	label := widget.NewLabel(ctx.Value.Formatted)
	label.Truncation = fyne.TextTruncateEllipsis
	return label
}

// builtinCheckbox is the default checkbox rendering. The check state is set
// before the callback is attached so building the widget never fires a
// selection change.
func builtinCheckbox(ctx CheckboxContext) fyne.CanvasObject {
	check := widget.NewCheck("", nil)
	check.Checked = ctx.Checked
	check.OnChanged = ctx.OnChanged
	return check
}

// builtinSortStatus is the default sort indicator: an arrow for the
// direction, with the 1-based priority added while two or more columns are
// sorted. Unsorted columns get an empty label so header heights stay
// uniform.
func builtinSortStatus(status SortStatus) fyne.CanvasObject {
	text := ""
	switch status.Direction {
	case datagrid.SortAscending:
		text = "↑"
	case datagrid.SortDescending:
		text = "↓"
	}
	if text != "" && status.ActiveColumns > 1 {
		text = fmt.Sprintf("%s%d", text, status.Priority)
	}
	label := widget.NewLabel(text)
	label.TextStyle = fyne.TextStyle{Bold: true}
	return label
}
