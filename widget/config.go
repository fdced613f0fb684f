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

package widget

import (
	"fyne.io/fyne/v2"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// SelectionMode controls how clicks select data in the grid.
type SelectionMode int

const (
	// SelectionModeNone disables click selection.
	SelectionModeNone SelectionMode = iota
	// SelectionModeCell selects individual cells.
	SelectionModeCell
	// SelectionModeRow selects whole rows.
	SelectionModeRow
)

// String returns the string representation of a SelectionMode.
func (m SelectionMode) String() string {
	switch m {
	case SelectionModeNone:
		return "None"
	case SelectionModeCell:
		return "Cell"
	case SelectionModeRow:
		return "Row"
	default:
		return "Unknown"
	}
}

// Config holds the DataGrid configuration.
// Use DefaultConfig to get a config with sensible defaults, then adjust.
type Config struct {
	// Columns is the ordered set of display columns. When empty, the grid
	// derives one sortable column per visible model column.
	Columns []Column

	// Renderers holds the grid-local renderer overrides. Nil slots fall
	// back to the application defaults (SetDefaultRenderers) and then to
	// the built-in rendering.
	Renderers Renderers

	// SelectionMode controls click selection of cells or rows.
	SelectionMode SelectionMode

	// ShowSelectionColumn adds a leading checkbox column for
	// multi-row selection, with a select-all checkbox in the header.
	ShowSelectionColumn bool

	// ShowFilterBar shows an expression entry above the table that
	// filters rows (see the filter syntax in the package documentation).
	ShowFilterBar bool

	// ShowStatusBar shows row/column counts and the active sort below the
	// table.
	ShowStatusBar bool

	// ShowColumnSelector adds a toolbar button that opens a column
	// visibility dialog. Requires SetWindow to be called.
	ShowColumnSelector bool

	// AutoAdjustColumnWidths sizes columns to fit headers and cell
	// content. Columns with a fixed Width are left alone.
	AutoAdjustColumnWidths bool

	// MinColumnWidth is the smallest width any column may get.
	MinColumnWidth float32

	// MultiSortModifier is the modifier-key mask that turns a header
	// click into a multi-sort gesture. Any held modifier in the mask
	// counts, so the default accepts both Control and Command/Super.
	MultiSortModifier fyne.KeyModifier

	// OnSortChanged is invoked with the new sort column list, in priority
	// order, after every header-click sort change.
	OnSortChanged func([]datagrid.SortColumn)
}

// DefaultConfig returns a Config with sensible defaults: row selection,
// status bar, auto-sized columns and Control/Command multi-sort.
func DefaultConfig() Config {
	return Config{
		SelectionMode:          SelectionModeRow,
		ShowStatusBar:          true,
		AutoAdjustColumnWidths: true,
		MinColumnWidth:         80,
		MultiSortModifier:      fyne.KeyModifierControl | fyne.KeyModifierSuper,
	}
}
