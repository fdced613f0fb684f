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
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/fyne-datagrid/datagrid"
	"github.com/magpierre/fyne-datagrid/internal/filter"
)

// widthSampleRows caps how many rows are measured when auto-sizing columns.
const widthSampleRows = 50

// DataGrid is a table widget over a datagrid.TableModel. It renders a header
// row with sort indicators, the data rows, and optional filter bar, status
// bar and row-selection checkboxes. Rendering of cells, checkboxes, the sort
// indicators and the empty-table fallback can be customized; see Renderers.
//
// The grid reads the model on every Refresh. After mutating the model
// directly (filtering, column visibility), call Refresh to bring the view up
// to date; the grid's own interactions refresh automatically.
type DataGrid struct {
	widget.BaseWidget

	model  *datagrid.TableModel
	config Config
	window fyne.Window

	onCellSelected func(row, col int)

	selectedRow int
	selectedCol int
	checkedRows map[int]struct{}

	// view state rebuilt on every refresh
	displayCols  []Column
	visibleIndex map[string]int
	colWidths    []float32

	filterEntry *widget.Entry
	headerRow   *fyne.Container
	bodyBox     *fyne.Container
	bodyScroll  *container.Scroll
	statusLabel *widget.Label
	content     *fyne.Container
}

// NewDataGrid creates a grid over the model with the default configuration.
func NewDataGrid(model *datagrid.TableModel) *DataGrid {
	return NewDataGridWithConfig(model, DefaultConfig())
}

// NewDataGridWithConfig creates a grid over the model with the given
// configuration.
func NewDataGridWithConfig(model *datagrid.TableModel, config Config) *DataGrid {
	g := &DataGrid{
		model:       model,
		config:      config,
		selectedRow: -1,
		selectedCol: -1,
		checkedRows: make(map[int]struct{}),
	}
	g.ExtendBaseWidget(g)

	g.headerRow = container.New(&rowLayout{grid: g})
	g.bodyBox = container.NewVBox()
	g.bodyScroll = container.NewVScroll(g.bodyBox)
	g.statusLabel = widget.NewLabel("")
	g.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	top := container.NewVBox()
	if bar := g.buildTopBar(); bar != nil {
		top.Add(bar)
	}
	top.Add(g.headerRow)
	top.Add(widget.NewSeparator())

	var bottom fyne.CanvasObject
	if g.config.ShowStatusBar {
		bottom = container.NewVBox(widget.NewSeparator(), g.statusLabel)
	}

	g.content = container.NewBorder(top, bottom, nil, nil, g.bodyScroll)
	g.rebuild()
	return g
}

// buildTopBar assembles the filter bar and toolbar buttons, or returns nil
// when neither is enabled.
func (g *DataGrid) buildTopBar() fyne.CanvasObject {
	var buttons []fyne.CanvasObject
	if g.config.ShowColumnSelector {
		buttons = append(buttons, widget.NewButtonWithIcon("Columns", theme.ListIcon(), g.showColumnSelector))
	}

	if g.config.ShowFilterBar {
		g.filterEntry = widget.NewEntry()
		g.filterEntry.SetPlaceHolder(`Filter: column = value AND other > 10, or free text`)
		g.filterEntry.OnSubmitted = g.applyFilterText

		clearButton := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
			g.filterEntry.SetText("")
			g.applyFilterText("")
		})
		buttons = append([]fyne.CanvasObject{clearButton}, buttons...)
		return container.NewBorder(nil, nil, nil, container.NewHBox(buttons...), g.filterEntry)
	}

	if len(buttons) == 0 {
		return nil
	}
	return container.NewHBox(append([]fyne.CanvasObject{layout.NewSpacer()}, buttons...)...)
}

// CreateRenderer implements fyne.Widget.
func (g *DataGrid) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.content)
}

// Refresh implements fyne.Widget. The grid re-reads the model and
// re-resolves all renderers.
func (g *DataGrid) Refresh() {
	g.rebuild()
	g.BaseWidget.Refresh()
}

// Model returns the table model the grid displays.
func (g *DataGrid) Model() *datagrid.TableModel {
	return g.model
}

// SetRenderers replaces the grid-local renderers and refreshes. Renderers are
// resolved anew on every refresh, so the change shows immediately; slots left
// nil fall back to the application defaults and then the built-in rendering.
func (g *DataGrid) SetRenderers(r Renderers) {
	g.config.Renderers = r
	g.Refresh()
}

// Renderers returns the grid-local renderers currently configured.
func (g *DataGrid) Renderers() Renderers {
	return g.config.Renderers
}

// OnCellSelected registers a callback invoked when the user selects a cell
// or row. In row selection mode, col is -1.
func (g *DataGrid) OnCellSelected(callback func(row, col int)) {
	g.onCellSelected = callback
}

// SetWindow gives the grid its window, enabling the column selector dialog
// and the Ctrl/Cmd+C shortcut that copies the current selection to the
// clipboard.
func (g *DataGrid) SetWindow(w fyne.Window) {
	g.window = w
	if w == nil {
		return
	}
	copyShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierShortcutDefault}
	w.Canvas().AddShortcut(copyShortcut, func(fyne.Shortcut) {
		g.copySelection()
	})
}

// SelectedRows returns the source row indices selected through the checkbox
// column, in ascending order.
func (g *DataGrid) SelectedRows() []int {
	rows := make([]int, 0, len(g.checkedRows))
	for r := range g.checkedRows {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

// applySortClick runs one header click through the sort cycle and applies
// the outcome to the model. With multi set, the click adds to or adjusts the
// existing sort instead of replacing it.
func (g *DataGrid) applySortClick(key string, multi bool) {
	next := datagrid.ApplyHeaderClick(g.model.SortColumns(), key, multi)
	if err := g.model.SetSortColumns(next); err != nil {
		fyne.LogError("applying header sort", err)
		return
	}
	if g.config.OnSortChanged != nil {
		g.config.OnSortChanged(next)
	}
	g.Refresh()
}

// selectCell records a click selection on the given visible cell and
// notifies the callback.
func (g *DataGrid) selectCell(row, col int) {
	switch g.config.SelectionMode {
	case SelectionModeNone:
		return
	case SelectionModeRow:
		g.selectedRow, g.selectedCol = row, -1
	case SelectionModeCell:
		g.selectedRow, g.selectedCol = row, col
	}
	if g.onCellSelected != nil {
		g.onCellSelected(g.selectedRow, g.selectedCol)
	}
	g.Refresh()
}

// setRowChecked toggles one source row in the checkbox selection.
func (g *DataGrid) setRowChecked(sourceRow int, checked bool) {
	if checked {
		g.checkedRows[sourceRow] = struct{}{}
	} else {
		delete(g.checkedRows, sourceRow)
	}
	g.Refresh()
}

// setAllChecked applies the header select-all checkbox to every visible
// row.
func (g *DataGrid) setAllChecked(checked bool) {
	for _, sourceRow := range g.model.GetVisibleRowIndices() {
		if checked {
			g.checkedRows[sourceRow] = struct{}{}
		} else {
			delete(g.checkedRows, sourceRow)
		}
	}
	g.Refresh()
}

// allVisibleChecked reports whether every visible row is checkbox-selected.
func (g *DataGrid) allVisibleChecked() bool {
	visible := g.model.GetVisibleRowIndices()
	if len(visible) == 0 {
		return false
	}
	for _, sourceRow := range visible {
		if _, ok := g.checkedRows[sourceRow]; !ok {
			return false
		}
	}
	return true
}

// applyFilterText parses the filter bar text and installs the result on the
// model. Text that does not parse as an expression falls back to free-text
// matching across all columns.
func (g *DataGrid) applyFilterText(query string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		g.model.ClearFilter()
		g.Refresh()
		return
	}

	f, err := filter.ParseQuery(trimmed, g.model.ColumnNames())
	if err != nil {
		f = &filter.Contains{Term: trimmed}
	}
	g.model.SetFilter(f)
	g.Refresh()
}

// copySelection copies the selected row (tab-separated) or cell to the
// window clipboard.
func (g *DataGrid) copySelection() {
	if g.window == nil || g.selectedRow < 0 {
		return
	}

	var text string
	if g.config.SelectionMode == SelectionModeCell && g.selectedCol >= 0 && g.selectedCol < len(g.displayCols) {
		col, ok := g.visibleIndex[g.displayCols[g.selectedCol].Key]
		if !ok {
			return
		}
		value, err := g.model.VisibleCell(g.selectedRow, col)
		if err != nil {
			fyne.LogError("copying cell", err)
			return
		}
		text = value.Formatted
	} else {
		values := make([]string, 0, len(g.displayCols))
		for _, dc := range g.displayCols {
			col, ok := g.visibleIndex[dc.Key]
			if !ok {
				continue
			}
			value, err := g.model.VisibleCell(g.selectedRow, col)
			if err != nil {
				fyne.LogError("copying row", err)
				return
			}
			values = append(values, value.Formatted)
		}
		text = strings.Join(values, "\t")
	}

	g.window.Clipboard().SetContent(text)
}

// rebuild reconstructs the header, body and status line from the model.
// Renderer resolution happens here, freshly on every pass: per-column
// override, then grid-local renderer, then application default, then the
// built-in rendering.
func (g *DataGrid) rebuild() {
	if g.model == nil {
		return
	}

	resolved := g.resolveRenderers()

	g.visibleIndex = make(map[string]int, g.model.VisibleColumnCount())
	for i := 0; i < g.model.VisibleColumnCount(); i++ {
		name, err := g.model.VisibleColumnName(i)
		if err != nil {
			continue
		}
		g.visibleIndex[name] = i
	}
	g.displayCols = g.displayColumns()

	headerCells := g.buildHeader(resolved)
	bodyRows := g.buildBody(resolved)

	g.computeColumnWidths(headerCells, bodyRows)

	g.headerRow.Objects = headerCells
	g.headerRow.Refresh()
	g.bodyBox.Objects = bodyRows
	g.bodyBox.Refresh()
	g.bodyScroll.Refresh()

	if g.config.ShowStatusBar {
		g.statusLabel.SetText(g.statusText())
	}
}

// displayColumns returns the configured columns restricted to the model's
// currently visible columns, or the derived default set when none are
// configured.
func (g *DataGrid) displayColumns() []Column {
	source := g.config.Columns
	if len(source) == 0 {
		source = ColumnsFor(g.model)
	}
	columns := make([]Column, 0, len(source))
	for _, c := range source {
		if _, ok := g.visibleIndex[c.Key]; ok {
			columns = append(columns, c)
		}
	}
	return columns
}

// buildHeader creates the header row cells: the select-all checkbox when the
// selection column is shown, then one headerCell per display column with its
// resolved sort indicator.
func (g *DataGrid) buildHeader(resolved Renderers) []fyne.CanvasObject {
	sorts := g.model.SortColumns()

	renderStatus := resolved.SortStatus
	if renderStatus == nil {
		renderStatus = builtinSortStatus
	}

	cells := make([]fyne.CanvasObject, 0, len(g.displayCols)+1)
	if g.config.ShowSelectionColumn {
		renderCheckbox := resolved.Checkbox
		if renderCheckbox == nil {
			renderCheckbox = builtinCheckbox
		}
		cells = append(cells, renderCheckbox(CheckboxContext{
			Header:    true,
			Row:       -1,
			Checked:   g.allVisibleChecked(),
			OnChanged: g.setAllChecked,
		}))
	}

	for _, col := range g.displayCols {
		var status fyne.CanvasObject
		if col.Sortable {
			status = renderStatus(SortStatus{
				Direction:     datagrid.DirectionOf(sorts, col.Key),
				Priority:      datagrid.Priority(sorts, col.Key),
				ActiveColumns: len(sorts),
			})
		}
		cells = append(cells, newHeaderCell(g, col, status))
	}
	return cells
}

// buildBody creates one row container per visible row, or the resolved
// no-rows fallback when the view is empty. The fallback renderer is only
// consulted for an empty view; with rows present it is never invoked.
func (g *DataGrid) buildBody(resolved Renderers) []fyne.CanvasObject {
	rowCount := g.model.VisibleRowCount()
	if rowCount == 0 {
		if resolved.NoRows == nil {
			return nil
		}
		fallback := resolved.NoRows()
		if fallback == nil {
			return nil
		}
		return []fyne.CanvasObject{container.NewCenter(fallback)}
	}

	renderCheckbox := resolved.Checkbox
	if renderCheckbox == nil {
		renderCheckbox = builtinCheckbox
	}

	rows := make([]fyne.CanvasObject, 0, rowCount)
	for r := 0; r < rowCount; r++ {
		sourceRow, err := g.model.SourceRow(r)
		if err != nil {
			fyne.LogError("resolving source row", err)
			continue
		}

		cells := make([]fyne.CanvasObject, 0, len(g.displayCols)+1)
		if g.config.ShowSelectionColumn {
			row := r
			_, checked := g.checkedRows[sourceRow]
			cells = append(cells, renderCheckbox(CheckboxContext{
				Row:     sourceRow,
				Checked: checked,
				OnChanged: func(on bool) {
					src, err := g.model.SourceRow(row)
					if err != nil {
						return
					}
					g.setRowChecked(src, on)
				},
			}))
		}

		for ci, col := range g.displayCols {
			value, err := g.model.VisibleCell(r, g.visibleIndex[col.Key])
			if err != nil {
				fyne.LogError("reading cell", err)
				value = datagrid.Value{}
			}

			render := col.Renderer
			if render == nil {
				render = resolved.Cell
			}
			if render == nil {
				render = builtinCell
			}

			content := render(CellContext{
				Row:       r,
				SourceRow: sourceRow,
				Column:    col,
				Value:     value,
			})

			tooltip := ""
			if !value.IsNull {
				tooltip = value.Formatted
			}
			cells = append(cells, newDataCell(g, r, ci, content, tooltip))
		}

		rows = append(rows, container.New(&rowLayout{grid: g}, cells...))
	}
	return rows
}

// computeColumnWidths sets the per-column widths for this refresh. Fixed
// widths win; otherwise, with AutoAdjustColumnWidths, the width fits the
// header and a sample of the body cells. Everything is clamped to
// MinColumnWidth.
func (g *DataGrid) computeColumnWidths(headerCells, bodyRows []fyne.CanvasObject) {
	offset := 0
	if g.config.ShowSelectionColumn {
		offset = 1
	}

	g.colWidths = make([]float32, len(g.displayCols))
	for i, col := range g.displayCols {
		width := g.config.MinColumnWidth
		switch {
		case col.Width > 0:
			width = col.Width
		case g.config.AutoAdjustColumnWidths:
			if i+offset < len(headerCells) {
				if w := headerCells[i+offset].MinSize().Width; w > width {
					width = w
				}
			}
			for r, rowObj := range bodyRows {
				if r >= widthSampleRows {
					break
				}
				row, ok := rowObj.(*fyne.Container)
				if !ok || i+offset >= len(row.Objects) {
					continue
				}
				if w := row.Objects[i+offset].MinSize().Width; w > width {
					width = w
				}
			}
		}
		if width < g.config.MinColumnWidth {
			width = g.config.MinColumnWidth
		}
		g.colWidths[i] = width
	}
}

// statusText assembles the status bar line: counts, the active sort in
// priority order and the active filter.
func (g *DataGrid) statusText() string {
	totalRows := g.model.OriginalRowCount()
	totalCols := g.model.OriginalColumnCount()
	visibleRows := g.model.VisibleRowCount()
	visibleCols := g.model.VisibleColumnCount()

	var b strings.Builder
	if visibleRows != totalRows || visibleCols != totalCols {
		fmt.Fprintf(&b, "%d/%d rows × %d/%d columns", visibleRows, totalRows, visibleCols, totalCols)
	} else {
		fmt.Fprintf(&b, "%d rows × %d columns", totalRows, totalCols)
	}

	if sorts := g.model.SortColumns(); len(sorts) > 0 {
		parts := make([]string, len(sorts))
		for i, sc := range sorts {
			arrow := "↑"
			if sc.Direction == datagrid.SortDescending {
				arrow = "↓"
			}
			parts[i] = fmt.Sprintf("%s %s(%d)", sc.Key, arrow, i+1)
		}
		b.WriteString(" | Sorted: ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if f := g.model.Filter(); f != nil {
		b.WriteString(" | Filter: ")
		b.WriteString(f.Description())
	}
	return b.String()
}
