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
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// headerCell is one column header: the title, the sort status indicator and
// the click handling that drives sorting.
//
// The multi-sort gesture needs the modifier keys held during the click, and
// those only travel with desktop mouse events. MouseDown records whether the
// configured modifier was held; the Tapped that follows consumes the flag.
// Taps without a preceding MouseDown (touch input) are plain clicks.
type headerCell struct {
	ttwidget.ToolTipWidget

	grid   *DataGrid
	column Column
	title  *widget.Label
	status fyne.CanvasObject

	multi bool
}

func newHeaderCell(grid *DataGrid, column Column, status fyne.CanvasObject) *headerCell {
	h := &headerCell{
		grid:   grid,
		column: column,
		status: status,
	}
	h.ExtendBaseWidget(h)

	h.title = widget.NewLabel(column.label())
	h.title.TextStyle = fyne.TextStyle{Bold: true}
	h.title.Truncation = fyne.TextTruncateEllipsis

	if column.Sortable {
		h.SetToolTip("Click to sort by " + column.label() + "; modifier-click to add to the sort")
	}
	return h
}

// CreateRenderer implements fyne.Widget.
func (h *headerCell) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(theme.Color(theme.ColorNameHeaderBackground))
	content := container.NewBorder(nil, nil, nil, h.status, h.title)
	return widget.NewSimpleRenderer(container.NewStack(background, content))
}

// MouseDown implements desktop.Mouseable.
func (h *headerCell) MouseDown(ev *desktop.MouseEvent) {
	h.multi = ev.Modifier&h.grid.config.MultiSortModifier != 0
}

// MouseUp implements desktop.Mouseable.
func (h *headerCell) MouseUp(_ *desktop.MouseEvent) {
}

// Tapped implements fyne.Tappable. Clicking an unsortable column's header
// does nothing.
func (h *headerCell) Tapped(_ *fyne.PointEvent) {
	multi := h.multi
	h.multi = false

	if !h.column.Sortable {
		return
	}
	h.grid.applySortClick(h.column.Key, multi)
}
