package widget

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// dataCell wraps one rendered cell object, adding click selection, the
// selection highlight and an optional tooltip with the full cell text.
type dataCell struct {
	ttwidget.ToolTipWidget

	grid    *DataGrid
	row     int // visible row index
	col     int // display column index
	content fyne.CanvasObject

	background *canvas.Rectangle
}

func newDataCell(grid *DataGrid, row, col int, content fyne.CanvasObject, tooltip string) *dataCell {
	c := &dataCell{
		grid:    grid,
		row:     row,
		col:     col,
		content: content,
	}
	c.ExtendBaseWidget(c)
	if tooltip != "" {
		c.SetToolTip(tooltip)
	}
	return c
}

// selected reports whether this cell is part of the current click selection.
func (c *dataCell) selected() bool {
	if c.grid.selectedRow != c.row {
		return false
	}
	switch c.grid.config.SelectionMode {
	case SelectionModeRow:
		return true
	case SelectionModeCell:
		return c.grid.selectedCol == c.col
	}
	return false
}

func (c *dataCell) backgroundColor() color.Color {
	if c.selected() {
		return theme.Color(theme.ColorNameSelection)
	}
	return color.Transparent
}

// CreateRenderer implements fyne.Widget.
func (c *dataCell) CreateRenderer() fyne.WidgetRenderer {
	c.background = canvas.NewRectangle(c.backgroundColor())
	return widget.NewSimpleRenderer(container.NewStack(c.background, c.content))
}

// Refresh implements fyne.Widget.
func (c *dataCell) Refresh() {
	if c.background != nil {
		c.background.FillColor = c.backgroundColor()
		c.background.Refresh()
	}
	c.ToolTipWidget.Refresh()
}

// Tapped implements fyne.Tappable.
func (c *dataCell) Tapped(_ *fyne.PointEvent) {
	c.grid.selectCell(c.row, c.col)
}
