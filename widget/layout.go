package widget

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// selectionColumnWidth is the fixed width of the leading checkbox column.
const selectionColumnWidth float32 = 36

// rowLayout lays out the cells of one grid row at the column widths the grid
// computed for the current refresh. Header and body rows share the same
// widths, so their columns stay aligned.
type rowLayout struct {
	grid *DataGrid
}

func (l *rowLayout) widthFor(index int) float32 {
	offset := 0
	if l.grid.config.ShowSelectionColumn {
		if index == 0 {
			return selectionColumnWidth
		}
		offset = 1
	}
	col := index - offset
	if col >= 0 && col < len(l.grid.colWidths) {
		return l.grid.colWidths[col]
	}
	return l.grid.config.MinColumnWidth
}

// MinSize implements fyne.Layout.
func (l *rowLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	pad := theme.Padding()
	width := float32(0)
	height := float32(0)
	for i, obj := range objects {
		if i > 0 {
			width += pad
		}
		width += l.widthFor(i)
		if h := obj.MinSize().Height; h > height {
			height = h
		}
	}
	return fyne.NewSize(width, height)
}

// Layout implements fyne.Layout.
func (l *rowLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	pad := theme.Padding()
	x := float32(0)
	for i, obj := range objects {
		w := l.widthFor(i)
		obj.Resize(fyne.NewSize(w, size.Height))
		obj.Move(fyne.NewPos(x, 0))
		x += w + pad
	}
}
