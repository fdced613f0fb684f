package widget

import (
	"fyne.io/fyne/v2"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
)

// WrapWithTooltips wraps the window content in a tooltip layer so the grid's
// cell and header tooltips can appear. Wrap the content once, before setting
// it on the window:
//
//	grid := widget.NewDataGrid(model)
//	w.SetContent(widget.WrapWithTooltips(grid, w.Canvas()))
//
// Without the layer the grid still works; tooltips just never show.
func WrapWithTooltips(content fyne.CanvasObject, canvas fyne.Canvas) fyne.CanvasObject {
	return fynetooltip.AddWindowToolTipLayer(content, canvas)
}

// ReleaseTooltips frees the tooltip layer resources for a canvas whose
// content was wrapped with WrapWithTooltips. Call it when the window closes;
// it is not needed for the application's last window.
func ReleaseTooltips(canvas fyne.Canvas) {
	fynetooltip.DestroyWindowToolTipLayer(canvas)
}
