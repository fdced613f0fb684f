package widget

import (
	"fyne.io/fyne/v2"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// Column describes one display column of a DataGrid. Columns are given in
// display order; their order in Config.Columns is the order they appear on
// screen.
type Column struct {
	// Key is the source column name the display column is bound to. Keys
	// identify columns in the sort column list and must be unique.
	Key string

	// Title is the header text. When empty, Key is shown instead.
	Title string

	// Sortable enables header-click sorting for this column.
	Sortable bool

	// Width fixes the column width in device-independent pixels. Zero
	// means the width is computed from the content (see
	// Config.AutoAdjustColumnWidths and Config.MinColumnWidth).
	Width float32

	// Renderer overrides the cell renderer for this column only. It wins
	// over every other cell renderer source, grid-local and application
	// default alike. Nil keeps the resolved cell renderer.
	Renderer CellRenderer
}

// label returns the header text for the column.
func (c Column) label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// ColumnsFor derives the default column set for a model: one sortable column
// per visible source column, in visible order, titled with the source column
// name.
func ColumnsFor(model *datagrid.TableModel) []Column {
	if model == nil {
		return nil
	}
	count := model.VisibleColumnCount()
	columns := make([]Column, 0, count)
	for i := 0; i < count; i++ {
		name, err := model.VisibleColumnName(i)
		if err != nil {
			fyne.LogError("deriving grid columns", err)
			continue
		}
		columns = append(columns, Column{Key: name, Title: name, Sortable: true})
	}
	return columns
}
