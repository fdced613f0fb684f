package widget

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	fynewidget "fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/fyne-datagrid/adapters/slice"
	"github.com/magpierre/fyne-datagrid/datagrid"
)

func newTestModel(t *testing.T) *datagrid.TableModel {
	t.Helper()
	source, err := slice.New(
		[]string{"name", "age", "city"},
		[]datagrid.DataType{datagrid.TypeString, datagrid.TypeInt, datagrid.TypeString},
		[][]interface{}{
			{"ada", 36, "london"},
			{"bob", 25, "paris"},
			{"eve", 41, "oslo"},
		},
	)
	require.NoError(t, err)
	model, err := datagrid.NewTableModel(source)
	require.NoError(t, err)
	return model
}

func newEmptyModel(t *testing.T) *datagrid.TableModel {
	t.Helper()
	source, err := slice.New(
		[]string{"name", "age"},
		[]datagrid.DataType{datagrid.TypeString, datagrid.TypeInt},
		nil,
	)
	require.NoError(t, err)
	model, err := datagrid.NewTableModel(source)
	require.NoError(t, err)
	return model
}

// headerFor finds the header cell for a column key in the current header
// row. Header objects are replaced on every refresh, so fetch fresh after
// each interaction.
func headerFor(t *testing.T, g *DataGrid, key string) *headerCell {
	t.Helper()
	for _, obj := range g.headerRow.Objects {
		if h, ok := obj.(*headerCell); ok && h.column.Key == key {
			return h
		}
	}
	t.Fatalf("no header cell for column %q", key)
	return nil
}

// ctrlTap simulates a modifier-held click: mouse press carrying the Control
// modifier, then the tap the driver delivers for it.
func ctrlTap(h *headerCell) {
	h.MouseDown(&desktop.MouseEvent{Modifier: fyne.KeyModifierControl})
	test.Tap(h)
}

// cellTexts collects the body's rendered cell label texts, one slice per
// row. Non-label cell content comes back as an empty string.
func cellTexts(g *DataGrid) [][]string {
	var rows [][]string
	for _, rowObj := range g.bodyBox.Objects {
		row, ok := rowObj.(*fyne.Container)
		if !ok {
			continue
		}
		var texts []string
		for _, cellObj := range row.Objects {
			cell, ok := cellObj.(*dataCell)
			if !ok {
				continue
			}
			if label, ok := cell.content.(*fynewidget.Label); ok {
				texts = append(texts, label.Text)
			} else {
				texts = append(texts, "")
			}
		}
		rows = append(rows, texts)
	}
	return rows
}

func TestGridRendersModelData(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))
	texts := cellTexts(g)
	require.Len(t, texts, 3)
	assert.Equal(t, []string{"ada", "36", "london"}, texts[0])
	assert.Equal(t, []string{"bob", "25", "paris"}, texts[1])
	assert.Equal(t, []string{"eve", "41", "oslo"}, texts[2])
}

func TestEmptyModelShowsLocalFallback(t *testing.T) {
	test.NewApp()

	config := DefaultConfig()
	config.Renderers.NoRows = func() fyne.CanvasObject {
		return fynewidget.NewLabel("nothing here")
	}

	g := NewDataGridWithConfig(newEmptyModel(t), config)

	require.Len(t, g.bodyBox.Objects, 1, "fallback replaces all row rendering")
	assert.Empty(t, cellTexts(g), "no data rows may be rendered")

	center, ok := g.bodyBox.Objects[0].(*fyne.Container)
	require.True(t, ok)
	label, ok := center.Objects[0].(*fynewidget.Label)
	require.True(t, ok)
	assert.Equal(t, "nothing here", label.Text)
}

func TestEmptyModelWithoutFallbackRendersNothing(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newEmptyModel(t))
	assert.Empty(t, g.bodyBox.Objects)
}

func TestFallbackConsultedOnlyWhenEmpty(t *testing.T) {
	test.NewApp()

	calls := 0
	config := DefaultConfig()
	config.Renderers.NoRows = func() fyne.CanvasObject {
		calls++
		return fynewidget.NewLabel("empty")
	}

	g := NewDataGridWithConfig(newTestModel(t), config)
	assert.Zero(t, calls, "fallback must not run while rows are visible")

	// Filter everything out; the fallback takes over.
	g.applyFilterText("age > 100")
	assert.Equal(t, 1, calls)
	require.Len(t, g.bodyBox.Objects, 1)

	// Rows back, fallback out.
	g.applyFilterText("")
	assert.Equal(t, 1, calls)
	assert.Len(t, g.bodyBox.Objects, 3)
}

func TestAmbientCellRendererAppliesToEveryCell(t *testing.T) {
	test.NewApp()

	restore := SetDefaultRenderers(Renderers{
		Cell: func(ctx CellContext) fyne.CanvasObject {
			return fynewidget.NewLabel("P:" + ctx.Value.Formatted)
		},
	})
	defer restore()

	g := NewDataGrid(newTestModel(t))
	for _, row := range cellTexts(g) {
		for _, text := range row {
			assert.Contains(t, text, "P:", "every cell must come from the ambient renderer")
		}
	}
}

func TestLocalRendererBeatsAmbient(t *testing.T) {
	test.NewApp()

	restore := SetDefaultRenderers(Renderers{
		Cell: func(CellContext) fyne.CanvasObject {
			return fynewidget.NewLabel("ambient")
		},
	})
	defer restore()

	config := DefaultConfig()
	config.Renderers.Cell = func(CellContext) fyne.CanvasObject {
		return fynewidget.NewLabel("local")
	}

	g := NewDataGridWithConfig(newTestModel(t), config)
	for _, row := range cellTexts(g) {
		for _, text := range row {
			assert.Equal(t, "local", text)
		}
	}
}

func TestPerColumnRendererBeatsAll(t *testing.T) {
	test.NewApp()

	restore := SetDefaultRenderers(Renderers{
		Cell: func(CellContext) fyne.CanvasObject {
			return fynewidget.NewLabel("ambient")
		},
	})
	defer restore()

	config := DefaultConfig()
	config.Renderers.Cell = func(CellContext) fyne.CanvasObject {
		return fynewidget.NewLabel("local")
	}
	config.Columns = []Column{
		{Key: "name", Sortable: true},
		{Key: "age", Sortable: true, Renderer: func(CellContext) fyne.CanvasObject {
			return fynewidget.NewLabel("column")
		}},
	}

	g := NewDataGridWithConfig(newTestModel(t), config)
	for _, row := range cellTexts(g) {
		require.Len(t, row, 2)
		assert.Equal(t, "local", row[0])
		assert.Equal(t, "column", row[1])
	}
}

func TestResolutionReEvaluatedOnRefresh(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))
	assert.Equal(t, "ada", cellTexts(g)[0][0], "built-in rendering before any override")

	restore := SetDefaultRenderers(Renderers{
		Cell: func(CellContext) fyne.CanvasObject {
			return fynewidget.NewLabel("override")
		},
	})

	g.Refresh()
	assert.Equal(t, "override", cellTexts(g)[0][0], "ambient defaults picked up on refresh")

	restore()
	g.Refresh()
	assert.Equal(t, "ada", cellTexts(g)[0][0], "built-in rendering after restore")
}

func TestSetRenderersAppliesAtRuntime(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))
	assert.Equal(t, "ada", cellTexts(g)[0][0])

	g.SetRenderers(Renderers{
		Cell: func(ctx CellContext) fyne.CanvasObject {
			return fynewidget.NewLabel("*" + ctx.Value.Formatted)
		},
	})
	assert.Equal(t, "*ada", cellTexts(g)[0][0], "runtime renderer applied on refresh")

	g.SetRenderers(Renderers{})
	assert.Equal(t, "ada", cellTexts(g)[0][0], "clearing restores built-in rendering")
}

func TestHeaderClickSortCycle(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))

	test.Tap(headerFor(t, g, "age"))
	assert.Equal(t, []datagrid.SortColumn{{Key: "age", Direction: datagrid.SortAscending}}, g.model.SortColumns())
	assert.Equal(t, "bob", cellTexts(g)[0][0])

	test.Tap(headerFor(t, g, "age"))
	assert.Equal(t, []datagrid.SortColumn{{Key: "age", Direction: datagrid.SortDescending}}, g.model.SortColumns())
	assert.Equal(t, "eve", cellTexts(g)[0][0])

	test.Tap(headerFor(t, g, "age"))
	assert.Empty(t, g.model.SortColumns())
	assert.Equal(t, "ada", cellTexts(g)[0][0], "source order restored when unsorted")
}

func TestMultiSortAccumulation(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))

	test.Tap(headerFor(t, g, "age"))
	assert.Equal(t, []datagrid.SortColumn{
		{Key: "age", Direction: datagrid.SortAscending},
	}, g.model.SortColumns())

	ctrlTap(headerFor(t, g, "city"))
	sorts := g.model.SortColumns()
	assert.Equal(t, []datagrid.SortColumn{
		{Key: "age", Direction: datagrid.SortAscending},
		{Key: "city", Direction: datagrid.SortAscending},
	}, sorts)
	assert.Equal(t, 1, datagrid.Priority(sorts, "age"))
	assert.Equal(t, 2, datagrid.Priority(sorts, "city"))

	// Modified click on an ASC column flips it in place.
	ctrlTap(headerFor(t, g, "age"))
	sorts = g.model.SortColumns()
	assert.Equal(t, []datagrid.SortColumn{
		{Key: "age", Direction: datagrid.SortDescending},
		{Key: "city", Direction: datagrid.SortAscending},
	}, sorts)
	assert.Equal(t, 1, datagrid.Priority(sorts, "age"))
	assert.Equal(t, 2, datagrid.Priority(sorts, "city"))

	// Modified click on a DESC column removes it; the rest move up.
	ctrlTap(headerFor(t, g, "age"))
	sorts = g.model.SortColumns()
	assert.Equal(t, []datagrid.SortColumn{
		{Key: "city", Direction: datagrid.SortAscending},
	}, sorts)
	assert.Equal(t, 1, datagrid.Priority(sorts, "city"))
	assert.Equal(t, 0, datagrid.Priority(sorts, "age"))
}

func TestPlainClickCollapsesMultiSort(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))

	test.Tap(headerFor(t, g, "age"))
	ctrlTap(headerFor(t, g, "city"))
	require.Len(t, g.model.SortColumns(), 2)

	test.Tap(headerFor(t, g, "name"))
	assert.Equal(t, []datagrid.SortColumn{
		{Key: "name", Direction: datagrid.SortAscending},
	}, g.model.SortColumns())
}

func TestOnSortChangedCallback(t *testing.T) {
	test.NewApp()

	var calls [][]datagrid.SortColumn
	config := DefaultConfig()
	config.OnSortChanged = func(sorts []datagrid.SortColumn) {
		calls = append(calls, sorts)
	}

	g := NewDataGridWithConfig(newTestModel(t), config)

	test.Tap(headerFor(t, g, "name"))
	test.Tap(headerFor(t, g, "name"))

	require.Len(t, calls, 2)
	assert.Equal(t, []datagrid.SortColumn{{Key: "name", Direction: datagrid.SortAscending}}, calls[0])
	assert.Equal(t, []datagrid.SortColumn{{Key: "name", Direction: datagrid.SortDescending}}, calls[1])
}

func TestNonSortableColumnClickIsNoop(t *testing.T) {
	test.NewApp()

	fired := false
	config := DefaultConfig()
	config.Columns = []Column{
		{Key: "name", Sortable: false},
		{Key: "age", Sortable: true},
	}
	config.OnSortChanged = func([]datagrid.SortColumn) { fired = true }

	g := NewDataGridWithConfig(newTestModel(t), config)

	test.Tap(headerFor(t, g, "name"))
	assert.Empty(t, g.model.SortColumns())
	assert.False(t, fired)
}

func TestHeaderSortIndicators(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))

	statusText := func(key string) string {
		h := headerFor(t, g, key)
		if h.status == nil {
			return "<none>"
		}
		label, ok := h.status.(*fynewidget.Label)
		require.True(t, ok)
		return label.Text
	}

	test.Tap(headerFor(t, g, "age"))
	assert.Equal(t, "↑", statusText("age"), "single sort shows no priority number")

	ctrlTap(headerFor(t, g, "city"))
	assert.Equal(t, "↑1", statusText("age"))
	assert.Equal(t, "↑2", statusText("city"))
	assert.Equal(t, "", statusText("name"))
}

func TestSelectionColumnAndSelectAll(t *testing.T) {
	test.NewApp()

	config := DefaultConfig()
	config.ShowSelectionColumn = true

	g := NewDataGridWithConfig(newTestModel(t), config)
	assert.Empty(t, g.SelectedRows())

	// The first body cell of row 0 is its selection checkbox.
	row, ok := g.bodyBox.Objects[0].(*fyne.Container)
	require.True(t, ok)
	check, ok := row.Objects[0].(*fynewidget.Check)
	require.True(t, ok)

	check.SetChecked(true)
	assert.Equal(t, []int{0}, g.SelectedRows())

	// Header checkbox selects every visible row.
	headerCheck, ok := g.headerRow.Objects[0].(*fynewidget.Check)
	require.True(t, ok)
	headerCheck.SetChecked(true)
	assert.Equal(t, []int{0, 1, 2}, g.SelectedRows())

	// And clears them again.
	headerCheck, ok = g.headerRow.Objects[0].(*fynewidget.Check)
	require.True(t, ok)
	headerCheck.SetChecked(false)
	assert.Empty(t, g.SelectedRows())
}

func TestSelectionSurvivesSorting(t *testing.T) {
	test.NewApp()

	config := DefaultConfig()
	config.ShowSelectionColumn = true

	g := NewDataGridWithConfig(newTestModel(t), config)

	// Check source row 0 ("ada"), then sort so it moves down.
	row, ok := g.bodyBox.Objects[0].(*fyne.Container)
	require.True(t, ok)
	check, ok := row.Objects[0].(*fynewidget.Check)
	require.True(t, ok)
	check.SetChecked(true)

	test.Tap(headerFor(t, g, "age"))
	assert.Equal(t, []int{0}, g.SelectedRows(), "selection keys on source rows, not view positions")

	// The checked box follows the row to its new position.
	texts := cellTexts(g)
	require.Equal(t, "ada", texts[1][0])
	row, ok = g.bodyBox.Objects[1].(*fyne.Container)
	require.True(t, ok)
	check, ok = row.Objects[0].(*fynewidget.Check)
	require.True(t, ok)
	assert.True(t, check.Checked)
}

func TestRowSelectionCallback(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))

	var gotRow, gotCol int
	g.OnCellSelected(func(row, col int) {
		gotRow, gotCol = row, col
	})

	row, ok := g.bodyBox.Objects[1].(*fyne.Container)
	require.True(t, ok)
	cell, ok := row.Objects[0].(*dataCell)
	require.True(t, ok)
	test.Tap(cell)

	assert.Equal(t, 1, gotRow)
	assert.Equal(t, -1, gotCol, "row mode reports the whole row")
}

func TestFilterBarExpressionAndFallback(t *testing.T) {
	test.NewApp()

	config := DefaultConfig()
	config.ShowFilterBar = true

	g := NewDataGridWithConfig(newTestModel(t), config)

	g.applyFilterText("age > 30")
	assert.Equal(t, 2, g.model.VisibleRowCount())

	// Free text that is no expression matches across all columns.
	g.applyFilterText("paris")
	require.Equal(t, 1, g.model.VisibleRowCount())
	assert.Equal(t, "bob", cellTexts(g)[0][0])

	g.applyFilterText("")
	assert.Equal(t, 3, g.model.VisibleRowCount())
	assert.Nil(t, g.model.Filter())
}

func TestStatusText(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))
	assert.Equal(t, "3 rows × 3 columns", g.statusText())

	test.Tap(headerFor(t, g, "age"))
	ctrlTap(headerFor(t, g, "city"))
	assert.Equal(t, "3 rows × 3 columns | Sorted: age ↑(1), city ↑(2)", g.statusText())

	g.applyFilterText("age > 30")
	assert.Contains(t, g.statusText(), "2/3 rows")
	assert.Contains(t, g.statusText(), "Filter: ")
}

func TestCopySelectedRow(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))
	w := test.NewWindow(g)
	defer w.Close()
	g.SetWindow(w)

	g.selectCell(0, 1)
	g.copySelection()
	assert.Equal(t, "ada\t36\tlondon", w.Clipboard().Content())
}

func TestCopySelectedCell(t *testing.T) {
	test.NewApp()

	config := DefaultConfig()
	config.SelectionMode = SelectionModeCell

	g := NewDataGridWithConfig(newTestModel(t), config)
	w := test.NewWindow(g)
	defer w.Close()
	g.SetWindow(w)

	g.selectCell(2, 1)
	g.copySelection()
	assert.Equal(t, "41", w.Clipboard().Content())
}

func TestDisplayColumnsSubsetAndOrder(t *testing.T) {
	test.NewApp()

	config := DefaultConfig()
	config.Columns = []Column{
		{Key: "city", Title: "City"},
		{Key: "name", Title: "Name"},
	}

	g := NewDataGridWithConfig(newTestModel(t), config)
	texts := cellTexts(g)
	require.Len(t, texts, 3)
	assert.Equal(t, []string{"london", "ada"}, texts[0])
}

func TestHiddenColumnLeavesGrid(t *testing.T) {
	test.NewApp()

	g := NewDataGrid(newTestModel(t))
	require.NoError(t, g.model.SetColumnVisible("age", false))
	g.Refresh()

	texts := cellTexts(g)
	require.Len(t, texts, 3)
	assert.Equal(t, []string{"ada", "london"}, texts[0])
}
