package main

import (
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/fyne-datagrid/datagrid"
	fynewidget "github.com/magpierre/fyne-datagrid/widget"
)

// gridTab holds everything belonging to one open table tab.
type gridTab struct {
	model *datagrid.TableModel
	grid  *fynewidget.DataGrid
	tab   *container.TabItem
	name  string
}

// MainWindow is the viewer application shell: toolbar, document tabs and a
// status bar.
type MainWindow struct {
	a         fyne.App
	w         fyne.Window
	docTabs   *container.DocTabs
	statusBar *widget.Label
	tabData   map[*container.TabItem]*gridTab

	// last formatter expression, preloaded into the formatter dialog
	lastFormatter string

	// undoes SetDefaultRenderers while an app-wide formatter is installed
	restoreDefaults func()
}

func CreateMainWindow() *MainWindow {
	var v MainWindow
	v.NewMainWindow()
	return &v
}

func (t *MainWindow) NewMainWindow() {
	t.a = app.NewWithID("datagrid-viewer")
	t.a.Settings().SetTheme(&viewerTheme{})
	t.w = t.a.NewWindow("DataGrid Viewer")
	t.w.Resize(fyne.NewSize(1000, 700))

	t.tabData = make(map[*container.TabItem]*gridTab)

	// Create status bar
	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	bottom := container.NewHBox(t.statusBar)

	welcome := widget.NewRichTextFromMarkdown(`# DataGrid Viewer

Open a data file to get started.

* **CSV**: separator is detected from the first line
* **Parquet**: read through Arrow
* **JSON**: an array of objects, or a single object
* **Delta Sharing profile** (` + "`.share`" + `): browse and load shared tables

Click a column header to sort. Hold Ctrl (or Cmd) and click to sort by
several columns at once; click again to flip or remove a column. The filter
bar accepts expressions like ` + "`amount > 100 AND city = Oslo`" + ` or plain
text to search everywhere.`)
	welcome.Wrapping = fyne.TextWrapWord

	t.docTabs = container.NewDocTabs(container.NewTabItem("Welcome", container.NewVScroll(welcome)))
	t.docTabs.CloseIntercept = func(ti *container.TabItem) {
		delete(t.tabData, ti)
		t.docTabs.Remove(ti)
		if selected := t.docTabs.Selected(); selected != nil {
			t.updateStatusForTab(selected)
		} else {
			t.SetStatus("Ready")
		}
	}
	t.docTabs.OnSelected = func(ti *container.TabItem) {
		t.updateStatusForTab(ti)
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.OpenFile),
		widget.NewToolbarAction(theme.StorageIcon(), t.OpenProfile),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.ExportActiveTab),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), t.ShowFormatterDialog),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.InfoIcon(), t.showAbout),
	)

	c := container.NewBorder(toolbar, bottom, nil, nil, t.docTabs)
	t.w.SetContent(c)
	t.w.ShowAndRun()
}

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// activeTab returns the grid tab currently selected, or nil when the
// selection is not a data tab.
func (t *MainWindow) activeTab() *gridTab {
	selected := t.docTabs.Selected()
	if selected == nil {
		return nil
	}
	return t.tabData[selected]
}

// updateStatusForTab updates the status bar with information about the given tab.
func (t *MainWindow) updateStatusForTab(ti *container.TabItem) {
	data, exists := t.tabData[ti]
	if !exists {
		t.SetStatus("Ready")
		return
	}

	model := data.model
	totalRows := model.OriginalRowCount()
	totalCols := model.OriginalColumnCount()
	visibleRows := model.VisibleRowCount()
	visibleCols := model.VisibleColumnCount()

	var statusText string
	if visibleRows != totalRows || visibleCols != totalCols {
		statusText = fmt.Sprintf("%s (showing %d/%d columns x %d/%d rows)",
			data.name, visibleCols, totalCols, visibleRows, totalRows)
	} else {
		statusText = fmt.Sprintf("%s (%d columns x %d rows)", data.name, totalCols, totalRows)
	}

	if sorts := model.SortColumns(); len(sorts) > 0 {
		parts := make([]string, 0, len(sorts))
		for _, sc := range sorts {
			direction := "↑"
			if sc.Direction == datagrid.SortDescending {
				direction = "↓"
			}
			parts = append(parts, sc.Key+" "+direction)
		}
		statusText += " | Sorted: " + strings.Join(parts, ", ")
	}

	t.SetStatus(statusText)
}

// displayGrid creates a grid over the model in a new document tab.
func (t *MainWindow) displayGrid(model *datagrid.TableModel, name string) {
	config := fynewidget.DefaultConfig()
	config.ShowFilterBar = true
	config.ShowStatusBar = true
	config.ShowColumnSelector = true
	config.ShowSelectionColumn = true
	config.AutoAdjustColumnWidths = true
	config.SelectionMode = fynewidget.SelectionModeRow
	config.MinColumnWidth = 100
	config.OnSortChanged = func(sorts []datagrid.SortColumn) {
		if selected := t.docTabs.Selected(); selected != nil {
			t.updateStatusForTab(selected)
		}
	}

	grid := fynewidget.NewDataGridWithConfig(model, config)
	grid.SetWindow(t.w)

	grid.OnCellSelected(func(row, col int) {
		if col == -1 {
			log.Printf("Row %d selected", row)
			return
		}
		cell, err := model.VisibleCell(row, col)
		if err != nil {
			log.Printf("Cell selection error: %v", err)
			return
		}
		colName, _ := model.VisibleColumnName(col)
		log.Printf("Cell selected: [%d, %d] (%s) = %s", row, col, colName, cell.Formatted)
	})

	// Wrap with the tooltip layer so cell tooltips can draw over the grid
	content := fynewidget.WrapWithTooltips(grid, t.w.Canvas())

	tab := container.NewTabItem(name, content)
	t.tabData[tab] = &gridTab{model: model, grid: grid, tab: tab, name: name}
	t.docTabs.Append(tab)
	t.docTabs.Select(tab)
	t.updateStatusForTab(tab)
}

func (t *MainWindow) showAbout() {
	about := widget.NewRichTextFromMarkdown(`## DataGrid Viewer

A demo for the **fyne-datagrid** widget library.

Multi-column sorting, expression filters, row selection, column
visibility, pluggable cell renderers and CSV/JSON/Parquet export.`)
	about.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom("About", "Close", about, t.w)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
}
