package widget

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showColumnSelector opens a dialog with one checkbox per source column.
// Confirming applies the chosen visibility to the model. Needs a window, see
// SetWindow.
func (g *DataGrid) showColumnSelector() {
	if g.window == nil {
		fyne.LogError("opening column selector", ErrNoWindow)
		return
	}

	names := g.model.ColumnNames()
	checks := make(map[string]*widget.Check, len(names))

	checkBox := container.NewVBox()
	for _, name := range names {
		visible, err := g.model.IsColumnVisible(name)
		if err != nil {
			continue
		}
		check := widget.NewCheck(name, nil)
		check.SetChecked(visible)
		checks[name] = check
		checkBox.Add(check)
	}

	selectAll := widget.NewButton("Select All", func() {
		for _, check := range checks {
			check.SetChecked(true)
		}
	})
	deselectAll := widget.NewButton("Deselect All", func() {
		for _, check := range checks {
			check.SetChecked(false)
		}
	})

	scroll := container.NewVScroll(checkBox)
	scroll.SetMinSize(fyne.NewSize(300, 250))

	content := container.NewVBox(
		container.NewHBox(selectAll, deselectAll),
		scroll,
	)

	d := dialog.NewCustomConfirm("Columns", "Apply", "Cancel", content, func(confirmed bool) {
		if !confirmed {
			return
		}
		for _, name := range names {
			check, ok := checks[name]
			if !ok {
				continue
			}
			if err := g.model.SetColumnVisible(name, check.Checked); err != nil {
				fyne.LogError("setting column visibility", err)
			}
		}
		g.Refresh()
	}, g.window)
	d.Resize(fyne.NewSize(360, 380))
	d.Show()
}
