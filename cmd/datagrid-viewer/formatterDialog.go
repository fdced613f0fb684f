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

package main

import (
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/fyne-datagrid/script"
	fynewidget "github.com/magpierre/fyne-datagrid/widget"
)

// ShowFormatterDialog lets the user type a Go expression that formats every
// cell, compiled on the fly. The formatter can be installed for the active
// tab only (a grid-local renderer) or for every tab (the application-wide
// default); a tab-local formatter wins where both are set.
func (t *MainWindow) ShowFormatterDialog() {
	active := t.activeTab()
	if active == nil {
		dialog.ShowInformation("Cell Formatter", "Open a data tab first", t.w)
		return
	}

	entry := widget.NewEntry()
	entry.SetPlaceHolder(`strings.ToUpper(value)`)
	entry.SetText(t.lastFormatter)

	help := widget.NewRichTextFromMarkdown(`Write a Go expression producing a **string**.
It sees ` + "`value`" + ` (the cell text) and ` + "`raw`" + ` (the typed value);
fmt, strconv, strings, math and time are available.

Examples:

    strings.ToUpper(value)
    fmt.Sprintf("<%s>", value)

Leave empty to remove the formatter.`)
	help.Wrapping = fyne.TextWrapWord

	allTabs := widget.NewCheck("Apply to every tab", nil)

	content := container.NewVBox(help, entry, allTabs)

	d := dialog.NewCustomConfirm("Cell Formatter", "Apply", "Cancel", content, func(confirmed bool) {
		if !confirmed {
			return
		}

		expr := strings.TrimSpace(entry.Text)
		if expr == "" {
			t.clearFormatter(active)
			return
		}

		formatter, err := script.NewFormatter(expr)
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		t.lastFormatter = expr

		renderers := fynewidget.Renderers{Cell: formatter.CellRenderer()}
		if allTabs.Checked {
			if t.restoreDefaults != nil {
				t.restoreDefaults()
			}
			t.restoreDefaults = fynewidget.SetDefaultRenderers(renderers)
			for _, data := range t.tabData {
				data.grid.Refresh()
			}
			t.SetStatus("Formatter applied to every tab: " + expr)
		} else {
			active.grid.SetRenderers(renderers)
			t.SetStatus("Formatter applied to " + active.name + ": " + expr)
		}
		log.Printf("Cell formatter installed: %s", expr)
	}, t.w)
	d.Resize(fyne.NewSize(480, 340))
	d.Show()
}

// clearFormatter removes the tab-local formatter of the given tab and any
// application-wide formatter.
func (t *MainWindow) clearFormatter(active *gridTab) {
	active.grid.SetRenderers(fynewidget.Renderers{})
	if t.restoreDefaults != nil {
		t.restoreDefaults()
		t.restoreDefaults = nil
		for _, data := range t.tabData {
			data.grid.Refresh()
		}
	}
	t.SetStatus("Formatter removed")
}
