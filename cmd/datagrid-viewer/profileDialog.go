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
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"

	"github.com/magpierre/fyne-datagrid/adapters/deltasharing"
	"github.com/magpierre/fyne-datagrid/datagrid"
)

// apiTimeout bounds every Delta Sharing server call.
const apiTimeout = 60 * time.Second

// createTimeoutContext creates a context for Delta Sharing API calls.
func createTimeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// withProgress shows an indeterminate progress dialog while work runs on the
// calling goroutine.
func (t *MainWindow) withProgress(title string, work func()) {
	c := make(chan bool)
	go func(c chan bool) {
		pbi := widget.NewProgressBarInfinite()
		di := dialog.NewCustomWithoutButtons(title, pbi, t.w)
		di.Resize(fyne.NewSize(240, 100))
		di.Show()
		pbi.Start()
		for {
			select {
			case <-c:
				di.Hide()
				pbi.Stop()
				return
			default:
				time.Sleep(time.Millisecond * 500)
			}
		}
	}(c)
	work()
	c <- true
}

// OpenProfile shows a file picker for a Delta Sharing profile and opens the
// share browser for it.
func (t *MainWindow) OpenProfile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			t.SetStatus("Error opening profile")
			dialog.ShowError(err, t.w)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		content, err := os.ReadFile(path)
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if !isDeltaSharingProfile(string(content)) {
			dialog.ShowError(fmt.Errorf("%s is not a Delta Sharing profile", path), t.w)
			return
		}
		t.openProfileContent(string(content))
	}, t.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".share", ".json", ".txt"}))
	fd.Resize(fyne.NewSize(800, 600))
	fd.Show()
}

// openProfileContent lists the tables reachable through the profile and lets
// the user pick one to load.
func (t *MainWindow) openProfileContent(profile string) {
	t.SetStatus("Connecting to Delta Sharing server...")

	var tables []delta_sharing.Table
	var listErr error
	t.withProgress("Listing shared tables", func() {
		ctx, cancel := createTimeoutContext()
		defer cancel()
		tables, listErr = deltasharing.Tables(ctx, profile)
	})
	if listErr != nil {
		t.SetStatus("Error connecting to Delta Sharing")
		dialog.ShowError(listErr, t.w)
		return
	}
	if len(tables) == 0 {
		t.SetStatus("No shared tables found")
		dialog.ShowInformation("Delta Sharing", "The share contains no tables", t.w)
		return
	}
	t.SetStatus(fmt.Sprintf("Found %d shared tables", len(tables)))

	tableList := widget.NewList(
		func() int {
			return len(tables)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			table := tables[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s.%s.%s", table.Share, table.Schema, table.Name))
		},
	)
	tableList.OnSelected = func(id widget.ListItemID) {
		tableList.UnselectAll()
		t.loadSharedTable(profile, tables[id])
	}

	instructions := widget.NewLabel("Click a table to load it into a new tab")
	instructions.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(instructions, nil, nil, nil, tableList)
	d := dialog.NewCustom("Delta Sharing Tables", "Close", content, t.w)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

// loadSharedTable loads the first data file of the shared table into a grid
// tab.
func (t *MainWindow) loadSharedTable(profile string, table delta_sharing.Table) {
	name := fmt.Sprintf("%s.%s.%s", table.Share, table.Schema, table.Name)
	t.SetStatus("Loading table: " + name)

	var source datagrid.DataSource
	var loadErr error
	t.withProgress("Loading "+table.Name, func() {
		ctx, cancel := createTimeoutContext()
		defer cancel()

		files, err := deltasharing.ListFiles(ctx, profile, table)
		if err != nil {
			loadErr = err
			return
		}
		if len(files) == 0 {
			loadErr = fmt.Errorf("no files available for table %s", table.Name)
			return
		}
		source, loadErr = deltasharing.NewFromProfile(ctx, profile, table, files[0])
	})
	if loadErr != nil {
		t.SetStatus("Error loading table: " + name)
		log.Printf("Delta Sharing load error: %v", loadErr)
		dialog.ShowError(loadErr, t.w)
		return
	}

	model, err := datagrid.NewTableModel(source)
	if err != nil {
		dialog.ShowError(err, t.w)
		return
	}

	t.displayGrid(model, table.Name)
	t.SetStatus(fmt.Sprintf("Table loaded: %s (%d rows, %d columns)",
		name, source.RowCount(), source.ColumnCount()))
}
