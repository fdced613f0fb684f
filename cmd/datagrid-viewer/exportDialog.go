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
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/fyne-datagrid/export"
)

// ExportActiveTab asks for a format and writes the active tab's visible view
// to a file. Filtered-out rows and hidden columns are not exported.
func (t *MainWindow) ExportActiveTab() {
	data := t.activeTab()
	if data == nil {
		dialog.ShowInformation("Export", "Open a data tab first", t.w)
		return
	}

	formats := widget.NewRadioGroup([]string{
		export.FormatCSV.String(),
		export.FormatJSON.String(),
		export.FormatParquet.String(),
	}, nil)
	formats.SetSelected(export.FormatCSV.String())

	d := dialog.NewCustomConfirm("Export "+data.name, "Export", "Cancel", formats, func(confirmed bool) {
		if !confirmed {
			return
		}
		var format export.Format
		switch formats.Selected {
		case export.FormatJSON.String():
			format = export.FormatJSON
		case export.FormatParquet.String():
			format = export.FormatParquet
		default:
			format = export.FormatCSV
		}
		t.exportData(data, format)
	}, t.w)
	d.Resize(fyne.NewSize(280, 200))
	d.Show()
}

// exportData handles the export of the tab's view to the chosen format.
func (t *MainWindow) exportData(data *gridTab, format export.Format) {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			// User cancelled
			return
		}

		filePath := writer.URI().Path()

		var exportErr error
		t.withProgress("Exporting...", func() {
			switch format {
			case export.FormatCSV:
				exportErr = export.ViewToCSV(data.model, writer)
				writer.Close()
			case export.FormatJSON:
				exportErr = export.ViewToJSON(data.model, writer)
				writer.Close()
			case export.FormatParquet:
				// The parquet writer manages the file itself
				writer.Close()
				exportErr = export.ViewToParquet(data.model, filePath)
			}
		})

		if exportErr != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", exportErr), t.w)
			return
		}
		t.SetStatus("Exported " + data.name + " to " + filePath)
		dialog.ShowInformation("Export Successful",
			fmt.Sprintf("Data exported successfully to:\n%s", filePath), t.w)
	}, t.w)

	saveDialog.SetFileName(cleanFilename(data.name) + format.Extension())
	saveDialog.Show()
}

// cleanFilename removes spaces and special characters from a filename.
func cleanFilename(name string) string {
	result := ""
	for _, r := range name {
		if r == ' ' {
			result += "_"
		} else if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.' {
			result += string(r)
		}
	}
	return result
}
