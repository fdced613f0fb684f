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

// Command datagrid-viewer is a demo application for the fyne-datagrid
// widget. It opens CSV, Parquet and JSON files as well as Delta Sharing
// tables, and shows filtering, multi-column sorting, export and runtime
// cell-formatter scripts on live data.
package main

func main() {
	CreateMainWindow()
}
