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

package datagrid

import (
	"fmt"
	"sort"
	"sync"
)

// TableModel wraps a DataSource and maintains the view state on top of it:
// which rows are visible after filtering, the order they appear in after
// sorting, and which columns are shown. The model never modifies the source;
// it only keeps index mappings from the visible view into it.
//
// All methods are safe for concurrent use.
type TableModel struct {
	mu     sync.RWMutex
	source DataSource

	columnNames []string
	columnTypes []DataType
	columnIndex map[string]int

	hiddenCols  map[int]struct{}
	filter      Filter
	sortColumns []SortColumn

	visibleRows []int // source row indices, filtered then sorted
	visibleCols []int // source column indices in display order
}

// NewTableModel creates a model over the given data source.
// Returns ErrNoDataSource when source is nil, and ErrInvalidColumn when the
// source reports duplicate column names (names act as the column keys).
func NewTableModel(source DataSource) (*TableModel, error) {
	if source == nil {
		return nil, ErrNoDataSource
	}

	cols := source.ColumnCount()
	m := &TableModel{
		source:      source,
		columnNames: make([]string, cols),
		columnTypes: make([]DataType, cols),
		columnIndex: make(map[string]int, cols),
		hiddenCols:  make(map[int]struct{}),
	}

	for i := 0; i < cols; i++ {
		name, err := source.ColumnName(i)
		if err != nil {
			return nil, err
		}
		if _, dup := m.columnIndex[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrInvalidColumn, name)
		}
		dt, err := source.ColumnType(i)
		if err != nil {
			return nil, err
		}
		m.columnNames[i] = name
		m.columnTypes[i] = dt
		m.columnIndex[name] = i
	}

	m.recompute()
	return m, nil
}

// recompute rebuilds the visible row and column index mappings.
// Callers must hold the write lock (or own the model exclusively).
func (m *TableModel) recompute() {
	m.visibleCols = m.visibleCols[:0]
	for i := range m.columnNames {
		if _, hidden := m.hiddenCols[i]; !hidden {
			m.visibleCols = append(m.visibleCols, i)
		}
	}

	rows := m.source.RowCount()
	m.visibleRows = m.visibleRows[:0]
	for r := 0; r < rows; r++ {
		if m.filter != nil {
			values, err := m.source.Row(r)
			if err != nil {
				continue
			}
			pass, err := m.filter.Evaluate(values, m.columnNames)
			// Rows the filter cannot evaluate stay visible rather than
			// silently disappearing.
			if err == nil && !pass {
				continue
			}
		}
		m.visibleRows = append(m.visibleRows, r)
	}

	if len(m.sortColumns) > 0 {
		sortCols := m.sortColumns
		sort.SliceStable(m.visibleRows, func(i, j int) bool {
			return m.compareRows(m.visibleRows[i], m.visibleRows[j], sortCols) < 0
		})
	}
}

// compareRows orders two source rows by the sort column list, highest
// priority first.
func (m *TableModel) compareRows(a, b int, sortCols []SortColumn) int {
	for _, sc := range sortCols {
		ci, ok := m.columnIndex[sc.Key]
		if !ok {
			continue
		}
		av, aerr := m.source.Cell(a, ci)
		bv, berr := m.source.Cell(b, ci)
		if aerr != nil || berr != nil {
			continue
		}
		c := av.Compare(bv)
		if c == 0 {
			continue
		}
		if sc.Direction == SortDescending {
			c = -c
		}
		return c
	}
	return 0
}

// OriginalRowCount returns the number of rows in the underlying source.
func (m *TableModel) OriginalRowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source.RowCount()
}

// OriginalColumnCount returns the number of columns in the underlying source.
func (m *TableModel) OriginalColumnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.columnNames)
}

// VisibleRowCount returns the number of rows after filtering.
func (m *TableModel) VisibleRowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.visibleRows)
}

// VisibleColumnCount returns the number of columns currently shown.
func (m *TableModel) VisibleColumnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.visibleCols)
}

// VisibleColumnName returns the name of the visible column at col.
func (m *TableModel) VisibleColumnName(col int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if col < 0 || col >= len(m.visibleCols) {
		return "", ErrInvalidColumn
	}
	return m.columnNames[m.visibleCols[col]], nil
}

// VisibleColumnType returns the data type of the visible column at col.
func (m *TableModel) VisibleColumnType(col int) (DataType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if col < 0 || col >= len(m.visibleCols) {
		return TypeString, ErrInvalidColumn
	}
	return m.columnTypes[m.visibleCols[col]], nil
}

// VisibleCell returns the value at the given visible row and column.
func (m *TableModel) VisibleCell(row, col int) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row < 0 || row >= len(m.visibleRows) {
		return Value{}, ErrInvalidRow
	}
	if col < 0 || col >= len(m.visibleCols) {
		return Value{}, ErrInvalidColumn
	}
	return m.source.Cell(m.visibleRows[row], m.visibleCols[col])
}

// VisibleRow returns the values of the given visible row, in visible column
// order.
func (m *TableModel) VisibleRow(row int) ([]Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row < 0 || row >= len(m.visibleRows) {
		return nil, ErrInvalidRow
	}
	values := make([]Value, len(m.visibleCols))
	for i, ci := range m.visibleCols {
		v, err := m.source.Cell(m.visibleRows[row], ci)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// SourceRow maps a visible row index back to its row index in the source.
// The source index is stable across filtering and sorting and identifies the
// row for selection and reconciliation purposes.
func (m *TableModel) SourceRow(row int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if row < 0 || row >= len(m.visibleRows) {
		return 0, ErrInvalidRow
	}
	return m.visibleRows[row], nil
}

// GetVisibleRowIndices returns the source indices of all visible rows in
// display order. The returned slice is a copy.
func (m *TableModel) GetVisibleRowIndices() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.visibleRows))
	copy(out, m.visibleRows)
	return out
}

// GetVisibleColumnIndices returns the source indices of all visible columns
// in display order. The returned slice is a copy.
func (m *TableModel) GetVisibleColumnIndices() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.visibleCols))
	copy(out, m.visibleCols)
	return out
}

// ColumnNames returns the names of all source columns in source order,
// including hidden ones.
func (m *TableModel) ColumnNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.columnNames))
	copy(out, m.columnNames)
	return out
}

// SetColumnVisible shows or hides the named column.
// Returns ErrColumnNotFound for unknown names.
func (m *TableModel) SetColumnVisible(name string, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.columnIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if visible {
		delete(m.hiddenCols, idx)
	} else {
		m.hiddenCols[idx] = struct{}{}
	}
	m.recompute()
	return nil
}

// IsColumnVisible reports whether the named column is currently shown.
// Returns ErrColumnNotFound for unknown names.
func (m *TableModel) IsColumnVisible(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.columnIndex[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	_, hidden := m.hiddenCols[idx]
	return !hidden, nil
}

// SetFilter installs a row filter and recomputes the visible rows.
// A nil filter shows every row.
func (m *TableModel) SetFilter(f Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
	m.recompute()
}

// ClearFilter removes the active filter.
func (m *TableModel) ClearFilter() {
	m.SetFilter(nil)
}

// Filter returns the active filter, or nil when none is set.
func (m *TableModel) Filter() Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// SetSortColumns replaces the sort column list and re-sorts the visible
// rows. The list is validated against the source columns first: every key
// must name a source column and no key may appear twice. The model stores a
// copy; the caller's slice stays untouched.
func (m *TableModel) SetSortColumns(list []SortColumn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := validateSortColumns(list, m.columnIndex); err != nil {
		return err
	}
	m.sortColumns = make([]SortColumn, len(list))
	copy(m.sortColumns, list)
	m.recompute()
	return nil
}

// SortColumns returns a copy of the current sort column list, in priority
// order. An empty result means the view is unsorted.
func (m *TableModel) SortColumns() []SortColumn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.sortColumns) == 0 {
		return nil
	}
	out := make([]SortColumn, len(m.sortColumns))
	copy(out, m.sortColumns)
	return out
}
