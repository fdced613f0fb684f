package datagrid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is a minimal in-memory DataSource for model tests.
type memSource struct {
	headers []string
	types   []DataType
	rows    [][]interface{}
}

func (s *memSource) RowCount() int    { return len(s.rows) }
func (s *memSource) ColumnCount() int { return len(s.headers) }

func (s *memSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.headers) {
		return "", ErrInvalidColumn
	}
	return s.headers[col], nil
}

func (s *memSource) ColumnType(col int) (DataType, error) {
	if col < 0 || col >= len(s.types) {
		return TypeString, ErrInvalidColumn
	}
	return s.types[col], nil
}

func (s *memSource) Cell(row, col int) (Value, error) {
	if row < 0 || row >= len(s.rows) {
		return Value{}, ErrInvalidRow
	}
	if col < 0 || col >= len(s.headers) {
		return Value{}, ErrInvalidColumn
	}
	return NewValue(s.rows[row][col], s.types[col]), nil
}

func (s *memSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, ErrInvalidRow
	}
	values := make([]Value, len(s.headers))
	for c := range s.headers {
		values[c] = NewValue(s.rows[row][c], s.types[c])
	}
	return values, nil
}

func (s *memSource) Metadata() Metadata { return Metadata{} }

// containsFilter keeps rows where any cell contains the term.
type containsFilter struct{ term string }

func (f containsFilter) Evaluate(row []Value, _ []string) (bool, error) {
	for _, v := range row {
		if strings.Contains(v.Formatted, f.term) {
			return true, nil
		}
	}
	return false, nil
}

func (f containsFilter) Description() string { return "contains " + f.term }

func peopleSource() *memSource {
	return &memSource{
		headers: []string{"name", "age", "city"},
		types:   []DataType{TypeString, TypeInt, TypeString},
		rows: [][]interface{}{
			{"ada", 36, "london"},
			{"bob", 25, "paris"},
			{"eve", 41, "oslo"},
			{"kim", 25, "athens"},
		},
	}
}

func newPeopleModel(t *testing.T) *TableModel {
	t.Helper()
	model, err := NewTableModel(peopleSource())
	require.NoError(t, err)
	return model
}

// visibleColumn returns the formatted values of one visible column, top to
// bottom.
func visibleColumn(t *testing.T, m *TableModel, col int) []string {
	t.Helper()
	out := make([]string, 0, m.VisibleRowCount())
	for r := 0; r < m.VisibleRowCount(); r++ {
		v, err := m.VisibleCell(r, col)
		require.NoError(t, err)
		out = append(out, v.Formatted)
	}
	return out
}

func TestNewTableModel(t *testing.T) {
	m := newPeopleModel(t)

	assert.Equal(t, 4, m.OriginalRowCount())
	assert.Equal(t, 3, m.OriginalColumnCount())
	assert.Equal(t, 4, m.VisibleRowCount())
	assert.Equal(t, 3, m.VisibleColumnCount())
	assert.Equal(t, []string{"name", "age", "city"}, m.ColumnNames())
}

func TestNewTableModelNilSource(t *testing.T) {
	_, err := NewTableModel(nil)
	assert.ErrorIs(t, err, ErrNoDataSource)
}

func TestNewTableModelDuplicateColumns(t *testing.T) {
	_, err := NewTableModel(&memSource{
		headers: []string{"a", "a"},
		types:   []DataType{TypeString, TypeString},
	})
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestSetSortColumnsSingle(t *testing.T) {
	m := newPeopleModel(t)

	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortAscending}}))
	assert.Equal(t, []string{"bob", "kim", "ada", "eve"}, visibleColumn(t, m, 0))

	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortDescending}}))
	assert.Equal(t, []string{"eve", "ada", "bob", "kim"}, visibleColumn(t, m, 0))

	require.NoError(t, m.SetSortColumns(nil))
	assert.Equal(t, []string{"ada", "bob", "eve", "kim"}, visibleColumn(t, m, 0), "source order when unsorted")
}

func TestSetSortColumnsMultiColumn(t *testing.T) {
	m := newPeopleModel(t)

	// age ties between bob and kim break on the secondary name column.
	require.NoError(t, m.SetSortColumns([]SortColumn{
		{Key: "age", Direction: SortAscending},
		{Key: "name", Direction: SortDescending},
	}))
	assert.Equal(t, []string{"kim", "bob", "ada", "eve"}, visibleColumn(t, m, 0))
}

func TestSortIsStable(t *testing.T) {
	m := newPeopleModel(t)

	// bob and kim share age 25; with no tie-breaker their source order
	// must hold.
	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortAscending}}))
	assert.Equal(t, []string{"bob", "kim", "ada", "eve"}, visibleColumn(t, m, 0))
}

func TestSetSortColumnsValidation(t *testing.T) {
	m := newPeopleModel(t)

	err := m.SetSortColumns([]SortColumn{{Key: "salary", Direction: SortAscending}})
	assert.ErrorIs(t, err, ErrInvalidSortColumn)

	err = m.SetSortColumns([]SortColumn{
		{Key: "age", Direction: SortAscending},
		{Key: "age", Direction: SortDescending},
	})
	assert.ErrorIs(t, err, ErrInvalidSortColumn)

	err = m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortNone}})
	assert.ErrorIs(t, err, ErrInvalidSortColumn)

	// Failed updates leave the model unsorted.
	assert.Empty(t, m.SortColumns())
	assert.Equal(t, []string{"ada", "bob", "eve", "kim"}, visibleColumn(t, m, 0))
}

func TestSortColumnsReturnsCopy(t *testing.T) {
	m := newPeopleModel(t)
	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortAscending}}))

	got := m.SortColumns()
	got[0] = SortColumn{Key: "name", Direction: SortDescending}

	assert.Equal(t, []SortColumn{{Key: "age", Direction: SortAscending}}, m.SortColumns(),
		"mutating the returned slice must not touch the model")
}

func TestSetSortColumnsCopiesInput(t *testing.T) {
	m := newPeopleModel(t)

	list := []SortColumn{{Key: "age", Direction: SortAscending}}
	require.NoError(t, m.SetSortColumns(list))
	list[0] = SortColumn{Key: "name", Direction: SortDescending}

	assert.Equal(t, []SortColumn{{Key: "age", Direction: SortAscending}}, m.SortColumns())
}

func TestFilterAndClear(t *testing.T) {
	m := newPeopleModel(t)

	// ada (london), bob, eve (oslo) contain an "o"; kim/athens does not.
	m.SetFilter(containsFilter{term: "o"})
	assert.Equal(t, 3, m.VisibleRowCount())
	assert.Equal(t, 4, m.OriginalRowCount())

	m.ClearFilter()
	assert.Equal(t, 4, m.VisibleRowCount())
	assert.Nil(t, m.Filter())
}

func TestFilterAppliesBeforeSort(t *testing.T) {
	m := newPeopleModel(t)

	// ada, bob (paris) and kim (athens) contain an "a"; eve/oslo does not.
	m.SetFilter(containsFilter{term: "a"})
	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortDescending}}))

	assert.Equal(t, []string{"ada", "bob", "kim"}, visibleColumn(t, m, 0))
}

func TestSourceRowSurvivesFilterAndSort(t *testing.T) {
	m := newPeopleModel(t)

	m.SetFilter(containsFilter{term: "25"})
	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "name", Direction: SortDescending}}))

	// Visible order: kim (source 3), bob (source 1).
	src, err := m.SourceRow(0)
	require.NoError(t, err)
	assert.Equal(t, 3, src)

	src, err = m.SourceRow(1)
	require.NoError(t, err)
	assert.Equal(t, 1, src)

	_, err = m.SourceRow(2)
	assert.ErrorIs(t, err, ErrInvalidRow)

	assert.Equal(t, []int{3, 1}, m.GetVisibleRowIndices())
}

func TestColumnVisibility(t *testing.T) {
	m := newPeopleModel(t)

	require.NoError(t, m.SetColumnVisible("age", false))
	assert.Equal(t, 2, m.VisibleColumnCount())

	name, err := m.VisibleColumnName(1)
	require.NoError(t, err)
	assert.Equal(t, "city", name, "columns after the hidden one move left")

	visible, err := m.IsColumnVisible("age")
	require.NoError(t, err)
	assert.False(t, visible)

	// Hidden columns still participate in sorting by key.
	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "age", Direction: SortAscending}}))
	assert.Equal(t, []string{"bob", "kim", "ada", "eve"}, visibleColumn(t, m, 0))

	require.NoError(t, m.SetColumnVisible("age", true))
	assert.Equal(t, 3, m.VisibleColumnCount())
	assert.Equal(t, []int{0, 1, 2}, m.GetVisibleColumnIndices())

	err = m.SetColumnVisible("salary", false)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	_, err = m.IsColumnVisible("salary")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestVisibleAccessorBounds(t *testing.T) {
	m := newPeopleModel(t)

	_, err := m.VisibleCell(99, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = m.VisibleCell(0, 99)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = m.VisibleColumnName(-1)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = m.VisibleColumnType(3)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = m.VisibleRow(4)
	assert.ErrorIs(t, err, ErrInvalidRow)
}

func TestVisibleRowHonorsHiddenColumns(t *testing.T) {
	m := newPeopleModel(t)
	require.NoError(t, m.SetColumnVisible("age", false))

	row, err := m.VisibleRow(0)
	require.NoError(t, err)
	require.Len(t, row, 2)
	assert.Equal(t, "ada", row[0].Formatted)
	assert.Equal(t, "london", row[1].Formatted)
}

func TestNullsSortAfterValues(t *testing.T) {
	source := &memSource{
		headers: []string{"n"},
		types:   []DataType{TypeInt},
		rows:    [][]interface{}{{nil}, {2}, {nil}, {1}},
	}
	m, err := NewTableModel(source)
	require.NoError(t, err)

	require.NoError(t, m.SetSortColumns([]SortColumn{{Key: "n", Direction: SortAscending}}))
	assert.Equal(t, []string{"1", "2", "", ""}, visibleColumn(t, m, 0))
}
