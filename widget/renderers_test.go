package widget

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	fynewidget "fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// labelCell returns a CellRenderer producing a label with a fixed marker
// text, so tests can tell which renderer produced a cell.
func labelCell(marker string) CellRenderer {
	return func(CellContext) fyne.CanvasObject {
		return fynewidget.NewLabel(marker)
	}
}

func labelCheckbox(marker string) CheckboxRenderer {
	return func(CheckboxContext) fyne.CanvasObject {
		return fynewidget.NewLabel(marker)
	}
}

func labelFallback(marker string) FallbackRenderer {
	return func() fyne.CanvasObject {
		return fynewidget.NewLabel(marker)
	}
}

func labelSortStatus(marker string) SortStatusRenderer {
	return func(SortStatus) fyne.CanvasObject {
		return fynewidget.NewLabel(marker)
	}
}

// markerOf invokes a resolved cell renderer and returns its marker text.
func markerOf(t *testing.T, r CellRenderer) string {
	t.Helper()
	require.NotNil(t, r)
	label, ok := r(CellContext{}).(*fynewidget.Label)
	require.True(t, ok)
	return label.Text
}

func TestMergedLocalWins(t *testing.T) {
	local := Renderers{Cell: labelCell("local")}
	defaults := Renderers{Cell: labelCell("default")}

	merged := local.Merged(defaults)
	assert.Equal(t, "local", markerOf(t, merged.Cell))
}

func TestMergedFillsAbsentSlots(t *testing.T) {
	local := Renderers{Cell: labelCell("local")}
	defaults := Renderers{
		Cell:     labelCell("default"),
		Checkbox: labelCheckbox("default-check"),
	}

	merged := local.Merged(defaults)
	assert.Equal(t, "local", markerOf(t, merged.Cell))
	assert.NotNil(t, merged.Checkbox)
	assert.Nil(t, merged.NoRows)
	assert.Nil(t, merged.SortStatus)
}

// Each slot resolves on its own: overriding one leaves the other three
// following the defaults.
func TestMergedSlotsIndependent(t *testing.T) {
	defaults := Renderers{
		Cell:       labelCell("d"),
		Checkbox:   labelCheckbox("d"),
		NoRows:     labelFallback("d"),
		SortStatus: labelSortStatus("d"),
	}

	tests := []struct {
		name  string
		local Renderers
	}{
		{"cell", Renderers{Cell: labelCell("l")}},
		{"checkbox", Renderers{Checkbox: labelCheckbox("l")}},
		{"noRows", Renderers{NoRows: labelFallback("l")}},
		{"sortStatus", Renderers{SortStatus: labelSortStatus("l")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := tt.local.Merged(defaults)
			assert.NotNil(t, merged.Cell)
			assert.NotNil(t, merged.Checkbox)
			assert.NotNil(t, merged.NoRows)
			assert.NotNil(t, merged.SortStatus)
		})
	}
}

func TestMergedDoesNotMutateReceiver(t *testing.T) {
	local := Renderers{}
	defaults := Renderers{Cell: labelCell("default")}

	merged := local.Merged(defaults)
	assert.NotNil(t, merged.Cell)
	assert.Nil(t, local.Cell, "receiver must stay untouched")
}

func TestMergedBothAbsentStaysAbsent(t *testing.T) {
	merged := Renderers{}.Merged(Renderers{})
	assert.Nil(t, merged.Cell)
	assert.Nil(t, merged.Checkbox)
	assert.Nil(t, merged.NoRows)
	assert.Nil(t, merged.SortStatus)
}

func TestSetDefaultRenderersRestoreNesting(t *testing.T) {
	restoreOuter := SetDefaultRenderers(Renderers{Cell: labelCell("outer")})
	assert.Equal(t, "outer", markerOf(t, DefaultRenderers().Cell))

	restoreInner := SetDefaultRenderers(Renderers{Cell: labelCell("inner")})
	assert.Equal(t, "inner", markerOf(t, DefaultRenderers().Cell))

	restoreInner()
	assert.Equal(t, "outer", markerOf(t, DefaultRenderers().Cell))

	restoreOuter()
	assert.Nil(t, DefaultRenderers().Cell)
}

func TestResolveRenderersPrecedence(t *testing.T) {
	restore := SetDefaultRenderers(Renderers{
		Cell:     labelCell("ambient"),
		Checkbox: labelCheckbox("ambient"),
	})
	defer restore()

	g := &DataGrid{config: Config{
		Renderers: Renderers{Cell: labelCell("grid")},
	}}

	resolved := g.resolveRenderers()
	assert.Equal(t, "grid", markerOf(t, resolved.Cell))
	assert.NotNil(t, resolved.Checkbox)
	assert.Nil(t, resolved.NoRows)
	assert.Nil(t, resolved.SortStatus)
}

func TestCellContextKey(t *testing.T) {
	ctx := CellContext{Row: 3, SourceRow: 7, Column: Column{Key: "name"}}
	assert.Equal(t, "7/name", ctx.Key())
}

func TestBuiltinSortStatus(t *testing.T) {
	test.NewApp()

	tests := []struct {
		name   string
		status SortStatus
		want   string
	}{
		{"unsorted", SortStatus{Direction: datagrid.SortNone}, ""},
		{"single ascending", SortStatus{Direction: datagrid.SortAscending, Priority: 1, ActiveColumns: 1}, "↑"},
		{"single descending", SortStatus{Direction: datagrid.SortDescending, Priority: 1, ActiveColumns: 1}, "↓"},
		{"multi first", SortStatus{Direction: datagrid.SortAscending, Priority: 1, ActiveColumns: 2}, "↑1"},
		{"multi second", SortStatus{Direction: datagrid.SortDescending, Priority: 2, ActiveColumns: 2}, "↓2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, ok := builtinSortStatus(tt.status).(*fynewidget.Label)
			require.True(t, ok)
			assert.Equal(t, tt.want, label.Text)
		})
	}
}

func TestBuiltinCheckboxDoesNotFireOnBuild(t *testing.T) {
	test.NewApp()

	fired := 0
	obj := builtinCheckbox(CheckboxContext{
		Checked:   true,
		OnChanged: func(bool) { fired++ },
	})

	check, ok := obj.(*fynewidget.Check)
	require.True(t, ok)
	assert.True(t, check.Checked)
	assert.Zero(t, fired, "building the checkbox must not fire OnChanged")
}

func TestBuiltinCell(t *testing.T) {
	test.NewApp()

	value := datagrid.NewValue("hello", datagrid.TypeString)
	label, ok := builtinCell(CellContext{Value: value}).(*fynewidget.Label)
	require.True(t, ok)
	assert.Equal(t, "hello", label.Text)
}
