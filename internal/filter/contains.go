package filter

import (
	"fmt"
	"strings"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// Contains is a free-text filter matching rows where any cell's formatted
// value contains the search term, case-insensitively. It is the filter bar's
// fallback when an expression does not parse as a query.
type Contains struct {
	// Term is the text to search for.
	Term string
}

// Evaluate implements the datagrid.Filter interface.
func (f *Contains) Evaluate(row []datagrid.Value, columnNames []string) (bool, error) {
	term := strings.ToLower(f.Term)
	if term == "" {
		return true, nil
	}
	for _, cell := range row {
		if cell.IsNull {
			continue
		}
		if strings.Contains(strings.ToLower(cell.Formatted), term) {
			return true, nil
		}
	}
	return false, nil
}

// Description implements the datagrid.Filter interface.
func (f *Contains) Description() string {
	return fmt.Sprintf("contains %q", f.Term)
}
