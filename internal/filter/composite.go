// Package filter provides row filter implementations for the datagrid model:
// typed column comparisons, free-text matching and logical composition, plus
// a small parser for filter-bar expressions.
package filter

import (
	"fmt"
	"strings"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// Composite combines multiple filters with AND or OR logic.
// Evaluation short-circuits as soon as the outcome is decided.
type Composite struct {
	// Filters is the list of filters to combine.
	Filters []datagrid.Filter

	// Logic specifies how to combine the filters (AND or OR).
	Logic LogicOp
}

// And combines the given filters so a row must pass all of them.
func And(filters ...datagrid.Filter) *Composite {
	return &Composite{Filters: filters, Logic: LogicAND}
}

// Or combines the given filters so a row must pass at least one of them.
func Or(filters ...datagrid.Filter) *Composite {
	return &Composite{Filters: filters, Logic: LogicOR}
}

// Evaluate implements the datagrid.Filter interface.
func (f *Composite) Evaluate(row []datagrid.Value, columnNames []string) (bool, error) {
	if len(f.Filters) == 0 {
		return true, nil // Empty filter passes all rows
	}

	switch f.Logic {
	case LogicAND:
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row, columnNames)
			if err != nil {
				return false, err
			}
			if !passes {
				return false, nil // Short-circuit on first failure
			}
		}
		return true, nil

	case LogicOR:
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row, columnNames)
			if err != nil {
				return false, err
			}
			if passes {
				return true, nil // Short-circuit on first success
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("%w: unknown logic operator %d", datagrid.ErrInvalidFilter, f.Logic)
	}
}

// Description implements the datagrid.Filter interface.
func (f *Composite) Description() string {
	if len(f.Filters) == 0 {
		return "empty filter"
	}

	descriptions := make([]string, len(f.Filters))
	for i, filter := range f.Filters {
		descriptions[i] = filter.Description()
	}

	logicStr := f.Logic.String()
	return "(" + strings.Join(descriptions, " "+logicStr+" ") + ")"
}
