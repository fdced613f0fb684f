package datagrid

// Filter decides whether a row stays visible. Implementations receive the
// full row in source column order together with the source column names, so
// they can address columns by name or by position.
type Filter interface {
	// Evaluate returns true when the row passes the filter.
	Evaluate(row []Value, columnNames []string) (bool, error)

	// Description returns a human-readable summary of the filter,
	// suitable for a status bar.
	Description() string
}
