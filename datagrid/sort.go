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

import "fmt"

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "None"
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return fmt.Sprintf("Unknown(%d)", sd)
	}
}

// SortColumn is one entry of a sort column list: a column key together with
// the direction it is sorted in. Entries never carry SortNone; a column that
// is not sorted is simply absent from the list.
type SortColumn struct {
	// Key is the column key (the source column name).
	Key string
	// Direction is SortAscending or SortDescending.
	Direction SortDirection
}

// A sort column list ([]SortColumn) is ordered by priority: the entry at
// index i has priority i+1. The first entry is the primary sort column, the
// second breaks ties among equal primary values, and so on. A column key
// appears at most once in a list.

// ApplyHeaderClick computes the sort column list that results from clicking
// the header of the column identified by key. The multi flag reports whether
// the multi-sort modifier key was held during the click.
//
// Without the modifier the grid keeps at most one sorted column, cycling
// unsorted → ascending → descending → unsorted:
//   - if key is the sole entry sorted ascending, it flips to descending;
//   - if key is the sole entry sorted descending, the list becomes empty;
//   - otherwise the list is replaced by [{key, ascending}].
//
// With the modifier the click edits the existing list in priority order:
//   - a column not in the list is appended ascending with the next priority;
//   - a column sorted ascending flips to descending, keeping its priority;
//   - a column sorted descending is removed, and every later entry moves up
//     one priority.
//
// The input list is never modified; the result is freshly allocated. Callers
// are expected to guard against clicks on non-sortable columns themselves:
// ApplyHeaderClick trusts that key identifies a sortable column.
func ApplyHeaderClick(current []SortColumn, key string, multi bool) []SortColumn {
	if !multi {
		if len(current) == 1 && current[0].Key == key {
			switch current[0].Direction {
			case SortAscending:
				return []SortColumn{{Key: key, Direction: SortDescending}}
			case SortDescending:
				return nil
			}
		}
		return []SortColumn{{Key: key, Direction: SortAscending}}
	}

	idx := -1
	for i, sc := range current {
		if sc.Key == key {
			idx = i
			break
		}
	}

	if idx < 0 {
		next := make([]SortColumn, len(current), len(current)+1)
		copy(next, current)
		return append(next, SortColumn{Key: key, Direction: SortAscending})
	}

	if current[idx].Direction == SortAscending {
		next := make([]SortColumn, len(current))
		copy(next, current)
		next[idx].Direction = SortDescending
		return next
	}

	// Descending: drop the entry, later entries shift up one priority.
	if len(current) == 1 {
		return nil
	}
	next := make([]SortColumn, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	return next
}

// Priority returns the 1-based sort priority of key within list, or 0 when
// the column is not part of the list.
func Priority(list []SortColumn, key string) int {
	for i, sc := range list {
		if sc.Key == key {
			return i + 1
		}
	}
	return 0
}

// DirectionOf returns the direction key is sorted in, or SortNone when the
// column is not part of the list.
func DirectionOf(list []SortColumn, key string) SortDirection {
	for _, sc := range list {
		if sc.Key == key {
			return sc.Direction
		}
	}
	return SortNone
}

// validateSortColumns checks the list invariants: every key resolves to a
// source column and no key appears twice. Direction values other than
// ascending/descending are rejected as well.
func validateSortColumns(list []SortColumn, columnIndex map[string]int) error {
	seen := make(map[string]struct{}, len(list))
	for _, sc := range list {
		if _, ok := columnIndex[sc.Key]; !ok {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidSortColumn, sc.Key)
		}
		if _, dup := seen[sc.Key]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidSortColumn, sc.Key)
		}
		if sc.Direction != SortAscending && sc.Direction != SortDescending {
			return fmt.Errorf("%w: column %q has direction %s", ErrInvalidSortColumn, sc.Key, sc.Direction)
		}
		seen[sc.Key] = struct{}{}
	}
	return nil
}
