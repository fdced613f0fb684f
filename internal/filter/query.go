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

package filter

import (
	"fmt"
	"strings"

	"github.com/magpierre/fyne-datagrid/datagrid"
)

// ParseQuery parses a filter-bar expression like
//
//	name = "smith" AND age > 30 OR city ~ york
//
// into a datagrid.Filter. Expressions are comparisons in the form
// `column op value` using the operators =, !=, >, <, >=, <= and ~
// (contains), joined by AND/OR keywords (case-insensitive). Values may be
// quoted with single or double quotes. AND and OR have no precedence;
// operators apply left to right, so `a AND b OR c` reads `(a AND b) OR c`.
//
// A fragment with no recognized operator becomes a free-text Contains filter
// across all columns. A blank query returns a nil filter (show every row).
// Column names are validated against columnNames; unknown names return an
// error wrapping datagrid.ErrInvalidFilter.
func ParseQuery(query string, columnNames []string) (datagrid.Filter, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	parts := splitByLogicOps(query)

	var (
		filters []datagrid.Filter
		ops     []LogicOp
	)
	for _, part := range parts {
		if part.isOperator {
			if strings.EqualFold(part.text, "AND") {
				ops = append(ops, LogicAND)
			} else {
				ops = append(ops, LogicOR)
			}
			continue
		}
		f, err := parseExpression(part.text, columnNames)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	if len(filters) == 0 {
		return nil, fmt.Errorf("%w: empty query", datagrid.ErrInvalidFilter)
	}
	if len(ops) != len(filters)-1 {
		return nil, fmt.Errorf("%w: mismatched expressions and operators", datagrid.ErrInvalidFilter)
	}

	// Fold left to right: each operator combines the result so far with the
	// next expression, so mixed AND/OR groups as ((a AND b) OR c).
	result := filters[0]
	for i, op := range ops {
		if c, ok := result.(*Composite); ok && c.Logic == op {
			c.Filters = append(c.Filters, filters[i+1])
			continue
		}
		result = &Composite{Filters: []datagrid.Filter{result, filters[i+1]}, Logic: op}
	}
	return result, nil
}

type queryPart struct {
	text       string
	isOperator bool
}

// splitByLogicOps splits the query at AND/OR keywords while preserving the
// operators. Keywords only count at word boundaries, so a value like
// "android" is not split.
func splitByLogicOps(query string) []queryPart {
	parts := make([]queryPart, 0)
	current := ""
	i := 0

	flush := func() {
		if s := strings.TrimSpace(current); s != "" {
			parts = append(parts, queryPart{text: s})
		}
		current = ""
	}

	for i < len(query) {
		if i+3 <= len(query) && strings.EqualFold(query[i:i+3], "AND") {
			if (i == 0 || isWhitespace(query[i-1])) && (i+3 >= len(query) || isWhitespace(query[i+3])) {
				flush()
				parts = append(parts, queryPart{text: "AND", isOperator: true})
				i += 3
				continue
			}
		}

		if i+2 <= len(query) && strings.EqualFold(query[i:i+2], "OR") {
			if (i == 0 || isWhitespace(query[i-1])) && (i+2 >= len(query) || isWhitespace(query[i+2])) {
				flush()
				parts = append(parts, queryPart{text: "OR", isOperator: true})
				i += 2
				continue
			}
		}

		current += string(query[i])
		i++
	}
	flush()

	return parts
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseExpression parses a single `column op value` fragment. Operators are
// tried longest first so ">=" wins over ">" and "=".
func parseExpression(expr string, columnNames []string) (datagrid.Filter, error) {
	expr = strings.TrimSpace(expr)

	operators := []struct {
		op     CompOp
		symbol string
	}{
		{OpGreaterEqual, ">="},
		{OpLessEqual, "<="},
		{OpNotEqual, "!="},
		{OpEqual, "="},
		{OpGreater, ">"},
		{OpLess, "<"},
		{OpContains, "~"},
	}

	for _, opInfo := range operators {
		idx := strings.Index(expr, opInfo.symbol)
		if idx <= 0 {
			continue
		}

		column := strings.TrimSpace(expr[:idx])
		value := strings.TrimSpace(expr[idx+len(opInfo.symbol):])
		value = strings.Trim(value, "\"'")

		known := false
		for _, name := range columnNames {
			if strings.EqualFold(name, column) {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: unknown column %q", datagrid.ErrInvalidFilter, column)
		}

		return &Comparison{Column: column, Op: opInfo.op, Value: value}, nil
	}

	// No operator found: treat the fragment as free text across all columns.
	return &Contains{Term: expr}, nil
}
