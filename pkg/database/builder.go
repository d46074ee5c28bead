package database

import (
	"strconv"
	"strings"
)

// Column is one (column, value) pair.
type Column struct {
	Name  string
	Value interface{}
}

// Columns is an ordered attribute bag. Clause builders render pairs in slice order.
type Columns []Column

// Names lists the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// Values lists the column values in order.
func (c Columns) Values() []interface{} {
	values := make([]interface{}, len(c))
	for i, col := range c {
		values[i] = col.Value
	}
	return values
}

// Get returns the value stored for name.
func (c Columns) Get(name string) (interface{}, bool) {
	for _, col := range c {
		if col.Name == name {
			return col.Value, true
		}
	}
	return nil, false
}

// With returns a copy where name is set to value, replacing an existing pair in place.
func (c Columns) With(name string, value interface{}) Columns {
	out := make(Columns, 0, len(c)+1)
	replaced := false
	for _, col := range c {
		if col.Name == name {
			out = append(out, Column{Name: name, Value: value})
			replaced = true
			continue
		}
		out = append(out, col)
	}
	if !replaced {
		out = append(out, Column{Name: name, Value: value})
	}
	return out
}

// Without returns a copy omitting the named columns.
func (c Columns) Without(names ...string) Columns {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := make(Columns, 0, len(c))
	for _, col := range c {
		if _, ok := skip[col.Name]; ok {
			continue
		}
		out = append(out, col)
	}
	return out
}

// Placeholder renders the n-th positional parameter.
func Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Where renders an AND-joined equality clause numbering parameters from start.
// An empty bag yields an empty clause.
func Where(cols Columns, start int) (string, []interface{}) {
	return join(cols, start, " = ", " AND ")
}

// Assignments renders a SET list numbering parameters from start.
func Assignments(cols Columns, start int) (string, []interface{}) {
	return join(cols, start, " = ", ", ")
}

// DistinctFrom renders a predicate that holds when any column differs from its
// parameter. Parameters are numbered from start, matching Assignments.
func DistinctFrom(cols Columns, start int) string {
	clause, _ := join(cols, start, " IS DISTINCT FROM ", " OR ")
	if clause == "" {
		return ""
	}
	return "(" + clause + ")"
}

// Insert renders a fully enumerated INSERT with an optional RETURNING column.
func Insert(table string, cols Columns, returning string) (string, []interface{}) {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = Placeholder(i + 1)
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols.Names(), ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(placeholders, ", "))
	sb.WriteString(")")
	if returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(returning)
	}
	return sb.String(), cols.Values()
}

func join(cols Columns, start int, op, sep string) (string, []interface{}) {
	if len(cols) == 0 {
		return "", nil
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col.Name + op + Placeholder(start+i)
	}
	return strings.Join(parts, sep), cols.Values()
}
