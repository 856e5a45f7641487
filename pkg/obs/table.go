// Package obs provides the per-cell observation table shared by all
// pipeline stages.
//
// Tables are column-oriented and keyed by a unique string index. Every
// transforming method returns a new table, the receiver is never
// changed, so stages can pass tables downstream by reference.
// This is a pure package, it has no I/O.
package obs

import (
	"slices"
)

// Table is an observation table with ordered columns and a unique
// row index.
type Table struct {
	index   []string
	pos     map[string]int
	columns []string
	data    map[string][]Value
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	res := &Table{
		pos:  make(map[string]int),
		data: make(map[string][]Value),
	}
	for _, c := range columns {
		if _, ok := res.data[c]; ok {
			continue
		}
		res.columns = append(res.columns, c)
		res.data[c] = nil
	}
	return res
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Index returns a copy of the row index.
func (t *Table) Index() []string {
	return slices.Clone(t.index)
}

// Row returns the position of a row id.
func (t *Table) Row(id string) (int, bool) {
	i, ok := t.pos[id]
	return i, ok
}

// Column returns a copy of the column values.
func (t *Table) Column(name string) ([]Value, bool) {
	vals, ok := t.data[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(vals), true
}

// Value returns the value at row i of the column, missing if the column
// does not exist.
func (t *Table) Value(i int, column string) Value {
	vals, ok := t.data[column]
	if !ok {
		return Missing
	}
	return vals[i]
}

// Append adds a row. Values are matched to columns by name, columns
// absent from vals get missing values. Unknown columns and duplicate
// ids are errors.
func (t *Table) Append(id string, vals map[string]Value) error {
	if _, ok := t.pos[id]; ok {
		return DuplicateIndexError(id)
	}
	for k := range vals {
		if _, ok := t.data[k]; !ok {
			return MissingColumnError(k)
		}
	}
	t.pos[id] = len(t.index)
	t.index = append(t.index, id)
	for _, c := range t.columns {
		t.data[c] = append(t.data[c], vals[c])
	}
	return nil
}

// AppendRow adds a row with values in column order.
func (t *Table) AppendRow(id string, vals ...Value) error {
	if len(vals) != len(t.columns) {
		return RowLengthError(id, len(vals), len(t.columns))
	}
	if _, ok := t.pos[id]; ok {
		return DuplicateIndexError(id)
	}
	t.pos[id] = len(t.index)
	t.index = append(t.index, id)
	for i, c := range t.columns {
		t.data[c] = append(t.data[c], vals[i])
	}
	return nil
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	res := &Table{
		index:   slices.Clone(t.index),
		pos:     make(map[string]int, len(t.index)),
		columns: slices.Clone(t.columns),
		data:    make(map[string][]Value, len(t.columns)),
	}
	for k, v := range t.pos {
		res.pos[k] = v
	}
	for _, c := range t.columns {
		res.data[c] = slices.Clone(t.data[c])
	}
	return res
}

// WithColumn returns a copy with the column added or replaced.
func (t *Table) WithColumn(name string, vals []Value) (*Table, error) {
	if len(vals) != t.Len() {
		return nil, ColumnLengthError(name, len(vals), t.Len())
	}
	res := t.Copy()
	if _, ok := res.data[name]; !ok {
		res.columns = append(res.columns, name)
	}
	res.data[name] = slices.Clone(vals)
	return res, nil
}

// Drop returns a copy without the given columns. Unknown names are
// ignored.
func (t *Table) Drop(names ...string) *Table {
	res := t.Copy()
	for _, n := range names {
		if _, ok := res.data[n]; !ok {
			continue
		}
		delete(res.data, n)
		res.columns = slices.DeleteFunc(res.columns, func(c string) bool {
			return c == n
		})
	}
	return res
}

// Filter returns a copy with the rows for which keep is true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	res := New(t.columns...)
	for i, id := range t.index {
		if !keep(i) {
			continue
		}
		res.pos[id] = len(res.index)
		res.index = append(res.index, id)
		for _, c := range t.columns {
			res.data[c] = append(res.data[c], t.data[c][i])
		}
	}
	return res
}

// Select returns a copy with rows taken by position, in the given order.
func (t *Table) Select(rows []int) (*Table, error) {
	res := New(t.columns...)
	for _, i := range rows {
		id := t.index[i]
		if _, ok := res.pos[id]; ok {
			return nil, DuplicateIndexError(id)
		}
		res.pos[id] = len(res.index)
		res.index = append(res.index, id)
		for _, c := range t.columns {
			res.data[c] = append(res.data[c], t.data[c][i])
		}
	}
	return res, nil
}

// Distinct returns non-missing stringified values of a column in the
// order of their first appearance.
func (t *Table) Distinct(column string) []string {
	vals, ok := t.data[column]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var res []string
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		res = append(res, s)
	}
	return res
}

// GroupBy returns sorted keys of non-missing column values and the row
// positions of each group. Rows with a missing key are left out.
func (t *Table) GroupBy(column string) ([]string, map[string][]int, error) {
	vals, ok := t.data[column]
	if !ok {
		return nil, nil, MissingColumnError(column)
	}
	groups := make(map[string][]int)
	for i, v := range vals {
		if v.IsMissing() {
			continue
		}
		k := v.String()
		groups[k] = append(groups[k], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, groups, nil
}

// Concat stacks tables vertically. The result has the union of
// columns in order of first appearance; cells of columns a table does
// not have are missing. Duplicate ids across tables are an error.
func Concat(tables ...*Table) (*Table, error) {
	var columns []string
	for _, t := range tables {
		columns = append(columns, t.columns...)
	}
	res := New(columns...)
	for _, t := range tables {
		for i, id := range t.index {
			if _, ok := res.pos[id]; ok {
				return nil, DuplicateIndexError(id)
			}
			res.pos[id] = len(res.index)
			res.index = append(res.index, id)
			for _, c := range res.columns {
				v := Missing
				if vals, ok := t.data[c]; ok {
					v = vals[i]
				}
				res.data[c] = append(res.data[c], v)
			}
		}
	}
	return res, nil
}
