/*
 * table.go, part of golmp.
 *
 * Copyright 2026 The golmp authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package lmp

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ColumnType is the inferred type of a whole column.
type ColumnType int

const (
	Integer ColumnType = iota
	Float
	String
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "int"
	case Float:
		return "float"
	case String:
		return "str"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// Column is a named, typed vector. Only the slice matching the type is used.
type Column struct {
	name   string
	typ    ColumnType
	ints   []int64
	floats []float64
	strs   []string
}

func NewIntColumn(name string, data []int64) *Column {
	return &Column{name: name, typ: Integer, ints: data}
}

func NewFloatColumn(name string, data []float64) *Column {
	return &Column{name: name, typ: Float, floats: data}
}

func NewStringColumn(name string, data []string) *Column {
	return &Column{name: name, typ: String, strs: data}
}

func (C *Column) Name() string { return C.name }

func (C *Column) Type() ColumnType { return C.typ }

// Numeric is true for Integer and Float columns.
func (C *Column) Numeric() bool { return C.typ != String }

func (C *Column) Len() int {
	switch C.typ {
	case Integer:
		return len(C.ints)
	case Float:
		return len(C.floats)
	}
	return len(C.strs)
}

// Int returns the ith value of an Integer column. It panics for other types.
func (C *Column) Int(i int) int64 {
	if C.typ != Integer {
		panic(fmt.Sprintf("golmp: column %s is %s, not int", C.name, C.typ))
	}
	return C.ints[i]
}

// Float returns the ith value as a float64. Integer values are converted.
// It panics for String columns.
func (C *Column) Float(i int) float64 {
	switch C.typ {
	case Integer:
		return float64(C.ints[i])
	case Float:
		return C.floats[i]
	}
	panic(fmt.Sprintf("golmp: column %s is str, not numeric", C.name))
}

// Str returns the ith value formatted as text. String columns return the
// token verbatim.
func (C *Column) Str(i int) string {
	switch C.typ {
	case Integer:
		return strconv.FormatInt(C.ints[i], 10)
	case Float:
		return strconv.FormatFloat(C.floats[i], 'g', -1, 64)
	}
	return C.strs[i]
}

// Value returns the ith value as int64, float64 or string.
func (C *Column) Value(i int) any {
	switch C.typ {
	case Integer:
		return C.ints[i]
	case Float:
		return C.floats[i]
	}
	return C.strs[i]
}

// Ints returns the underlying data of an Integer column, nil otherwise.
func (C *Column) Ints() []int64 { return C.ints }

// Strings returns the underlying data of a String column, nil otherwise.
func (C *Column) Strings() []string { return C.strs }

// Floats returns the values of a numeric column as float64. For Float columns
// the underlying slice is returned, not a copy. It returns nil for String columns.
func (C *Column) Floats() []float64 {
	switch C.typ {
	case Float:
		return C.floats
	case Integer:
		ret := make([]float64, len(C.ints))
		for i, v := range C.ints {
			ret[i] = float64(v)
		}
		return ret
	}
	return nil
}

// Clone returns a deep copy of the column with the given name, or the
// same name if none is given.
func (C *Column) Clone(name ...string) *Column {
	ret := &Column{name: C.name, typ: C.typ}
	if len(name) > 0 {
		ret.name = name[0]
	}
	ret.ints = append([]int64(nil), C.ints...)
	ret.floats = append([]float64(nil), C.floats...)
	ret.strs = append([]string(nil), C.strs...)
	return ret
}

// take returns a new column with the rows listed in idx, in that order.
func (C *Column) take(idx []int, name string) *Column {
	ret := &Column{name: name, typ: C.typ}
	switch C.typ {
	case Integer:
		ret.ints = make([]int64, len(idx))
		for i, j := range idx {
			ret.ints[i] = C.ints[j]
		}
	case Float:
		ret.floats = make([]float64, len(idx))
		for i, j := range idx {
			ret.floats[i] = C.floats[j]
		}
	default:
		ret.strs = make([]string, len(idx))
		for i, j := range idx {
			ret.strs[i] = C.strs[j]
		}
	}
	return ret
}

// Table is a set of uniquely named columns of the same length, in insertion order.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable builds a table from the given columns. All columns must have
// the same length and different names.
func NewTable(cols ...*Column) (*Table, error) {
	T := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			T.rows = c.Len()
		} else if c.Len() != T.rows {
			return nil, NewError(WrongFormat, "", fmt.Sprintf("column %s has %d rows, expected %d", c.name, c.Len(), T.rows), "NewTable")
		}
		if _, ok := T.index[c.name]; ok {
			return nil, NewError(WrongFormat, "", fmt.Sprintf("duplicated column name %s", c.name), "NewTable")
		}
		T.index[c.name] = i
		T.cols = append(T.cols, c)
	}
	return T, nil
}

// Len returns the number of rows.
func (T *Table) Len() int { return T.rows }

// Width returns the number of columns.
func (T *Table) Width() int { return len(T.cols) }

// Names returns the column names in order.
func (T *Table) Names() []string {
	ret := make([]string, len(T.cols))
	for i, c := range T.cols {
		ret[i] = c.name
	}
	return ret
}

// Has is true if the table has a column with that name.
func (T *Table) Has(name string) bool {
	_, ok := T.index[name]
	return ok
}

// Column returns the column with the given name.
func (T *Table) Column(name string) (*Column, error) {
	i, ok := T.index[name]
	if !ok {
		return nil, NewError(WrongFormat, "", fmt.Sprintf("no column named %s", name), "Table.Column")
	}
	return T.cols[i], nil
}

// ColumnAt returns the ith column. It panics if i is out of range.
func (T *Table) ColumnAt(i int) *Column { return T.cols[i] }

// Replace puts col in place of the column with the same name, keeping
// its position.
func (T *Table) Replace(col *Column) error {
	i, ok := T.index[col.name]
	if !ok {
		return NewError(WrongFormat, "", fmt.Sprintf("no column named %s", col.name), "Table.Replace")
	}
	if col.Len() != T.rows {
		return NewError(WrongFormat, "", fmt.Sprintf("column %s has %d rows, expected %d", col.name, col.Len(), T.rows), "Table.Replace")
	}
	T.cols[i] = col
	return nil
}

// Rename changes the name of a column.
func (T *Table) Rename(old, name string) error {
	i, ok := T.index[old]
	if !ok {
		return NewError(WrongFormat, "", fmt.Sprintf("no column named %s", old), "Table.Rename")
	}
	if _, ok := T.index[name]; ok && name != old {
		return NewError(WrongFormat, "", fmt.Sprintf("column %s already exists", name), "Table.Rename")
	}
	delete(T.index, old)
	c := *T.cols[i]
	c.name = name
	T.cols[i] = &c
	T.index[name] = i
	return nil
}

// Select returns a new table sharing the named columns, in the given order.
func (T *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := T.Column(n)
		if err != nil {
			return nil, Decorate(err, "Table.Select")
		}
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

// Clone returns a deep copy of the table.
func (T *Table) Clone() *Table {
	ret := &Table{index: make(map[string]int, len(T.cols)), rows: T.rows}
	for i, c := range T.cols {
		ret.cols = append(ret.cols, c.Clone())
		ret.index[c.name] = i
	}
	return ret
}

// Dense returns the named numeric columns as a Len() x len(names) matrix.
func (T *Table) Dense(names ...string) (*mat.Dense, error) {
	if T.rows == 0 || len(names) == 0 {
		return nil, NewError(EmptyColumnSet, "", "no data to put in a matrix", "Table.Dense")
	}
	ret := mat.NewDense(T.rows, len(names), nil)
	for j, n := range names {
		c, err := T.Column(n)
		if err != nil {
			return nil, Decorate(err, "Table.Dense")
		}
		if !c.Numeric() {
			return nil, NewError(WrongFormat, "", fmt.Sprintf("column %s is not numeric", n), "Table.Dense")
		}
		ret.SetCol(j, c.Floats())
	}
	return ret, nil
}

// InnerJoin returns the rows of T and right whose values in the key column
// are equal. The result has all the columns of T followed by the columns of
// right other than key. Names already present in T get suffix appended.
// Rows keep the order of T, and, for repeated keys, the order of right.
func (T *Table) InnerJoin(right *Table, key, suffix string) (*Table, error) {
	lk, err := T.Column(key)
	if err != nil {
		return nil, Decorate(err, "Table.InnerJoin")
	}
	rk, err := right.Column(key)
	if err != nil {
		return nil, Decorate(err, "Table.InnerJoin")
	}
	if lk.Numeric() != rk.Numeric() {
		return nil, NewError(WrongFormat, "", fmt.Sprintf("key %s is %s on one side and %s on the other", key, lk.typ, rk.typ), "Table.InnerJoin")
	}
	lookup := make(map[any][]int, rk.Len())
	for i := 0; i < rk.Len(); i++ {
		k := joinKey(rk, i)
		lookup[k] = append(lookup[k], i)
	}
	var lidx, ridx []int
	for i := 0; i < lk.Len(); i++ {
		for _, j := range lookup[joinKey(lk, i)] {
			lidx = append(lidx, i)
			ridx = append(ridx, j)
		}
	}
	cols := make([]*Column, 0, T.Width()+right.Width()-1)
	for _, c := range T.cols {
		cols = append(cols, c.take(lidx, c.name))
	}
	for _, c := range right.cols {
		if c.name == key {
			continue
		}
		name := c.name
		if T.Has(name) {
			name += suffix
		}
		cols = append(cols, c.take(ridx, name))
	}
	ret, err := NewTable(cols...)
	if err != nil {
		return nil, Decorate(err, "Table.InnerJoin")
	}
	ret.rows = len(lidx)
	return ret, nil
}

// joinKey allows Integer and Float keys to match each other.
func joinKey(c *Column, i int) any {
	switch c.typ {
	case Integer:
		return float64(c.ints[i])
	case Float:
		return c.floats[i]
	}
	return c.strs[i]
}

// String returns the table as whitespace-separated text, header first.
func (T *Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(T.Names(), " "))
	b.WriteByte('\n')
	row := make([]string, len(T.cols))
	for i := 0; i < T.rows; i++ {
		for j, c := range T.cols {
			row[j] = c.Str(i)
		}
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
