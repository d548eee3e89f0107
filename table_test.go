/*
 * table_test.go, part of golmp.
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
	"errors"
	"fmt"
	"testing"
)

func TestColumnInference(Te *testing.T) {
	header := []string{"i", "f", "s"}
	rows := [][]string{
		{"1", "1", "1"},
		{"2", "2.5", "a"},
		{"3", "3", "2"},
	}
	T, err := Assemble(header, rows)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println(T)
	want := map[string]ColumnType{"i": Integer, "f": Float, "s": String}
	for name, typ := range want {
		c, err := T.Column(name)
		if err != nil {
			Te.Fatal(err)
		}
		if c.Type() != typ {
			Te.Errorf("column %s: got %s, expected %s", name, c.Type(), typ)
		}
	}
	s, _ := T.Column("s")
	if s.Str(0) != "1" || s.Str(1) != "a" {
		Te.Errorf("string column should keep tokens verbatim, got %v", s.Strings())
	}
	f, _ := T.Column("f")
	if f.Float(1) != 2.5 || f.Float(0) != 1 {
		Te.Errorf("wrong float column %v", f.Floats())
	}
	if T.Len() != 3 || T.Width() != 3 {
		Te.Errorf("wrong shape %d x %d", T.Len(), T.Width())
	}
}

func TestAssembleOrderAndNames(Te *testing.T) {
	T, err := Assemble([]string{"z", "a", "z"}, [][]string{{"1", "2", "3"}})
	if err != nil {
		Te.Fatal(err)
	}
	names := T.Names()
	if fmt.Sprint(names) != "[z a z_1]" {
		Te.Errorf("unexpected names %v", names)
	}
}

func TestAssembleEmpty(Te *testing.T) {
	_, err := Assemble([]string{"a"}, nil)
	if !errors.Is(err, EmptyColumnSet) {
		Te.Errorf("expected EmptyColumnSet, got %v", err)
	}
	_, err = Assemble([]string{"a", "b"}, [][]string{{"1"}})
	if !errors.Is(err, WrongFormat) {
		Te.Errorf("expected WrongFormat, got %v", err)
	}
}

func TestFloatOnlyParsers(Te *testing.T) {
	A := Assembler{Parsers: []Parser{FloatParser}, Workers: 1}
	T, err := A.Assemble([]string{"Step", "Temp"}, [][]string{{"0", "1.5"}, {"10", "1.6"}})
	if err != nil {
		Te.Fatal(err)
	}
	for _, n := range T.Names() {
		c, _ := T.Column(n)
		if c.Type() != Float {
			Te.Errorf("column %s should be float, is %s", n, c.Type())
		}
	}
	_, err = A.Assemble([]string{"a"}, [][]string{{"x"}})
	if !errors.Is(err, WrongFormat) {
		Te.Errorf("expected WrongFormat for a non numeric column, got %v", err)
	}
}

func TestInnerJoin(Te *testing.T) {
	left, _ := NewTable(NewIntColumn("id", []int64{3, 1, 2, 7}), NewFloatColumn("x", []float64{30, 10, 20, 70}))
	right, _ := NewTable(NewIntColumn("id", []int64{1, 2, 3}), NewFloatColumn("x", []float64{1, 2, 3}))
	J, err := left.InnerJoin(right, "id", "0")
	if err != nil {
		Te.Fatal(err)
	}
	if fmt.Sprint(J.Names()) != "[id x x0]" {
		Te.Errorf("unexpected names %v", J.Names())
	}
	if J.Len() != 3 {
		Te.Fatalf("expected 3 rows, got %d", J.Len())
	}
	x, _ := J.Column("x")
	x0, _ := J.Column("x0")
	for i := 0; i < J.Len(); i++ {
		if x.Float(i) != 10*x0.Float(i) {
			Te.Errorf("row %d joined wrong atoms: %v %v", i, x.Float(i), x0.Float(i))
		}
	}
}

func TestReplaceRenameDense(Te *testing.T) {
	T, _ := NewTable(NewIntColumn("id", []int64{1, 2}), NewIntColumn("x", []int64{0, 1}), NewFloatColumn("y", []float64{0.5, 1.5}))
	if err := T.Replace(NewFloatColumn("x", []float64{5, 6})); err != nil {
		Te.Fatal(err)
	}
	if T.Names()[1] != "x" {
		Te.Errorf("Replace should keep the position of the column")
	}
	if err := T.Replace(NewFloatColumn("x", []float64{5})); !errors.Is(err, WrongFormat) {
		Te.Errorf("Replace with the wrong length should fail, got %v", err)
	}
	if err := T.Rename("y", "y0"); err != nil {
		Te.Fatal(err)
	}
	D, err := T.Dense("x", "y0")
	if err != nil {
		Te.Fatal(err)
	}
	if D.At(1, 0) != 6 || D.At(1, 1) != 1.5 {
		Te.Errorf("wrong matrix %v", D)
	}
	C := T.Clone()
	C.Replace(NewFloatColumn("x", []float64{0, 0}))
	x, _ := T.Column("x")
	if x.Float(0) != 5 {
		Te.Errorf("Clone should not share columns with the original")
	}
}

func TestErrorDecoration(Te *testing.T) {
	err := NewError(RunNotFound, "log.lammps", "run 3", "parse")
	e2 := Decorate(err, "ParseRun")
	if !errors.Is(e2, RunNotFound) || errors.Is(e2, FileNotFound) {
		Te.Errorf("wrong kind matching for %v", e2)
	}
	if fmt.Sprint(Trail(e2)) != "[parse ParseRun]" {
		Te.Errorf("unexpected trail %v", Trail(e2))
	}
	fmt.Println(e2)
}
