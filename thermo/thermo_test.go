/*
 * thermo_test.go, part of golmp.
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

package thermo

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	lmp "github.com/rmera/golmp"
)

func uintp(u uint) *uint { return &u }

func TestParseRun(Te *testing.T) {
	header := "[Step Temp PotEng KinEng TotEng Press]"
	for _, c := range []struct {
		run   *uint
		rows  int
		first float64
		last  float64
	}{
		{nil, 3, 0, 20},
		{uintp(0), 3, 0, 20},
		{uintp(1), 5, 0, 200},
	} {
		T, err := ParseRun("../test/log.lammps", c.run)
		if err != nil {
			Te.Fatal(err)
		}
		if fmt.Sprint(T.Names()) != header {
			Te.Errorf("unexpected header %v", T.Names())
		}
		if T.Len() != c.rows {
			Te.Errorf("expected %d rows, got %d", c.rows, T.Len())
		}
		step, _ := T.Column("Step")
		if step.Type() != lmp.Float {
			Te.Errorf("log columns must be float, Step is %s", step.Type())
		}
		if step.Float(0) != c.first || step.Float(T.Len()-1) != c.last {
			Te.Errorf("wrong steps %v", step.Floats())
		}
	}
	T, _ := ParseRun("../test/log.lammps", uintp(1))
	fmt.Println(T)
	press, _ := T.Column("Press")
	if press.Float(1) != 5.5848304 {
		Te.Errorf("wrong pressure %v", press.Float(1))
	}
}

func TestRunNotFound(Te *testing.T) {
	T, err := ParseRun("../test/log.lammps", uintp(2))
	if T != nil || !errors.Is(err, lmp.RunNotFound) {
		Te.Fatalf("expected RunNotFound and no table, got %v %v", T, err)
	}
	if !strings.Contains(err.Error(), "Try run 1") {
		Te.Errorf("the error should suggest run 1: %s", err)
	}
	_, err = ParseRun("../test/log.lammps", uintp(0), &Options{Dialect: Dialect{Start: "Nothing like this", End: []string{"Loop time"}}})
	if !errors.Is(err, lmp.RunNotFound) || !strings.Contains(err.Error(), "Try run 0") {
		Te.Errorf("expected RunNotFound suggesting run 0, got %v", err)
	}
}

func TestUnsupportedStyle(Te *testing.T) {
	_, err := ParseRun("../test/log_multi.lammps", nil)
	if !errors.Is(err, lmp.UnsupportedFormat) {
		Te.Fatalf("expected UnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "thermo_style multi") {
		Te.Errorf("the error should quote the offending line: %s", err)
	}
}

func TestTruncatedRun(Te *testing.T) {
	T, err := ParseRun("../test/log_truncated.lammps", nil)
	if err != nil {
		Te.Fatal(err)
	}
	if T.Len() != 2 || T.Width() != 3 {
		Te.Errorf("expected a 2x3 table, got %dx%d", T.Len(), T.Width())
	}
}

func TestMissingLog(Te *testing.T) {
	_, err := ParseRun("../test/nothere.lammps", nil)
	if !errors.Is(err, lmp.FileNotFound) {
		Te.Errorf("expected FileNotFound, got %v", err)
	}
}

func TestGrepLinesWithPrefix(Te *testing.T) {
	l, err := GrepLinesWithPrefix("../test/log.lammps", "Loop time")
	if err != nil {
		Te.Fatal(err)
	}
	if len(l) != 2 || !strings.Contains(l[0], "20 steps") || !strings.Contains(l[1], "200 steps") {
		Te.Errorf("unexpected lines %q", l)
	}
	l, _ = GrepLinesWithPrefix("../test/log.lammps", "loop time")
	if len(l) != 0 {
		Te.Errorf("the match must be case-sensitive, got %q", l)
	}
}
