/*
 * thermo.go, part of golmp.
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

// Package thermo reads the thermodynamic output of LAMMPS log files.
//
// A log can contain several thermo blocks, one per run/minimize command. Blocks
// are numbered from 0 in the order they appear. Note that the default block 0 is
// often an energy minimization, so the production run usually starts at 1.
package thermo

import (
	"fmt"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/lines"
	"github.com/rs/zerolog/log"
)

// Options for ParseRun.
type Options struct {
	Dialect Dialect
	//Number of goroutines used to build the columns. 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns options for LAMMPS logs, using all CPUs.
func DefaultOptions() *Options {
	return &Options{Dialect: LAMMPS()}
}

// ParseRun returns a table with the thermo output of the run with index run,
// or of run 0 if run is nil. All columns are Float columns named after the
// thermo header. Lines in the block that don't have one number per header
// field are ignored.
func ParseRun(filename string, run *uint, options ...*Options) (*lmp.Table, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	var want uint
	if run != nil {
		want = *run
	}
	if O.Dialect.Start == "" {
		return nil, lmp.NewError(lmp.WrongFormat, filename, "the dialect has no start marker", "ParseRun")
	}
	S, err := lines.Open(filename)
	if err != nil {
		return nil, lmp.Decorate(err, "ParseRun")
	}
	defer S.Close()
	sc := newScanner(&O.Dialect, filename, want)
	for l, ok := S.Next(); ok && !sc.done(); l, ok = S.Next() {
		if err := sc.feed(l); err != nil {
			return nil, lmp.Decorate(err, "ParseRun")
		}
	}
	if err := S.Err(); err != nil {
		return nil, lmp.Decorate(err, "ParseRun")
	}
	log.Debug().Str("file", filename).Uint("run", want).Int("rows", len(sc.rows)).Int("dropped", sc.dropped).Str("state", sc.state.String()).Msg("thermo scan finished")
	if !sc.found {
		suggest := uint(0)
		if want > 0 {
			suggest = want - 1
		}
		return nil, lmp.NewError(lmp.RunNotFound, filename, fmt.Sprintf("no data found for run %d (%d thermo blocks in the file). Try run %d, or check that the log has an usual format", want, sc.blocks, suggest), "ParseRun")
	}
	if len(sc.rows) == 0 {
		return nil, lmp.NewError(lmp.EmptyColumnSet, filename, fmt.Sprintf("run %d has no rows matching its header %v", want, sc.header), "ParseRun")
	}
	A := lmp.Assembler{Parsers: []lmp.Parser{lmp.FloatParser}, Workers: O.Workers}
	T, err := A.Assemble(sc.header, sc.rows)
	if err != nil {
		return nil, lmp.Decorate(err, "ParseRun")
	}
	return T, nil
}

// GrepLinesWithPrefix returns all the lines in the log that start with prefix,
// in the order they appear. The match is case-sensitive and lines are not trimmed.
func GrepLinesWithPrefix(filename, prefix string) ([]string, error) {
	ret, err := lines.GrepPrefix(filename, prefix)
	if err != nil {
		return nil, lmp.Decorate(err, "GrepLinesWithPrefix")
	}
	return ret, nil
}
