/*
 * dump.go, part of golmp.
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

// Package dump reads LAMMPS text dump files (lammpstrj) into one typed table
// per timestep, plus a table with the box bounds of every timestep.
package dump

import (
	"fmt"
	"sort"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/lines"
	"golang.org/x/sync/errgroup"
)

// Box holds the lo and hi bounds of the simulation box on x, y and z.
type Box struct {
	Lo [3]float64
	Hi [3]float64
}

// Len returns hi-lo for the given axis (0, 1, 2 for x, y, z).
func (B Box) Len(axis int) float64 {
	return B.Hi[axis] - B.Lo[axis]
}

// Frame is one timestep of a dump.
type Frame struct {
	Timestep uint64
	//Atoms is the number of atoms reported in the frame header. It is not
	//checked against the number of rows in Table.
	Atoms  int
	Bounds Box
	Table  *lmp.Table
}

// Trajectory contains the frames of a dump in the order they appear in the file,
// and the table of box bounds, whose ith row corresponds to the ith frame.
type Trajectory struct {
	Frames    []*Frame
	BoxBounds *lmp.Table
	filename  string
}

// Len returns the number of frames.
func (T *Trajectory) Len() int { return len(T.Frames) }

// FileName returns the name of the file the trajectory was read from.
func (T *Trajectory) FileName() string { return T.filename }

// Timesteps returns the distinct timesteps in the trajectory, in ascending order.
func (T *Trajectory) Timesteps() []uint64 {
	seen := make(map[uint64]bool, len(T.Frames))
	ret := make([]uint64, 0, len(T.Frames))
	for _, f := range T.Frames {
		if !seen[f.Timestep] {
			seen[f.Timestep] = true
			ret = append(ret, f.Timestep)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Frame returns the frame for timestep ts. If the timestep is repeated in the
// file, the last frame with it is returned.
func (T *Trajectory) Frame(ts uint64) (*Frame, bool) {
	for i := len(T.Frames) - 1; i >= 0; i-- {
		if T.Frames[i].Timestep == ts {
			return T.Frames[i], true
		}
	}
	return nil, false
}

// Map returns the tables of the trajectory keyed by timestep. Repeated
// timesteps keep the last frame. Use Timesteps for the key order.
func (T *Trajectory) Map() map[uint64]*lmp.Table {
	ret := make(map[uint64]*lmp.Table, len(T.Frames))
	for _, f := range T.Frames {
		ret[f.Timestep] = f.Table
	}
	return ret
}

// Options for ParseTrajectory.
type Options struct {
	Markers Markers
	//Number of frames assembled concurrently. 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns options for LAMMPS dumps, using all CPUs.
func DefaultOptions() *Options {
	return &Options{Markers: LAMMPS()}
}

// ParseTrajectory reads all frames of a dump file. The atom rows of each frame
// are turned into a table with one column per field in the frame's ITEM: ATOMS
// line, with types inferred per column. Rows with the wrong number of fields
// are ignored.
func ParseTrajectory(filename string, options ...*Options) (*Trajectory, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	raw, err := scan(filename, O.Markers)
	if err != nil {
		return nil, lmp.Decorate(err, "ParseTrajectory")
	}
	frames := make([]*Frame, len(raw))
	var g errgroup.Group
	g.SetLimit(lmp.Workers(O.Workers))
	for i, r := range raw {
		i, r := i, r
		g.Go(func() error {
			//frames are already processed concurrently.
			T, err := lmp.Assembler{Workers: 1}.Assemble(r.header, r.rows)
			if err != nil {
				return lmp.Decorate(err, fmt.Sprintf("frame %d, timestep %d of %s", i, r.timestep, filename))
			}
			frames[i] = &Frame{Timestep: r.timestep, Atoms: r.atoms, Bounds: r.bounds, Table: T}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, lmp.Decorate(err, "ParseTrajectory")
	}
	box, err := boxTable(raw)
	if err != nil {
		return nil, lmp.Decorate(err, "ParseTrajectory")
	}
	return &Trajectory{Frames: frames, BoxBounds: box, filename: filename}, nil
}

// ParseBoxBounds returns only the table of box bounds of a dump file, with
// the columns timestep, atoms, xlo, xhi, ylo, yhi, zlo and zhi.
func ParseBoxBounds(filename string, options ...*Options) (*lmp.Table, error) {
	O := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		O = options[0]
	}
	raw, err := scan(filename, O.Markers)
	if err != nil {
		return nil, lmp.Decorate(err, "ParseBoxBounds")
	}
	return boxTable(raw)
}

func scan(filename string, m Markers) ([]*rawFrame, error) {
	S, err := lines.Open(filename)
	if err != nil {
		return nil, err
	}
	defer S.Close()
	e := newExtractor(m, filename)
	for l, ok := S.Next(); ok; l, ok = S.Next() {
		if err := e.feed(l, S.Line()); err != nil {
			return nil, err
		}
	}
	if err := S.Err(); err != nil {
		return nil, err
	}
	return e.finish(), nil
}

// BoxColumns are the names of the columns in the box bounds table.
var BoxColumns = []string{"timestep", "atoms", "xlo", "xhi", "ylo", "yhi", "zlo", "zhi"}

func boxTable(raw []*rawFrame) (*lmp.Table, error) {
	n := len(raw)
	ts := make([]int64, n)
	atoms := make([]int64, n)
	bounds := make([][]float64, 6)
	for j := range bounds {
		bounds[j] = make([]float64, n)
	}
	for i, r := range raw {
		ts[i] = int64(r.timestep)
		atoms[i] = int64(r.atoms)
		for ax := 0; ax < 3; ax++ {
			bounds[2*ax][i] = r.bounds.Lo[ax]
			bounds[2*ax+1][i] = r.bounds.Hi[ax]
		}
	}
	cols := []*lmp.Column{lmp.NewIntColumn(BoxColumns[0], ts), lmp.NewIntColumn(BoxColumns[1], atoms)}
	for j, b := range bounds {
		cols = append(cols, lmp.NewFloatColumn(BoxColumns[j+2], b))
	}
	return lmp.NewTable(cols...)
}
