/*
 * unwrap.go, part of golmp.
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

package analyze

import (
	"fmt"
	"math"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/dump"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Options contains the column names used by Unwrap, Wrap and MSD.
type Options struct {
	ID     string
	Coords [3]string
	//Number of goroutines. 0 means GOMAXPROCS.
	Workers int
	//Options for reading the dump in ComputeMSD. If nil, the LAMMPS
	//markers are used with the Workers above.
	Dump *dump.Options
}

// DefaultOptions returns the column names of a dump custom with "id x y z".
func DefaultOptions() *Options {
	return &Options{ID: "id", Coords: [3]string{"x", "y", "z"}}
}

func getOptions(options []*Options) *Options {
	if len(options) > 0 && options[0] != nil {
		return options[0]
	}
	return DefaultOptions()
}

// coords returns the coordinates of every frame as N x 3 matrices. All frames
// must have the same number of rows.
func coords(traj *dump.Trajectory, O *Options, caller string) ([]*mat.Dense, error) {
	ret := make([]*mat.Dense, len(traj.Frames))
	for j, f := range traj.Frames {
		if j > 0 && f.Table.Len() != traj.Frames[0].Table.Len() {
			return nil, lmp.NewError(lmp.WrongFormat, traj.FileName(), fmt.Sprintf("timestep %d has %d atom rows, timestep %d has %d", f.Timestep, f.Table.Len(), traj.Frames[0].Timestep, traj.Frames[0].Table.Len()), caller)
		}
		D, err := f.Table.Dense(O.Coords[:]...)
		if err != nil {
			return nil, lmp.Decorate(err, fmt.Sprintf("%s: timestep %d", caller, f.Timestep))
		}
		ret[j] = D
	}
	return ret, nil
}

// setCoords replaces the coordinate columns of each frame with the columns of D.
func setCoords(traj *dump.Trajectory, D []*mat.Dense, O *Options) error {
	for j, f := range traj.Frames {
		for ax, name := range O.Coords {
			if err := f.Table.Replace(lmp.NewFloatColumn(name, mat.Col(nil, ax, D[j]))); err != nil {
				return err
			}
		}
	}
	return nil
}

// minImage returns raw shifted by the whole number of box lengths l that
// brings it closest to prev. A displacement of exactly half a box is not shifted.
func minImage(raw, prev, l float64) float64 {
	shift := (prev - raw) / l
	n := math.Round(shift)
	if math.Abs(shift-n) == 0.5 {
		n -= math.Copysign(1, n)
	}
	return raw + n*l
}

// checkBoxes returns an error if a frame has a box length that is not positive.
func checkBoxes(traj *dump.Trajectory, caller string) error {
	for _, f := range traj.Frames {
		for ax := 0; ax < 3; ax++ {
			if f.Bounds.Len(ax) <= 0 {
				return lmp.NewError(lmp.WrongFormat, traj.FileName(), fmt.Sprintf("timestep %d: box length %g on axis %d", f.Timestep, f.Bounds.Len(ax), ax), caller)
			}
		}
	}
	return nil
}

// Unwrap replaces, in place, the coordinate columns of every frame with unwrapped
// coordinates, and returns traj. Frames are taken in the order they appear in the file.
// The coordinate of an atom in frame j is compared with its unwrapped coordinate in
// frame j-1, and shifted by as many box lengths of frame j as needed to bring
// them within half a box of each other, so drifts over several periods accumulate.
//
// Atoms are matched between frames by row position, not by id, so the dump must
// list the atoms in the same order in every frame (dump_modify sort id).
// If that is not the case, a warning is logged and the result is probably wrong.
func Unwrap(traj *dump.Trajectory, options ...*Options) (*dump.Trajectory, error) {
	O := getOptions(options)
	if traj.Len() == 0 {
		return traj, nil
	}
	in, err := coords(traj, O, "Unwrap")
	if err != nil {
		return nil, err
	}
	if err := checkBoxes(traj, "Unwrap"); err != nil {
		return nil, err
	}
	if !StableOrder(traj, O) {
		log.Warn().Str("file", traj.FileName()).Str("id", O.ID).Msg("atoms are not listed in the same order in every frame; unwrapping matches atoms by position")
	}
	rows, _ := in[0].Dims()
	out := make([]*mat.Dense, len(in))
	for j := range out {
		out[j] = mat.NewDense(rows, 3, nil)
	}
	//Each axis only reads and writes its own column.
	var g errgroup.Group
	for ax := 0; ax < 3; ax++ {
		ax := ax
		g.Go(func() error {
			for r := 0; r < rows; r++ {
				out[0].Set(r, ax, in[0].At(r, ax))
			}
			for j := 1; j < len(in); j++ {
				l := traj.Frames[j].Bounds.Len(ax)
				for r := 0; r < rows; r++ {
					out[j].Set(r, ax, minImage(in[j].At(r, ax), out[j-1].At(r, ax), l))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, lmp.Decorate(err, "Unwrap")
	}
	if err := setCoords(traj, out, O); err != nil {
		return nil, lmp.Decorate(err, "Unwrap")
	}
	return traj, nil
}

// Wrap puts, in place, every coordinate back into the [lo, hi) interval of
// its frame's box. It is the inverse of Unwrap for coordinates originally inside the box.
func Wrap(traj *dump.Trajectory, options ...*Options) (*dump.Trajectory, error) {
	O := getOptions(options)
	if traj.Len() == 0 {
		return traj, nil
	}
	D, err := coords(traj, O, "Wrap")
	if err != nil {
		return nil, err
	}
	if err := checkBoxes(traj, "Wrap"); err != nil {
		return nil, err
	}
	for j, f := range traj.Frames {
		rows, _ := D[j].Dims()
		for ax := 0; ax < 3; ax++ {
			lo, l := f.Bounds.Lo[ax], f.Bounds.Len(ax)
			for r := 0; r < rows; r++ {
				v := math.Mod(D[j].At(r, ax)-lo, l)
				if v < 0 {
					v += l
				}
				D[j].Set(r, ax, lo+v)
			}
		}
	}
	if err := setCoords(traj, D, O); err != nil {
		return nil, lmp.Decorate(err, "Wrap")
	}
	return traj, nil
}

// StableOrder returns true if every frame lists the same ids, in the same order, as the
// first one. It returns true if the id column is missing, since nothing can be checked.
func StableOrder(traj *dump.Trajectory, options ...*Options) bool {
	O := getOptions(options)
	if traj.Len() == 0 {
		return true
	}
	ref, err := traj.Frames[0].Table.Column(O.ID)
	if err != nil {
		return true
	}
	for _, f := range traj.Frames[1:] {
		c, err := f.Table.Column(O.ID)
		if err != nil || c.Len() != ref.Len() {
			return false
		}
		for i := 0; i < c.Len(); i++ {
			if c.Str(i) != ref.Str(i) {
				return false
			}
		}
	}
	return true
}
