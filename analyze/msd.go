/*
 * msd.go, part of golmp.
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
	"sort"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/dump"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Mode selects what the displacement of an atom is measured from.
type Mode int

const (
	//Reference measures each atom from its position in the first frame,
	//matching atoms by id. Use it on unwrapped trajectories.
	Reference Mode = iota
	//Absolute measures each atom from the origin.
	Absolute
)

func (m Mode) String() string {
	if m == Absolute {
		return "absolute"
	}
	return "reference"
}

// Series is a value per timestep, in ascending timestep order.
type Series struct {
	Timesteps []uint64
	Values    []float64
}

// Len returns the number of points in the series.
func (S *Series) Len() int { return len(S.Timesteps) }

// At returns the value for timestep ts.
func (S *Series) At(ts uint64) (float64, bool) {
	i := sort.Search(len(S.Timesteps), func(i int) bool { return S.Timesteps[i] >= ts })
	if i < len(S.Timesteps) && S.Timesteps[i] == ts {
		return S.Values[i], true
	}
	return 0, false
}

// Map returns the series as a map from timestep to value.
func (S *Series) Map() map[uint64]float64 {
	ret := make(map[uint64]float64, len(S.Timesteps))
	for i, ts := range S.Timesteps {
		ret[ts] = S.Values[i]
	}
	return ret
}

// refSuffix is appended to the coordinate names of the reference frame.
const refSuffix = "0"

// MSD returns the mean square displacement of the atoms at each timestep of traj.
// If a timestep appears more than once, the last frame with it is used.
// In Reference mode, atoms are matched to the first frame of the trajectory
// by their id, and timesteps sharing no ids with it are left out of the result.
func MSD(traj *dump.Trajectory, mode Mode, options ...*Options) (*Series, error) {
	O := getOptions(options)
	if traj.Len() == 0 {
		return nil, lmp.NewError(lmp.EmptyTrajectory, traj.FileName(), "no frames to compute the MSD from", "MSD")
	}
	var ref *lmp.Table
	var err error
	if mode == Reference {
		ref, err = reference(traj.Frames[0].Table, O)
		if err != nil {
			return nil, lmp.Decorate(err, "MSD")
		}
	}
	byTS := make(map[uint64]*dump.Frame, len(traj.Frames))
	for _, f := range traj.Frames {
		byTS[f.Timestep] = f
	}
	tss := traj.Timesteps()
	vals := make([]float64, len(tss))
	ok := make([]bool, len(tss))
	var g errgroup.Group
	g.SetLimit(lmp.Workers(O.Workers))
	for i, ts := range tss {
		i, ts := i, ts
		g.Go(func() error {
			f := byTS[ts]
			var err error
			if mode == Reference {
				vals[i], ok[i], err = referenceMSD(f.Table, ref, O)
			} else {
				vals[i], ok[i], err = absoluteMSD(f.Table, O)
			}
			if err != nil {
				return lmp.Decorate(err, fmt.Sprintf("MSD: timestep %d", ts))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ret := &Series{Timesteps: make([]uint64, 0, len(tss)), Values: make([]float64, 0, len(tss))}
	for i, ts := range tss {
		if !ok[i] {
			log.Debug().Str("file", traj.FileName()).Uint64("timestep", ts).Msg("no atoms in common with the reference frame")
			continue
		}
		ret.Timesteps = append(ret.Timesteps, ts)
		ret.Values = append(ret.Values, vals[i])
	}
	return ret, nil
}

// reference returns the id and coordinates of T, with the coordinates renamed
// by appending refSuffix.
func reference(T *lmp.Table, O *Options) (*lmp.Table, error) {
	ref, err := T.Select(O.ID, O.Coords[0], O.Coords[1], O.Coords[2])
	if err != nil {
		return nil, err
	}
	for _, c := range O.Coords {
		if err := ref.Rename(c, c+refSuffix); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

func referenceMSD(T, ref *lmp.Table, O *Options) (float64, bool, error) {
	cur, err := T.Select(O.ID, O.Coords[0], O.Coords[1], O.Coords[2])
	if err != nil {
		return 0, false, err
	}
	J, err := cur.InnerJoin(ref, O.ID, "")
	if err != nil {
		return 0, false, err
	}
	if J.Len() == 0 {
		return 0, false, nil
	}
	D, err := J.Dense(O.Coords[:]...)
	if err != nil {
		return 0, false, err
	}
	D0, err := J.Dense(O.Coords[0]+refSuffix, O.Coords[1]+refSuffix, O.Coords[2]+refSuffix)
	if err != nil {
		return 0, false, err
	}
	D.Sub(D, D0)
	return meanSquare(D), true, nil
}

func absoluteMSD(T *lmp.Table, O *Options) (float64, bool, error) {
	if T.Len() == 0 {
		return 0, false, nil
	}
	D, err := T.Dense(O.Coords[:]...)
	if err != nil {
		return 0, false, err
	}
	return meanSquare(D), true, nil
}

// meanSquare returns the mean, over the rows of D, of the squared norm of each row.
func meanSquare(D *mat.Dense) float64 {
	r, _ := D.Dims()
	sq := make([]float64, r)
	for i := range sq {
		row := D.RawRowView(i)
		sq[i] = floats.Dot(row, row)
	}
	return stat.Mean(sq, nil)
}

// ComputeMSD reads a dump file and returns its mean square displacement series.
// If unwrap is true, the coordinates are unwrapped and measured from the first
// frame. Otherwise they are measured from the origin as they are in the file.
// The dump is read with the Dump field of the options, if given.
func ComputeMSD(filename string, unwrap bool, options ...*Options) (*Series, error) {
	O := getOptions(options)
	DO := O.Dump
	if DO == nil {
		DO = &dump.Options{Markers: dump.LAMMPS(), Workers: O.Workers}
	}
	traj, err := dump.ParseTrajectory(filename, DO)
	if err != nil {
		return nil, lmp.Decorate(err, "ComputeMSD")
	}
	mode := Absolute
	if unwrap {
		if _, err := Unwrap(traj, O); err != nil {
			return nil, lmp.Decorate(err, "ComputeMSD")
		}
		mode = Reference
	}
	S, err := MSD(traj, mode, O)
	if err != nil {
		return nil, lmp.Decorate(err, "ComputeMSD")
	}
	return S, nil
}
