/*
 * extract.go, part of golmp.
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

package dump

import (
	"fmt"
	"strconv"
	"strings"

	lmp "github.com/rmera/golmp"
	"github.com/rs/zerolog/log"
)

// Markers are the line prefixes that structure a dump file.
type Markers struct {
	Item      string //common prefix of all markers
	Timestep  string
	NumAtoms  string
	BoxBounds string
	Atoms     string //the rest of this line is the header of the atom rows
}

// LAMMPS returns the markers of LAMMPS text dumps (dump atom/custom).
func LAMMPS() Markers {
	return Markers{
		Item:      "ITEM:",
		Timestep:  "ITEM: TIMESTEP",
		NumAtoms:  "ITEM: NUMBER OF ATOMS",
		BoxBounds: "ITEM: BOX BOUNDS",
		Atoms:     "ITEM: ATOMS",
	}
}

// State is the state of the dump extractor.
type State int

const (
	Idle State = iota
	ExpectTimestep
	ExpectNumAtoms
	ExpectBounds
	InAtoms
	Skipping //payload of an ITEM we don't read
)

// rawFrame is a frame whose atom rows are still text.
type rawFrame struct {
	timestep uint64
	atoms    int
	bounds   Box
	header   []string
	rows     [][]string
	hasAtoms bool
	dropped  int
}

type extractor struct {
	m          Markers
	filename   string
	state      State
	boundsLeft int
	cur        *rawFrame
	frames     []*rawFrame
}

func newExtractor(m Markers, filename string) *extractor {
	return &extractor{m: m, filename: filename}
}

// feed processes one line of the dump.
func (e *extractor) feed(line string, lineno int) error {
	if strings.HasPrefix(line, e.m.Item) {
		e.marker(line)
		return nil
	}
	switch e.state {
	case ExpectTimestep:
		//timesteps are stored as int64 in the box table.
		v, err := strconv.ParseUint(lastField(line), 10, 63)
		if err != nil {
			return e.wrongFormat(lineno, "timestep", line, err)
		}
		e.cur.timestep = v
		e.state = Idle
	case ExpectNumAtoms:
		v, err := strconv.ParseUint(lastField(line), 10, 64)
		if err != nil {
			return e.wrongFormat(lineno, "number of atoms", line, err)
		}
		e.cur.atoms = int(v)
		e.state = Idle
	case ExpectBounds:
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return e.wrongFormat(lineno, "box bounds", line, nil)
		}
		axis := 3 - e.boundsLeft
		lo, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return e.wrongFormat(lineno, "box bounds", line, err)
		}
		hi, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return e.wrongFormat(lineno, "box bounds", line, err)
		}
		e.cur.bounds.Lo[axis] = lo
		e.cur.bounds.Hi[axis] = hi
		e.boundsLeft--
		if e.boundsLeft == 0 {
			e.state = Idle
		}
	case InAtoms:
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil
		}
		if len(fields) != len(e.cur.header) {
			e.cur.dropped++
			return nil
		}
		e.cur.rows = append(e.cur.rows, fields)
	}
	return nil
}

func (e *extractor) marker(line string) {
	switch {
	case strings.HasPrefix(line, e.m.Timestep):
		e.push()
		e.cur = new(rawFrame)
		e.state = ExpectTimestep
	case strings.HasPrefix(line, e.m.NumAtoms):
		e.ensure()
		e.state = ExpectNumAtoms
	case strings.HasPrefix(line, e.m.BoxBounds):
		e.ensure()
		e.boundsLeft = 3
		e.state = ExpectBounds
	case strings.HasPrefix(line, e.m.Atoms):
		e.ensure()
		if e.cur.hasAtoms {
			//a second atoms section with no new timestep: same metadata, new rows.
			prev := e.cur
			e.push()
			e.cur = &rawFrame{timestep: prev.timestep, atoms: prev.atoms, bounds: prev.bounds}
		}
		e.cur.header = strings.Fields(strings.TrimPrefix(line, e.m.Atoms))
		e.cur.hasAtoms = true
		e.state = InAtoms
	default:
		e.state = Skipping
	}
}

func (e *extractor) ensure() {
	if e.cur == nil {
		e.cur = new(rawFrame)
	}
}

// push closes the current frame. Frames without an atoms section are discarded.
func (e *extractor) push() {
	if e.cur == nil {
		return
	}
	if e.cur.hasAtoms {
		if e.cur.dropped > 0 {
			log.Debug().Str("file", e.filename).Uint64("timestep", e.cur.timestep).Int("dropped", e.cur.dropped).Msg("atom rows with the wrong number of fields")
		}
		e.frames = append(e.frames, e.cur)
	} else {
		log.Debug().Str("file", e.filename).Uint64("timestep", e.cur.timestep).Msg("discarding frame without atoms section")
	}
	e.cur = nil
}

// finish closes the last frame and returns all frames in the order they were found.
func (e *extractor) finish() []*rawFrame {
	e.push()
	e.state = Idle
	return e.frames
}

func (e *extractor) wrongFormat(lineno int, what, line string, cause error) error {
	err := lmp.NewError(lmp.WrongFormat, e.filename, fmt.Sprintf("line %d: can't read %s from %q", lineno, what, line), "extractor.feed")
	if cause != nil {
		err.Wrap(cause)
	}
	return err
}

func lastField(line string) string {
	f := strings.Fields(line)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}
