/*
 * fsm.go, part of golmp.
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
	"fmt"
	"strconv"
	"strings"

	lmp "github.com/rmera/golmp"
)

// State is the state of the log scanner.
type State int

const (
	Seeking State = iota
	AwaitHeader
	Collecting
	Terminated
)

func (s State) String() string {
	switch s {
	case Seeking:
		return "Seeking"
	case AwaitHeader:
		return "AwaitHeader"
	case Collecting:
		return "Collecting"
	case Terminated:
		return "Terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Action is what the scanner has to do with a line after a transition.
type Action int

const (
	Ignore     Action = iota
	Reject            //unsupported thermo style
	StartBlock        //start marker
	SetHeader
	Row      //candidate data row
	EndBlock //end marker, the run index must be incremented
)

// Transition returns the next state and the action for line, given the
// current state s. It does not know about run indexes, so EndBlock always
// goes back to Seeking; the scanner decides whether to terminate.
func (d *Dialect) Transition(s State, line string) (State, Action) {
	switch s {
	case Seeking:
		if hasAnyPrefix(line, d.Unsupported) {
			return Seeking, Reject
		}
		if strings.HasPrefix(line, d.Start) {
			return AwaitHeader, StartBlock
		}
		return Seeking, Ignore
	case AwaitHeader:
		if strings.TrimSpace(line) == "" {
			return AwaitHeader, Ignore
		}
		return Collecting, SetHeader
	case Collecting:
		if hasAnyPrefix(line, d.End) {
			return Seeking, EndBlock
		}
		return Collecting, Row
	}
	return Terminated, Ignore
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// scanner carries the state of a single pass over a log file.
type scanner struct {
	d        *Dialect
	filename string
	want     uint
	run      uint
	state    State
	found    bool //was the requested block entered?
	blocks   int  //start markers seen
	header   []string
	rows     [][]string
	dropped  int
}

func newScanner(d *Dialect, filename string, want uint) *scanner {
	return &scanner{d: d, filename: filename, want: want}
}

// feed processes one line. It only returns UnsupportedFormat errors.
func (s *scanner) feed(line string) error {
	next, act := s.d.Transition(s.state, line)
	switch act {
	case Reject:
		return lmp.NewError(lmp.UnsupportedFormat, s.filename, fmt.Sprintf("This thermo style '%s' is not supported. Use 'one' or 'custom'", line), "feed")
	case StartBlock:
		s.blocks++
		if s.run == s.want {
			s.found = true
		}
	case SetHeader:
		s.header = strings.Fields(line)
	case EndBlock:
		s.run++
		if s.run > s.want {
			next = Terminated
			break
		}
		s.header = nil
	case Row:
		if s.run != s.want {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != len(s.header) || !allFloats(fields) {
			s.dropped++
			break
		}
		s.rows = append(s.rows, fields)
	}
	s.state = next
	return nil
}

// done is true once the requested run has been completely read.
func (s *scanner) done() bool { return s.state == Terminated }

func allFloats(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return false
		}
	}
	return true
}
