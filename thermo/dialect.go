/*
 * dialect.go, part of golmp.
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

// Dialect holds the line prefixes that delimit thermo blocks in a log file.
type Dialect struct {
	//Start is the line printed right before the header of a thermo block.
	Start string
	//End are the lines that close a thermo block.
	End []string
	//Unsupported are thermo_style commands whose output can't be read.
	Unsupported []string
}

const (
	mpiFlag = "Per MPI rank memory allocation"
)

var (
	endFlags         = []string{"Loop time", "ERROR"}
	unsupportedFlags = []string{"thermo_style multi", "thermo_style yaml"}
)

// LAMMPS returns the markers used by LAMMPS logs with thermo_style one or custom.
// Each call returns a new copy.
func LAMMPS() Dialect {
	return Dialect{
		Start:       mpiFlag,
		End:         append([]string(nil), endFlags...),
		Unsupported: append([]string(nil), unsupportedFlags...),
	}
}
