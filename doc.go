/*
 * doc.go, part of golmp.
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

/*Package lmp is the main package of the golmp library. It provides the typed, column-major
Table used by all the readers, the column type inference that builds those tables from
raw text, and the errors shared by the rest of the packages.



	**golmp Capabilities**


    Reads the thermodynamic output of one run from a LAMMPS log file (package thermo).

    Reads every frame of a LAMMPS text dump, together with the box bounds of each
	frame (package dump).

    Unwraps periodic coordinates with the minimum image convention and computes the
	mean squared displacement of a trajectory (package analyze).

    Computes the autocorrelation function of thermo columns (package analyze).

    Plots MSD curves and thermo columns (package lmpplot), and exports tables to
	SQLite databases (package store).

    Reads plain, gzip and zstd compressed files transparently (package lines).

    Takes its settings from YAML or TOML files (package cfg, used by cmd/golmp).


Column types are decided for the whole column: a column is an Integer column if every
value in it is an integer, otherwise a Float column if every value is a number, otherwise
a String column.

All errors returned by golmp packages implement lmp.Error, and can be compared to one of
the Kind constants with errors.Is.*/
package lmp
