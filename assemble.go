/*
 * assemble.go, part of golmp.
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
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Parser tries to build a column of its type from raw tokens. It returns
// false as soon as one token can't be parsed.
type Parser struct {
	Type  ColumnType
	Parse func(name string, tokens []string) (*Column, bool)
}

var (
	IntParser = Parser{Integer, func(name string, tokens []string) (*Column, bool) {
		data := make([]int64, len(tokens))
		for i, t := range tokens {
			v, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				return nil, false
			}
			data[i] = v
		}
		return NewIntColumn(name, data), true
	}}

	FloatParser = Parser{Float, func(name string, tokens []string) (*Column, bool) {
		data := make([]float64, len(tokens))
		for i, t := range tokens {
			v, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, false
			}
			data[i] = v
		}
		return NewFloatColumn(name, data), true
	}}

	StringParser = Parser{String, func(name string, tokens []string) (*Column, bool) {
		return NewStringColumn(name, append([]string(nil), tokens...)), true
	}}
)

// DefaultParsers is the order in which column types are tried.
var DefaultParsers = []Parser{IntParser, FloatParser, StringParser}

// Assembler transposes row-major string tokens into a typed, column-major Table.
// The zero value uses DefaultParsers and GOMAXPROCS workers.
type Assembler struct {
	Parsers []Parser
	Workers int
}

// Assemble builds a Table with the default Assembler.
func Assemble(header []string, rows [][]string) (*Table, error) {
	return Assembler{}.Assemble(header, rows)
}

// Assemble builds one column per header name. The type of each column is that of
// the first parser in A.Parsers that accepts every token in the column.
// Columns are built concurrently.
func (A Assembler) Assemble(header []string, rows [][]string) (*Table, error) {
	if len(rows) == 0 || len(header) == 0 {
		return nil, NewError(EmptyColumnSet, "", fmt.Sprintf("%d rows and %d columns survived parsing", len(rows), len(header)), "Assemble")
	}
	for i, r := range rows {
		if len(r) != len(header) {
			return nil, NewError(WrongFormat, "", fmt.Sprintf("row %d has %d fields, header has %d", i, len(r), len(header)), "Assemble")
		}
	}
	parsers := A.Parsers
	if len(parsers) == 0 {
		parsers = DefaultParsers
	}
	names := uniqueNames(header)
	cols := make([]*Column, len(header))
	var g errgroup.Group
	g.SetLimit(workers(A.Workers))
	for j := range header {
		j := j
		g.Go(func() error {
			tokens := make([]string, len(rows))
			for i, r := range rows {
				tokens[i] = r[j]
			}
			for _, p := range parsers {
				if c, ok := p.Parse(names[j], tokens); ok {
					cols[j] = c
					return nil
				}
			}
			return NewError(WrongFormat, "", fmt.Sprintf("no parser accepts column %s", names[j]), "Assemble")
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewTable(cols...)
}

// uniqueNames appends _1, _2... to repeated names.
func uniqueNames(header []string) []string {
	seen := make(map[string]int, len(header))
	ret := make([]string, len(header))
	for i, h := range header {
		ret[i] = h
		if n, ok := seen[h]; ok {
			ret[i] = fmt.Sprintf("%s_%d", h, n)
		}
		seen[h]++
	}
	return ret
}

// workers returns n, or GOMAXPROCS if n < 1.
func workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Workers returns n, or the default number of concurrent workers if n < 1.
func Workers(n int) int { return workers(n) }
