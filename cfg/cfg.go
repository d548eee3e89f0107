/*
 * cfg.go, part of golmp.
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

// Package cfg reads golmp run configurations from YAML or TOML files.
package cfg

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rmera/golmp/analyze"
	"github.com/rmera/golmp/dump"
	"github.com/rmera/golmp/thermo"
	"gopkg.in/yaml.v3"
)

// Columns are the names of the id and coordinate columns in the dump.
type Columns struct {
	ID string `yaml:"id" toml:"id"`
	X  string `yaml:"x" toml:"x"`
	Y  string `yaml:"y" toml:"y"`
	Z  string `yaml:"z" toml:"z"`
}

// Dialect overrides the markers that delimit thermo blocks in the log.
type Dialect struct {
	Start       string   `yaml:"start" toml:"start"`
	End         []string `yaml:"end" toml:"end"`
	Unsupported []string `yaml:"unsupported" toml:"unsupported"`
}

// Cfg is a structure containing the parameters specified in the configuration
// file. It can be obtained from New or built by hand, in which case the Check
// method should be used to make sure it is usable.
type Cfg struct {
	// Log is the LAMMPS log file to read thermo data from.
	Log string `yaml:"log" toml:"log"`

	// Run is the 0-based index of the run to extract from Log.
	Run uint `yaml:"run" toml:"run"`

	// Dump is the LAMMPS text dump to read.
	Dump string `yaml:"dump" toml:"dump"`

	// Unwrap selects unwrapping plus reference mode for the MSD.
	Unwrap bool `yaml:"unwrap" toml:"unwrap"`

	// Workers is the number of goroutines. 0 means one per CPU.
	Workers int `yaml:"workers" toml:"workers"`

	Columns Columns `yaml:"columns" toml:"columns"`

	// Dialect, if given, replaces the LAMMPS log markers.
	Dialect *Dialect `yaml:"dialect" toml:"dialect"`

	// Plot is the image file for the MSD, or thermo, plot. Empty means no plot.
	Plot string `yaml:"plot" toml:"plot"`

	// DB is the SQLite file where results are saved. Empty means no export.
	DB string `yaml:"db" toml:"db"`
}

// Default returns a Cfg with the default column names and nothing to read.
func Default() *Cfg {
	return &Cfg{Columns: Columns{ID: "id", X: "x", Y: "y", Z: "z"}}
}

// New opens and decodes the specified configuration file. Files ending in
// .toml are read as TOML, anything else as YAML. Unknown keys are errors.
// New calls Check before returning.
func New(path string) (*Cfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := Default()
	r := bufio.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(c)
	} else {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, p := range []*string{&c.Log, &c.Dump, &c.Plot, &c.DB} {
		if *p, err = expandPath(*p); err != nil {
			return nil, err
		}
	}

	err = c.Check()
	if err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}
	return c, nil
}

// Check returns an error if a field of Cfg doesn't meet the requirements.
func (c *Cfg) Check() error {
	if c.Log == "" && c.Dump == "" {
		return fmt.Errorf("at least one of log and dump must be given")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be greater or equal to 0")
	}
	for _, n := range []string{c.Columns.ID, c.Columns.X, c.Columns.Y, c.Columns.Z} {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("column names can't be empty")
		}
	}
	if c.Dialect != nil && strings.TrimSpace(c.Dialect.Start) == "" {
		return fmt.Errorf("a dialect needs a start marker")
	}
	return nil
}

// ThermoOptions returns the options for reading the log.
func (c *Cfg) ThermoOptions() *thermo.Options {
	O := thermo.DefaultOptions()
	O.Workers = c.Workers
	if c.Dialect != nil {
		O.Dialect = thermo.Dialect{Start: c.Dialect.Start, End: c.Dialect.End, Unsupported: c.Dialect.Unsupported}
	}
	return O
}

// DumpOptions returns the options for reading the dump.
func (c *Cfg) DumpOptions() *dump.Options {
	O := dump.DefaultOptions()
	O.Workers = c.Workers
	return O
}

// AnalyzeOptions returns the options for unwrapping and MSD computation,
// including those for reading the dump.
func (c *Cfg) AnalyzeOptions() *analyze.Options {
	return &analyze.Options{
		ID:      c.Columns.ID,
		Coords:  [3]string{c.Columns.X, c.Columns.Y, c.Columns.Z},
		Workers: c.Workers,
		Dump:    c.DumpOptions(),
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmed, "~") {
		return trimmed, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~")), nil
}
