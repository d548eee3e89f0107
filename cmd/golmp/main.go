/*
 * main.go, part of golmp.
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

// Command golmp reads LAMMPS logs and dumps and prints their content as tables.
//
//	golmp [-v] log <file> [run]
//	golmp [-v] acf <file> <column> [run]
//	golmp [-v] grep <file> <prefix>
//	golmp [-v] dump <file>
//	golmp [-v] msd [-unwrap] <file>
//	golmp [-v] -config run.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/analyze"
	"github.com/rmera/golmp/cfg"
	"github.com/rmera/golmp/dump"
	"github.com/rmera/golmp/lmpplot"
	"github.com/rmera/golmp/store"
	"github.com/rmera/golmp/thermo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage:
  golmp [-v] log [-plot file] [-x col] [-y col] [-db file] <file> [run]
  golmp [-v] acf <file> <column> [run]
  golmp [-v] grep <file> <prefix>
  golmp [-v] dump [-db file] <file>
  golmp [-v] msd [-unwrap] [-plot file] [-db file] <file>
  golmp [-v] -config <file>
`

var errUsage = errors.New("wrong arguments")

func initLogger(app string, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		log.Error().Strs("trail", lmp.Trail(err)).Msg(err.Error())
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("golmp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("v", false, "debug output")
	config := fs.String("config", "", "YAML or TOML run configuration")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	initLogger("golmp", *verbose)
	if *config != "" {
		c, err := cfg.New(*config)
		if err != nil {
			return err
		}
		return runConfig(c, out)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	switch rest[0] {
	case "log":
		return logCmd(rest[1:], out)
	case "acf":
		return acfCmd(rest[1:], out)
	case "grep":
		return grepCmd(rest[1:], out)
	case "dump":
		return dumpCmd(rest[1:], out)
	case "msd":
		return msdCmd(rest[1:], out)
	}
	return errUsage
}

// dataset returns a table name for the file, without directory or extensions.
func dataset(filename, suffix string) string {
	base := filepath.Base(filename)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base + suffix
}

func logCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	plot := fs.String("plot", "", "plot the thermo data to this image file")
	x := fs.String("x", "Step", "column for the x axis of the plot")
	y := fs.String("y", "Temp", "column for the y axis of the plot")
	db := fs.String("db", "", "save the table in this SQLite file")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 || fs.NArg() > 2 {
		return errUsage
	}
	runp, err := runNumber(fs.Args()[1:])
	if err != nil {
		return err
	}
	c := cfg.Default()
	c.Log, c.Plot, c.DB = fs.Arg(0), *plot, *db
	return thermoOutput(c, runp, *x, *y, out)
}

// runNumber returns the run given in args, or nil if args is empty.
func runNumber(args []string) (*uint, error) {
	if len(args) == 0 {
		return nil, nil
	}
	r, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid run number %q: %w", args[0], err)
	}
	v := uint(r)
	return &v, nil
}

func acfCmd(args []string, out io.Writer) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}
	run, err := runNumber(args[2:])
	if err != nil {
		return err
	}
	T, err := thermo.ParseRun(args[0], run)
	if err != nil {
		return err
	}
	A, err := analyze.Autocorrelation(T, args[1])
	if err != nil {
		return err
	}
	fmt.Fprint(out, A)
	return nil
}

func thermoOutput(c *cfg.Cfg, run *uint, x, y string, out io.Writer) error {
	T, err := thermo.ParseRun(c.Log, run, c.ThermoOptions())
	if err != nil {
		return err
	}
	fmt.Fprint(out, T)
	if c.Plot != "" {
		if err := lmpplot.Thermo(T, x, y, c.Plot); err != nil {
			return err
		}
		log.Info().Str("file", c.Plot).Msg("plot written")
	}
	if c.DB != "" {
		r := uint(0)
		if run != nil {
			r = *run
		}
		return save(c.DB, func(ctx context.Context, S *store.Store) error {
			return S.SaveTable(ctx, dataset(c.Log, fmt.Sprintf("_run%d", r)), store.Thermo, c.Log, T)
		})
	}
	return nil
}

func grepCmd(args []string, out io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	lines, err := thermo.GrepLinesWithPrefix(args[0], args[1])
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}

func dumpCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	db := fs.String("db", "", "save the trajectory in this SQLite file")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	traj, err := dump.ParseTrajectory(fs.Arg(0))
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return lmp.NewError(lmp.EmptyTrajectory, fs.Arg(0), "no frames with atoms in the file", "dumpCmd")
	}
	fmt.Fprintf(out, "%d frames, columns %s\n", traj.Len(), strings.Join(traj.Frames[0].Table.Names(), " "))
	fmt.Fprint(out, traj.BoxBounds)
	if *db != "" {
		return save(*db, func(ctx context.Context, S *store.Store) error {
			return S.SaveTrajectory(ctx, dataset(fs.Arg(0), ""), traj)
		})
	}
	return nil
}

func msdCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("msd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	unwrap := fs.Bool("unwrap", false, "unwrap the coordinates and measure from the first frame")
	plot := fs.String("plot", "", "plot the MSD to this image file")
	db := fs.String("db", "", "save the MSD in this SQLite file")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	c := cfg.Default()
	c.Dump, c.Unwrap, c.Plot, c.DB = fs.Arg(0), *unwrap, *plot, *db
	return msdOutput(c, out)
}

func msdOutput(c *cfg.Cfg, out io.Writer) error {
	if c.Unwrap {
		log.Warn().Msg("unwrapping matches atoms by their row in each frame; the dump should be sorted by id")
	}
	S, err := analyze.ComputeMSD(c.Dump, c.Unwrap, c.AnalyzeOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "timestep msd")
	for i, ts := range S.Timesteps {
		fmt.Fprintf(out, "%d %g\n", ts, S.Values[i])
	}
	if c.Plot != "" {
		if err := lmpplot.MSD(S, "Mean square displacement", c.Plot); err != nil {
			return err
		}
		log.Info().Str("file", c.Plot).Msg("plot written")
	}
	if c.DB != "" {
		return save(c.DB, func(ctx context.Context, st *store.Store) error {
			return st.SaveSeries(ctx, dataset(c.Dump, "_msd"), c.Dump, S)
		})
	}
	return nil
}

// runConfig does what the configuration asks for: the thermo table if
// a log is given, the MSD if a dump is given. With both, the plot is the MSD.
func runConfig(c *cfg.Cfg, out io.Writer) error {
	if c.Log != "" {
		tc := *c
		if c.Dump != "" {
			tc.Plot = ""
		}
		run := c.Run
		if err := thermoOutput(&tc, &run, "Step", "Temp", out); err != nil {
			return err
		}
	}
	if c.Dump != "" {
		return msdOutput(c, out)
	}
	return nil
}

func save(path string, f func(context.Context, *store.Store) error) error {
	S, err := store.New(path)
	if err != nil {
		return err
	}
	defer S.Close()
	if err := f(context.Background(), S); err != nil {
		return err
	}
	log.Info().Str("db", path).Msg("results saved")
	return nil
}
