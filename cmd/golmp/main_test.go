package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lmp "github.com/rmera/golmp"
)

func TestLogCommand(Te *testing.T) {
	var b bytes.Buffer
	if err := run([]string{"log", "../../test/log.lammps", "1"}, &b); err != nil {
		Te.Fatal(err)
	}
	out := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(out) != 6 || !strings.HasPrefix(out[0], "Step Temp") {
		Te.Errorf("unexpected output:\n%s", b.String())
	}
	b.Reset()
	if err := run([]string{"acf", "../../test/log.lammps", "Temp", "1"}, &b); err != nil {
		Te.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "lag Temp\n0 ") {
		Te.Errorf("unexpected autocorrelation:\n%s", b.String())
	}
	err := run([]string{"log", "../../test/log.lammps", "7"}, &b)
	if !errors.Is(err, lmp.RunNotFound) {
		Te.Errorf("expected RunNotFound, got %v", err)
	}
}

func TestGrepCommand(Te *testing.T) {
	var b bytes.Buffer
	if err := run([]string{"grep", "../../test/log.lammps", "Loop time"}, &b); err != nil {
		Te.Fatal(err)
	}
	if n := strings.Count(b.String(), "\n"); n != 2 {
		Te.Errorf("expected 2 lines, got %d:\n%s", n, b.String())
	}
}

func TestMSDCommand(Te *testing.T) {
	var b bytes.Buffer
	dir := Te.TempDir()
	db := filepath.Join(dir, "out.db")
	if err := run([]string{"msd", "-unwrap", "-db", db, "../../test/dump.lammpstrj"}, &b); err != nil {
		Te.Fatal(err)
	}
	out := strings.Split(strings.TrimSpace(b.String()), "\n")
	var ts int
	var msd float64
	if _, err := fmt.Sscan(out[len(out)-1], &ts, &msd); err != nil || ts != 200 || math.Abs(msd-2.04) > 1e-9 {
		Te.Errorf("unexpected output:\n%s", b.String())
	}
	if _, err := os.Stat(db); err != nil {
		Te.Error(err)
	}
	b.Reset()
	if err := run([]string{"dump", "../../test/dump.lammpstrj"}, &b); err != nil {
		Te.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "3 frames") {
		Te.Errorf("unexpected output:\n%s", b.String())
	}
}

func TestConfig(Te *testing.T) {
	dir := Te.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := "log: ../../test/log.lammps\ndump: ../../test/dump.lammpstrj\nunwrap: true\nplot: " + filepath.Join(dir, "msd.png") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		Te.Fatal(err)
	}
	var b bytes.Buffer
	if err := run([]string{"-config", path}, &b); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(b.String(), "timestep msd") || !strings.Contains(b.String(), "Step Temp") {
		Te.Errorf("unexpected output:\n%s", b.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "msd.png")); err != nil {
		Te.Error(err)
	}
}

func TestUsage(Te *testing.T) {
	for _, args := range [][]string{nil, {"frobnicate"}, {"grep", "file"}, {"log"}, {"-nope"}} {
		if err := run(args, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			Te.Errorf("%v: expected a usage error, got %v", args, err)
		}
	}
}
