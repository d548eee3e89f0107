package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	lmp "github.com/rmera/golmp"
	"github.com/rmera/golmp/analyze"
	"github.com/rmera/golmp/dump"
	"github.com/rmera/golmp/thermo"
)

func TestSaveAll(Te *testing.T) {
	ctx := context.Background()
	S, err := New(filepath.Join(Te.TempDir(), "golmp.db"))
	if err != nil {
		Te.Fatal(err)
	}
	defer S.Close()
	run := uint(1)
	T, err := thermo.ParseRun("../test/log.lammps", &run)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.SaveTable(ctx, "run1", Thermo, "../test/log.lammps", T); err != nil {
		Te.Fatal(err)
	}
	traj, err := dump.ParseTrajectory("../test/dump.lammpstrj")
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.SaveTrajectory(ctx, "traj", traj); err != nil {
		Te.Fatal(err)
	}
	series, err := analyze.MSD(traj, analyze.Absolute)
	if err != nil {
		Te.Fatal(err)
	}
	if err := S.SaveSeries(ctx, "msd", traj.FileName(), series); err != nil {
		Te.Fatal(err)
	}
	for name, expected := range map[string]int{"run1": 5, "traj": 12, "traj_box": 3, "msd": 3} {
		n, err := S.Count(ctx, name)
		if err != nil {
			Te.Fatal(err)
		}
		if n != expected {
			Te.Errorf("%s: %d rows, expected %d", name, n, expected)
		}
	}
	ds, err := S.Datasets(ctx)
	if err != nil {
		Te.Fatal(err)
	}
	if len(ds) != 4 || ds[0].Name != "msd" || ds[0].Kind != MSD || ds[1].Rows != 5 {
		Te.Errorf("unexpected datasets %+v", ds)
	}
	//saving again replaces the table.
	if err := S.SaveTable(ctx, "run1", Thermo, "", traj.BoxBounds); err != nil {
		Te.Fatal(err)
	}
	if n, _ := S.Count(ctx, "run1"); n != 3 {
		Te.Errorf("table not replaced, %d rows", n)
	}
}

func TestSaveErrors(Te *testing.T) {
	S, err := New(":memory:")
	if err != nil {
		Te.Fatal(err)
	}
	defer S.Close()
	ctx := context.Background()
	if err := S.SaveTrajectory(ctx, "empty", &dump.Trajectory{}); !errors.Is(err, lmp.EmptyTrajectory) {
		Te.Errorf("expected EmptyTrajectory, got %v", err)
	}
	T, _ := lmp.NewTable(lmp.NewIntColumn("a", []int64{1}))
	if err := S.SaveTable(ctx, "", Thermo, "", T); err == nil {
		Te.Errorf("an empty name should fail")
	}
	if _, err := S.Count(ctx, "nothere"); err == nil {
		Te.Errorf("counting a missing table should fail")
	}
}
