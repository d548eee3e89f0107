package cfg

import (
	"os"
	"path/filepath"
	"testing"
)

func write(Te *testing.T, name, content string) string {
	path := filepath.Join(Te.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestYAML(Te *testing.T) {
	path := write(Te, "run.yaml", `
log: ../test/log.lammps
run: 1
dump: ../test/dump.lammpstrj
unwrap: true
workers: 2
columns:
  x: xu
  y: yu
  z: zu
dialect:
  start: "Step"
  end: ["Loop time"]
`)
	c, err := New(path)
	if err != nil {
		Te.Fatal(err)
	}
	if c.Run != 1 || !c.Unwrap || c.Workers != 2 {
		Te.Errorf("wrong values %+v", c)
	}
	O := c.AnalyzeOptions()
	if O.ID != "id" || O.Coords[0] != "xu" || O.Workers != 2 {
		Te.Errorf("wrong analyze options %+v", O)
	}
	if O.Dump == nil || O.Dump.Workers != 2 || O.Dump.Markers.Timestep != "ITEM: TIMESTEP" {
		Te.Errorf("the analyze options should carry the dump options: %+v", O.Dump)
	}
	T := c.ThermoOptions()
	if T.Dialect.Start != "Step" || len(T.Dialect.End) != 1 || len(T.Dialect.Unsupported) != 0 {
		Te.Errorf("dialect not applied %+v", T.Dialect)
	}
}

func TestTOML(Te *testing.T) {
	path := write(Te, "run.toml", `
dump = "../test/dump.lammpstrj"
db = "out.db"

[columns]
id = "atom"
`)
	c, err := New(path)
	if err != nil {
		Te.Fatal(err)
	}
	if c.Columns.ID != "atom" || c.Columns.X != "x" || c.DB != "out.db" {
		Te.Errorf("wrong values %+v", c)
	}
	if c.ThermoOptions().Dialect.Start != "Per MPI rank memory allocation" {
		Te.Errorf("the default dialect should be LAMMPS")
	}
	if c.DumpOptions().Markers.Atoms != "ITEM: ATOMS" {
		Te.Errorf("the default markers should be LAMMPS")
	}
}

func TestCheck(Te *testing.T) {
	for name, c := range map[string]*Cfg{
		"no input":          {Columns: Default().Columns},
		"negative":          {Log: "log", Workers: -1, Columns: Default().Columns},
		"empty column":      {Dump: "dump", Columns: Columns{ID: "id", X: "x", Y: " ", Z: "z"}},
		"dialect, no start": {Log: "log", Columns: Default().Columns, Dialect: &Dialect{End: []string{"Loop"}}},
	} {
		if err := c.Check(); err == nil {
			Te.Errorf("%s: expected an error", name)
		}
	}
	c := Default()
	c.Log = "log"
	if err := c.Check(); err != nil {
		Te.Error(err)
	}
	if _, err := New(write(Te, "bad.yaml", "lgo: x\n")); err == nil {
		Te.Errorf("unknown keys should be rejected")
	}
	if _, err := New(write(Te, "empty.toml", "workers = 1\n")); err == nil {
		Te.Errorf("a config without log nor dump should be rejected")
	}
}
