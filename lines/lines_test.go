package lines

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	lmp "github.com/rmera/golmp"
)

const sample = "thermo 100\n  thermo indented\nThermo upper\nthermo_style custom step temp\r\nlast line without newline"

func writeCompressed(Te *testing.T, name string, kind string) string {
	path := filepath.Join(Te.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	switch kind {
	case "gzip":
		w := gzip.NewWriter(f)
		w.Write([]byte(sample))
		w.Close()
	case "zstd":
		w, err := zstd.NewWriter(f)
		if err != nil {
			Te.Fatal(err)
		}
		w.Write([]byte(sample))
		w.Close()
	default:
		f.Write([]byte(sample))
	}
	return path
}

func TestGrepPrefix(Te *testing.T) {
	for _, kind := range []string{"plain", "gzip", "zstd"} {
		//the names are deliberately misleading, detection uses the content.
		path := writeCompressed(Te, "log.lammps", kind)
		got, err := GrepPrefix(path, "thermo")
		if err != nil {
			Te.Fatal(err)
		}
		want := []string{"thermo 100", "thermo_style custom step temp"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			Te.Errorf("%s: got %q, expected %q", kind, got, want)
		}
	}
}

func TestGrepNoMatch(Te *testing.T) {
	path := writeCompressed(Te, "log", "plain")
	got, err := GrepPrefix(path, "nothing")
	if err != nil {
		Te.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		Te.Errorf("expected an empty, non-nil slice, got %#v", got)
	}
}

func TestSourceLines(Te *testing.T) {
	path := writeCompressed(Te, "log.zst", "zstd")
	S, err := Open(path)
	if err != nil {
		Te.Fatal(err)
	}
	defer S.Close()
	n := 0
	var last string
	for l, ok := S.Next(); ok; l, ok = S.Next() {
		n++
		last = l
	}
	if err := S.Err(); err != nil {
		Te.Fatal(err)
	}
	if n != 5 || S.Line() != 5 || last != "last line without newline" {
		Te.Errorf("read %d lines, last %q", n, last)
	}
}

func TestOpenMissing(Te *testing.T) {
	_, err := Open(filepath.Join(Te.TempDir(), "nope"))
	if !errors.Is(err, lmp.FileNotFound) {
		Te.Errorf("expected FileNotFound, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("the cause should be kept, got %v", err)
	}
}
