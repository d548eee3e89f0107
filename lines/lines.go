/*
 * lines.go, part of golmp.
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

// Package lines reads text files line by line. Files compressed with gzip or
// zstd are decompressed on the fly, the compression is detected from the
// first bytes of the file, not from its name.
package lines

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	lmp "github.com/rmera/golmp"
)

// MaxLineLen is the longest line a Source can return.
const MaxLineLen = 16 * 1024 * 1024

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// zstd.Decoder's Close does not return an error, so it can't be an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// Source is a sequential supplier of the lines in a file, without the line terminators.
type Source struct {
	f        *os.File
	dec      io.ReadCloser
	sc       *bufio.Scanner
	filename string
	line     int
}

// Open opens filename for reading. The error, if any, is a lmp.FileNotFound error.
func Open(filename string) (*Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, lmp.NewError(lmp.FileNotFound, filename, "can't open file", "lines.Open").Wrap(err)
	}
	S := &Source{f: f, filename: filename}
	br := bufio.NewReaderSize(f, 1<<16)
	magic, _ := br.Peek(4) //a short file is just a short plain text file.
	var r io.Reader = br
	switch {
	case bytes.HasPrefix(magic, zstdMagic):
		d, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, lmp.NewError(lmp.WrongFormat, filename, "can't start zstd decoder", "lines.Open").Wrap(err)
		}
		S.dec = zstdCloser{d}
		r = d
	case bytes.HasPrefix(magic, gzipMagic):
		d, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, lmp.NewError(lmp.WrongFormat, filename, "can't start gzip decoder", "lines.Open").Wrap(err)
		}
		S.dec = d
		r = d
	}
	S.sc = bufio.NewScanner(r)
	S.sc.Buffer(make([]byte, 0, 1<<16), MaxLineLen)
	return S, nil
}

// Next returns the next line, and false when there are no more lines
// or a read error happened. Check Err after Next returns false.
func (S *Source) Next() (string, bool) {
	if !S.sc.Scan() {
		return "", false
	}
	S.line++
	return S.sc.Text(), true
}

// Line returns the number of the last line returned by Next, starting from 1.
func (S *Source) Line() int { return S.line }

// FileName returns the name of the file being read.
func (S *Source) FileName() string { return S.filename }

// Err returns the first read error, or nil.
func (S *Source) Err() error {
	if err := S.sc.Err(); err != nil {
		return lmp.NewError(lmp.WrongFormat, S.filename, "read error", "lines.Source").Wrap(err)
	}
	return nil
}

// Close closes the decompressor, if any, and the file.
func (S *Source) Close() error {
	if S.dec != nil {
		S.dec.Close()
	}
	return S.f.Close()
}

// Each calls f for every line in filename, in order, stopping at the first
// error returned by f.
func Each(filename string, f func(line string) error) error {
	S, err := Open(filename)
	if err != nil {
		return err
	}
	defer S.Close()
	for l, ok := S.Next(); ok; l, ok = S.Next() {
		if err := f(l); err != nil {
			return err
		}
	}
	return S.Err()
}

// GrepPrefix returns, in file order, the lines of filename that start with prefix.
// The comparison is case-sensitive and lines are not trimmed.
func GrepPrefix(filename, prefix string) ([]string, error) {
	ret := make([]string, 0)
	err := Each(filename, func(l string) error {
		if strings.HasPrefix(l, prefix) {
			ret = append(ret, l)
		}
		return nil
	})
	if err != nil {
		return nil, lmp.Decorate(err, "GrepPrefix")
	}
	return ret, nil
}
