/*
 * interfaces.go, part of golmp.
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
	"strings"
)

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice resulting from the current call. An empty string only returns the current value.
}

// ParseError is the interface for errors produced while reading a log or dump file.
type ParseError interface {
	Error
	Kind() Kind
	FileName() string
}

// Kind classifies a PError. A Kind is itself an error, so it can be used
// as the target of errors.Is.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	FileNotFound      Kind = "file not found"
	UnsupportedFormat Kind = "unsupported format"
	RunNotFound       Kind = "run not found"
	EmptyColumnSet    Kind = "empty column set"
	EmptyTrajectory   Kind = "empty trajectory"
	WrongFormat       Kind = "wrong format"
)

// PError is the general structure for golmp errors. It fullfills lmp.Error and lmp.ParseError.
type PError struct {
	kind     Kind
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     *[]string
	cause    error
}

// NewError returns a *PError of the given kind. caller is the first decoration.
func NewError(kind Kind, filename, message, caller string) *PError {
	deco := []string{}
	if caller != "" {
		deco = append(deco, caller)
	}
	return &PError{kind: kind, message: message, filename: filename, deco: &deco}
}

// Wrap sets the underlying cause of the error, and returns the error.
func (err *PError) Wrap(cause error) *PError {
	err.cause = cause
	return err
}

func (err *PError) Error() string {
	var b strings.Builder
	b.WriteString(string(err.kind))
	if err.filename != "" {
		fmt.Fprintf(&b, " (%s)", err.filename)
	}
	if err.message != "" {
		b.WriteString(": ")
		b.WriteString(err.message)
	}
	if err.cause != nil {
		b.WriteString(": ")
		b.WriteString(err.cause.Error())
	}
	return b.String()
}

// Decorate adds deco to the trail of callers and returns the trail.
func (err *PError) Decorate(deco string) []string {
	if deco != "" {
		*err.deco = append(*err.deco, deco)
	}
	return *err.deco
}

func (err *PError) Kind() Kind { return err.kind }

func (err *PError) FileName() string { return err.filename }

func (err *PError) Message() string { return err.message }

func (err *PError) Unwrap() error { return err.cause }

// Is reports whether target is the Kind of err.
func (err *PError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.kind
}

// Decorate is a helper that decorates err with the caller's name, if err
// implements Error, and returns it. Other errors are returned unchanged.
func Decorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
	}
	return err
}

// Trail returns the decoration trail of err, or nil if err is not an Error.
func Trail(err error) []string {
	if err2, ok := err.(Error); ok {
		return err2.Decorate("")
	}
	return nil
}
