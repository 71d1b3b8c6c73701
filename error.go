// seehuhn.de/go/cmapstrip - remove code points from font collection cmaps
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cmapstrip

import (
	"errors"
)

var (
	// ErrNoExclusionSet is returned if no exclusion set is given.
	ErrNoExclusionSet = errors.New("cmapstrip: no exclusion set")

	// ErrInPlace is returned if the output file would overwrite the input.
	ErrInPlace = errors.New("cmapstrip: output would overwrite input")
)

// ParseError indicates that a file is not a valid font collection.
type ParseError struct {
	Path string
	Err  error
}

func (err *ParseError) Error() string {
	msg := "not a valid font collection"
	if err.Path != "" {
		msg = err.Path + ": " + msg
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// WriteError indicates that the output could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (err *WriteError) Error() string {
	msg := "cannot write font collection"
	if err.Path != "" {
		msg += " " + err.Path
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *WriteError) Unwrap() error {
	return err.Err
}

// setPath fills in the file name for errors returned by EditCollection.
func setPath(err error, path string) error {
	var pErr *ParseError
	if errors.As(err, &pErr) && pErr.Path == "" {
		pErr.Path = path
	}
	var wErr *WriteError
	if errors.As(err, &wErr) && wErr.Path == "" {
		wErr.Path = path
	}
	return err
}
