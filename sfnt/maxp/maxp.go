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

// Package maxp reads the glyph count from "maxp" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/maxp
package maxp

import (
	"errors"
)

// Info contains information from the "maxp" table.
type Info struct {
	// Version is 0x00005000 for CFF-based fonts and 0x00010000 for
	// TrueType fonts.
	Version uint32

	// NumGlyphs is number of glyphs in the font, in the range 1, ..., 65535.
	NumGlyphs int
}

// Decode reads the fixed part of a "maxp" table.
// The TrueType-specific limits which follow are ignored.
func Decode(data []byte) (*Info, error) {
	if len(data) < 6 {
		return nil, errTruncated
	}

	version := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	if version != 0x00005000 && version != 0x00010000 {
		return nil, errors.New("sfnt/maxp: unknown version")
	}
	if version == 0x00010000 && len(data) < 32 {
		return nil, errTruncated
	}

	numGlyphs := int(data[4])<<8 | int(data[5])
	if numGlyphs == 0 {
		return nil, errors.New("sfnt/maxp: numGlyphs is zero")
	}
	return &Info{
		Version:   version,
		NumGlyphs: numGlyphs,
	}, nil
}

var errTruncated = errors.New("sfnt/maxp: table too short")
