// seehuhn.de/go/cmapstrip - remove code points from font collection cmaps
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package cmap

import (
	"seehuhn.de/go/sfnt/glyph"
)

// Format10 represents a format 10 cmap subtable.
// This is the 32-bit version of Format6.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-10-trimmed-array
type Format10 struct {
	StartCharCode uint32
	Glyphs        []glyph.ID
}

func decodeFormat10(data []byte) (Subtable, error) {
	if len(data) < 20 {
		return nil, errMalformedSubtable
	}
	startCharCode := uint32(data[12])<<24 | uint32(data[13])<<16 | uint32(data[14])<<8 | uint32(data[15])
	numChars := uint32(data[16])<<24 | uint32(data[17])<<16 | uint32(data[18])<<8 | uint32(data[19])
	if numChars > 0x11_0000 || uint32(len(data)) != 20+2*numChars ||
		startCharCode > 0x11_0000-numChars {
		return nil, errMalformedSubtable
	}

	res := &Format10{
		StartCharCode: startCharCode,
		Glyphs:        make([]glyph.ID, numChars),
	}
	for i := range res.Glyphs {
		res.Glyphs[i] = glyph.ID(data[20+2*i])<<8 | glyph.ID(data[21+2*i])
	}
	return res, nil
}

// Lookup implements the Subtable interface.
func (cmap *Format10) Lookup(code uint32) glyph.ID {
	if code < cmap.StartCharCode {
		return 0
	}
	idx := code - cmap.StartCharCode
	if idx >= uint32(len(cmap.Glyphs)) {
		return 0
	}
	return cmap.Glyphs[idx]
}

// Delete implements the Subtable interface.
func (cmap *Format10) Delete(code uint32) bool {
	if cmap.Lookup(code) == 0 {
		return false
	}
	cmap.Glyphs[code-cmap.StartCharCode] = 0
	return true
}

// Codes implements the Subtable interface.
func (cmap *Format10) Codes() []uint32 {
	var res []uint32
	for i, gid := range cmap.Glyphs {
		if gid != 0 {
			res = append(res, cmap.StartCharCode+uint32(i))
		}
	}
	return res
}

// Encode implements the Subtable interface.
// Unmapped codes at either end of the array are trimmed.
func (cmap *Format10) Encode(language uint16) []byte {
	start, gids := trimGlyphs(cmap.StartCharCode, cmap.Glyphs)

	n := uint32(len(gids))
	length := 20 + 2*n
	res := make([]byte, length)
	copy(res, []byte{
		0, 10, 0, 0,
		byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length),
		0, 0, byte(language >> 8), byte(language),
		byte(start >> 24), byte(start >> 16), byte(start >> 8), byte(start),
		byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
	})
	for i, id := range gids {
		res[20+2*i] = byte(id >> 8)
		res[21+2*i] = byte(id)
	}
	return res
}

// CodeRange implements the Subtable interface.
func (cmap *Format10) CodeRange() (low, high uint32) {
	start, gids := trimGlyphs(cmap.StartCharCode, cmap.Glyphs)
	if len(gids) == 0 {
		return 0, 0
	}
	return start, start + uint32(len(gids)) - 1
}
