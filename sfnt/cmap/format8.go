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

// Format8 represents a format 8 cmap subtable, for mixed 16-bit and
// 32-bit codes.  Codes are stored as in format 12; Is32 is kept so that
// the subtable can be written back unchanged.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-8-mixed-16-bit-and-32-bit-coverage
type Format8 struct {
	// Is32 is a bit array indexed by 16-bit values, marking the values
	// which are the high word of a 32-bit code.
	Is32 [8192]byte

	Groups []Group
}

func decodeFormat8(data []byte) (Subtable, error) {
	if len(data) < 12+8192+4 {
		return nil, errMalformedSubtable
	}
	res := &Format8{}
	copy(res.Is32[:], data[12:])

	// After the bit array, the layout matches format 12 from byte 12 on.
	groups, err := decodeGroups(data[8192:], true)
	if err != nil {
		return nil, err
	}
	res.Groups = groups
	return res, nil
}

// Lookup implements the Subtable interface.
func (cmap *Format8) Lookup(code uint32) glyph.ID {
	return Format12(cmap.Groups).Lookup(code)
}

// Delete implements the Subtable interface.
func (cmap *Format8) Delete(code uint32) bool {
	gid := cmap.Lookup(code)
	groups, ok := deleteFromGroups(cmap.Groups, code, true)
	if ok {
		cmap.Groups = groups
	}
	return gid != 0
}

// Codes implements the Subtable interface.
func (cmap *Format8) Codes() []uint32 {
	return Format12(cmap.Groups).Codes()
}

// Encode implements the Subtable interface.
func (cmap *Format8) Encode(language uint16) []byte {
	groups := encodeGroups(8, cmap.Groups, language)
	l := uint32(len(groups) + 8192)
	out := make([]byte, 0, l)
	out = append(out, groups[:12]...)
	out = append(out, cmap.Is32[:]...)
	out = append(out, groups[12:]...)
	out[4], out[5], out[6], out[7] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
	return out
}

// CodeRange implements the Subtable interface.
func (cmap *Format8) CodeRange() (low, high uint32) {
	return codeRange(cmap.Codes())
}
