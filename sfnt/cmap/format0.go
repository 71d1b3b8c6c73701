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

package cmap

import (
	"fmt"

	"seehuhn.de/go/sfnt/glyph"
)

// Format0 represents a format 0 cmap subtable.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-0-byte-encoding-table
type Format0 struct {
	Data [256]byte
}

func decodeFormat0(data []byte) (Subtable, error) {
	data = data[6:]
	if len(data) != 256 {
		return nil, fmt.Errorf("cmap: format 0: expected 256 bytes, got %d", len(data))
	}

	res := &Format0{}
	copy(res.Data[:], data)
	return res, nil
}

// Lookup implements the Subtable interface.
func (cmap *Format0) Lookup(code uint32) glyph.ID {
	if code > 255 {
		return 0
	}
	return glyph.ID(cmap.Data[code])
}

// Delete implements the Subtable interface.
func (cmap *Format0) Delete(code uint32) bool {
	if code > 255 || cmap.Data[code] == 0 {
		return false
	}
	cmap.Data[code] = 0
	return true
}

// Codes implements the Subtable interface.
func (cmap *Format0) Codes() []uint32 {
	var res []uint32
	for code, gid := range cmap.Data {
		if gid != 0 {
			res = append(res, uint32(code))
		}
	}
	return res
}

// Encode implements the Subtable interface.
func (cmap *Format0) Encode(language uint16) []byte {
	L := 2 + 2 + 2 + 256
	buf := make([]byte, 0, L)
	buf = append(buf,
		0, 0, // format
		byte(L>>8), byte(L), // length
		byte(language>>8), byte(language), // language
	)
	buf = append(buf, cmap.Data[:]...)
	return buf
}

// CodeRange implements the Subtable interface.
func (cmap *Format0) CodeRange() (low, high uint32) {
	return codeRange(cmap.Codes())
}
