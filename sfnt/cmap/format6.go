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
	"seehuhn.de/go/sfnt/glyph"
)

// Format6 represents a format 6 cmap subtable.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-6-trimmed-table-mapping
type Format6 struct {
	FirstCode    uint16
	GlyphIDArray []glyph.ID
}

func decodeFormat6(data []byte) (Subtable, error) {
	if len(data) < 10 {
		return nil, errMalformedSubtable
	}
	firstCode := uint16(data[6])<<8 | uint16(data[7])
	count := int(data[8])<<8 | int(data[9])

	// some fonts have an excess 0x0000 at the end of the table
	if len(data) == 10+2*count+2 && data[10+2*count] == 0 && data[10+2*count+1] == 0 {
		data = data[:10+2*count]
	}

	if len(data) != 10+2*count || int(firstCode)+count > 0x10000 {
		return nil, errMalformedSubtable
	}

	res := &Format6{
		FirstCode:    firstCode,
		GlyphIDArray: make([]glyph.ID, count),
	}
	for i := 0; i < count; i++ {
		res.GlyphIDArray[i] = glyph.ID(data[10+2*i])<<8 | glyph.ID(data[11+2*i])
	}
	return res, nil
}

// Lookup implements the Subtable interface.
func (cmap *Format6) Lookup(code uint32) glyph.ID {
	if code < uint32(cmap.FirstCode) {
		return 0
	}
	idx := code - uint32(cmap.FirstCode)
	if idx >= uint32(len(cmap.GlyphIDArray)) {
		return 0
	}
	return cmap.GlyphIDArray[idx]
}

// Delete implements the Subtable interface.
func (cmap *Format6) Delete(code uint32) bool {
	if cmap.Lookup(code) == 0 {
		return false
	}
	cmap.GlyphIDArray[code-uint32(cmap.FirstCode)] = 0
	return true
}

// Codes implements the Subtable interface.
func (cmap *Format6) Codes() []uint32 {
	var res []uint32
	for i, gid := range cmap.GlyphIDArray {
		if gid != 0 {
			res = append(res, uint32(cmap.FirstCode)+uint32(i))
		}
	}
	return res
}

// Encode implements the Subtable interface.
// Unmapped codes at either end of the array are trimmed.
func (cmap *Format6) Encode(language uint16) []byte {
	firstCode, gids := trimGlyphs(uint32(cmap.FirstCode), cmap.GlyphIDArray)

	n := len(gids)
	length := 10 + 2*n
	res := make([]byte, length)
	copy(res, []byte{
		0, 6,
		byte(length >> 8), byte(length),
		byte(language >> 8), byte(language),
		byte(firstCode >> 8), byte(firstCode),
		byte(n >> 8), byte(n),
	})
	for i, id := range gids {
		res[10+2*i] = byte(id >> 8)
		res[11+2*i] = byte(id)
	}
	return res
}

// CodeRange implements the Subtable interface.
func (cmap *Format6) CodeRange() (low, high uint32) {
	firstCode, gids := trimGlyphs(uint32(cmap.FirstCode), cmap.GlyphIDArray)
	if len(gids) == 0 {
		return 0, 0
	}
	return firstCode, firstCode + uint32(len(gids)) - 1
}

// trimGlyphs removes unmapped entries from both ends of a glyph array.
// If no entry is mapped, the returned first code is 0.
func trimGlyphs(firstCode uint32, gids []glyph.ID) (uint32, []glyph.ID) {
	i := 0
	for i < len(gids) && gids[i] == 0 {
		i++
	}
	if i == len(gids) {
		return 0, nil
	}
	j := len(gids)
	for gids[j-1] == 0 {
		j--
	}
	return firstCode + uint32(i), gids[i:j]
}
