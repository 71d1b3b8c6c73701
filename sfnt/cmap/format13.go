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

// Format13 represents a format 13 cmap subtable.
// This format is used by "last resort" fonts, where large ranges of
// codes map to the same glyph.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-13-many-to-one-range-mappings
type Format13 []Group

func decodeFormat13(data []byte) (Subtable, error) {
	groups, err := decodeGroups(data, false)
	if err != nil {
		return nil, err
	}
	cmap := Format13(groups)
	return &cmap, nil
}

// Lookup implements the Subtable interface.
func (cmap Format13) Lookup(code uint32) glyph.ID {
	idx := findGroup(cmap, code)
	if idx < 0 {
		return 0
	}
	return glyph.ID(cmap[idx].StartGlyphID)
}

// Delete implements the Subtable interface.
func (cmap *Format13) Delete(code uint32) bool {
	gid := cmap.Lookup(code)
	groups, ok := deleteFromGroups(*cmap, code, false)
	if ok {
		*cmap = groups
	}
	return gid != 0
}

// Codes implements the Subtable interface.
func (cmap Format13) Codes() []uint32 {
	var res []uint32
	for _, g := range cmap {
		if g.StartGlyphID == 0 {
			continue
		}
		for code := g.StartCharCode; ; code++ {
			res = append(res, code)
			if code == g.EndCharCode {
				break
			}
		}
	}
	return res
}

// Encode implements the Subtable interface.
func (cmap Format13) Encode(language uint16) []byte {
	return encodeGroups(13, cmap, language)
}

// CodeRange implements the Subtable interface.
func (cmap Format13) CodeRange() (low, high uint32) {
	found := false
	for _, g := range cmap {
		if g.StartGlyphID == 0 {
			continue
		}
		if !found {
			low = g.StartCharCode
			found = true
		}
		high = g.EndCharCode
	}
	return low, high
}
