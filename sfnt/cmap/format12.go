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
	"sort"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/sfnt/glyph"
)

// Format12 represents a format 12 cmap subtable.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-12-segmented-coverage
type Format12 []Group

// Group is a range of consecutive codes in a format 12 or 13 subtable.
// In format 12, code StartCharCode+i maps to glyph StartGlyphID+i.
// In format 13, all codes in the range map to StartGlyphID.
type Group struct {
	StartCharCode uint32
	EndCharCode   uint32
	StartGlyphID  uint32
}

func decodeFormat12(data []byte) (Subtable, error) {
	groups, err := decodeGroups(data, true)
	if err != nil {
		return nil, err
	}
	cmap := Format12(groups)
	return &cmap, nil
}

// decodeGroups reads the groups of a format 12 or 13 subtable, or of a
// format 8 subtable with the bit array cut out.
func decodeGroups(data []byte, sequential bool) ([]Group, error) {
	if len(data) < 16 {
		return nil, errMalformedSubtable
	}

	nGroups := uint32(data[12])<<24 | uint32(data[13])<<16 | uint32(data[14])<<8 | uint32(data[15])
	if nGroups > 1e6 || uint64(len(data)) != 16+uint64(nGroups)*12 {
		return nil, errMalformedSubtable
	}

	groups := make([]Group, nGroups)
	var prevEnd uint32
	for i := uint32(0); i < nGroups; i++ {
		base := 16 + i*12
		g := Group{
			StartCharCode: uint32(data[base])<<24 | uint32(data[base+1])<<16 | uint32(data[base+2])<<8 | uint32(data[base+3]),
			EndCharCode:   uint32(data[base+4])<<24 | uint32(data[base+5])<<16 | uint32(data[base+6])<<8 | uint32(data[base+7]),
			StartGlyphID:  uint32(data[base+8])<<24 | uint32(data[base+9])<<16 | uint32(data[base+10])<<8 | uint32(data[base+11]),
		}

		if i > 0 && g.StartCharCode <= prevEnd ||
			g.EndCharCode < g.StartCharCode ||
			g.EndCharCode > 0x10_FFFF ||
			g.StartGlyphID > 0xFFFF ||
			sequential && g.StartGlyphID+(g.EndCharCode-g.StartCharCode) > 0xFFFF {
			return nil, errMalformedSubtable
		}
		groups[i] = g
		prevEnd = g.EndCharCode
	}

	return groups, nil
}

// Lookup implements the Subtable interface.
func (cmap Format12) Lookup(code uint32) glyph.ID {
	idx := findGroup(cmap, code)
	if idx < 0 {
		return 0
	}
	g := cmap[idx]
	return glyph.ID(g.StartGlyphID + (code - g.StartCharCode))
}

// Delete implements the Subtable interface.
// This may split a group into two.  Since Format12 is a slice type,
// Delete needs a pointer receiver.
func (cmap *Format12) Delete(code uint32) bool {
	gid := cmap.Lookup(code)
	groups, ok := deleteFromGroups(*cmap, code, true)
	if ok {
		*cmap = groups
	}
	return gid != 0
}

// Codes implements the Subtable interface.
func (cmap Format12) Codes() []uint32 {
	var res []uint32
	for _, g := range cmap {
		for code := g.StartCharCode; ; code++ {
			if g.StartGlyphID+(code-g.StartCharCode) != 0 {
				res = append(res, code)
			}
			if code == g.EndCharCode {
				break
			}
		}
	}
	return res
}

// Encode implements the Subtable interface.
func (cmap Format12) Encode(language uint16) []byte {
	return encodeGroups(12, cmap, language)
}

// CodeRange implements the Subtable interface.
func (cmap Format12) CodeRange() (low, high uint32) {
	return codeRange(cmap.Codes())
}

// findGroup returns the index of the group containing code, or -1.
func findGroup(groups []Group, code uint32) int {
	idx := sort.Search(len(groups), func(i int) bool {
		return code <= groups[i].EndCharCode
	})
	if idx == len(groups) || groups[idx].StartCharCode > code {
		return -1
	}
	return idx
}

// deleteFromGroups removes code from the group which contains it.
// If sequential is true, glyph IDs increase along each group (format 12),
// otherwise all codes in a group share one glyph (format 13).
// The second return value reports whether code was covered by a group.
func deleteFromGroups(groups []Group, code uint32, sequential bool) ([]Group, bool) {
	idx := findGroup(groups, code)
	if idx < 0 {
		return groups, false
	}

	g := groups[idx]
	switch {
	case g.StartCharCode == g.EndCharCode:
		return slices.Delete(groups, idx, idx+1), true
	case code == g.StartCharCode:
		groups[idx].StartCharCode++
		if sequential {
			groups[idx].StartGlyphID++
		}
	case code == g.EndCharCode:
		groups[idx].EndCharCode--
	default:
		tail := Group{
			StartCharCode: code + 1,
			EndCharCode:   g.EndCharCode,
			StartGlyphID:  g.StartGlyphID,
		}
		if sequential {
			tail.StartGlyphID += code + 1 - g.StartCharCode
		}
		groups[idx].EndCharCode = code - 1
		groups = slices.Insert(groups, idx+1, tail)
	}
	return groups, true
}

func encodeGroups(format uint16, groups []Group, language uint16) []byte {
	nGroups := len(groups)
	l := uint32(16 + nGroups*12)
	out := make([]byte, l)
	copy(out, []byte{
		byte(format >> 8), byte(format), 0, 0,
		byte(l >> 24), byte(l >> 16), byte(l >> 8), byte(l),
		0, 0, byte(language >> 8), byte(language),
		byte(nGroups >> 24), byte(nGroups >> 16), byte(nGroups >> 8), byte(nGroups),
	})
	for i, g := range groups {
		base := 16 + i*12
		out[base] = byte(g.StartCharCode >> 24)
		out[base+1] = byte(g.StartCharCode >> 16)
		out[base+2] = byte(g.StartCharCode >> 8)
		out[base+3] = byte(g.StartCharCode)
		out[base+4] = byte(g.EndCharCode >> 24)
		out[base+5] = byte(g.EndCharCode >> 16)
		out[base+6] = byte(g.EndCharCode >> 8)
		out[base+7] = byte(g.EndCharCode)
		out[base+8] = byte(g.StartGlyphID >> 24)
		out[base+9] = byte(g.StartGlyphID >> 16)
		out[base+10] = byte(g.StartGlyphID >> 8)
		out[base+11] = byte(g.StartGlyphID)
	}
	return out
}
