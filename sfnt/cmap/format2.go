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
	"fmt"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/sfnt/glyph"
)

// Format2 represents a format 2 cmap subtable.
// This format is used for mixed 8/16-bit encodings like Shift-JIS, where
// some byte values start a two-byte code.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-2-high-byte-mapping-through-table
type Format2 struct {
	// LeadBytes marks the first bytes of two-byte codes.
	// Byte 0x00 cannot be a lead byte.
	LeadBytes [256]bool

	// Map gives the glyph for each code.  Single-byte codes are stored as
	// values below 256, two-byte codes as lead<<8 | trail.
	Map map[uint16]glyph.ID
}

const format2Header = 6 + 2*256

func decodeFormat2(data []byte) (Subtable, error) {
	if len(data) < format2Header {
		return nil, errMalformedSubtable
	}

	res := &Format2{Map: make(map[uint16]glyph.ID)}
	var subIdx [256]int
	numSub := 1
	for i := range subIdx {
		k := int(data[6+2*i])<<8 | int(data[7+2*i])
		if k%8 != 0 {
			return nil, errMalformedSubtable
		}
		subIdx[i] = k / 8
		numSub = max(numSub, k/8+1)
		res.LeadBytes[i] = k != 0
	}
	if res.LeadBytes[0] {
		// Two-byte codes 0x00XX cannot be told apart from single bytes.
		return nil, fmt.Errorf("%w 2 with lead byte 0x00", ErrUnsupportedFormat)
	}
	if format2Header+8*numSub > len(data) {
		return nil, errMalformedSubtable
	}

	lookup := func(k, b int) (glyph.ID, error) {
		pos := format2Header + 8*k
		firstCode := int(data[pos])<<8 | int(data[pos+1])
		entryCount := int(data[pos+2])<<8 | int(data[pos+3])
		idDelta := uint16(data[pos+4])<<8 | uint16(data[pos+5])
		idRangeOffset := int(data[pos+6])<<8 | int(data[pos+7])
		if b < firstCode || b >= firstCode+entryCount {
			return 0, nil
		}
		// The offset is relative to the position of the idRangeOffset field.
		p := pos + 6 + idRangeOffset + 2*(b-firstCode)
		if p+2 > len(data) {
			return 0, errMalformedSubtable
		}
		val := uint16(data[p])<<8 | uint16(data[p+1])
		if val == 0 {
			return 0, nil
		}
		return glyph.ID(val + idDelta), nil
	}

	for hi := 0; hi < 256; hi++ {
		if !res.LeadBytes[hi] {
			gid, err := lookup(0, hi)
			if err != nil {
				return nil, err
			}
			if gid != 0 {
				res.Map[uint16(hi)] = gid
			}
			continue
		}
		for lo := 0; lo < 256; lo++ {
			gid, err := lookup(subIdx[hi], lo)
			if err != nil {
				return nil, err
			}
			if gid != 0 {
				res.Map[uint16(hi<<8|lo)] = gid
			}
		}
	}
	return res, nil
}

// Lookup implements the Subtable interface.
func (cmap *Format2) Lookup(code uint32) glyph.ID {
	if code > 0xFFFF {
		return 0
	}
	return cmap.Map[uint16(code)]
}

// Delete implements the Subtable interface.
func (cmap *Format2) Delete(code uint32) bool {
	if code > 0xFFFF {
		return false
	}
	if cmap.Map[uint16(code)] == 0 {
		return false
	}
	delete(cmap.Map, uint16(code))
	return true
}

// Codes implements the Subtable interface.
func (cmap *Format2) Codes() []uint32 {
	res := make([]uint32, 0, len(cmap.Map))
	for code, gid := range cmap.Map {
		if gid != 0 {
			res = append(res, uint32(code))
		}
	}
	slices.Sort(res)
	return res
}

// Encode implements the Subtable interface.
// Lead bytes which share the same trail byte mappings share one
// subheader, and identical glyph runs are stored once.
func (cmap *Format2) Encode(language uint16) []byte {
	type subHeader struct {
		firstCode  int
		entryCount int
		pos        int // start in glyphs
	}
	var glyphs []uint16
	runs := make(map[string]int)
	addRun := func(run []uint16) int {
		key := string(appendUint16(nil, run...))
		if pos, ok := runs[key]; ok {
			return pos
		}
		pos := len(glyphs)
		runs[key] = pos
		glyphs = append(glyphs, run...)
		return pos
	}
	// makeSub builds the subheader for the trail bytes of lead,
	// or for the single-byte codes if lead is 0.
	makeSub := func(lead int) subHeader {
		var vals [256]uint16
		first, last := -1, -1
		for b := 0; b < 256; b++ {
			if lead == 0 && cmap.LeadBytes[b] {
				continue
			}
			gid := cmap.Map[uint16(lead<<8|b)]
			if gid == 0 {
				continue
			}
			vals[b] = uint16(gid)
			if first < 0 {
				first = b
			}
			last = b
		}
		if first < 0 {
			return subHeader{}
		}
		return subHeader{
			firstCode:  first,
			entryCount: last - first + 1,
			pos:        addRun(vals[first : last+1]),
		}
	}

	subs := []subHeader{makeSub(0)}
	var keys [256]uint16
	for lead := 1; lead < 256; lead++ {
		if !cmap.LeadBytes[lead] {
			continue
		}
		s := makeSub(lead)
		idx := slices.Index(subs[1:], s) + 1
		if idx == 0 {
			idx = len(subs)
			subs = append(subs, s)
		}
		keys[lead] = uint16(8 * idx)
	}

	arrayStart := format2Header + 8*len(subs)
	length := arrayStart + 2*len(glyphs)
	buf := make([]byte, 0, length)
	buf = appendUint16(buf,
		2, // format
		uint16(length),
		language,
	)
	buf = appendUint16(buf, keys[:]...)
	for k, s := range subs {
		fieldPos := format2Header + 8*k + 6
		buf = appendUint16(buf,
			uint16(s.firstCode),
			uint16(s.entryCount),
			0, // idDelta
			uint16(arrayStart+2*s.pos-fieldPos),
		)
	}
	buf = appendUint16(buf, glyphs...)
	return buf
}

// CodeRange implements the Subtable interface.
func (cmap *Format2) CodeRange() (low, high uint32) {
	return codeRange(cmap.Codes())
}
