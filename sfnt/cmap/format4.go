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
	"math/bits"
	"sort"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/cmapstrip/dijkstra"
)

// Format4 represents a format 4 cmap subtable.
// Codes which map to glyph 0 are not stored.
// https://learn.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
type Format4 map[uint16]glyph.ID

func decodeFormat4(in []byte) (Subtable, error) {
	if len(in) < 16 {
		return nil, errMalformedSubtable
	}
	// Some fonts have an odd length, with the last byte unused.
	in = in[:len(in)&^1]

	segCountX2 := int(in[6])<<8 | int(in[7])
	if segCountX2%2 != 0 || 4*segCountX2+16 > len(in) {
		return nil, errMalformedSubtable
	}
	segCount := segCountX2 / 2

	// TODO(voss): decode words on-demand to avoid this allocation.
	words := make([]uint16, 0, (len(in)-14)/2)
	for i := 14; i < len(in); i += 2 {
		words = append(words, uint16(in[i])<<8|uint16(in[i+1]))
	}
	endCode := words[:segCount]
	// reservedPad omitted
	startCode := words[segCount+1 : 2*segCount+1]
	idDelta := words[2*segCount+1 : 3*segCount+1]
	idRangeOffset := words[3*segCount+1 : 4*segCount+1]

	cmap := Format4{}
	prevEnd := uint32(0)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k]) + 1
		if start < prevEnd || end <= start {
			return nil, errMalformedSubtable
		}
		prevEnd = end

		delta := idDelta[k]
		if idRangeOffset[k] == 0 {
			for code := start; code < end; code++ {
				gid := glyph.ID(uint16(code) + delta)
				if gid != 0 {
					cmap[uint16(code)] = gid
				}
			}
			continue
		}

		// The offset is relative to the position of idRangeOffset[k]
		// in the subtable.
		base := 3*segCount + 1 + k + int(idRangeOffset[k])/2
		if idRangeOffset[k]%2 != 0 || base+int(end-start) > len(words) {
			if start == 0xFFFF {
				// some fonts seem to have invalid data for the last segment
				continue
			}
			return nil, errMalformedSubtable
		}
		for code := start; code < end; code++ {
			val := words[base+int(code-start)]
			if val == 0 {
				continue
			}
			gid := glyph.ID(val + delta)
			if gid != 0 {
				cmap[uint16(code)] = gid
			}
		}
	}
	return cmap, nil
}

// Lookup implements the Subtable interface.
func (cmap Format4) Lookup(code uint32) glyph.ID {
	if code > 0xFFFF {
		return 0
	}
	return cmap[uint16(code)]
}

// Delete implements the Subtable interface.
func (cmap Format4) Delete(code uint32) bool {
	if code > 0xFFFF {
		return false
	}
	if _, ok := cmap[uint16(code)]; !ok {
		return false
	}
	delete(cmap, uint16(code))
	return true
}

// Codes implements the Subtable interface.
func (cmap Format4) Codes() []uint32 {
	res := make([]uint32, 0, len(cmap))
	for code, gid := range cmap {
		if gid != 0 {
			res = append(res, uint32(code))
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Encode implements the Subtable interface.
// The segments are chosen to minimise the size of the subtable.
func (cmap Format4) Encode(language uint16) []byte {
	g := make(makeSegments, 0x10000)
	for code, gid := range cmap {
		g[code] = gid
	}
	segments, err := dijkstra.ShortestPath[*segment](g, 0, 0x10000)
	if err != nil {
		// The graph always contains a path along the delta segments.
		panic(err)
	}

	var StartCode, EndCode, IDDelta, IDRangeOffsets, GlyphIDArray []uint16
	for i, s := range segments {
		StartCode = append(StartCode, s.first)
		EndCode = append(EndCode, s.last)
		IDDelta = append(IDDelta, s.delta)
		if !s.useValues {
			IDRangeOffsets = append(IDRangeOffsets, 0)
		} else {
			offs := 2 * (len(segments) - i + // remaining entries in IDRangeOffsets
				len(GlyphIDArray)) // any previous entries in GlyphIDArray
			// Offsets beyond 65535 imply a subtable length beyond 65535,
			// which Table.Replace rejects.
			IDRangeOffsets = append(IDRangeOffsets, uint16(offs))
			for c := uint32(s.first); c <= uint32(s.last); c++ {
				GlyphIDArray = append(GlyphIDArray, uint16(g[c]))
			}
		}
	}

	segCount := len(StartCode)
	sel := bits.Len(uint(segCount))
	length := 2 * (8 + 4*segCount + len(GlyphIDArray))
	searchRange := uint16(1 << sel)
	segCountX2 := uint16(2 * segCount)

	buf := make([]byte, 0, length)
	buf = appendUint16(buf,
		4, // format
		uint16(length),
		language,
		segCountX2,
		searchRange,
		uint16(sel-1), // entrySelector
		segCountX2-searchRange, // rangeShift
	)
	buf = appendUint16(buf, EndCode...)
	buf = appendUint16(buf, 0) // reservedPad
	for _, x := range [][]uint16{StartCode, IDDelta, IDRangeOffsets, GlyphIDArray} {
		buf = appendUint16(buf, x...)
	}
	return buf
}

// CodeRange implements the Subtable interface.
func (cmap Format4) CodeRange() (low, high uint32) {
	if len(cmap) == 0 {
		return
	}
	low = 0xFFFF
	for k, gid := range cmap {
		if gid == 0 {
			continue
		}
		if uint32(k) < low {
			low = uint32(k)
		}
		if uint32(k) > high {
			high = uint32(k)
		}
	}
	if low > high {
		return 0, 0
	}
	return
}

type segment struct {
	first     uint16
	last      uint16
	delta     uint16
	useValues bool
}

// makeSegments describes the possible segmentations of a format 4 subtable
// as a graph.  Vertex v stands for "all codes below v are encoded", an edge
// is a segment.  The slice holds the glyph for each of the 65536 codes.
type makeSegments []glyph.ID

// maxValueRun limits the length of segments which list glyph IDs
// explicitly.  Longer runs are split into several segments.
const maxValueRun = 1024

func (ms makeSegments) Edges(v uint32) []*segment {
	if v > 0xFFFF {
		return nil
	}

	// skip leading .notdef mappings
	start := v
	for start < 0xFFFF && ms[start] == 0 {
		start++
	}

	// check whether this is the last, special segment
	delta := uint16(ms[start]) - uint16(start)
	if start == 0xFFFF {
		return []*segment{
			{first: 0xFFFF, last: 0xFFFF, delta: delta},
		}
	}

	// try to use a delta offset
	end := start + 1
	for end < 0xFFFF && uint16(ms[end])-uint16(end) == delta {
		end++
	}
	segs := []*segment{
		{
			first: uint16(start),
			last:  uint16(end - 1),
			delta: delta,
		},
	}
	if end-start >= 4 || start == 0xFFFE {
		return segs
	}

	// as a last resort, store GID values explicitly
	prevDelta := delta
	numDelta := 1
	numNotdef := 0
	end = start + 1
	for end < 0xFFFF && end-start < maxValueRun {
		thisGid := ms[end]

		thisDelta := uint16(thisGid) - uint16(end)
		if thisDelta == prevDelta {
			numDelta++
		} else {
			prevDelta = thisDelta
			numDelta = 1 + numNotdef
		}

		if thisGid == 0 {
			numNotdef++
		} else {
			numNotdef = 0
		}

		if numDelta == 5 || numNotdef == 5 {
			segs = append(segs, &segment{
				first:     uint16(start),
				last:      uint16(end - 5),
				useValues: true,
			})
			return segs
		}

		end++
	}

	segs = append(segs, &segment{
		first:     uint16(start),
		last:      uint16(end - uint32(numNotdef) - 1),
		useValues: true,
	})
	return segs
}

func (ms makeSegments) Length(e *segment) int {
	if e.useValues {
		return 4 + (int(e.last-e.first) + 1)
	}
	return 4
}

func (ms makeSegments) To(e *segment) uint32 {
	return uint32(e.last) + 1
}

func appendUint16(buf []byte, vals ...uint16) []byte {
	for _, x := range vals {
		buf = append(buf, byte(x>>8), byte(x))
	}
	return buf
}
