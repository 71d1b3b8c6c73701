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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"
)

func testFormat2() *Format2 {
	cmap := &Format2{
		Map: map[uint16]glyph.ID{
			0x09:   5,
			0x41:   17,
			0x8140: 100,
			0x8141: 101,
			0x8150: 7,
			0x8240: 100,
			0x8241: 101,
		},
	}
	cmap.LeadBytes[0x81] = true
	cmap.LeadBytes[0x82] = true
	cmap.LeadBytes[0x83] = true // no mappings
	return cmap
}

func TestFormat2RoundTrip(t *testing.T) {
	cmap := testFormat2()
	data := cmap.Encode(0)
	if Format(data) != 2 {
		t.Fatalf("wrong format %d", Format(data))
	}
	if l := int(data[2])<<8 | int(data[3]); l != len(data) {
		t.Errorf("length field %d, want %d", l, len(data))
	}

	sub, err := DecodeSubtable(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Subtable(cmap), sub); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}
	if gid := sub.Lookup(0x81); gid != 0 {
		t.Errorf("lead byte 0x81 alone maps to glyph %d", gid)
	}
	want := []uint32{0x09, 0x41, 0x8140, 0x8141, 0x8150, 0x8240, 0x8241}
	if d := cmp.Diff(want, sub.Codes()); d != "" {
		t.Errorf("wrong codes (-want +got):\n%s", d)
	}
}

// TestFormat2Shared checks that identical trail byte tables are stored
// only once.
func TestFormat2Shared(t *testing.T) {
	cmap := &Format2{Map: map[uint16]glyph.ID{}}
	for lead := 0x81; lead <= 0x9F; lead++ {
		cmap.LeadBytes[lead] = true
		for trail := 0x40; trail < 0x80; trail++ {
			cmap.Map[uint16(lead<<8|trail)] = glyph.ID(trail)
		}
	}
	data := cmap.Encode(0)
	// two subheaders, one glyph run of 64 entries
	if want := 518 + 2*8 + 2*64; len(data) != want {
		t.Errorf("encoded length %d, want %d", len(data), want)
	}
}

// TestFormat2Decode uses a subtable where all codes are single bytes,
// with glyph values stored through idDelta.
func TestFormat2Decode(t *testing.T) {
	data := appendUint16(nil, 2, 1038, 0)
	data = append(data, make([]byte, 512)...) // all subHeaderKeys 0
	data = appendUint16(data, 0, 256, 3, 2)   // firstCode, entryCount, idDelta, idRangeOffset
	glyphs := make([]uint16, 256)
	glyphs[0x09] = 2
	glyphs[0x41] = 14
	data = appendUint16(data, glyphs...)

	sub, err := DecodeSubtable(data)
	if err != nil {
		t.Fatal(err)
	}
	if gid := sub.Lookup(0x09); gid != 5 {
		t.Errorf("0x09 maps to glyph %d, want 5", gid)
	}
	if gid := sub.Lookup(0x41); gid != 17 {
		t.Errorf("0x41 maps to glyph %d, want 17", gid)
	}
	if !sub.Delete(0x09) {
		t.Error("Delete(0x09) reported no mapping")
	}
	if sub.Delete(0x09) {
		t.Error("second Delete(0x09) reported a mapping")
	}

	sub2, err := DecodeSubtable(sub.Encode(0))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]uint32{0x41}, sub2.Codes()); d != "" {
		t.Errorf("wrong codes after delete (-want +got):\n%s", d)
	}
	if gid := sub2.Lookup(0x41); gid != 17 {
		t.Errorf("0x41 maps to glyph %d after delete, want 17", gid)
	}
}

func TestFormat2Malformed(t *testing.T) {
	valid := testFormat2().Encode(0)

	badKey := append([]byte(nil), valid...)
	badKey[6+2*0x81+1] = 3

	badOffset := append([]byte(nil), valid...)
	badOffset[518+6] = 0xFF // idRangeOffset of subheader 0

	for name, data := range map[string][]byte{
		"short":  valid[:100],
		"key":    badKey,
		"offset": badOffset,
		"subs":   valid[:520],
	} {
		_, err := DecodeSubtable(data)
		if err == nil {
			t.Errorf("%s: malformed subtable not detected", name)
		}
	}

	leadZero := append([]byte(nil), valid...)
	leadZero[7] = 8
	_, err := DecodeSubtable(leadZero)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("lead byte 0x00: expected ErrUnsupportedFormat, got %v", err)
	}
}

func FuzzFormat2(f *testing.F) {
	f.Add(testFormat2().Encode(0))
	f.Add((&Format2{}).Encode(0))

	f.Fuzz(func(t *testing.T, data []byte) {
		if Format(data) != 2 {
			return
		}
		sub, err := DecodeSubtable(data)
		if err != nil {
			return
		}
		data2 := sub.Encode(0)
		if len(data2) > 0xFFFF {
			return
		}
		sub2, err := DecodeSubtable(data2)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(sub, sub2); d != "" {
			t.Errorf("round trip failed (-want +got):\n%s", d)
		}
	})
}
