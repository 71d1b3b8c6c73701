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
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"
)

func TestFormat0(t *testing.T) {
	cmap := &Format0{}
	cmap.Data[0x09] = 5
	cmap.Data[0x41] = 17

	sub, err := DecodeSubtable(cmap.Encode(0))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Subtable(cmap), sub); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}

	if !sub.Delete(0x09) || sub.Delete(0x09) || sub.Delete(0x100) {
		t.Error("wrong Delete results")
	}
	if d := cmp.Diff([]uint32{0x41}, sub.Codes()); d != "" {
		t.Errorf("wrong codes (-want +got):\n%s", d)
	}
}

func TestFormat6Trim(t *testing.T) {
	cmap := &Format6{
		FirstCode:    0x20,
		GlyphIDArray: []glyph.ID{3, 0, 4, 5, 0},
	}
	if !cmap.Delete(0x20) {
		t.Error("Delete(0x20) reported no mapping")
	}
	if cmap.Delete(0x21) {
		t.Error("Delete(0x21) reported a mapping")
	}

	sub, err := DecodeSubtable(cmap.Encode(0))
	if err != nil {
		t.Fatal(err)
	}
	want := &Format6{
		FirstCode:    0x22,
		GlyphIDArray: []glyph.ID{4, 5},
	}
	if d := cmp.Diff(Subtable(want), sub); d != "" {
		t.Errorf("wrong subtable (-want +got):\n%s", d)
	}
	low, high := cmap.CodeRange()
	if low != 0x22 || high != 0x23 {
		t.Errorf("wrong code range %04X-%04X", low, high)
	}
}

func TestFormat6Empty(t *testing.T) {
	cmap := &Format6{FirstCode: 0x41, GlyphIDArray: []glyph.ID{1}}
	cmap.Delete(0x41)
	data := cmap.Encode(0)
	if len(data) != 10 {
		t.Errorf("empty subtable has length %d, want 10", len(data))
	}
	sub, err := DecodeSubtable(data)
	if err != nil {
		t.Fatal(err)
	}
	if codes := sub.Codes(); len(codes) != 0 {
		t.Errorf("unexpected codes %v", codes)
	}
}

func TestFormat10(t *testing.T) {
	cmap := &Format10{
		StartCharCode: 0x1F600,
		Glyphs:        []glyph.ID{7, 8, 0, 9},
	}
	if !cmap.Delete(0x1F603) {
		t.Error("Delete(0x1F603) reported no mapping")
	}
	sub, err := DecodeSubtable(cmap.Encode(0))
	if err != nil {
		t.Fatal(err)
	}
	want := &Format10{
		StartCharCode: 0x1F600,
		Glyphs:        []glyph.ID{7, 8},
	}
	if d := cmp.Diff(Subtable(want), sub); d != "" {
		t.Errorf("wrong subtable (-want +got):\n%s", d)
	}
	if gid := sub.Lookup(0x1F601); gid != 8 {
		t.Errorf("U+1F601: got glyph %d, want 8", gid)
	}
}
