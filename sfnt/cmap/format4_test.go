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
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	sfntcmap "seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

func TestFormat4Samples(t *testing.T) {
	cases := []Format4{
		{},
		{0x41: 1},
		{0xFFFF: 7},
		{0x20: 3, 0x21: 4, 0x22: 5, 0x23: 6, 0x24: 7, 0x30: 100},
		{0x100: 9, 0x102: 1, 0x105: 500, 0x106: 2},
	}
	for i, cmap := range cases {
		data := cmap.Encode(0)
		sub, err := decodeFormat4(data)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if d := cmp.Diff(cmap, sub); d != "" {
			t.Errorf("%d: round trip failed (-want +got):\n%s", i, d)
		}
	}
}

func TestFormat4Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		cmap := Format4{}
		n := rng.Intn(2000)
		code := uint16(rng.Intn(256))
		gid := glyph.ID(rng.Intn(1000) + 1)
		for j := 0; j < n; j++ {
			cmap[code] = gid
			switch rng.Intn(4) {
			case 0:
				gid = glyph.ID(rng.Intn(1000) + 1)
			case 1:
				code += uint16(rng.Intn(10))
			}
			code++
			gid++
			if code == 0 {
				break
			}
		}

		data := cmap.Encode(0)
		sub, err := decodeFormat4(data)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(cmap, sub); d != "" {
			t.Fatalf("round trip failed (-want +got):\n%s", d)
		}
	}
}

// TestFormat4Reference checks that an independent decoder reads the
// encoded subtables in the same way.
func TestFormat4Reference(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	cmap := Format4{}
	for i := 0; i < 3000; i++ {
		cmap[uint16(rng.Intn(0x10000))] = glyph.ID(rng.Intn(0xFFFF) + 1)
	}
	for code := uint16(0x4E00); code < 0x5000; code++ {
		cmap[code] = glyph.ID(code - 0x4000)
	}

	ref := sfntcmap.Table{
		{PlatformID: 3, EncodingID: 1}: cmap.Encode(0),
	}
	sub, err := ref.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	for code := 0; code < 0x10000; code++ {
		want := cmap[uint16(code)]
		got := sub.Lookup(rune(code))
		if got != want {
			t.Errorf("U+%04X: got glyph %d, want %d", code, got, want)
		}
	}
}

func TestFormat4Delete(t *testing.T) {
	cmap := Format4{0x41: 17, 0x26BD: 302, 0x09: 5}
	if !cmap.Delete(0x26BD) {
		t.Error("Delete(0x26BD) reported no mapping")
	}
	if cmap.Delete(0x26BD) {
		t.Error("second Delete(0x26BD) reported a mapping")
	}
	if cmap.Delete(0x1F600) {
		t.Error("Delete of a non-BMP code reported a mapping")
	}
	cmap.Delete(0x09)
	if d := cmp.Diff([]uint32{0x41}, cmap.Codes()); d != "" {
		t.Errorf("wrong codes after delete (-want +got):\n%s", d)
	}
	low, high := cmap.CodeRange()
	if low != 0x41 || high != 0x41 {
		t.Errorf("wrong code range %04X-%04X", low, high)
	}
}

// TestFormat4Compact checks that a long delta run is encoded as a
// single segment, plus the final 0xFFFF segment.
func TestFormat4Compact(t *testing.T) {
	cmap := Format4{}
	for code := uint16(0x4E00); code <= 0x9FFF; code++ {
		cmap[code] = glyph.ID(code - 0x4E00 + 1)
	}
	data := cmap.Encode(0)
	segCount := (int(data[6])<<8 | int(data[7])) / 2
	if segCount != 2 {
		t.Errorf("got %d segments, want 2", segCount)
	}
}

func FuzzFormat4(f *testing.F) {
	f.Add(Format4{}.Encode(0))
	f.Add(Format4{0x41: 1, 0x42: 9, 0x1000: 3}.Encode(0))

	f.Fuzz(func(t *testing.T, data []byte) {
		if Format(data) != 4 {
			return
		}
		sub, err := decodeFormat4(data)
		if err != nil {
			return
		}
		data2 := sub.Encode(0)
		sub2, err := decodeFormat4(data2)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(sub, sub2); d != "" {
			t.Errorf("round trip failed (-want +got):\n%s", d)
		}
	})
}
