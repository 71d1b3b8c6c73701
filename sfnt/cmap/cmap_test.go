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
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTableRoundTrip(t *testing.T) {
	f4 := Format4{0x41: 17, 0x42: 18, 0x26BD: 302}
	f12 := &Format12{{StartCharCode: 0x41, EndCharCode: 0x42, StartGlyphID: 17}}
	ss := Table{
		{PlatformID: 0, EncodingID: 3}:  f4.Encode(0),
		{PlatformID: 3, EncodingID: 1}:  f4.Encode(0),
		{PlatformID: 3, EncodingID: 10}: f12.Encode(0),
	}

	data := ss.Encode()
	ss2, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(ss, ss2); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}

	// The two identical format 4 subtables must be stored only once.
	want := 4 + 3*8 + len(ss[Key{0, 3, 0}]) + len(ss[Key{3, 10, 0}])
	if len(data) != want {
		t.Errorf("encoded length %d, want %d", len(data), want)
	}
}

func TestTableKeys(t *testing.T) {
	ss := Table{
		{PlatformID: 3, EncodingID: 10}: nil,
		{PlatformID: 0, EncodingID: 4}:  nil,
		{PlatformID: 3, EncodingID: 1}:  nil,
		{PlatformID: 1, EncodingID: 0}:  nil,
	}
	want := []Key{{0, 4, 0}, {1, 0, 0}, {3, 1, 0}, {3, 10, 0}}
	if d := cmp.Diff(want, ss.Keys()); d != "" {
		t.Errorf("wrong key order (-want +got):\n%s", d)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := Table{{PlatformID: 3, EncodingID: 1}: Format4{0x41: 1}.Encode(0)}.Encode()

	overlap := bytes.Clone(valid)
	overlap[3] = 2 // claim a second subtable record, overlapping the first

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0, 0, 0}},
		{"version", []byte{0, 1, 0, 0}},
		{"truncated header", valid[:8]},
		{"truncated subtable", valid[:len(valid)-4]},
		{"overlap", overlap},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(c.data)
			if err == nil {
				t.Error("malformed table not detected")
			}
		})
	}
}

func TestDuplicateKey(t *testing.T) {
	sub := Format4{0x41: 1}.Encode(0)
	data := []byte{
		0, 0, 0, 2,
		0, 3, 0, 1, 0, 0, 0, 20,
		0, 3, 0, 1, 0, 0, 0, 20,
	}
	data = append(data, sub...)
	_, err := Decode(data)
	if err == nil {
		t.Error("duplicate subtable not detected")
	}
}

func TestGetUnsupported(t *testing.T) {
	// a minimal format 14 subtable with no variation selector records
	f14 := []byte{0, 14, 0, 0, 0, 10, 0, 0, 0, 0}
	ss := Table{{PlatformID: 0, EncodingID: 5}: f14}

	data := ss.Encode()
	ss2, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ss2.Get(Key{PlatformID: 0, EncodingID: 5})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReplaceTooLarge(t *testing.T) {
	// every second code mapped, so that no delta segment can be used
	f4 := Format4{}
	for code := uint32(0); code < 0xF000; code += 2 {
		f4[uint16(code)] = 1
	}
	ss := Table{}
	err := ss.Replace(Key{PlatformID: 3, EncodingID: 1}, f4)
	if err == nil {
		t.Error("oversized format 4 subtable not detected")
	}
}

func TestGetBest(t *testing.T) {
	ss := Table{
		{PlatformID: 3, EncodingID: 1}:  Format4{0x41: 1}.Encode(0),
		{PlatformID: 3, EncodingID: 10}: (&Format12{{StartCharCode: 0x41, EndCharCode: 0x41, StartGlyphID: 2}}).Encode(0),
	}
	sub, err := ss.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	if gid := sub.Lookup(0x41); gid != 2 {
		t.Errorf("GetBest picked the wrong subtable: glyph %d", gid)
	}
}

func FuzzCmapTable(f *testing.F) {
	f.Add([]byte{
		0, 0,
		0, 2,
		0, 0, 0, 4, 0, 0, 0, 20,
		0, 3, 0, 10, 0, 0, 0, 20,
		0, 6, 0, 10, 0, 0, 0, 0, 0, 0,
	})
	ss := Table{
		{PlatformID: 3, EncodingID: 1}:  Format4{0x41: 1, 0x42: 2}.Encode(0),
		{PlatformID: 1, EncodingID: 0}:  (&Format0{}).Encode(0),
		{PlatformID: 3, EncodingID: 10}: (&Format12{{StartCharCode: 10, EndCharCode: 20, StartGlyphID: 1}}).Encode(0),
	}
	f.Add(ss.Encode())

	f.Fuzz(func(t *testing.T, data []byte) {
		ss, err := Decode(data)
		if err != nil {
			return
		}
		data2 := ss.Encode()
		if len(data2) > len(data) {
			t.Errorf("too long: %d > %d", len(data2), len(data))
		}
		ss2, err := Decode(data2)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(ss, ss2); d != "" {
			t.Errorf("round trip failed (-want +got):\n%s", d)
		}
	})
}
