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

package exclude

import (
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	s := Default()
	if n := s.Len(); n != 26+12+32 {
		t.Errorf("default set has %d elements, want 70", n)
	}
	for _, c := range []uint32{0x0000, 0x0009, 0x001F, 0x26BD, 0x1F251, 0x2764} {
		if !s.Contains(c) {
			t.Errorf("U+%04X missing from default set", c)
		}
	}
	for _, c := range []uint32{0x0020, 0x0041, 0x26BC, 0x4E00, 0x1F600} {
		if s.Contains(c) {
			t.Errorf("U+%04X unexpectedly in default set", c)
		}
	}
	if Default() != s {
		t.Error("Default() not shared")
	}
}

func TestDeterminism(t *testing.T) {
	control, err := ParseRanges(ControlChars)
	if err != nil {
		t.Fatal(err)
	}
	a := Union(EmojiInCJK(), AndroidEmoji(), New(control...))
	b := Union(New(control...), AndroidEmoji(), EmojiInCJK())
	if d := cmp.Diff(a.Codes(), b.Codes()); d != "" {
		t.Errorf("union depends on argument order (-a +b):\n%s", d)
	}
	if d := cmp.Diff(Default().Codes(), a.Codes()); d != "" {
		t.Errorf("default set differs (-want +got):\n%s", d)
	}
}

func TestParseRanges(t *testing.T) {
	cases := []struct {
		in   string
		want []uint32
	}{
		{"", nil},
		{"0000-0003", []uint32{0, 1, 2, 3}},
		{"2603", []uint32{0x2603}},
		{"41,42  43-44", []uint32{0x41, 0x42, 0x43, 0x44}},
		{"45 41-45 U+42", []uint32{0x41, 0x42, 0x43, 0x44, 0x45}},
		{"1f600-1F601", []uint32{0x1F600, 0x1F601}},
		{"10FFFF", []uint32{0x10FFFF}},
	}
	for _, c := range cases {
		got, err := ParseRanges(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%q: wrong result (-want +got):\n%s", c.in, d)
		}
	}

	bad := []string{"xyz", "0041-", "-0041", "0045-0041", "110000", "0-110000", "41--42"}
	for _, in := range bad {
		if _, err := ParseRanges(in); err == nil {
			t.Errorf("%q: error not detected", in)
		}
	}
}

func TestString(t *testing.T) {
	s := Default()
	codes, err := ParseRanges(s.String())
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(s.Codes(), codes); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}

	if got := New(0, 1, 2, 3, 0x41).String(); got != "0000-0003 0041" {
		t.Errorf("wrong string %q", got)
	}
}

func TestSetOperations(t *testing.T) {
	s := New(5, 3, 3, 0x110000, 1)
	if d := cmp.Diff([]uint32{1, 3, 5}, s.Codes()); d != "" {
		t.Errorf("wrong codes (-want +got):\n%s", d)
	}

	w := s.Without(New(3, 4))
	if d := cmp.Diff([]uint32{1, 5}, w.Codes()); d != "" {
		t.Errorf("wrong difference (-want +got):\n%s", d)
	}

	var empty *Set
	if empty.Contains(1) || empty.Len() != 0 || empty.Codes() != nil {
		t.Error("nil set is not empty")
	}
	if Union(nil, s).Len() != 3 {
		t.Error("union with nil set failed")
	}
}

func TestRanges(t *testing.T) {
	s := Default()
	table := s.Ranges()
	for c := rune(0); c < 0x20000; c++ {
		if unicode.Is(table, c) != s.Contains(uint32(c)) {
			t.Fatalf("range table disagrees for U+%04X", c)
		}
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	if s.Contains(0x09) || s.Len() != 0 || s.Codes() != nil {
		t.Error("nil set is not empty")
	}
	if str := s.String(); str != "" {
		t.Errorf("nil set formats as %q", str)
	}
	if unicode.Is(s.Ranges(), 0x09) {
		t.Error("range table of nil set contains U+0009")
	}
	if n := s.Without(Default()).Len(); n != 0 {
		t.Errorf("nil set minus default set has %d elements", n)
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(0x26BD); got != "U+26BD SOCCER BALL" {
		t.Errorf("wrong description %q", got)
	}
}
