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

package maxp

import "testing"

func TestDecode(t *testing.T) {
	cff := []byte{0x00, 0x00, 0x50, 0x00, 0x01, 0x02}
	info, err := Decode(cff)
	if err != nil {
		t.Fatal(err)
	}
	if info.NumGlyphs != 258 || info.Version != 0x00005000 {
		t.Errorf("wrong info: %+v", info)
	}

	ttf := make([]byte, 32)
	copy(ttf, []byte{0x00, 0x01, 0x00, 0x00, 0xFF, 0xFF})
	info, err = Decode(ttf)
	if err != nil {
		t.Fatal(err)
	}
	if info.NumGlyphs != 65535 {
		t.Errorf("wrong glyph count %d", info.NumGlyphs)
	}

	bad := [][]byte{
		nil,
		cff[:5],
		ttf[:20],
		{0x00, 0x02, 0x00, 0x00, 0x00, 0x01},
		{0x00, 0x00, 0x50, 0x00, 0x00, 0x00},
	}
	for i, data := range bad {
		_, err := Decode(data)
		if err == nil {
			t.Errorf("%d: malformed table not detected", i)
		}
	}
}
