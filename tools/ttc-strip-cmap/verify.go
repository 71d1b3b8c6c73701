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

package main

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"

	"seehuhn.de/go/cmapstrip/exclude"
)

// verifyFile checks, using golang.org/x/image/font/sfnt, that no code point
// of the set is mapped to a glyph in any font of the collection.
func verifyFile(fname string, set *exclude.Set) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	var buf sfnt.Buffer
	for i := 0; i < c.NumFonts(); i++ {
		f, err := c.Font(i)
		if err != nil {
			return fmt.Errorf("verify: font %d: %w", i, err)
		}
		for _, code := range set.Codes() {
			gid, err := f.GlyphIndex(&buf, rune(code))
			if err != nil {
				return fmt.Errorf("verify: font %d: %w", i, err)
			}
			if gid != 0 {
				return fmt.Errorf("verify: font %d still maps %s to glyph %d",
					i, exclude.Describe(code), gid)
			}
		}
	}
	return nil
}
