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

// Package cmapstrip removes code points from the character mapping tables
// of TrueType and OpenType font collections.
//
// Removing a code point from the "cmap" tables makes text renderers fall
// back to other installed fonts for this character.  This is used, for
// example, to show some symbols from an emoji font instead of a CJK font.
// Glyph outlines and all tables other than "cmap" are left unchanged.
//
// A typical use:
//
//	out, err := cmapstrip.Edit("NotoSansCJK-Regular.ttc", exclude.Default(), "system/fonts", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [Edit] works on files.  [EditCollection] edits a collection in memory.
package cmapstrip
