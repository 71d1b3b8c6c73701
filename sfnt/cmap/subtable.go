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
	"fmt"

	"seehuhn.de/go/sfnt/glyph"
)

// Subtable represents a decoded, editable cmap subtable.
//
// Codes are the raw character codes of the subtable's platform and
// encoding.  For Unicode subtables these are the Unicode code points.
// A code is mapped if Lookup returns a glyph other than 0.
type Subtable interface {
	// Lookup returns the glyph for the given code, or 0 if the code is not
	// mapped.
	Lookup(code uint32) glyph.ID

	// Delete removes the mapping for the given code.
	// The return value reports whether the code was mapped before the call.
	Delete(code uint32) bool

	// Codes returns all mapped codes in increasing order.
	Codes() []uint32

	// Encode returns the binary form of the subtable.
	Encode(language uint16) []byte

	// CodeRange returns the smallest and largest mapped code.
	// If no code is mapped, both values are 0.
	CodeRange() (low, high uint32)
}

// From the font files on my laptop, I extracted all cmap subtables
// and removed duplicates.  The following table is the result.
//
//    count | format |
//   -------+--------+-----------------------------------
//     1668 |    4   | Segment mapping to delta values
//      625 |    6   | Trimmed table mapping
//      554 |   12   | Segmented coverage
//      226 |    0   | Byte encoding table
//       54 |   14   | Unicode Variation Sequences
//       47 |    2   | High-byte mapping through table
//        2 |   10   | Trimmed array
//        1 |    8   | mixed 16-bit and 32-bit coverage
//        1 |   13   | Many-to-one range mappings

var decoders = map[uint16]func([]byte) (Subtable, error){
	0:  decodeFormat0,
	2:  decodeFormat2,
	4:  decodeFormat4,
	6:  decodeFormat6,
	8:  decodeFormat8,
	10: decodeFormat10,
	12: decodeFormat12,
	13: decodeFormat13,
}

// DecodeSubtable decodes a binary cmap subtable.
func DecodeSubtable(data []byte) (Subtable, error) {
	format := Format(data)
	decode, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedFormat, format)
	}
	return decode(data)
}

// codeRange returns the smallest and largest element of a sorted code list.
func codeRange(codes []uint32) (low, high uint32) {
	if len(codes) == 0 {
		return 0, 0
	}
	return codes[0], codes[len(codes)-1]
}
