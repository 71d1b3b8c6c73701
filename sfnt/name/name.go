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

// Package name reads font names from OpenType "name" tables.
// Only the names needed to identify a font in diagnostics are decoded,
// preferring English strings.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name
package name

import (
	"errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ID identifies the kind of string in a name record.
type ID uint16

// These are the name IDs used in this package.
const (
	Family         ID = 1
	Subfamily      ID = 2
	FullName       ID = 4
	PostScriptName ID = 6
)

// Info maps name IDs to the decoded strings.
type Info map[ID]string

// Decode extracts the English names from a "name" table.
// Records with unsupported platforms or encodings are skipped.
func Decode(data []byte) (Info, error) {
	if len(data) < 6 {
		return nil, errMalformedNames
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	numRec := int(data[2])<<8 | int(data[3])
	storageOffset := int(data[4])<<8 | int(data[5])

	if version > 1 {
		return nil, errMalformedNames
	}

	recBase := 6
	endOfHeader := recBase + 12*numRec
	if endOfHeader > len(data) {
		return nil, errMalformedNames
	}
	if version > 0 {
		if endOfHeader+2 > len(data) {
			return nil, errMalformedNames
		}
		numLang := int(data[endOfHeader])<<8 | int(data[endOfHeader+1])
		endOfHeader += 2 + numLang*4
	}
	if storageOffset < endOfHeader || storageOffset > len(data) {
		return nil, errMalformedNames
	}

	res := Info{}
	rank := map[ID]int{}
	for i := 0; i < numRec; i++ {
		pos := recBase + i*12
		platformID := uint16(data[pos])<<8 | uint16(data[pos+1])
		encodingID := uint16(data[pos+2])<<8 | uint16(data[pos+3])
		languageID := uint16(data[pos+4])<<8 | uint16(data[pos+5])
		nameID := ID(data[pos+6])<<8 | ID(data[pos+7])
		nameLen := int(data[pos+8])<<8 | int(data[pos+9])
		nameOffset := int(data[pos+10])<<8 | int(data[pos+11])

		enc, r := recordEncoding(platformID, encodingID, languageID)
		if enc == nil || r <= rank[nameID] {
			continue
		}

		start := storageOffset + nameOffset
		if start+nameLen > len(data) {
			return nil, errMalformedNames
		}
		val, err := enc.NewDecoder().Bytes(data[start : start+nameLen])
		if err != nil || len(val) == 0 {
			continue
		}
		res[nameID] = string(val)
		rank[nameID] = r
	}
	return res, nil
}

// recordEncoding returns the text encoding of a name record, together
// with a rank which is higher for more preferable records.  If the
// encoding is not supported, nil is returned.
func recordEncoding(platformID, encodingID, languageID uint16) (encoding.Encoding, int) {
	switch {
	case platformID == 3 && (encodingID == 1 || encodingID == 10):
		if languageID == 0x0409 { // en-US
			return utf16BE, 4
		}
		return utf16BE, 2
	case platformID == 0:
		return utf16BE, 3
	case platformID == 1 && encodingID == 0: // Macintosh, Roman
		if languageID == 0 { // English
			return charmap.Macintosh, 1
		}
	}
	return nil, 0
}

// PostScript returns the PostScript name of the font, falling back to
// the full name if needed.
func (info Info) PostScript() string {
	if name := info[PostScriptName]; name != "" {
		return name
	}
	return info[FullName]
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

var errMalformedNames = errors.New("sfnt/name: malformed name table")
