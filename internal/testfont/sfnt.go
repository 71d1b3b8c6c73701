// seehuhn.de/go/cmapstrip - remove code points from font collection cmaps
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

// Package testfont builds font files and font collections for use in tests.
package testfont

import (
	"bytes"

	"golang.org/x/exp/slices"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/sfnt"
	sfntcmap "seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/cmapstrip/sfnt/cmap"
	"seehuhn.de/go/cmapstrip/sfnt/collection"
)

// GoRegular returns the Go Regular font in sfnt format, with the cmap
// table replaced by the given subtables.
func GoRegular(cmaps cmap.Table) []byte {
	return withCMap(goregular.TTF, cmaps)
}

// GoMono returns the Go Mono font in sfnt format, with the cmap
// table replaced by the given subtables.
func GoMono(cmaps cmap.Table) []byte {
	return withCMap(gomono.TTF, cmaps)
}

func withCMap(ttf []byte, cmaps cmap.Table) []byte {
	info, err := sfnt.Read(bytes.NewReader(ttf))
	if err != nil {
		panic(err)
	}

	info.CMapTable = make(sfntcmap.Table, len(cmaps))
	for key, data := range cmaps {
		k := sfntcmap.Key{
			PlatformID: key.PlatformID,
			EncodingID: key.EncodingID,
			Language:   key.Language,
		}
		info.CMapTable[k] = data
	}

	buf := &bytes.Buffer{}
	_, err = info.Write(buf)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Collection combines sfnt fonts into a version 1.0 font collection.
// Tables which are identical between fonts are shared.
func Collection(fonts ...[]byte) []byte {
	ff := make([]*collection.Font, len(fonts))
	for i, data := range fonts {
		font, err := collection.ParseFont(data)
		if err != nil {
			panic(err)
		}
		ff[i] = font
	}
	data, err := collection.New(ff...).Encode()
	if err != nil {
		panic(err)
	}
	return data
}

// Unicode returns a cmap table with the given mapping, stored both as a
// format 4 subtable for the BMP and as a format 12 subtable for the full
// Unicode range.  Codes outside the BMP are only present in the format 12
// subtable.
func Unicode(m map[uint32]uint16) cmap.Table {
	f4 := cmap.Format4{}
	f12 := &cmap.Format12{}
	codes := make([]uint32, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		gid := uint32(m[code])
		if code <= 0xFFFF {
			f4[uint16(code)] = glyph.ID(gid)
		}
		*f12 = append(*f12, cmap.Group{
			StartCharCode: code,
			EndCharCode:   code,
			StartGlyphID:  gid,
		})
	}
	return cmap.Table{
		{PlatformID: 3, EncodingID: 1}:  f4.Encode(0),
		{PlatformID: 3, EncodingID: 10}: f12.Encode(0),
	}
}
