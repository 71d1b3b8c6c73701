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

// Package collection reads and writes TrueType/OpenType font collections.
//
// A collection file starts with a "ttcf" header listing the offsets of
// the table directories of all fonts in the collection.  Fonts may share
// tables, for example a common "glyf" table for several font styles.
//
// https://learn.microsoft.com/en-us/typography/opentype/spec/otff#font-collections
package collection

import (
	"encoding/binary"
	"errors"
	"fmt"

	"seehuhn.de/go/cmapstrip/sfnt/header"
)

// Collection is a font collection.
type Collection struct {
	MajorVersion uint16
	MinorVersion uint16

	Fonts []*Font
}

// Font is one font of a collection.
type Font struct {
	ScalerType uint32

	// Tables maps table tags to the table data.  When a collection is
	// parsed, the slices point into the input data and tables shared
	// between fonts point to the same memory.  Replace the slice to
	// change a table; do not modify the bytes in place.
	Tables map[string][]byte

	// orig holds the tables and checksums from the input directory.
	// The checksums are reused on output while the data is unchanged.
	orig map[string]origTable
}

type origTable struct {
	data     []byte
	checksum uint32
}

// maxFonts is an upper bound for the number of fonts in a collection.
// The largest collections in common use contain a few dozen fonts.
const maxFonts = 0x4000

// Parse decodes a font collection.
// The returned collection refers to data; data must not be modified
// while the collection is in use.
func Parse(data []byte) (*Collection, error) {
	if len(data) < 4 || string(data[:4]) != "ttcf" {
		return nil, ErrNotCollection
	}
	if len(data) < 12 {
		return nil, ErrTruncated
	}
	c := &Collection{
		MajorVersion: binary.BigEndian.Uint16(data[4:6]),
		MinorVersion: binary.BigEndian.Uint16(data[6:8]),
	}
	if c.MajorVersion != 1 && c.MajorVersion != 2 || c.MinorVersion != 0 {
		return nil, fmt.Errorf("ttc: unsupported version %d.%d",
			c.MajorVersion, c.MinorVersion)
	}
	numFonts := binary.BigEndian.Uint32(data[8:12])
	if numFonts == 0 {
		return nil, errors.New("ttc: no fonts in collection")
	} else if numFonts > maxFonts {
		return nil, fmt.Errorf("ttc: too many fonts (%d)", numFonts)
	}
	if uint64(headerSize(c.MajorVersion, int(numFonts))) > uint64(len(data)) {
		return nil, ErrTruncated
	}

	c.Fonts = make([]*Font, numFonts)
	for i := range c.Fonts {
		offset := binary.BigEndian.Uint32(data[12+4*i:])
		font, err := parseFont(data, offset)
		if err != nil {
			return nil, fmt.Errorf("ttc: font %d: %w", i, err)
		}
		c.Fonts[i] = font
	}
	return c, nil
}

// ParseFont decodes a single sfnt font file, for example to assemble a new
// collection.
func ParseFont(data []byte) (*Font, error) {
	font, err := parseFont(data, 0)
	if err != nil {
		return nil, fmt.Errorf("sfnt: %w", err)
	}
	return font, nil
}

func parseFont(data []byte, offset uint32) (*Font, error) {
	info, err := header.Read(data, offset)
	if header.IsTruncated(err) {
		return nil, ErrTruncated
	} else if err != nil {
		return nil, err
	}

	font := &Font{
		ScalerType: info.ScalerType,
		Tables:     make(map[string][]byte, len(info.Records)),
		orig:       make(map[string]origTable, len(info.Records)),
	}
	for _, r := range info.Records {
		body := data[r.Offset : r.Offset+r.Length : r.Offset+r.Length]
		font.Tables[r.Tag] = body
		font.orig[r.Tag] = origTable{data: body, checksum: r.CheckSum}
	}
	return font, nil
}

// New returns a version 1.0 collection containing the given fonts.
func New(fonts ...*Font) *Collection {
	return &Collection{
		MajorVersion: 1,
		Fonts:        fonts,
	}
}

// headerSize returns the size of the "ttcf" header.
func headerSize(majorVersion uint16, numFonts int) uint32 {
	size := uint32(12 + 4*numFonts)
	if majorVersion >= 2 {
		size += 12 // DSIG tag, length and offset
	}
	return size
}

var (
	// ErrNotCollection indicates data which does not start with a
	// "ttcf" header.
	ErrNotCollection = errors.New("ttc: not a font collection")

	// ErrTruncated indicates that a header, directory or table extends
	// beyond the end of the data.
	ErrTruncated = errors.New("ttc: truncated file")
)
