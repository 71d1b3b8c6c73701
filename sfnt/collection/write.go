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

package collection

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"seehuhn.de/go/cmapstrip/sfnt/header"
)

// Encode returns the binary form of the collection.
//
// Tables with identical contents are stored only once, so tables which
// were shared in the input stay shared.  For version 2 headers the
// collection-level DSIG fields are set to zero, since any previous
// signature no longer matches.  Checksums from the input are kept for
// unchanged tables; the "head" table is copied unchanged.
func (c *Collection) Encode() ([]byte, error) {
	if len(c.Fonts) == 0 {
		return nil, errors.New("ttc: no fonts in collection")
	}
	for _, font := range c.Fonts {
		if len(font.Tables) == 0 {
			return nil, errors.New("ttc: font without tables")
		}
	}

	major := c.MajorVersion
	if major == 0 {
		major = 1
	}

	// Layout: collection header, all table directories, table data.
	pos := uint64(headerSize(major, len(c.Fonts)))
	fontOffsets := make([]uint32, len(c.Fonts))
	for i, font := range c.Fonts {
		fontOffsets[i] = uint32(pos)
		pos += uint64(header.Size(len(font.Tables)))
	}

	type stored struct {
		data   []byte
		offset uint32
	}
	var body [][]byte
	byChecksum := make(map[uint32][]stored)
	dirs := make([]*header.Info, len(c.Fonts))
	for i, font := range c.Fonts {
		tags := make([]string, 0, len(font.Tables))
		for tag := range font.Tables {
			tags = append(tags, tag)
		}
		header.SortTags(tags)

		info := &header.Info{
			ScalerType: font.ScalerType,
			Records:    make([]header.Record, len(tags)),
		}
	tagLoop:
		for j, tag := range tags {
			data := font.Tables[tag]
			checksum := font.checksum(tag, data)
			rec := header.Record{
				Tag:      tag,
				CheckSum: checksum,
				Length:   uint32(len(data)),
			}
			if uint64(len(data)) > math.MaxUint32 {
				return nil, errTooLarge
			}

			// Share with a table of an earlier font.  Tables of the same
			// font must not overlap.
			for _, s := range byChecksum[checksum] {
				if bytes.Equal(s.data, data) {
					rec.Offset = s.offset
					info.Records[j] = rec
					continue tagLoop
				}
			}

			rec.Offset = uint32(pos)
			info.Records[j] = rec
			body = append(body, data)
			pos += uint64(header.Padded(uint32(len(data))))
			if pos > math.MaxUint32 {
				return nil, errTooLarge
			}
		}
		// Register this font's tables only after all of them are placed.
		for _, r := range info.Records {
			data := font.Tables[r.Tag]
			byChecksum[r.CheckSum] = append(byChecksum[r.CheckSum],
				stored{data: data, offset: r.Offset})
		}
		dirs[i] = info
	}

	out := make([]byte, 0, pos)
	out = append(out, "ttcf"...)
	out = binary.BigEndian.AppendUint16(out, major)
	out = binary.BigEndian.AppendUint16(out, c.MinorVersion)
	out = binary.BigEndian.AppendUint32(out, uint32(len(c.Fonts)))
	for _, offset := range fontOffsets {
		out = binary.BigEndian.AppendUint32(out, offset)
	}
	if major >= 2 {
		out = append(out, make([]byte, 12)...)
	}
	for _, info := range dirs {
		out = append(out, info.Encode()...)
	}
	var pad [3]byte
	for _, data := range body {
		out = append(out, data...)
		if k := len(data) % 4; k != 0 {
			out = append(out, pad[:4-k]...)
		}
	}
	return out, nil
}

// checksum returns the checksum for a table, reusing the value from the
// input if the table was not changed.
func (font *Font) checksum(tag string, data []byte) uint32 {
	if orig, ok := font.orig[tag]; ok && bytes.Equal(orig.data, data) {
		return orig.checksum
	}
	return header.Checksum(data)
}

var errTooLarge = errors.New("ttc: collection exceeds 4GiB")
