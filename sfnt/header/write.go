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

package header

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"sort"
)

// Encode returns the binary form of the table directory.
// The records are written sorted by tag, as required by the
// OpenType specification.  The caller must set the offsets, lengths and
// checksums.
func (info *Info) Encode() []byte {
	numTables := len(info.Records)

	// prepare the header
	entrySelector := bits.Len(uint(numTables)) - 1
	hdr := &offsets{
		ScalerType:    info.ScalerType,
		NumTables:     uint16(numTables),
		SearchRange:   1 << (entrySelector + 4),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(16 * (numTables - 1<<entrySelector)),
	}

	records := make([]rawRecord, numTables)
	for i, r := range info.Records {
		copy(records[i].Tag[:], r.Tag)
		records[i].CheckSum = r.CheckSum
		records[i].Offset = r.Offset
		records[i].Length = r.Length
	}
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Tag[:], records[j].Tag[:]) < 0
	})

	buf := bytes.NewBuffer(make([]byte, 0, Size(numTables)))
	_ = binary.Write(buf, binary.BigEndian, hdr)
	_ = binary.Write(buf, binary.BigEndian, records)
	return buf.Bytes()
}

// SortTags sorts table tags in the recommended order for table data.
// Tags without a recommended position come last, sorted alphabetically.
func SortTags(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		iPrio := ttTableOrder[tags[i]]
		jPrio := ttTableOrder[tags[j]]
		if iPrio != jPrio {
			return iPrio > jPrio
		}
		return tags[i] < tags[j]
	})
}

// Checksum computes the checksum of an sfnt table.
// Tables are zero-padded to a multiple of four bytes.
func Checksum(data []byte) uint32 {
	var sum uint32
	for len(data) >= 4 {
		sum += binary.BigEndian.Uint32(data)
		data = data[4:]
	}
	if len(data) > 0 {
		var last [4]byte
		copy(last[:], data)
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// Padded returns the length of a table after padding it to a multiple of
// four bytes.
func Padded(length uint32) uint32 {
	return 4 * ((length + 3) / 4)
}

// The offsets sub-table forms the first part of the table directory.
type offsets struct {
	ScalerType    uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// A rawRecord is part of the table directory.  It contains data about a
// single sfnt table.
type rawRecord struct {
	Tag      [4]byte
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/recom#optimized-table-ordering
var ttTableOrder = map[string]int{
	"head": 95,
	"hhea": 90,
	"maxp": 85,
	"OS/2": 80,
	"hmtx": 75,
	"LTSH": 70,
	"VDMX": 65,
	"hdmx": 60,
	"cmap": 55,
	"fpgm": 50,
	"prep": 45,
	"cvt ": 40,
	"loca": 35,
	"glyf": 30,
	"kern": 25,
	"name": 20,
	"post": 15,
	"gasp": 10,
	"DSIG": 5,
}
