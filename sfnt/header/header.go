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

// Package header reads and writes the table directory of an sfnt font.
//
// Inside a font collection, several table directories share one file.
// All offsets are therefore relative to the start of the file, not to the
// start of the table directory.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// Scaler types found at the start of an sfnt table directory.
const (
	ScalerTypeTrueType = 0x00010000
	ScalerTypeCFF      = 0x4F54544F // "OTTO"
	ScalerTypeApple    = 0x74727565 // "true"
)

// Record describes one table of a font.
type Record struct {
	Tag      string
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// Info is the table directory of one font.
type Info struct {
	ScalerType uint32

	// Records lists the tables in the order found in the file.
	Records []Record
}

// Size returns the number of bytes occupied by a table directory
// with numTables entries.
func Size(numTables int) uint32 {
	return uint32(12 + 16*numTables)
}

// Read decodes the table directory found at the given offset in data.
// All table records are checked to refer to data inside the slice.
func Read(data []byte, offset uint32) (*Info, error) {
	if uint64(offset)+12 > uint64(len(data)) {
		return nil, errTruncated
	}
	buf := data[offset:]
	scalerType := binary.BigEndian.Uint32(buf[0:4])
	numTables := int(binary.BigEndian.Uint16(buf[4:6]))

	if scalerType != ScalerTypeTrueType &&
		scalerType != ScalerTypeCFF &&
		scalerType != ScalerTypeApple {
		return nil, fmt.Errorf("sfnt/header: unsupported scaler type 0x%08x", scalerType)
	}
	if numTables > 280 {
		// the largest value observed on my laptop is 28
		return nil, errors.New("sfnt/header: too many tables")
	}
	if numTables == 0 {
		return nil, errors.New("sfnt/header: no tables found")
	}
	if uint64(Size(numTables)) > uint64(len(buf)) {
		return nil, errTruncated
	}

	info := &Info{
		ScalerType: scalerType,
		Records:    make([]Record, numTables),
	}
	type alloc struct {
		Start uint32
		End   uint64
	}
	coverage := make([]alloc, 0, numTables)
	seen := make(map[string]bool, numTables)
	for i := range info.Records {
		rec := buf[12+16*i : 28+16*i]
		r := Record{
			Tag:      string(rec[0:4]),
			CheckSum: binary.BigEndian.Uint32(rec[4:8]),
			Offset:   binary.BigEndian.Uint32(rec[8:12]),
			Length:   binary.BigEndian.Uint32(rec[12:16]),
		}
		if seen[r.Tag] {
			return nil, fmt.Errorf("sfnt/header: duplicate table %q", r.Tag)
		}
		seen[r.Tag] = true

		end := uint64(r.Offset) + uint64(r.Length)
		if end > uint64(len(data)) {
			return nil, errTruncated
		}
		info.Records[i] = r
		coverage = append(coverage, alloc{Start: r.Offset, End: end})
	}

	// perform some sanity checks
	sort.Slice(coverage, func(i, j int) bool {
		if coverage[i].Start != coverage[j].Start {
			return coverage[i].Start < coverage[j].Start
		}
		return coverage[i].End < coverage[j].End
	})
	if coverage[0].Start < 12 {
		return nil, errors.New("sfnt/header: invalid table offset")
	}
	for i := 1; i < len(coverage); i++ {
		if coverage[i-1].End > uint64(coverage[i].Start) {
			return nil, errors.New("sfnt/header: overlapping tables")
		}
	}

	return info, nil
}

// Find returns the record for the given table.
func (info *Info) Find(tag string) (Record, bool) {
	for _, r := range info.Records {
		if r.Tag == tag {
			return r, true
		}
	}
	return Record{}, false
}

// TableData returns the bytes of the given table, as a sub-slice of data.
// Read has checked that all records refer to valid ranges.
func (info *Info) TableData(data []byte, tag string) ([]byte, bool) {
	r, ok := info.Find(tag)
	if !ok {
		return nil, false
	}
	return data[r.Offset : r.Offset+r.Length], true
}

var errTruncated = errors.New("sfnt/header: truncated table directory")

// IsTruncated reports whether err was caused by data ending too early.
func IsTruncated(err error) bool {
	return errors.Is(err, errTruncated)
}
