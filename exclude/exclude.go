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

// Package exclude computes the sets of code points which are removed from
// the character mapping tables of a font collection.
//
// The default set is the union of three sources: symbols which UTR #51
// recommends to present as emoji and which also appear in CJK fonts,
// symbols which Android renders as emoji despite that recommendation, and
// the ASCII control characters.
package exclude

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/rangetable"
	"golang.org/x/text/unicode/runenames"
)

// Characters supported in Noto CJK fonts that UTR #51 recommends default to
// emoji-style.
var emojiInCJK = [...]uint32{
	0x26BD,  // SOCCER BALL
	0x26BE,  // BASEBALL
	0x1F18E, // NEGATIVE SQUARED AB
	0x1F191, // SQUARED CL
	0x1F192, // SQUARED COOL
	0x1F193, // SQUARED FREE
	0x1F194, // SQUARED ID
	0x1F195, // SQUARED NEW
	0x1F196, // SQUARED NG
	0x1F197, // SQUARED OK
	0x1F198, // SQUARED SOS
	0x1F199, // SQUARED UP WITH EXCLAMATION MARK
	0x1F19A, // SQUARED VS
	0x1F201, // SQUARED KATAKANA KOKO
	0x1F21A, // SQUARED CJK UNIFIED IDEOGRAPH-7121
	0x1F22F, // SQUARED CJK UNIFIED IDEOGRAPH-6307
	0x1F232, // SQUARED CJK UNIFIED IDEOGRAPH-7981
	0x1F233, // SQUARED CJK UNIFIED IDEOGRAPH-7A7A
	0x1F234, // SQUARED CJK UNIFIED IDEOGRAPH-5408
	0x1F235, // SQUARED CJK UNIFIED IDEOGRAPH-6E80
	0x1F236, // SQUARED CJK UNIFIED IDEOGRAPH-6709
	0x1F238, // SQUARED CJK UNIFIED IDEOGRAPH-7533
	0x1F239, // SQUARED CJK UNIFIED IDEOGRAPH-5272
	0x1F23A, // SQUARED CJK UNIFIED IDEOGRAPH-55B6
	0x1F250, // CIRCLED IDEOGRAPH ADVANTAGE
	0x1F251, // CIRCLED IDEOGRAPH ACCEPT
}

// Characters which Android shows as emoji, despite UTR #51's
// recommendation.
var androidEmoji = [...]uint32{
	0x2600, // BLACK SUN WITH RAYS
	0x2601, // CLOUD
	0x260E, // BLACK TELEPHONE
	0x261D, // WHITE UP POINTING INDEX
	0x263A, // WHITE SMILING FACE
	0x2660, // BLACK SPADE SUIT
	0x2663, // BLACK CLUB SUIT
	0x2665, // BLACK HEART SUIT
	0x2666, // BLACK DIAMOND SUIT
	0x270C, // VICTORY HAND
	0x2744, // SNOWFLAKE
	0x2764, // HEAVY BLACK HEART
}

// ControlChars is the range expression for the ASCII control characters.
const ControlChars = "0000-001F"

// EmojiInCJK returns the code points which UTR #51 recommends to default
// to emoji presentation and which appear in CJK fonts.
func EmojiInCJK() *Set {
	return New(emojiInCJK[:]...)
}

// AndroidEmoji returns the code points which Android renders as emoji
// regardless of UTR #51.
func AndroidEmoji() *Set {
	return New(androidEmoji[:]...)
}

// Default returns the union of EmojiInCJK, AndroidEmoji and the control
// characters.  The set is computed once and shared.
func Default() *Set {
	return defaultSet()
}

var defaultSet = sync.OnceValue(func() *Set {
	control, err := ParseRanges(ControlChars)
	if err != nil {
		panic(err)
	}
	return Union(EmojiInCJK(), AndroidEmoji(), New(control...))
})

// Set is an immutable set of code points.
// A Set is safe for concurrent use.
type Set struct {
	codes []uint32 // sorted, without duplicates
	table *unicode.RangeTable
}

// New returns the set containing the given code points.
// Values above U+10FFFF are ignored.
func New(codes ...uint32) *Set {
	res := make([]uint32, 0, len(codes))
	for _, c := range codes {
		if c <= unicode.MaxRune {
			res = append(res, c)
		}
	}
	slices.Sort(res)
	res = slices.Compact(res)

	runes := make([]rune, len(res))
	for i, c := range res {
		runes[i] = rune(c)
	}
	return &Set{
		codes: res,
		table: rangetable.New(runes...),
	}
}

// Union returns the set of code points contained in any of the given sets.
// Nil sets are treated as empty.
func Union(sets ...*Set) *Set {
	var all []uint32
	for _, s := range sets {
		if s != nil {
			all = append(all, s.codes...)
		}
	}
	return New(all...)
}

// Without returns the code points of s which are not in other.
func (s *Set) Without(other *Set) *Set {
	if s == nil {
		return New()
	}
	var res []uint32
	for _, c := range s.codes {
		if !other.Contains(c) {
			res = append(res, c)
		}
	}
	return New(res...)
}

// Contains reports whether c is in the set.
func (s *Set) Contains(c uint32) bool {
	if s == nil {
		return false
	}
	_, found := slices.BinarySearch(s.codes, c)
	return found
}

// Len returns the number of code points in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes returns the code points in increasing order.
// The caller may modify the returned slice.
func (s *Set) Codes() []uint32 {
	if s == nil {
		return nil
	}
	return slices.Clone(s.codes)
}

// Ranges returns the set as a Unicode range table, for use with
// the functions in the unicode package.
func (s *Set) Ranges() *unicode.RangeTable {
	if s == nil {
		return rangetable.New()
	}
	return s.table
}

// String returns the set as a range expression, which can be read back
// using ParseRanges.
func (s *Set) String() string {
	if s == nil {
		return ""
	}
	var parts []string
	add := func(lo, hi, stride uint32) {
		if stride == 1 && hi > lo {
			parts = append(parts, fmt.Sprintf("%04X-%04X", lo, hi))
			return
		}
		for c := lo; c <= hi; c += stride {
			parts = append(parts, fmt.Sprintf("%04X", c))
		}
	}
	for _, r := range s.table.R16 {
		add(uint32(r.Lo), uint32(r.Hi), uint32(r.Stride))
	}
	for _, r := range s.table.R32 {
		add(r.Lo, r.Hi, r.Stride)
	}
	return strings.Join(parts, " ")
}

// ParseRanges expands a list of hexadecimal code points and inclusive
// ranges, like "0000-001F 2603,E000-E0FF", into the individual code points.
// Elements are separated by commas or white space.  The result is sorted
// and contains no duplicates.
func ParseRanges(expr string) ([]uint32, error) {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var res []uint32
	for _, field := range fields {
		loStr, hiStr, isRange := strings.Cut(field, "-")
		lo, err := parseCode(loStr)
		if err != nil {
			return nil, err
		}
		hi := lo
		if isRange {
			hi, err = parseCode(hiStr)
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, fmt.Errorf("exclude: invalid range %q", field)
			}
		}
		for c := lo; c <= hi; c++ {
			res = append(res, c)
		}
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}

func parseCode(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "U+"), "u+")
	x, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("exclude: invalid code point %q", s)
	}
	if x > unicode.MaxRune {
		return 0, fmt.Errorf("exclude: code point %q out of range", s)
	}
	return uint32(x), nil
}

// Describe returns a human-readable description of a code point,
// for example "U+26BD SOCCER BALL".
func Describe(c uint32) string {
	name := runenames.Name(rune(c))
	if name == "" {
		return fmt.Sprintf("U+%04X", c)
	}
	return fmt.Sprintf("U+%04X %s", c, name)
}
