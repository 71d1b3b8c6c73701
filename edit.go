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

package cmapstrip

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"seehuhn.de/go/cmapstrip/exclude"
	"seehuhn.de/go/cmapstrip/sfnt/cmap"
	"seehuhn.de/go/cmapstrip/sfnt/collection"
	"seehuhn.de/go/cmapstrip/sfnt/maxp"
	"seehuhn.de/go/cmapstrip/sfnt/name"
)

// Options control the editing of a collection.
// A nil *Options is valid and selects the defaults.
type Options struct {
	// Workers is the number of cmap tables edited in parallel.
	// Values below 2 select sequential editing.
	Workers int

	// Logger, if set, is used instead of the package logger.
	Logger *slog.Logger
}

// Stats describes the changes made by EditCollection.
type Stats struct {
	// Fonts has one entry per font of the collection, in order.
	Fonts []FontStats
}

// FontStats describes the changes made to one font.
type FontStats struct {
	// Name is the PostScript name of the font, if available.
	Name string

	// NumGlyphs is the number of glyphs in the font, or 0 if the font
	// has no valid "maxp" table.
	NumGlyphs int

	// Removed gives the number of deleted mappings for each subtable
	// of the font's cmap table.
	Removed map[cmap.Key]int

	// Copied lists the subtables which use a format without a
	// code-to-glyph mapping and were copied unchanged.
	Copied []cmap.Key
}

// Total returns the number of mappings removed from all subtables of
// all fonts.
func (s *Stats) Total() int {
	total := 0
	for _, f := range s.Fonts {
		for _, n := range f.Removed {
			total += n
		}
	}
	return total
}

// Edit removes the code points in set from all cmap subtables of the font
// collection at containerPath.  The result is written to a file with the
// same name in outputDir, which is created if needed.  The input file is
// never modified.
//
// If the input is not a valid font collection, the error is a *ParseError.
// If the output cannot be written, the error is a *WriteError.  In both
// cases no file is left at the output path.
func Edit(containerPath string, set *exclude.Set, outputDir string, opt *Options) (string, error) {
	log := opt.logger()

	if set == nil {
		return "", ErrNoExclusionSet
	}
	inInfo, err := os.Stat(containerPath)
	if err != nil {
		return "", err
	}
	if !inInfo.Mode().IsRegular() {
		return "", &fs.PathError{Op: "edit", Path: containerPath, Err: errors.New("not a regular file")}
	}

	outputPath := filepath.Join(outputDir, filepath.Base(containerPath))
	if samePath(containerPath, outputPath) {
		return "", ErrInPlace
	}
	if outInfo, err := os.Stat(outputPath); err == nil && os.SameFile(inInfo, outInfo) {
		return "", ErrInPlace
	}

	log.Info("loading", "path", containerPath)
	data, err := os.ReadFile(containerPath)
	if err != nil {
		return "", err
	}
	c, err := collection.Parse(data)
	if err != nil {
		return "", &ParseError{Path: containerPath, Err: err}
	}

	log.Info("editing", "path", containerPath, "fonts", len(c.Fonts))
	stats, err := EditCollection(c, set, opt)
	if err != nil {
		return "", setPath(err, containerPath)
	}

	out, err := c.Encode()
	if err != nil {
		return "", &WriteError{Path: outputPath, Err: err}
	}
	err = checkOutput(out, set)
	if err != nil {
		return "", &WriteError{Path: outputPath, Err: fmt.Errorf("self-check failed: %w", err)}
	}

	log.Info("saving", "path", outputPath)
	err = writeFileAtomic(outputPath, out, inInfo.Mode().Perm())
	if err != nil {
		return "", &WriteError{Path: outputPath, Err: err}
	}

	log.Info("size",
		"path", outputPath,
		"input", len(data),
		"output", len(out),
		"delta", len(out)-len(data),
		"removed", stats.Total())
	return outputPath, nil
}

// EditCollection removes the code points in set from all cmap subtables of
// all fonts in c.  Fonts which share a cmap table keep sharing the edited
// table.  Subtables which contain none of the code points are left
// byte-for-byte unchanged.
//
// A malformed cmap table gives a *ParseError, a subtable which becomes
// too large to encode gives a *WriteError.
func EditCollection(c *collection.Collection, set *exclude.Set, opt *Options) (*Stats, error) {
	log := opt.logger()
	if set == nil {
		return nil, ErrNoExclusionSet
	}

	// Identical cmap tables are edited once.
	type job struct {
		data  []byte
		fonts []int

		res *cmapResult
		err error
	}
	var jobs []*job
	for i, font := range c.Fonts {
		data, ok := font.Tables["cmap"]
		if !ok {
			log.Debug("no cmap table", "font", i)
			continue
		}
		var j *job
		for _, other := range jobs {
			if bytes.Equal(other.data, data) {
				j = other
				break
			}
		}
		if j == nil {
			j = &job{data: data}
			jobs = append(jobs, j)
		}
		j.fonts = append(j.fonts, i)
	}

	codes := set.Codes()
	workers := 1
	if opt != nil && opt.Workers > 1 {
		workers = min(opt.Workers, len(jobs))
	}
	if workers <= 1 {
		for _, j := range jobs {
			j.res, j.err = editCMap(j.data, codes)
		}
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for k := w; k < len(jobs); k += workers {
					j := jobs[k]
					j.res, j.err = editCMap(j.data, codes)
				}
			}(w)
		}
		wg.Wait()
	}

	stats := &Stats{
		Fonts: make([]FontStats, len(c.Fonts)),
	}
	for _, j := range jobs {
		if j.err == nil {
			continue
		}
		var wErr *WriteError
		if errors.As(j.err, &wErr) {
			return nil, &WriteError{Err: fmt.Errorf("font %d: %w", j.fonts[0], wErr.Err)}
		}
		return nil, &ParseError{Err: fmt.Errorf("font %d: %w", j.fonts[0], j.err)}
	}
	for i, font := range c.Fonts {
		stats.Fonts[i].Name, stats.Fonts[i].NumGlyphs = identify(font)
	}
	for _, j := range jobs {
		for _, i := range j.fonts {
			c.Fonts[i].Tables["cmap"] = j.res.data
			stats.Fonts[i].Removed = maps.Clone(j.res.removed)
			stats.Fonts[i].Copied = slices.Clone(j.res.copied)
			log.Debug("font",
				"font", i,
				"name", stats.Fonts[i].Name,
				"glyphs", stats.Fonts[i].NumGlyphs,
				"shared", len(j.fonts) > 1)
			for _, key := range j.res.copied {
				log.Debug("subtable copied", "font", i, "subtable", key.String())
			}
			for key, n := range j.res.removed {
				if n > 0 {
					log.Debug("mappings removed", "font", i, "subtable", key.String(), "count", n)
				}
			}
		}
	}
	return stats, nil
}

// identify returns the PostScript name and the glyph count of a font.
// Missing or malformed tables give empty values.
func identify(font *collection.Font) (string, int) {
	var psName string
	if data, ok := font.Tables["name"]; ok {
		if info, err := name.Decode(data); err == nil {
			psName = info.PostScript()
		}
	}
	var numGlyphs int
	if data, ok := font.Tables["maxp"]; ok {
		if info, err := maxp.Decode(data); err == nil {
			numGlyphs = info.NumGlyphs
		}
	}
	return psName, numGlyphs
}

type cmapResult struct {
	data    []byte
	removed map[cmap.Key]int
	copied  []cmap.Key
}

// editCMap deletes the given codes from all subtables of a binary cmap
// table.  If nothing is deleted, the original data is returned.
// Errors are parse errors, except for a *WriteError if an edited
// subtable cannot be encoded.
func editCMap(data []byte, codes []uint32) (*cmapResult, error) {
	table, err := cmap.Decode(data)
	if err != nil {
		return nil, err
	}

	res := &cmapResult{
		data:    data,
		removed: make(map[cmap.Key]int, len(table)),
	}
	changed := false
	for _, key := range table.Keys() {
		sub, err := table.Get(key)
		if errors.Is(err, cmap.ErrUnsupportedFormat) {
			res.copied = append(res.copied, key)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("cmap subtable %s: %w", key, err)
		}

		n := 0
		for _, code := range codes {
			if sub.Delete(code) {
				n++
			}
		}
		res.removed[key] = n
		if n == 0 {
			continue
		}
		err = table.Replace(key, sub)
		if err != nil {
			return nil, &WriteError{Err: err}
		}
		changed = true
	}

	if changed {
		res.data = table.Encode()
	}
	return res, nil
}

// checkOutput parses the encoded collection again and verifies that no
// code point of set is mapped in any subtable.
func checkOutput(data []byte, set *exclude.Set) error {
	c, err := collection.Parse(data)
	if err != nil {
		return err
	}
	codes := set.Codes()
	for i, font := range c.Fonts {
		cmapData, ok := font.Tables["cmap"]
		if !ok {
			continue
		}
		table, err := cmap.Decode(cmapData)
		if err != nil {
			return fmt.Errorf("font %d: %w", i, err)
		}
		for _, key := range table.Keys() {
			sub, err := table.Get(key)
			if errors.Is(err, cmap.ErrUnsupportedFormat) {
				continue
			} else if err != nil {
				return fmt.Errorf("font %d: %w", i, err)
			}
			for _, code := range codes {
				if sub.Lookup(code) != 0 {
					return fmt.Errorf("font %d: subtable %s still maps %s",
						i, key, exclude.Describe(code))
				}
			}
		}
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in the directory of
// path and then renames it.  On failure, the temporary file is removed.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return err
	}
	err = tmp.Chmod(perm)
	if err != nil {
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Rename(tmpName, path)
	if err != nil {
		return err
	}
	done = true
	return nil
}

// samePath reports whether two paths refer to the same location, after
// making them absolute and cleaning them.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
