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

// Ttc-strip-cmap removes code points from the cmap tables of font
// collections, so that these characters are rendered using other fonts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"seehuhn.de/go/cmapstrip"
	"seehuhn.de/go/cmapstrip/exclude"
	"seehuhn.de/go/cmapstrip/tools/internal/buildinfo"
	"seehuhn.de/go/cmapstrip/tools/internal/profile"
)

var (
	outDir     = flag.String("o", "system/fonts", "write the edited collections to `dir`")
	addArg     = flag.String("add", "", "additional code points to remove, e.g. \"E000-E0FF,1F600\"")
	keepArg    = flag.String("keep", "", "code points from the default set to keep")
	workers    = flag.Int("workers", runtime.NumCPU(), "number of cmap tables to edit in parallel")
	verbose    = flag.Bool("v", false, "show per-font details")
	listFlag   = flag.Bool("list", false, "list the code points to be removed and exit")
	verifyFlag = flag.Bool("verify", false, "check the output with an independent font reader")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
	versionArg = flag.Bool("version", false, "print the version and exit")
)

var errFailed = errors.New("some files could not be processed")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ttc-strip-cmap \u2014 remove code points from font collection cmaps\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("ttc-strip-cmap"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  ttc-strip-cmap [options] <file.ttc>...\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  file.ttc   one or more font collections to edit\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ttc-strip-cmap NotoSansCJK-Regular.ttc\n")
		fmt.Fprintf(os.Stderr, "  ttc-strip-cmap -o out -keep 2764 -verify NotoSerifCJK-Regular.ttc\n")
		fmt.Fprintf(os.Stderr, "  ttc-strip-cmap -list\n")
	}
	flag.Parse()

	if *versionArg {
		fmt.Println(buildinfo.Short("ttc-strip-cmap"))
		return
	}
	if flag.NArg() < 1 && !*listFlag {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	setupLogger()

	set, err := exclusionSet(*addArg, *keepArg)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	if *listFlag {
		for _, code := range set.Codes() {
			fmt.Println(exclude.Describe(code))
		}
		p.Printf("%d code points\n", set.Len())
		return nil
	}

	opt := &cmapstrip.Options{Workers: *workers}
	failed := false
	for _, fname := range flag.Args() {
		err := processFile(p, fname, set, opt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fname, err)
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// exclusionSet returns the default set, modified by the -add and -keep
// options.
func exclusionSet(add, keep string) (*exclude.Set, error) {
	addCodes, err := exclude.ParseRanges(add)
	if err != nil {
		return nil, err
	}
	keepCodes, err := exclude.ParseRanges(keep)
	if err != nil {
		return nil, err
	}
	set := exclude.Union(exclude.Default(), exclude.New(addCodes...))
	return set.Without(exclude.New(keepCodes...)), nil
}

func processFile(p *message.Printer, fname string, set *exclude.Set, opt *cmapstrip.Options) error {
	inInfo, err := os.Stat(fname)
	if err != nil {
		return err
	}

	outPath, err := cmapstrip.Edit(fname, set, *outDir, opt)
	if err != nil {
		return err
	}

	if *verifyFlag {
		err = verifyFile(outPath, set)
		if err != nil {
			return err
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return err
	}
	in, out := inInfo.Size(), outInfo.Size()
	p.Printf("%s: %d --> %d bytes, delta=%d\n", outPath, in, out, out-in)
	return nil
}

// setupLogger sends log messages to stderr, as text for a terminal and
// as JSON otherwise.
func setupLogger() {
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	cmapstrip.SetLogger(slog.New(h))
}
