// fontaku - build sbix emoji fonts from PNG images
// Copyright (C) 2026  The Fontaku Authors
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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/gogpu/gg/text/emoji"
	"golang.org/x/text/unicode/runenames"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/maxp"
	"seehuhn.de/go/sfnt/name"

	"github.com/nvictor/fontaku/tools/internal/buildinfo"
)

var showAll = flag.Bool("a", false, "list every bitmap, not just the strike summary")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fontaku-inspect \u2014 show the emoji mapping and bitmaps of a font\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("fontaku-inspect"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  fontaku-inspect [options] <font.ttf>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	for _, fname := range flag.Args() {
		data, err := os.ReadFile(fname)
		if err == nil {
			fmt.Println("#", fname)
			err = inspect(os.Stdout, data, *showAll)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func inspect(w io.Writer, data []byte, all bool) error {
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return err
	}

	tableNames := make([]string, 0, len(info.Toc))
	for name := range info.Toc {
		tableNames = append(tableNames, name)
	}
	slices.Sort(tableNames)
	fmt.Fprintln(w, "tables:")
	for _, name := range tableNames {
		fmt.Fprintf(w, "  %-4s %8d bytes\n", name, info.Toc[name].Length)
	}

	if nameData, err := info.ReadTableBytes(r, "name"); err == nil {
		names, err := name.Decode(nameData)
		if err != nil {
			return err
		}
		if t := names.Windows["en-US"]; t != nil {
			fmt.Fprintf(w, "font: %s (%s)\n", t.FullName, t.Version)
		}
	}

	maxpData, err := info.ReadTableBytes(r, "maxp")
	if err != nil {
		return err
	}
	maxpInfo, err := maxp.Read(bytes.NewReader(maxpData))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "glyphs: %d\n", maxpInfo.NumGlyphs)

	cmapData, err := info.ReadTableBytes(r, "cmap")
	if err != nil {
		return err
	}
	cmapTable, err := cmap.Decode(cmapData)
	if err != nil {
		return err
	}
	sub, err := cmapTable.Get(cmap.Key{PlatformID: 3, EncodingID: 10})
	if err != nil {
		sub, err = cmapTable.Get(cmap.Key{PlatformID: 0, EncodingID: 4})
	}
	if err == nil {
		fmt.Fprintln(w, "cmap:")
		low, high := sub.CodeRange()
		for code := low; code <= high && high > 0; code++ {
			if gid := sub.Lookup(code); gid != 0 {
				fmt.Fprintf(w, "  %U -> %d  %s\n", code, gid, runenames.Name(code))
			}
		}
	}

	sbixData, err := info.ReadTableBytes(r, "sbix")
	if err != nil {
		return err
	}
	p, err := emoji.NewSBIXParser(sbixData, uint16(maxpInfo.NumGlyphs))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "sbix:")
	for i := range p.NumStrikes() {
		numBitmaps := 0
		for gid := range maxpInfo.NumGlyphs {
			if !p.HasGlyph(gid, i) {
				continue
			}
			numBitmaps++
			if !all {
				continue
			}
			bm, err := p.GetGlyph(gid, i)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "    glyph %d: %s %dx%d, origin %g,%g, %d bytes\n",
				gid, bm.Format, bm.Width, bm.Height, bm.OriginX, bm.OriginY, len(bm.Data))
		}
		fmt.Fprintf(w, "  strike %d: %d ppem, %d bitmaps\n", i, p.StrikePPEM(i), numBitmaps)
	}
	return nil
}
