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

package fontaku

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gogpu/gg/text/emoji"
	xsfnt "golang.org/x/image/font/sfnt"
	sfntcmap "seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/hmtx"

	"github.com/nvictor/fontaku/sfnt/glyf"
	"github.com/nvictor/fontaku/sfnt/sbix"
)

// requiredTables lists the tables every generated font must contain.
var requiredTables = []string{
	"OS/2", "cmap", "glyf", "head", "hhea", "hmtx", "loca", "maxp", "name", "post", "sbix",
}

// Verify reads back an encoded font and checks that it maps every target
// code point to the expected glyph, that every glyph has the fixed
// advance width, and that every glyph has a square bitmap at each of the
// given sizes, placed on the descender line.
//
// The font is checked with three independent readers, so that problems
// which only affect some font loaders are caught early.
func Verify(data []byte, mappings []Mapping, sizes []uint16) error {
	numGlyphs := len(mappings) + 1

	// the table directory and the cmap
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return &VerifyError{Check: "header", Err: err}
	}
	for _, name := range requiredTables {
		if _, ok := info.Toc[name]; !ok {
			return &VerifyError{Check: "header", Err: fmt.Errorf("missing %q table", name)}
		}
	}
	cmapData, err := info.ReadTableBytes(r, "cmap")
	if err != nil {
		return &VerifyError{Check: "cmap", Err: err}
	}
	cmapTable, err := sfntcmap.Decode(cmapData)
	if err != nil {
		return &VerifyError{Check: "cmap", Err: err}
	}
	for _, key := range []sfntcmap.Key{keyUnicodeFull, keyWindowsFull} {
		sub, err := cmapTable.Get(key)
		if err != nil {
			return &VerifyError{Check: "cmap", Err: err}
		}
		for _, m := range mappings {
			if gid := sub.Lookup(m.Target); gid != m.GID {
				return &VerifyError{
					Check: "cmap",
					Err:   fmt.Errorf("%U maps to glyph %d instead of %d", m.Target, gid, m.GID),
				}
			}
		}
	}

	// the advance widths
	hheaData, err := info.ReadTableBytes(r, "hhea")
	if err != nil {
		return &VerifyError{Check: "hmtx", Err: err}
	}
	hmtxData, err := info.ReadTableBytes(r, "hmtx")
	if err != nil {
		return &VerifyError{Check: "hmtx", Err: err}
	}
	metrics, err := hmtx.Decode(hheaData, hmtxData)
	if err != nil {
		return &VerifyError{Check: "hmtx", Err: err}
	}
	if len(metrics.Widths) != numGlyphs {
		return &VerifyError{
			Check: "hmtx",
			Err:   fmt.Errorf("%d advance widths instead of %d", len(metrics.Widths), numGlyphs),
		}
	}
	for _, m := range mappings {
		if w := metrics.Widths[m.GID]; w != AdvanceWidth {
			return &VerifyError{
				Check: "hmtx",
				Err:   fmt.Errorf("%U has advance width %d instead of %d", m.Target, w, AdvanceWidth),
			}
		}
	}

	// the outlines, which must all be empty
	glyfData, err := info.ReadTableBytes(r, "glyf")
	if err != nil {
		return &VerifyError{Check: "glyf", Err: err}
	}
	locaData, err := info.ReadTableBytes(r, "loca")
	if err != nil {
		return &VerifyError{Check: "glyf", Err: err}
	}
	outlines := &glyf.Encoded{GlyfData: glyfData, LocaData: locaData}
	if len(locaData) == 4*(numGlyphs+1) {
		outlines.LocaFormat = 1
	}
	lengths, err := outlines.GlyphLengths()
	if err != nil {
		return &VerifyError{Check: "glyf", Err: err}
	}
	if len(lengths) != numGlyphs {
		return &VerifyError{
			Check: "glyf",
			Err:   fmt.Errorf("%d outlines instead of %d", len(lengths), numGlyphs),
		}
	}
	for gid, l := range lengths {
		if l != 0 {
			return &VerifyError{
				Check: "glyf",
				Err:   fmt.Errorf("glyph %d has %d bytes of outline data", gid, l),
			}
		}
	}

	// a general purpose font parser
	f, err := xsfnt.Parse(data)
	if err != nil {
		return &VerifyError{Check: "x/image/font/sfnt", Err: err}
	}
	if upem := f.UnitsPerEm(); upem != UnitsPerEm {
		return &VerifyError{
			Check: "x/image/font/sfnt",
			Err:   fmt.Errorf("%d units per em", upem),
		}
	}
	if n := f.NumGlyphs(); n != numGlyphs {
		return &VerifyError{
			Check: "x/image/font/sfnt",
			Err:   fmt.Errorf("%d glyphs instead of %d", n, numGlyphs),
		}
	}
	var buf xsfnt.Buffer
	for _, m := range mappings {
		gid, err := f.GlyphIndex(&buf, m.Target)
		if err != nil {
			return &VerifyError{Check: "x/image/font/sfnt", Err: err}
		}
		if gid != xsfnt.GlyphIndex(m.GID) {
			return &VerifyError{
				Check: "x/image/font/sfnt",
				Err:   fmt.Errorf("%U maps to glyph %d instead of %d", m.Target, gid, m.GID),
			}
		}
	}

	// the bitmaps
	sbixData, err := info.ReadTableBytes(r, "sbix")
	if err != nil {
		return &VerifyError{Check: "sbix", Err: err}
	}
	p, err := emoji.NewSBIXParser(sbixData, uint16(numGlyphs))
	if err != nil {
		return &VerifyError{Check: "sbix", Err: err}
	}
	if p.NumStrikes() != len(sizes) {
		return &VerifyError{
			Check: "sbix",
			Err:   fmt.Errorf("%d strikes instead of %d", p.NumStrikes(), len(sizes)),
		}
	}
	for _, size := range sizes {
		idx := -1
		for i := range p.NumStrikes() {
			if p.StrikePPEM(i) == size {
				idx = i
				break
			}
		}
		if idx < 0 {
			return &VerifyError{
				Check: "sbix",
				Err:   fmt.Errorf("no strike for %d ppem: %w", size, ErrMissingStrike),
			}
		}
		if p.HasGlyph(0, idx) {
			return &VerifyError{Check: "sbix", Err: errors.New(".notdef has a bitmap")}
		}
		for _, m := range mappings {
			bm, err := p.GetGlyph(int(m.GID), idx)
			if err != nil {
				return &VerifyError{
					Check: "sbix",
					Err:   fmt.Errorf("%U at %d ppem: %w", m.Target, size, err),
				}
			}
			if bm.Format != emoji.FormatPNG || bm.Width != int(size) || bm.Height != int(size) {
				return &VerifyError{
					Check: "sbix",
					Err: fmt.Errorf("%U at %d ppem: %s bitmap of size %dx%d",
						m.Target, size, bm.Format, bm.Width, bm.Height),
				}
			}
		}
	}

	// the bitmap placement
	table, err := sbix.Decode(sbixData, numGlyphs)
	if err != nil {
		return &VerifyError{Check: "sbix", Err: err}
	}
	for _, size := range sizes {
		originY := OriginOffsetY(size)
		for _, m := range mappings {
			g, ok := table.Image(m.GID, size)
			if !ok {
				return &VerifyError{
					Check: "sbix",
					Err:   fmt.Errorf("%U at %d ppem: %w", m.Target, size, ErrMissingStrike),
				}
			}
			if g.OriginX != 0 || g.OriginY != originY {
				return &VerifyError{
					Check: "sbix",
					Err: fmt.Errorf("%U at %d ppem: origin %d,%d instead of 0,%d",
						m.Target, size, g.OriginX, g.OriginY, originY),
				}
			}
		}
	}

	return nil
}
