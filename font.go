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
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/head"

	"github.com/nvictor/fontaku/strike"
)

// Font is a bitmap font under construction.
//
// Glyph 0 is the ".notdef" glyph, which has no bitmaps.  All other glyphs
// are added using [Font.AddGlyph].
type Font struct {
	Family   string
	Style    string
	Revision head.Version

	Created  time.Time
	Modified time.Time

	// Sizes lists the pixels-per-em values of the strikes, in increasing order.
	Sizes []uint16

	glyphs []*glyphData // glyph i+1 is glyphs[i]
	cmap   map[rune]glyph.ID
}

type glyphData struct {
	Name    string
	Code    rune
	Strikes map[uint16][]byte // PNG data by ppem
}

// New allocates a font with the fixed metrics of this package.
// Names and sizes are taken from opt, and nil selects the defaults.
func New(opt *Options) *Font {
	opt = opt.withDefaults()

	sizes := slices.Clone(opt.Sizes)
	slices.Sort(sizes)
	sizes = slices.Compact(sizes)

	return &Font{
		Family:   opt.Family,
		Style:    opt.Style,
		Revision: fontRevision(opt.Revision),
		Created:  opt.Timestamp,
		Modified: opt.Timestamp,
		Sizes:    sizes,
		cmap:     make(map[rune]glyph.ID),
	}
}

// NumGlyphs returns the number of glyphs in the font, including ".notdef".
func (f *Font) NumGlyphs() int {
	return len(f.glyphs) + 1
}

// GlyphName returns the PostScript name of a glyph.
func (f *Font) GlyphName(gid glyph.ID) string {
	if gid == 0 || int(gid) > len(f.glyphs) {
		return ".notdef"
	}
	return f.glyphs[gid-1].Name
}

// Lookup returns the glyph mapped to the given code point, or 0.
func (f *Font) Lookup(r rune) glyph.ID {
	return f.cmap[r]
}

// AddGlyph adds a new glyph for code point code.  The glyph uses one
// bitmap for every size of the font.
func (f *Font) AddGlyph(code rune, bitmaps []strike.Bitmap) (glyph.ID, error) {
	if !utf8.ValidRune(code) {
		return 0, fmt.Errorf("fontaku: %U: %w", code, ErrCodeRange)
	}
	if _, exists := f.cmap[code]; exists {
		return 0, fmt.Errorf("%w: %U", errDuplicateGlyph, code)
	}
	if len(f.glyphs)+1 >= 0xFFFF {
		return 0, errTooManyGlyphs
	}

	strikes := make(map[uint16][]byte, len(bitmaps))
	for _, bm := range bitmaps {
		if !slices.Contains(f.Sizes, bm.PPEM) {
			return 0, fmt.Errorf("fontaku: %U: unexpected bitmap size %d", code, bm.PPEM)
		}
		if _, dup := strikes[bm.PPEM]; dup {
			return 0, fmt.Errorf("fontaku: %U: duplicate bitmap size %d", code, bm.PPEM)
		}
		if bm.Image != nil {
			b := bm.Image.Bounds()
			if b.Dx() != int(bm.PPEM) || b.Dy() != int(bm.PPEM) {
				return 0, fmt.Errorf("fontaku: %U: %dx%d bitmap in %d ppem strike",
					code, b.Dx(), b.Dy(), bm.PPEM)
			}
		}
		if len(bm.PNG) == 0 {
			return 0, fmt.Errorf("fontaku: %U: empty bitmap at size %d", code, bm.PPEM)
		}
		strikes[bm.PPEM] = bm.PNG
	}
	if err := f.checkStrikes(code, strikes); err != nil {
		return 0, err
	}

	f.glyphs = append(f.glyphs, &glyphData{
		Name:    glyphName(code),
		Code:    code,
		Strikes: strikes,
	})
	gid := glyph.ID(len(f.glyphs))
	f.cmap[code] = gid
	return gid, nil
}

// Check verifies that the font can be written: there is at least one
// glyph, and every glyph has a bitmap at every size.
func (f *Font) Check() error {
	if len(f.glyphs) == 0 {
		return errNoGlyphs
	}
	if f.NumGlyphs() > 0xFFFF {
		return errTooManyGlyphs
	}
	if len(f.Sizes) == 0 {
		return fmt.Errorf("fontaku: no strike sizes: %w", ErrMissingStrike)
	}
	for _, g := range f.glyphs {
		if err := f.checkStrikes(g.Code, g.Strikes); err != nil {
			return err
		}
	}
	return nil
}

func (f *Font) checkStrikes(code rune, strikes map[uint16][]byte) error {
	for _, size := range f.Sizes {
		if len(strikes[size]) == 0 {
			return fmt.Errorf("fontaku: %U at %d ppem: %w", code, size, ErrMissingStrike)
		}
	}
	return nil
}

// glyphName returns the glyph name for a code point, following the
// "uXXXX" convention of the Adobe Glyph List specification.
func glyphName(code rune) string {
	return fmt.Sprintf("u%04X", code)
}
