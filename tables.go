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
	"math"
	"strings"

	"seehuhn.de/go/postscript/funit"
	sfntcmap "seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/hmtx"
	"seehuhn.de/go/sfnt/maxp"
	"seehuhn.de/go/sfnt/name"
	"seehuhn.de/go/sfnt/os2"
	"seehuhn.de/go/sfnt/post"

	"github.com/nvictor/fontaku/sfnt/glyf"
	"github.com/nvictor/fontaku/sfnt/sbix"
)

// The "cmap" subtables of the font.  Both map the full Unicode range.
var (
	keyUnicodeFull = sfntcmap.Key{PlatformID: 0, EncodingID: 4}
	keyWindowsFull = sfntcmap.Key{PlatformID: 3, EncodingID: 10}
)

// windowsEncodingUnicodeBMP is used for the Windows records of the
// "name" table, which are UTF-16 encoded.
const windowsEncodingUnicodeBMP = 1

// Tables returns the binary contents of all tables of the font.
//
// The "glyf" and "loca" tables describe empty outlines, all glyph
// images are stored in the "sbix" table.
func (f *Font) Tables() (map[string][]byte, error) {
	err := f.Check()
	if err != nil {
		return nil, err
	}

	numGlyphs := f.NumGlyphs()
	tables := make(map[string][]byte)

	widths := f.Widths()
	hmtxInfo := &hmtx.Info{
		Widths:       widths,
		GlyphExtents: make([]funit.Rect16, numGlyphs),
		Ascent:       Ascent,
		Descent:      Descent,
	}
	tables["hhea"], tables["hmtx"] = hmtxInfo.Encode()

	maxpInfo := &maxp.Info{
		NumGlyphs: numGlyphs,
		TTF:       &maxp.TTFInfo{MaxZones: 2},
	}
	tables["maxp"] = maxpInfo.Encode()

	outlines, err := glyf.Empty(numGlyphs)
	if err != nil {
		return nil, err
	}
	tables["glyf"] = outlines.GlyfData
	tables["loca"] = outlines.LocaData

	headInfo := &head.Info{
		FontRevision: f.Revision,
		HasYBaseAt0:  true,
		HasXBaseAt0:  true,
		UnitsPerEm:   UnitsPerEm,
		Created:      f.Created,
		Modified:     f.Modified,
		FontBBox: funit.Rect16{
			LLx: 0,
			LLy: Descent,
			URx: AdvanceWidth,
			URy: Ascent,
		},
		LowestRecPPEM: f.Sizes[0] / 4,
	}
	tables["head"], err = headInfo.Encode()
	if err != nil {
		return nil, err
	}

	cmapSubtable := f.CMap()
	cmapData := cmapSubtable.Encode(0)
	cmapTable := sfntcmap.Table{
		keyUnicodeFull: cmapData,
		keyWindowsFull: cmapData,
	}
	tables["cmap"] = cmapTable.Encode()

	var total int
	for _, w := range widths {
		total += int(w)
	}
	style := strings.ToLower(f.Style)
	os2Info := &os2.Info{
		WeightClass:   os2.WeightNormal,
		WidthClass:    os2.WidthNormal,
		IsRegular:     style == strings.ToLower(DefaultStyle),
		IsBold:        strings.Contains(style, "bold"),
		IsItalic:      strings.Contains(style, "italic"),
		AvgGlyphWidth: funit.Int16((total + numGlyphs/2) / numGlyphs),
		Ascent:        TypoAscender,
		Descent:       TypoDescender,
		XHeight:       XHeight,
		CapHeight:     CapHeight,
		Vendor:        "NONE",
	}
	tables["OS/2"] = os2Info.Encode(cmapSubtable)

	psName := f.PostScriptName()
	names := &name.Table{
		Family:         f.Family,
		Subfamily:      f.Style,
		Identifier:     f.versionString() + ";NONE;" + psName,
		FullName:       f.Family + " " + f.Style,
		Version:        f.versionString(),
		PostScriptName: psName,
	}
	nameInfo := &name.Info{
		Mac:     name.Tables{"en": names},
		Windows: name.Tables{"en-US": names},
	}
	tables["name"] = nameInfo.Encode(windowsEncodingUnicodeBMP)

	glyphNames := make([]string, numGlyphs)
	for i := range glyphNames {
		glyphNames[i] = f.GlyphName(glyph.ID(i))
	}
	postInfo := &post.Info{
		UnderlinePosition:  -100,
		UnderlineThickness: 50,
		Names:              glyphNames,
	}
	tables["post"] = postInfo.Encode()

	tables["sbix"], err = f.makeSbix().Encode()
	if err != nil {
		return nil, err
	}

	return tables, nil
}

// Widths returns the advance widths of all glyphs, starting with ".notdef".
func (f *Font) Widths() []funit.Int16 {
	widths := make([]funit.Int16, f.NumGlyphs())
	widths[0] = notdefWidth
	for i := 1; i < len(widths); i++ {
		widths[i] = AdvanceWidth
	}
	return widths
}

// CMap returns the "cmap" subtable which maps code points to glyphs.
func (f *Font) CMap() sfntcmap.Format12 {
	res := make(sfntcmap.Format12, len(f.cmap))
	for r, gid := range f.cmap {
		res[uint32(r)] = gid
	}
	return res
}

func (f *Font) makeSbix() *sbix.Table {
	numGlyphs := f.NumGlyphs()
	table := &sbix.Table{}
	for _, ppem := range f.Sizes {
		s := &sbix.Strike{
			PPEM:   ppem,
			PPI:    72,
			Glyphs: make([]sbix.Glyph, numGlyphs),
		}
		originY := OriginOffsetY(ppem)
		for i, g := range f.glyphs {
			s.Glyphs[i+1] = sbix.Glyph{
				OriginY:     originY,
				GraphicType: sbix.TypePNG,
				Data:        g.Strikes[ppem],
			}
		}
		table.Strikes = append(table.Strikes, s)
	}
	return table
}

// OriginOffsetY returns the vertical offset of the bitmaps in a strike,
// in pixels.  The bottom edge of each bitmap is placed on the descender line.
func OriginOffsetY(ppem uint16) int16 {
	return int16(Descent * int(ppem) / UnitsPerEm)
}

// PostScriptName returns the PostScript name of the font.
func (f *Font) PostScriptName() string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r <= ' ' || r >= 127 || strings.ContainsRune("[](){}<>/%", r) {
				return -1
			}
			return r
		}, s)
	}
	return clean(f.Family) + "-" + clean(f.Style)
}

// fontRevision converts a version number like 1.5 into the 16.16 fixed
// point format of the "head" table.
func fontRevision(v float64) head.Version {
	return head.Version(math.Round(v * 65536))
}

// versionString formats the font revision for the "name" table,
// for example "Version 1.0".
func (f *Font) versionString() string {
	s := strings.TrimRight(fmt.Sprintf("%.3f", float64(f.Revision)/65536), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return "Version " + s
}
