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
	"time"

	"github.com/nvictor/fontaku/strike"
)

// Fixed font metrics, in font design units.
// These match the metrics of Apple's color emoji font, so that
// replaced glyphs line up with the remaining system emoji.
const (
	UnitsPerEm    = 800
	AdvanceWidth  = 800
	Ascent        = 800
	Descent       = -250
	TypoAscender  = 750
	TypoDescender = -250
	XHeight       = 500
	CapHeight     = 800

	notdefWidth = 500
)

// Default values for [Options].
const (
	DefaultImageDir = "images"
	DefaultOutput   = "Fontaku.ttf"
	DefaultFamily   = "Fontaku"
	DefaultStyle    = "Regular"
	DefaultStart    = rune(0x1F600)
)

// Options control font generation.
// A nil *Options is valid and selects the defaults for all fields.
type Options struct {
	// ImageDir is the directory the "U+XXXX.png" images are read from.
	ImageDir string

	// Output is the name of the font file to write.
	Output string

	// Family and Style give the font names.
	Family string
	Style  string

	// Revision is the font version, for example 1.0.
	Revision float64

	// Start is the first code point assigned to the glyphs.
	// Zero selects [DefaultStart], so U+0000 cannot be used as a start.
	Start rune

	// Sizes lists the pixels-per-em values of the bitmap strikes.
	// If this is empty, [strike.StandardSizes] is used.
	Sizes []uint16

	// SkipInvalid makes [Generate] skip malformed file names and
	// undecodable images, instead of failing.
	SkipInvalid bool

	// NoVerify disables re-reading the generated font before it is written.
	NoVerify bool

	// Timestamp is stored as the creation and modification time of the font.
	// If this is zero, the time from the SOURCE_DATE_EPOCH environment
	// variable is used, or else the newest modification time of the
	// input images.
	Timestamp time.Time
}

func (opt *Options) withDefaults() *Options {
	res := &Options{}
	if opt != nil {
		*res = *opt
	}
	if res.ImageDir == "" {
		res.ImageDir = DefaultImageDir
	}
	if res.Output == "" {
		res.Output = DefaultOutput
	}
	if res.Family == "" {
		res.Family = DefaultFamily
	}
	if res.Style == "" {
		res.Style = DefaultStyle
	}
	if res.Revision == 0 {
		res.Revision = 1.0
	}
	if res.Start == 0 {
		res.Start = DefaultStart
	}
	if len(res.Sizes) == 0 {
		res.Sizes = strike.StandardSizes
	}
	return res
}
