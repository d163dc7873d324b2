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
	"sort"

	"seehuhn.de/go/sfnt/glyph"

	"github.com/nvictor/fontaku/source"
)

// Mapping records where the glyph for one source image ends up.
type Mapping struct {
	Source rune     // code point from the image file name
	Target rune     // code point in the generated font
	GID    glyph.ID // glyph in the generated font
	Path   string   // image file
}

// Assign maps the images, in increasing order of their code points,
// onto consecutive target code points beginning at start.
// Glyph IDs are assigned in the same order, starting at 1.
func Assign(images []*source.Image, start rune) ([]Mapping, error) {
	n := len(images)
	if n == 0 {
		return nil, source.ErrNoImages
	}
	if n >= 0xFFFF {
		return nil, errTooManyGlyphs
	}

	last := start + rune(n) - 1
	if start < 0 || last > 0x10FFFF {
		return nil, fmt.Errorf("fontaku: %U+%d: %w", start, n, ErrCodeRange)
	}
	if start <= 0xDFFF && last >= 0xD800 {
		return nil, fmt.Errorf("fontaku: %U-%U overlaps the surrogate block: %w",
			start, last, ErrCodeRange)
	}

	sorted := make([]*source.Image, n)
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Code < sorted[j].Code
	})

	res := make([]Mapping, n)
	for i, img := range sorted {
		if i > 0 && img.Code == sorted[i-1].Code {
			return nil, fmt.Errorf("%w %U", source.ErrDuplicate, img.Code)
		}
		res[i] = Mapping{
			Source: img.Code,
			Target: start + rune(i),
			GID:    glyph.ID(i + 1),
			Path:   img.Path,
		}
	}
	return res, nil
}
