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

// Package strike renders source images into the square bitmaps stored
// in the strikes of an "sbix" table.
package strike

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// StandardSizes lists the pixels-per-em values of Apple's color emoji font.
// The system picks the nearest strike for a given point size, so fonts
// replacing system emoji should use the same values.
var StandardSizes = []uint16{32, 64, 128, 256}

// Bitmap is the rendering of one glyph at one pixel density.
type Bitmap struct {
	PPEM  uint16
	Image *image.NRGBA // PPEM×PPEM pixels
	PNG   []byte       // Image, in PNG format
}

// Fit returns the dimensions of a w×h image scaled uniformly so that its
// longer side becomes size.  The shorter side is rounded down, but is
// at least one pixel.
func Fit(w, h, size int) (sw, sh int) {
	if w <= 0 || h <= 0 || size <= 0 {
		return 0, 0
	}
	if w >= h {
		sw = size
		sh = max(h*size/w, 1)
	} else {
		sh = size
		sw = max(w*size/h, 1)
	}
	return sw, sh
}

// Render scales src into a transparent size×size canvas.  The aspect
// ratio is preserved and the result is centered, with any odd pixel of
// padding placed on the right or bottom.
func Render(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))

	sb := src.Bounds()
	sw, sh := Fit(sb.Dx(), sb.Dy(), size)
	if sw == 0 {
		return dst
	}
	x0 := (size - sw) / 2
	y0 := (size - sh) / 2
	dr := image.Rect(x0, y0, x0+sw, y0+sh)
	xdraw.CatmullRom.Scale(dst, dr, src, sb, xdraw.Src, nil)

	return dst
}

// EncodePNG returns the PNG encoding of img.
// The output only depends on the pixel values.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	err := enc.Encode(buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderAll renders src at each of the given sizes.
func RenderAll(src image.Image, sizes []uint16) ([]Bitmap, error) {
	if len(sizes) == 0 {
		return nil, errNoSizes
	}
	if src.Bounds().Empty() {
		return nil, errEmptySource
	}

	res := make([]Bitmap, 0, len(sizes))
	seen := make(map[uint16]bool, len(sizes))
	for _, size := range sizes {
		if size == 0 {
			return nil, errors.New("strike: size 0")
		}
		if seen[size] {
			return nil, fmt.Errorf("strike: duplicate size %d", size)
		}
		seen[size] = true

		img := Render(src, int(size))
		data, err := EncodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("strike: size %d: %w", size, err)
		}
		res = append(res, Bitmap{
			PPEM:  size,
			Image: img,
			PNG:   data,
		})
	}
	return res, nil
}

var (
	errNoSizes     = errors.New("strike: no sizes given")
	errEmptySource = errors.New("strike: empty source image")
)
