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
	"os"
	"strconv"
	"time"

	"golang.org/x/text/unicode/runenames"

	"github.com/nvictor/fontaku/source"
	"github.com/nvictor/fontaku/strike"
)

// Summary describes a generated font.
type Summary struct {
	Mappings []Mapping
	Sizes    []uint16
	Output   string // file name of the font
	Size     int64  // size of the font file in bytes
}

// Generate builds a font from the images in opt.ImageDir and writes it
// to opt.Output.  Any failure aborts the run before the output file is
// touched.
func Generate(opt *Options) (*Summary, error) {
	opt = opt.withDefaults()
	logger := Logger()

	images, err := source.Load(opt.ImageDir, &source.Options{
		SkipInvalid: opt.SkipInvalid,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("loaded images", "dir", opt.ImageDir, "count", len(images))

	mappings, err := Assign(images, opt.Start)
	if err != nil {
		return nil, err
	}

	if opt.Timestamp.IsZero() {
		opt.Timestamp, err = buildTime(images)
		if err != nil {
			return nil, err
		}
	}
	font := New(opt)

	err = font.addImages(images, mappings)
	if err != nil {
		return nil, err
	}

	err = font.Check()
	if err != nil {
		return nil, err
	}
	data, err := font.Encode()
	if err != nil {
		return nil, err
	}

	if !opt.NoVerify {
		err = Verify(data, mappings, font.Sizes)
		if err != nil {
			return nil, err
		}
		logger.Debug("font verified")
	}

	err = WriteFile(opt.Output, data)
	if err != nil {
		return nil, err
	}
	logger.Info("wrote font", "file", opt.Output, "glyphs", font.NumGlyphs(), "bytes", len(data))

	return &Summary{
		Mappings: mappings,
		Sizes:    font.Sizes,
		Output:   opt.Output,
		Size:     int64(len(data)),
	}, nil
}

// buildTime returns the timestamp stored in the font.  This is taken from
// SOURCE_DATE_EPOCH, if set, so that font builds are reproducible.
// Otherwise the newest modification time of the images is used.
func buildTime(images []*source.Image) (time.Time, error) {
	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" {
		sec, err := strconv.ParseInt(epoch, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid SOURCE_DATE_EPOCH %q: %w", epoch, err)
		}
		return time.Unix(sec, 0).UTC(), nil
	}

	var newest time.Time
	for _, img := range images {
		if img.ModTime.After(newest) {
			newest = img.ModTime
		}
	}
	return newest.Truncate(time.Second).UTC(), nil
}

// addImages renders the images and adds them to the font, in the order
// given by mappings.
func (f *Font) addImages(images []*source.Image, mappings []Mapping) error {
	logger := Logger()

	byCode := make(map[rune]*source.Image, len(images))
	for _, img := range images {
		byCode[img.Code] = img
	}

	for _, m := range mappings {
		img := byCode[m.Source]
		if img == nil {
			return fmt.Errorf("fontaku: no image for %U: %w", m.Source, errGlyphOrder)
		}
		bitmaps, err := strike.RenderAll(img.Image, f.Sizes)
		if err != nil {
			return fmt.Errorf("%s: %w", img.Path, err)
		}
		gid, err := f.AddGlyph(m.Target, bitmaps)
		if err != nil {
			return err
		}
		if gid != m.GID {
			return fmt.Errorf("%s: %U became glyph %d instead of %d: %w",
				img.Path, m.Target, gid, m.GID, errGlyphOrder)
		}
		logger.Debug("added glyph",
			"source", fmt.Sprintf("%U", m.Source),
			"target", fmt.Sprintf("%U", m.Target),
			"replaces", runenames.Name(m.Target),
			"gid", gid)
	}
	return nil
}
