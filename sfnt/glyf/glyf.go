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

// Package glyf writes "glyf" and "loca" tables for fonts without outlines.
//
// Bitmap-only TrueType fonts still need both tables, so that
// rasterizers can find an (empty) outline for every glyph.
// https://learn.microsoft.com/en-us/typography/opentype/spec/glyf
// https://learn.microsoft.com/en-us/typography/opentype/spec/loca
package glyf

import (
	"errors"
	"fmt"
)

// Encoded holds the binary form of a "glyf" and "loca" table pair.
type Encoded struct {
	GlyfData   []byte
	LocaData   []byte
	LocaFormat int16 // 0 for short offsets, 1 for long offsets
}

// Empty returns the tables for numGlyphs glyphs without contours.
//
// All loca offsets are zero.  The glyf table holds a single padding byte,
// since some font parsers reject zero-length tables.
func Empty(numGlyphs int) (*Encoded, error) {
	if numGlyphs < 1 || numGlyphs > 0xFFFF {
		return nil, fmt.Errorf("sfnt/glyf: %d glyphs out of range", numGlyphs)
	}
	offs := make([]int, numGlyphs+1)
	locaData, locaFormat := encodeLoca(offs)
	return &Encoded{
		GlyfData:   []byte{0},
		LocaData:   locaData,
		LocaFormat: locaFormat,
	}, nil
}

// GlyphLengths returns the length of the outline data of every glyph.
func (enc *Encoded) GlyphLengths() ([]int, error) {
	offs, err := decodeLoca(enc)
	if err != nil {
		return nil, err
	}
	res := make([]int, len(offs)-1)
	for i := range res {
		res[i] = offs[i+1] - offs[i]
	}
	return res, nil
}

func decodeLoca(enc *Encoded) ([]int, error) {
	var offs []int
	switch enc.LocaFormat {
	case 0:
		n := len(enc.LocaData)
		if n < 4 || n%2 != 0 {
			return nil, errInvalidLength
		}
		offs = make([]int, n/2)
		prev := 0
		for i := range offs {
			pos := 2 * (int(enc.LocaData[2*i])<<8 + int(enc.LocaData[2*i+1]))
			if pos < prev || pos > len(enc.GlyfData) {
				return nil, fmt.Errorf("sfnt/loca: invalid offset %d", pos)
			}
			offs[i] = pos
			prev = pos
		}
	case 1:
		n := len(enc.LocaData)
		if n < 8 || n%4 != 0 {
			return nil, errInvalidLength
		}
		offs = make([]int, n/4)
		prev := 0
		for i := range offs {
			pos := int(enc.LocaData[4*i])<<24 + int(enc.LocaData[4*i+1])<<16 +
				int(enc.LocaData[4*i+2])<<8 + int(enc.LocaData[4*i+3])
			if pos < prev || pos > len(enc.GlyfData) {
				return nil, fmt.Errorf("sfnt/loca: invalid offset %d", pos)
			}
			offs[i] = pos
			prev = pos
		}
	default:
		return nil, fmt.Errorf("sfnt/loca: unsupported table format %d", enc.LocaFormat)
	}
	return offs, nil
}

func encodeLoca(offs []int) ([]byte, int16) {
	if offs[len(offs)-1] <= 0xFFFF {
		locaData := make([]byte, 2*len(offs))
		for i, off := range offs {
			x := off / 2
			locaData[2*i] = byte(x >> 8)
			locaData[2*i+1] = byte(x)
		}
		return locaData, 0
	}

	locaData := make([]byte, 4*len(offs))
	for i, off := range offs {
		locaData[4*i] = byte(off >> 24)
		locaData[4*i+1] = byte(off >> 16)
		locaData[4*i+2] = byte(off >> 8)
		locaData[4*i+3] = byte(off)
	}
	return locaData, 1
}

var errInvalidLength = errors.New("sfnt/loca: invalid table length")
