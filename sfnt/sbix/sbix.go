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

// Package sbix reads and writes "sbix" tables.
//
// The sbix table stores one or more "strikes" of embedded bitmap images.
// Each strike holds, for a fixed pixels-per-em value, an optional image for
// every glyph of the font.  This is the format used by Apple's colour emoji
// font.
// https://learn.microsoft.com/en-us/typography/opentype/spec/sbix
package sbix

import (
	"errors"
	"fmt"
	"sort"

	"seehuhn.de/go/sfnt/glyph"
)

// Graphic types for glyph images.
const (
	TypePNG  = "png "
	TypeJPEG = "jpg "
	TypeTIFF = "tiff"
	TypeDupe = "dupe"
)

const (
	flagAlways       = 1 << 0 // bit 0 must always be set
	flagDrawOutlines = 1 << 1
)

// Table represents a decoded "sbix" table.
type Table struct {
	// DrawOutlines indicates that the glyph outlines should be drawn
	// on top of the bitmaps.
	DrawOutlines bool

	Strikes []*Strike
}

// Strike holds the bitmaps for one pixels-per-em value.
type Strike struct {
	PPEM uint16 // pixels per em the bitmaps were designed for
	PPI  uint16 // design resolution in pixels per inch

	// Glyphs has one entry per glyph of the font.  Glyphs without an
	// image have a nil Data field.
	Glyphs []Glyph
}

// Glyph is the image of a single glyph within a strike.
type Glyph struct {
	OriginX     int16  // horizontal offset of the image, in pixels
	OriginY     int16  // vertical offset of the image, in pixels
	GraphicType string // four-character tag, e.g. TypePNG
	Data        []byte
}

// IsEmpty returns true if the glyph has no image in this strike.
func (g *Glyph) IsEmpty() bool {
	return len(g.Data) == 0
}

// NumGlyphs returns the number of glyphs covered by the table.
// All strikes must have the same number of glyphs.
func (t *Table) NumGlyphs() int {
	if len(t.Strikes) == 0 {
		return 0
	}
	return len(t.Strikes[0].Glyphs)
}

// Strike returns the strike for the given ppem value, or nil if the
// table has no such strike.
func (t *Table) Strike(ppem uint16) *Strike {
	for _, s := range t.Strikes {
		if s.PPEM == ppem {
			return s
		}
	}
	return nil
}

// Image returns the image of glyph gid in the strike with the given ppem.
func (t *Table) Image(gid glyph.ID, ppem uint16) (*Glyph, bool) {
	s := t.Strike(ppem)
	if s == nil || int(gid) >= len(s.Glyphs) {
		return nil, false
	}
	g := &s.Glyphs[gid]
	if g.IsEmpty() {
		return nil, false
	}
	return g, true
}

// Encode converts the table into its binary form.
// Strikes are written in order of increasing ppem.
func (t *Table) Encode() ([]byte, error) {
	numGlyphs := t.NumGlyphs()
	for _, s := range t.Strikes {
		if len(s.Glyphs) != numGlyphs {
			return nil, errInconsistentStrikes
		}
		for i := range s.Glyphs {
			g := &s.Glyphs[i]
			if !g.IsEmpty() && len(g.GraphicType) != 4 {
				return nil, fmt.Errorf("sbix: invalid graphic type %q for glyph %d", g.GraphicType, i)
			}
		}
	}

	strikes := make([]*Strike, len(t.Strikes))
	copy(strikes, t.Strikes)
	sort.SliceStable(strikes, func(i, j int) bool {
		return strikes[i].PPEM < strikes[j].PPEM
	})
	for i := 1; i < len(strikes); i++ {
		if strikes[i].PPEM == strikes[i-1].PPEM {
			return nil, fmt.Errorf("sbix: duplicate strike for %d ppem", strikes[i].PPEM)
		}
	}

	var flags uint16 = flagAlways
	if t.DrawOutlines {
		flags |= flagDrawOutlines
	}

	numStrikes := len(strikes)
	headerLen := 8 + 4*numStrikes
	res := make([]byte, headerLen)
	res[0] = 0 // version
	res[1] = 1
	res[2] = byte(flags >> 8)
	res[3] = byte(flags)
	res[4] = byte(numStrikes >> 24)
	res[5] = byte(numStrikes >> 16)
	res[6] = byte(numStrikes >> 8)
	res[7] = byte(numStrikes)

	for i, s := range strikes {
		offs := uint32(len(res))
		res[8+4*i] = byte(offs >> 24)
		res[9+4*i] = byte(offs >> 16)
		res[10+4*i] = byte(offs >> 8)
		res[11+4*i] = byte(offs)

		res = append(res, s.encode()...)
		if uint64(len(res)) > 0xFFFF_FFFF {
			return nil, errTableTooLarge
		}
	}

	return res, nil
}

func (s *Strike) encode() []byte {
	numGlyphs := len(s.Glyphs)
	dataStart := 4 + 4*(numGlyphs+1)

	size := dataStart
	for i := range s.Glyphs {
		if !s.Glyphs[i].IsEmpty() {
			size += 8 + len(s.Glyphs[i].Data)
		}
	}

	buf := make([]byte, dataStart, size)
	buf[0] = byte(s.PPEM >> 8)
	buf[1] = byte(s.PPEM)
	buf[2] = byte(s.PPI >> 8)
	buf[3] = byte(s.PPI)

	putOffset := func(i int, offs uint32) {
		pos := 4 + 4*i
		buf[pos] = byte(offs >> 24)
		buf[pos+1] = byte(offs >> 16)
		buf[pos+2] = byte(offs >> 8)
		buf[pos+3] = byte(offs)
	}

	for i := range s.Glyphs {
		putOffset(i, uint32(len(buf)))
		g := &s.Glyphs[i]
		if g.IsEmpty() {
			continue
		}
		buf = append(buf,
			byte(g.OriginX>>8), byte(g.OriginX),
			byte(g.OriginY>>8), byte(g.OriginY))
		buf = append(buf, g.GraphicType...)
		buf = append(buf, g.Data...)
	}
	putOffset(numGlyphs, uint32(len(buf)))

	return buf
}

// Decode reads an "sbix" table.  The number of glyphs must be taken
// from the "maxp" table of the font.
func Decode(data []byte, numGlyphs int) (*Table, error) {
	if len(data) < 8 {
		return nil, errMalformed
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	if version != 1 {
		return nil, fmt.Errorf("sbix: unsupported version %d", version)
	}
	flags := uint16(data[2])<<8 | uint16(data[3])
	numStrikes := uint32(data[4])<<24 | uint32(data[5])<<16 | uint32(data[6])<<8 | uint32(data[7])
	if uint64(numStrikes)*4+8 > uint64(len(data)) {
		return nil, errMalformed
	}

	t := &Table{
		DrawOutlines: flags&flagDrawOutlines != 0,
		Strikes:      make([]*Strike, numStrikes),
	}
	for i := range t.Strikes {
		pos := 8 + 4*i
		offs := uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])
		s, err := decodeStrike(data, offs, numGlyphs)
		if err != nil {
			return nil, err
		}
		t.Strikes[i] = s
	}
	return t, nil
}

func decodeStrike(data []byte, offs uint32, numGlyphs int) (*Strike, error) {
	headerLen := uint64(4 + 4*(numGlyphs+1))
	if uint64(offs)+headerLen > uint64(len(data)) {
		return nil, errMalformed
	}
	strike := data[offs:]

	s := &Strike{
		PPEM:   uint16(strike[0])<<8 | uint16(strike[1]),
		PPI:    uint16(strike[2])<<8 | uint16(strike[3]),
		Glyphs: make([]Glyph, numGlyphs),
	}

	getOffset := func(i int) uint32 {
		pos := 4 + 4*i
		return uint32(strike[pos])<<24 | uint32(strike[pos+1])<<16 | uint32(strike[pos+2])<<8 | uint32(strike[pos+3])
	}

	start := getOffset(0)
	for i := 0; i < numGlyphs; i++ {
		end := getOffset(i + 1)
		if end < start || uint64(end) > uint64(len(strike)) {
			return nil, errMalformed
		}
		if end == start {
			continue
		}
		if end-start < 8 {
			return nil, errMalformed
		}
		rec := strike[start:end]
		s.Glyphs[i] = Glyph{
			OriginX:     int16(uint16(rec[0])<<8 | uint16(rec[1])),
			OriginY:     int16(uint16(rec[2])<<8 | uint16(rec[3])),
			GraphicType: string(rec[4:8]),
			Data:        rec[8:],
		}
		start = end
	}

	return s, nil
}

var (
	errMalformed           = errors.New("sbix: malformed table")
	errInconsistentStrikes = errors.New("sbix: strikes cover different numbers of glyphs")
	errTableTooLarge       = errors.New("sbix: table too large")
)
