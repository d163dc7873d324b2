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

// Package fontaku builds TrueType fonts with an "sbix" bitmap table
// from a directory of PNG images.
//
// Every image named "U+XXXX.png" becomes one colour glyph.  The glyphs are
// mapped, in numeric order of the code points in the file names, onto
// consecutive code points starting at U+1F600, so that the font can stand
// in for the system emoji font:
//
//	summary, err := fontaku.Generate(&fontaku.Options{
//	    ImageDir: "images",
//	    Output:   "Fontaku.ttf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range summary.Mappings {
//	    fmt.Printf("%U -> %U\n", m.Source, m.Target)
//	}
//
// Fonts can also be assembled step by step, using [New], [Font.AddGlyph]
// and [Font.Write].  Every glyph carries one bitmap for each of the sizes
// in [strike.StandardSizes].
package fontaku
