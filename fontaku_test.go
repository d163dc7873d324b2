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
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	xsfnt "golang.org/x/image/font/sfnt"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/hmtx"
	"seehuhn.de/go/sfnt/os2"
	"seehuhn.de/go/sfnt/post"

	"github.com/nvictor/fontaku/sfnt/sbix"
	"github.com/nvictor/fontaku/source"
	"github.com/nvictor/fontaku/strike"
)

func writeImage(t *testing.T, dir, name string, w, h int, col color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, col)
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// makeInput creates the two-image scenario: a wide and a tall image.
func makeInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeImage(t, dir, "U+E001.png", 100, 50, color.NRGBA{R: 255, A: 255})
	writeImage(t, dir, "U+E002.png", 50, 100, color.NRGBA{B: 255, A: 255})
	return dir
}

func readTable(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		t.Fatal(err)
	}
	body, err := info.ReadTableBytes(r, name)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestGenerate(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "")
	in := makeInput(t)
	out := filepath.Join(t.TempDir(), "Fontaku.ttf")

	summary, err := Generate(&Options{ImageDir: in, Output: out})
	if err != nil {
		t.Fatal(err)
	}

	want := []Mapping{
		{Source: 0xE001, Target: 0x1F600, GID: 1, Path: filepath.Join(in, "U+E001.png")},
		{Source: 0xE002, Target: 0x1F601, GID: 2, Path: filepath.Join(in, "U+E002.png")},
	}
	if d := cmp.Diff(want, summary.Mappings); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(strike.StandardSizes, summary.Sizes); d != "" {
		t.Error(d)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(data)) != summary.Size {
		t.Errorf("file has %d bytes, summary says %d", len(data), summary.Size)
	}

	f, err := xsfnt.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumGlyphs() != 3 {
		t.Errorf("%d glyphs", f.NumGlyphs())
	}
	var buf xsfnt.Buffer
	for _, m := range want {
		gid, err := f.GlyphIndex(&buf, m.Target)
		if err != nil {
			t.Fatal(err)
		}
		if gid != xsfnt.GlyphIndex(m.GID) {
			t.Errorf("%U -> %d, want %d", m.Target, gid, m.GID)
		}
	}
	if gid, _ := f.GlyphIndex(&buf, 0x1F602); gid != 0 {
		t.Errorf("U+1F602 is mapped to glyph %d", gid)
	}
	if gid, _ := f.GlyphIndex(&buf, 0xE001); gid != 0 {
		t.Errorf("source code point U+E001 is mapped to glyph %d", gid)
	}

	table, err := sbix.Decode(readTable(t, data, "sbix"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Strikes) != 4 {
		t.Fatalf("%d strikes", len(table.Strikes))
	}
	for i, s := range table.Strikes {
		if s.PPEM != strike.StandardSizes[i] || s.PPI != 72 {
			t.Errorf("strike %d: ppem=%d ppi=%d", i, s.PPEM, s.PPI)
		}
		if !s.Glyphs[0].IsEmpty() {
			t.Error(".notdef has a bitmap")
		}
		for gid := 1; gid <= 2; gid++ {
			g := s.Glyphs[gid]
			if g.GraphicType != sbix.TypePNG {
				t.Errorf("glyph %d has type %q", gid, g.GraphicType)
			}
			if g.OriginX != 0 || g.OriginY != OriginOffsetY(s.PPEM) {
				t.Errorf("glyph %d origin %d,%d", gid, g.OriginX, g.OriginY)
			}
			img, err := png.Decode(bytes.NewReader(g.Data))
			if err != nil {
				t.Fatal(err)
			}
			b := img.Bounds()
			if b.Dx() != int(s.PPEM) || b.Dy() != int(s.PPEM) {
				t.Errorf("glyph %d at %d ppem is %dx%d", gid, s.PPEM, b.Dx(), b.Dy())
			}
		}

		// the wide image has transparent rows at the top,
		// the tall image has transparent columns at the left
		size := int(s.PPEM)
		wide, _ := png.Decode(bytes.NewReader(s.Glyphs[1].Data))
		tall, _ := png.Decode(bytes.NewReader(s.Glyphs[2].Data))
		if _, _, _, a := wide.At(size/2, 0).RGBA(); a != 0 {
			t.Errorf("wide glyph at %d: top row is not transparent", size)
		}
		if _, _, _, a := wide.At(size/2, size/2).RGBA(); a == 0 {
			t.Errorf("wide glyph at %d: centre is transparent", size)
		}
		if _, _, _, a := tall.At(0, size/2).RGBA(); a != 0 {
			t.Errorf("tall glyph at %d: left column is not transparent", size)
		}
		if _, _, _, a := tall.At(size/2, size/2).RGBA(); a == 0 {
			t.Errorf("tall glyph at %d: centre is transparent", size)
		}
	}
}

func TestMetrics(t *testing.T) {
	in := makeInput(t)
	out := filepath.Join(t.TempDir(), "out.ttf")
	if _, err := Generate(&Options{ImageDir: in, Output: out}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	headInfo, err := head.Read(bytes.NewReader(readTable(t, data, "head")))
	if err != nil {
		t.Fatal(err)
	}
	if headInfo.UnitsPerEm != 800 {
		t.Errorf("unitsPerEm = %d", headInfo.UnitsPerEm)
	}

	hm, err := hmtx.Decode(readTable(t, data, "hhea"), readTable(t, data, "hmtx"))
	if err != nil {
		t.Fatal(err)
	}
	var widths []int
	for _, w := range hm.Widths {
		widths = append(widths, int(w))
	}
	if d := cmp.Diff([]int{500, 800, 800}, widths); d != "" {
		t.Error(d)
	}
	if hm.Ascent != 800 || hm.Descent != -250 {
		t.Errorf("ascent %d, descent %d", hm.Ascent, hm.Descent)
	}

	postInfo, err := post.Read(bytes.NewReader(readTable(t, data, "post")))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{".notdef", "u1F600", "u1F601"}, postInfo.Names); d != "" {
		t.Error(d)
	}

	os2Info, err := os2.Read(bytes.NewReader(readTable(t, data, "OS/2")))
	if err != nil {
		t.Fatal(err)
	}
	if os2Info.Ascent != TypoAscender || os2Info.Descent != TypoDescender {
		t.Errorf("typo ascender %d, descender %d", os2Info.Ascent, os2Info.Descent)
	}
	if os2Info.XHeight != XHeight || os2Info.CapHeight != CapHeight {
		t.Errorf("x-height %d, cap height %d", os2Info.XHeight, os2Info.CapHeight)
	}
	if os2Info.Vendor != "NONE" {
		t.Errorf("vendor %q", os2Info.Vendor)
	}
}

func TestIdempotent(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "")
	in := makeInput(t)
	outDir := t.TempDir()

	var results [][]byte
	for _, name := range []string{"a.ttf", "b.ttf"} {
		out := filepath.Join(outDir, name)
		if _, err := Generate(&Options{ImageDir: in, Output: out}); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, data)
	}
	if !bytes.Equal(results[0], results[1]) {
		t.Error("repeated runs give different fonts")
	}
}

func TestSourceDateEpoch(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "1700000000")
	in := makeInput(t)
	out := filepath.Join(t.TempDir(), "out.ttf")
	if _, err := Generate(&Options{ImageDir: in, Output: out}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	headInfo, err := head.Read(bytes.NewReader(readTable(t, data, "head")))
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Unix(1700000000, 0); !headInfo.Created.Equal(want) {
		t.Errorf("created %s, want %s", headInfo.Created, want)
	}

	t.Setenv("SOURCE_DATE_EPOCH", "yesterday")
	if _, err := Generate(&Options{ImageDir: in, Output: out}); err == nil {
		t.Error("invalid SOURCE_DATE_EPOCH accepted")
	}
}

func TestManyImages(t *testing.T) {
	in := t.TempDir()
	codes := []string{"U+0041.png", "U+E000.png", "U+1F9FF.png", "U+00A9.png", "U+2764.png"}
	for _, name := range codes {
		writeImage(t, in, name, 10, 10, color.NRGBA{G: 255, A: 255})
	}
	out := filepath.Join(t.TempDir(), "out.ttf")
	summary, err := Generate(&Options{ImageDir: in, Output: out})
	if err != nil {
		t.Fatal(err)
	}

	var sources, targets []rune
	for _, m := range summary.Mappings {
		sources = append(sources, m.Source)
		targets = append(targets, m.Target)
	}
	if d := cmp.Diff([]rune{0x41, 0xA9, 0x2764, 0xE000, 0x1F9FF}, sources); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff([]rune{0x1F600, 0x1F601, 0x1F602, 0x1F603, 0x1F604}, targets); d != "" {
		t.Error(d)
	}
}

func TestGenerateEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ttf")
	_, err := Generate(&Options{ImageDir: t.TempDir(), Output: out})
	if !errors.Is(err, source.ErrNoImages) {
		t.Fatalf("got %v, want ErrNoImages", err)
	}
	if !strings.Contains(err.Error(), "no images found") {
		t.Errorf("unexpected message %q", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output file was created")
	}
}

func TestGenerateMalformed(t *testing.T) {
	in := makeInput(t)
	writeImage(t, in, "U+ZZZZ.png", 10, 10, color.NRGBA{A: 255})
	out := filepath.Join(t.TempDir(), "out.ttf")

	_, err := Generate(&Options{ImageDir: in, Output: out})
	if !errors.Is(err, source.ErrMalformedName) {
		t.Fatalf("got %v, want ErrMalformedName", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output file was created")
	}

	logBuf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(logBuf, nil)))
	defer SetLogger(nil)

	summary, err := Generate(&Options{ImageDir: in, Output: out, SkipInvalid: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Mappings) != 2 {
		t.Errorf("%d glyphs, want 2", len(summary.Mappings))
	}
	if !strings.Contains(logBuf.String(), "U+ZZZZ.png") {
		t.Errorf("no warning for the skipped file:\n%s", logBuf.String())
	}
}

func TestGenerateKeepsOldFont(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ttf")
	old := []byte("previous font")
	if err := os.WriteFile(out, old, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Generate(&Options{ImageDir: t.TempDir(), Output: out})
	if err == nil {
		t.Fatal("empty input accepted")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, old) {
		t.Error("output file was modified")
	}
}

func TestAssign(t *testing.T) {
	images := []*source.Image{{Code: 0xE002}, {Code: 0xE001}, {Code: 0x41}}
	m, err := Assign(images, DefaultStart)
	if err != nil {
		t.Fatal(err)
	}
	want := []Mapping{
		{Source: 0x41, Target: 0x1F600, GID: 1},
		{Source: 0xE001, Target: 0x1F601, GID: 2},
		{Source: 0xE002, Target: 0x1F602, GID: 3},
	}
	if d := cmp.Diff(want, m); d != "" {
		t.Error(d)
	}

	if _, err := Assign(images, 0x10FFFE); !errors.Is(err, ErrCodeRange) {
		t.Errorf("got %v, want ErrCodeRange", err)
	}
	if _, err := Assign(images, 0xD7FF); !errors.Is(err, ErrCodeRange) {
		t.Errorf("got %v, want ErrCodeRange", err)
	}
	if _, err := Assign(images, 0xD7FD); err != nil {
		t.Errorf("U+D7FD..U+D7FF rejected: %v", err)
	}
	if _, err := Assign(nil, DefaultStart); !errors.Is(err, source.ErrNoImages) {
		t.Errorf("got %v, want ErrNoImages", err)
	}
	dup := []*source.Image{{Code: 1}, {Code: 1}}
	if _, err := Assign(dup, DefaultStart); !errors.Is(err, source.ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}
}

func testBitmaps(t *testing.T, sizes []uint16) []strike.Bitmap {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	bitmaps, err := strike.RenderAll(src, sizes)
	if err != nil {
		t.Fatal(err)
	}
	return bitmaps
}

func TestAddGlyph(t *testing.T) {
	f := New(nil)
	if err := f.Check(); err == nil {
		t.Error("empty font passed Check")
	}

	gid, err := f.AddGlyph(0x1F600, testBitmaps(t, strike.StandardSizes))
	if err != nil {
		t.Fatal(err)
	}
	if gid != 1 {
		t.Errorf("first glyph has ID %d", gid)
	}
	if f.Lookup(0x1F600) != gid {
		t.Error("code point not mapped")
	}
	if name := f.GlyphName(gid); name != "u1F600" {
		t.Errorf("glyph name %q", name)
	}
	if name := f.GlyphName(0); name != ".notdef" {
		t.Errorf("glyph name %q", name)
	}

	_, err = f.AddGlyph(0x1F600, testBitmaps(t, strike.StandardSizes))
	if err == nil {
		t.Error("duplicate code point accepted")
	}
	_, err = f.AddGlyph(0x1F601, testBitmaps(t, []uint16{32, 64}))
	if !errors.Is(err, ErrMissingStrike) {
		t.Errorf("got %v, want ErrMissingStrike", err)
	}
	_, err = f.AddGlyph(0x1F602, testBitmaps(t, []uint16{16, 32, 64, 128, 256}))
	if err == nil {
		t.Error("unexpected strike size accepted")
	}
	_, err = f.AddGlyph(0xD800, testBitmaps(t, strike.StandardSizes))
	if !errors.Is(err, ErrCodeRange) {
		t.Errorf("got %v, want ErrCodeRange", err)
	}

	if f.NumGlyphs() != 2 {
		t.Errorf("%d glyphs after failed additions", f.NumGlyphs())
	}
	if err := f.Check(); err != nil {
		t.Error(err)
	}
}

func TestCustomSizes(t *testing.T) {
	f := New(&Options{Sizes: []uint16{64, 20, 64}})
	if d := cmp.Diff([]uint16{20, 64}, f.Sizes); d != "" {
		t.Error(d)
	}
	if _, err := f.AddGlyph('A', testBitmaps(t, []uint16{20, 64})); err != nil {
		t.Fatal(err)
	}
	data, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	m := []Mapping{{Source: 'A', Target: 'A', GID: 1}}
	if err := Verify(data, m, f.Sizes); err != nil {
		t.Error(err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	f := New(nil)
	if _, err := f.AddGlyph(0x1F600, testBitmaps(t, strike.StandardSizes)); err != nil {
		t.Fatal(err)
	}
	data, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}

	good := []Mapping{{Target: 0x1F600, GID: 1}}
	if err := Verify(data, good, strike.StandardSizes); err != nil {
		t.Fatal(err)
	}

	wrongCode := []Mapping{{Target: 0x1F601, GID: 1}}
	var verr *VerifyError
	if err := Verify(data, wrongCode, strike.StandardSizes); !errors.As(err, &verr) {
		t.Errorf("got %v, want *VerifyError", err)
	}

	if err := Verify(data, good, []uint16{32, 64, 128, 512}); !errors.As(err, &verr) {
		t.Errorf("got %v, want *VerifyError", err)
	}

	if err := Verify(data[:100], good, strike.StandardSizes); err == nil {
		t.Error("truncated font accepted")
	}
}

func TestOriginOffsetY(t *testing.T) {
	want := map[uint16]int16{32: -10, 64: -20, 128: -40, 256: -80}
	for ppem, y := range want {
		if got := OriginOffsetY(ppem); got != y {
			t.Errorf("OriginOffsetY(%d) = %d, want %d", ppem, got, y)
		}
	}
}

func TestNames(t *testing.T) {
	f := New(&Options{Family: "My Emoji", Style: "Regular", Revision: 2.5})
	if ps := f.PostScriptName(); ps != "MyEmoji-Regular" {
		t.Errorf("PostScript name %q", ps)
	}
	if v := f.versionString(); v != "Version 2.5" {
		t.Errorf("version %q", v)
	}
	if v := New(nil).versionString(); v != "Version 1.0" {
		t.Errorf("version %q", v)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "font.ttf")
	for _, content := range []string{"first", "second"} {
		if err := WriteFile(name, []byte(content)); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != content {
			t.Errorf("got %q, want %q", data, content)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("%d files left in output directory", len(entries))
	}

	err = WriteFile(filepath.Join(dir, "missing", "font.ttf"), []byte("x"))
	if err == nil {
		t.Error("write to missing directory succeeded")
	}
}

func TestLookupUnmapped(t *testing.T) {
	f := New(nil)
	if gid := f.Lookup(0x1F600); gid != glyph.ID(0) {
		t.Errorf("empty font maps U+1F600 to %d", gid)
	}
}

// rewriteTables encodes f, applies modify to the tables and
// reassembles the font.
func rewriteTables(t *testing.T, f *Font, modify func(tables map[string][]byte)) []byte {
	t.Helper()
	tables, err := f.Tables()
	if err != nil {
		t.Fatal(err)
	}
	modify(tables)
	buf := &bytes.Buffer{}
	if _, err := header.Write(buf, scalerTypeTrueType, tables); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestVerifyPlacement(t *testing.T) {
	f := New(nil)
	if _, err := f.AddGlyph(0x1F600, testBitmaps(t, strike.StandardSizes)); err != nil {
		t.Fatal(err)
	}
	good := []Mapping{{Target: 0x1F600, GID: 1}}

	shifted := rewriteTables(t, f, func(tables map[string][]byte) {
		table := f.makeSbix()
		table.Strikes[2].Glyphs[1].OriginY = 0
		data, err := table.Encode()
		if err != nil {
			t.Fatal(err)
		}
		tables["sbix"] = data
	})
	var verr *VerifyError
	err := Verify(shifted, good, strike.StandardSizes)
	if !errors.As(err, &verr) || verr.Check != "sbix" {
		t.Errorf("bitmap on the baseline: got %v", err)
	}

	narrow := rewriteTables(t, f, func(tables map[string][]byte) {
		widths := f.Widths()
		widths[1] = 700
		hm := &hmtx.Info{
			Widths:       widths,
			GlyphExtents: make([]funit.Rect16, len(widths)),
			Ascent:       Ascent,
			Descent:      Descent,
		}
		tables["hhea"], tables["hmtx"] = hm.Encode()
	})
	err = Verify(narrow, good, strike.StandardSizes)
	if !errors.As(err, &verr) || verr.Check != "hmtx" {
		t.Errorf("advance width 700: got %v", err)
	}

	if err := Verify(rewriteTables(t, f, func(map[string][]byte) {}), good, strike.StandardSizes); err != nil {
		t.Errorf("unmodified font: %v", err)
	}
}

func TestAddImagesOrder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	images := []*source.Image{
		{Code: 0xE002, Path: "U+E002.png", Image: src},
		{Code: 0xE001, Path: "U+E001.png", Image: src},
	}
	mappings, err := Assign(images, DefaultStart)
	if err != nil {
		t.Fatal(err)
	}

	f := New(nil)
	if err := f.addImages(images, mappings); err != nil {
		t.Fatal(err)
	}
	if gid := f.Lookup(0x1F600); gid != 1 {
		t.Errorf("U+1F600 -> %d", gid)
	}
	if gid := f.Lookup(0x1F601); gid != 2 {
		t.Errorf("U+1F601 -> %d", gid)
	}

	missing := []Mapping{{Source: 0xE003, Target: 0x1F602, GID: 3}}
	if err := f.addImages(images, missing); !errors.Is(err, errGlyphOrder) {
		t.Errorf("got %v, want errGlyphOrder", err)
	}
	skipped := []Mapping{{Source: 0xE001, Target: 0x1F605, GID: 7}}
	if err := f.addImages(images, skipped); !errors.Is(err, errGlyphOrder) {
		t.Errorf("got %v, want errGlyphOrder", err)
	}
}
