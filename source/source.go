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

// Package source finds and decodes the PNG images a font is built from.
//
// Images are named after the code point they stand for, for example
// "U+E001.png" or "U+1F60A.png".
package source

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Image is a decoded source image.
type Image struct {
	Code    rune   // code point parsed from the file name
	Path    string // file the image was read from
	Image   image.Image
	ModTime time.Time
}

// Options control how [Load] treats problematic files.
// A nil *Options is valid and selects the defaults.
type Options struct {
	// SkipInvalid makes Load skip files with malformed names or
	// undecodable image data, after logging a warning.  By default
	// such files abort loading.
	SkipInvalid bool

	// Logger receives warnings and debug messages.  If nil, nothing is logged.
	Logger *slog.Logger
}

var (
	// ErrMalformedName indicates a file name which does not encode
	// a valid Unicode code point.
	ErrMalformedName = errors.New("malformed image name")

	// ErrDuplicate indicates that two files resolve to the same code point.
	ErrDuplicate = errors.New("duplicate code point")

	// ErrNoImages is returned when a directory contains no usable images.
	ErrNoImages = errors.New("no images found")
)

// LoadError describes a file which could not be used.
type LoadError struct {
	Path string
	Err  error
}

func (err *LoadError) Error() string {
	return err.Path + ": " + err.Err.Error()
}

func (err *LoadError) Unwrap() error {
	return err.Err
}

// ParseCodepoint extracts the code point from an image file name of the
// form "U+XXXX.png".  Between one and six hexadecimal digits are allowed,
// in either case.  Directory components are ignored.
func ParseCodepoint(filename string) (rune, error) {
	base := filepath.Base(filename)
	if !isCandidate(base) {
		return 0, fmt.Errorf("%q: %w", base, ErrMalformedName)
	}
	hex := base[len(prefix) : len(base)-len(suffix)]
	if len(hex) < 1 || len(hex) > 6 {
		return 0, fmt.Errorf("%q: %w", base, ErrMalformedName)
	}
	for _, c := range hex {
		if !isHexDigit(c) {
			return 0, fmt.Errorf("%q: %w", base, ErrMalformedName)
		}
	}
	x, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", base, ErrMalformedName)
	}
	r := rune(x)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%q: %U is not a Unicode scalar value: %w", base, r, ErrMalformedName)
	}
	return r, nil
}

// Load reads all images in dir whose names start with "U+" and end in ".png".
// Other files are ignored.  The result is sorted by code point.
func Load(dir string, opt *Options) ([]*Image, error) {
	if opt == nil {
		opt = &Options{}
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var res []*Image
	seen := make(map[rune]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isCandidate(name) {
			continue
		}
		path := filepath.Join(dir, name)

		img, err := loadOne(path)
		if err != nil {
			if opt.SkipInvalid {
				logger.Warn("skipping image", "file", path, "error", err.Err)
				continue
			}
			return nil, err
		}

		if prev, ok := seen[img.Code]; ok {
			return nil, fmt.Errorf("%s and %s: %w %U", prev, path, ErrDuplicate, img.Code)
		}
		seen[img.Code] = path

		b := img.Image.Bounds()
		logger.Debug("loaded image",
			"code", fmt.Sprintf("%U", img.Code),
			"width", b.Dx(), "height", b.Dy())
		res = append(res, img)
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Code < res[j].Code
	})
	return res, nil
}

func loadOne(path string) (*Image, *LoadError) {
	code, err := ParseCodepoint(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	img, modTime, err := decodeFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return &Image{
		Code:    code,
		Path:    path,
		Image:   img,
		ModTime: modTime,
	}, nil
}

func decodeFile(path string) (image.Image, time.Time, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return nil, time.Time{}, err
	}
	if !fi.Mode().IsRegular() {
		return nil, time.Time{}, &fs.PathError{Op: "open", Path: path, Err: errNotRegular}
	}

	img, err := png.Decode(fd)
	if err != nil {
		return nil, time.Time{}, err
	}
	if img.Bounds().Empty() {
		return nil, time.Time{}, errEmptyImage
	}
	return img, fi.ModTime(), nil
}

const (
	prefix = "U+"
	suffix = ".png"
)

func isCandidate(name string) bool {
	return len(name) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(name, prefix) &&
		strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

func isHexDigit(c rune) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

var (
	errEmptyImage = errors.New("image has no pixels")
	errNotRegular = errors.New("not a regular file")
)
