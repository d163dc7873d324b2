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
	"errors"
	"fmt"
)

var (
	// ErrMissingStrike indicates a glyph without a bitmap at one of the
	// sizes of the font.  Platform font loaders reject such fonts.
	ErrMissingStrike = errors.New("missing strike")

	// ErrCodeRange indicates that the target code points would leave
	// the Unicode range or run into the surrogate block.
	ErrCodeRange = errors.New("code point out of range")

	errNoGlyphs       = errors.New("fontaku: font has no glyphs")
	errTooManyGlyphs  = errors.New("fontaku: too many glyphs")
	errDuplicateGlyph = errors.New("fontaku: code point already mapped")
	errGlyphOrder     = errors.New("fontaku: images and glyphs out of order")
)

// VerifyError is returned when a generated font does not read back
// as expected.
type VerifyError struct {
	Check string // the reader or table which found the problem
	Err   error
}

func (err *VerifyError) Error() string {
	return fmt.Sprintf("fontaku: font verification failed (%s): %v", err.Check, err.Err)
}

func (err *VerifyError) Unwrap() error {
	return err.Err
}
