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
	"io"
	"os"
	"path/filepath"

	"seehuhn.de/go/sfnt/header"
)

// scalerTypeTrueType marks an sfnt file with TrueType glyph data.
const scalerTypeTrueType = 0x00010000

// Write writes the font to w in TrueType format.
// The return value is the number of bytes written.
func (f *Font) Write(w io.Writer) (int64, error) {
	tables, err := f.Tables()
	if err != nil {
		return 0, err
	}
	return header.Write(w, scalerTypeTrueType, tables)
}

// Encode returns the font in TrueType format.
func (f *Font) Encode() ([]byte, error) {
	buf := &bytes.Buffer{}
	_, err := f.Write(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to the named file.  The data is first written to
// a temporary file in the same directory, which then replaces the target.
// If an error occurs, the target file is left unchanged.
func WriteFile(name string, data []byte) (err error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return err
	}
	err = tmp.Chmod(0o644)
	if err != nil {
		return err
	}
	err = tmp.Sync()
	if err != nil {
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
