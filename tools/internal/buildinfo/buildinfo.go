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

// Package buildinfo reports the version of the command line tools.
package buildinfo

import (
	"runtime/debug"
)

// Info describes the binary of a command line tool.
type Info struct {
	Tool     string
	Module   string
	Version  string // module version, empty for development builds
	Revision string // abbreviated VCS revision, if known
	Dirty    bool   // the working tree had local modifications
}

// Read returns the build information for the named tool.
func Read(tool string) *Info {
	res := &Info{Tool: tool}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return res
	}
	return fromBuildInfo(tool, info)
}

func fromBuildInfo(tool string, info *debug.BuildInfo) *Info {
	res := &Info{
		Tool:   tool,
		Module: info.Main.Path,
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		res.Version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			res.Revision = s.Value
			if len(res.Revision) > 8 {
				res.Revision = res.Revision[:8]
			}
		case "vcs.modified":
			res.Dirty = s.Value == "true"
		}
	}
	return res
}

// String returns a short version string, for example
// "fontaku (github.com/nvictor/fontaku v1.2.0)".
func (info *Info) String() string {
	var version string
	switch {
	case info.Version != "":
		version = info.Version
	case info.Revision != "":
		version = info.Revision
		if info.Dirty {
			version += "+dirty"
		}
	default:
		return info.Tool
	}
	return info.Tool + " (" + info.Module + " " + version + ")"
}

// Short returns the version string for the named tool.
func Short(tool string) string {
	return Read(tool).String()
}
