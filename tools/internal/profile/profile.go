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

// Package profile writes CPU and memory profiles for the command line tools.
package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler collects the profiles requested on the command line.
type Profiler struct {
	cpuFile    *os.File
	memprofile string
}

// Start begins CPU profiling if cpuprofile is non-empty.  If memprofile is
// non-empty, a heap profile is written to this file when Stop is called.
func Start(cpuprofile, memprofile string) (*Profiler, error) {
	p := &Profiler{memprofile: memprofile}
	if cpuprofile == "" {
		return p, nil
	}

	fd, err := os.Create(cpuprofile)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	err = pprof.StartCPUProfile(fd)
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = fd
	return p, nil
}

// Stop ends CPU profiling and writes the memory profile.
// It is safe to call Stop more than once.
func (p *Profiler) Stop() error {
	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, p.cpuFile.Close())
		p.cpuFile = nil
	}
	if p.memprofile != "" {
		errs = append(errs, writeHeap(p.memprofile))
		p.memprofile = ""
	}
	return errors.Join(errs...)
}

func writeHeap(fname string) error {
	fd, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	runtime.GC()
	err = pprof.Lookup("allocs").WriteTo(fd, 0)
	if err != nil {
		fd.Close()
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return fd.Close()
}
