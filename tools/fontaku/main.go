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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"
	"golang.org/x/text/unicode/runenames"

	"github.com/nvictor/fontaku"
	"github.com/nvictor/fontaku/tools/internal/buildinfo"
	"github.com/nvictor/fontaku/tools/internal/profile"
)

type config struct {
	images      string
	output      string
	family      string
	start       string
	skipInvalid bool
	noVerify    bool
	verbose     bool
	cpuprofile  string
	memprofile  string
	version     bool
}

func main() {
	err := loadEnv(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := &config{}
	flags := newFlagSet(cfg)
	flags.Parse(os.Args[1:])

	if cfg.version {
		fmt.Println(buildinfo.Short("fontaku"))
		return
	}
	if flags.NArg() > 0 {
		flags.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "fontaku:", err)
		os.Exit(1)
	}
}

// loadEnv reads default settings from an env file, if present.
// Variables which are already set in the environment take precedence.
func loadEnv(fname string) error {
	err := godotenv.Load(fname)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", fname, err)
	}
	return nil
}

func envDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func newFlagSet(cfg *config) *flag.FlagSet {
	flags := flag.NewFlagSet("fontaku", flag.ExitOnError)
	flags.StringVar(&cfg.images, "images",
		envDefault("FONTAKU_IMAGES", fontaku.DefaultImageDir), "read images from `dir`")
	flags.StringVar(&cfg.output, "o",
		envDefault("FONTAKU_OUTPUT", fontaku.DefaultOutput), "write the font to `file`")
	flags.StringVar(&cfg.family, "family",
		envDefault("FONTAKU_FAMILY", fontaku.DefaultFamily), "font family `name`")
	flags.StringVar(&cfg.start, "start",
		fmt.Sprintf("U+%04X", fontaku.DefaultStart), "first target `code point`")
	flags.BoolVar(&cfg.skipInvalid, "skip-invalid", false, "skip malformed or undecodable images")
	flags.BoolVar(&cfg.noVerify, "no-verify", false, "do not re-read the font before writing")
	flags.BoolVar(&cfg.verbose, "v", false, "show debug messages")
	flags.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	flags.StringVar(&cfg.memprofile, "memprofile", "", "write memory profile to `file`")
	flags.BoolVar(&cfg.version, "version", false, "print the version and exit")

	flags.Usage = func() {
		out := flags.Output()
		fmt.Fprintf(out, "fontaku \u2014 build an sbix emoji font from PNG images\n")
		fmt.Fprintf(out, "%s\n\n", buildinfo.Short("fontaku"))
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  fontaku [options]\n\n")
		fmt.Fprintf(out, "Images must be named U+XXXX.png.  They are mapped, in order of\n")
		fmt.Fprintf(out, "their code points, to consecutive code points starting at U+1F600.\n")
		fmt.Fprintf(out, "Defaults for -images, -o and -family can be set in a .env file\n")
		fmt.Fprintf(out, "using FONTAKU_IMAGES, FONTAKU_OUTPUT and FONTAKU_FAMILY.\n\n")
		fmt.Fprintf(out, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  fontaku\n")
		fmt.Fprintf(out, "  fontaku -images emoji -o MyEmoji.ttf -family MyEmoji\n")
	}
	return flags
}

func run(cfg *config) (err error) {
	prof, err := profile.Start(cfg.cpuprofile, cfg.memprofile)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, prof.Stop())
	}()

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	fontaku.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	start, err := parseStart(cfg.start)
	if err != nil {
		return err
	}

	summary, err := fontaku.Generate(&fontaku.Options{
		ImageDir:    cfg.images,
		Output:      cfg.output,
		Family:      cfg.family,
		Start:       start,
		SkipInvalid: cfg.skipInvalid,
		NoVerify:    cfg.noVerify,
	})
	if err != nil {
		return err
	}

	showGlyphs := term.IsTerminal(int(os.Stdout.Fd()))
	printSummary(os.Stdout, summary, showGlyphs)
	return nil
}

// parseStart parses a code point given as "U+1F600", "0x1F600" or "1F600".
func parseStart(s string) (rune, error) {
	hex := s
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		if strings.HasPrefix(hex, prefix) {
			hex = hex[len(prefix):]
			break
		}
	}
	x, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || x > 0x10FFFF {
		return 0, fmt.Errorf("invalid start code point %q", s)
	}
	if x == 0 {
		// fontaku.Options treats a zero start as "use the default"
		return 0, fmt.Errorf("start code point %q must not be U+0000", s)
	}
	return rune(x), nil
}

func printSummary(w io.Writer, summary *fontaku.Summary, showGlyphs bool) {
	for _, m := range summary.Mappings {
		line := fmt.Sprintf("%-8U -> %U", m.Source, m.Target)
		if showGlyphs {
			line += " " + string(m.Target)
		}
		if name := runenames.Name(m.Target); name != "" {
			line += "  " + strings.ToLower(name)
		}
		fmt.Fprintln(w, line)
	}
	sizes := make([]string, len(summary.Sizes))
	for i, s := range summary.Sizes {
		sizes[i] = strconv.Itoa(int(s))
	}
	fmt.Fprintf(w, "wrote %s: %d glyphs, strikes %s ppem, %d bytes\n",
		summary.Output, len(summary.Mappings), strings.Join(sizes, "/"), summary.Size)
}
