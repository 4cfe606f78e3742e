// Package cli parses the launcher's command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"
)

var ErrHelp = pflag.ErrHelp

type Options struct {
	Base        string
	Profile     string
	Lang        string
	ConfigPath  string
	ShowVersion bool
	// Positional holds at most one file to import.
	Positional []string
}

// Parse reads argv, including the program name at argv[0].
func Parse(argv []string, stderr io.Writer) (Options, error) {
	return parse(argv, runtime.GOOS, stderr)
}

func parse(argv []string, goos string, stderr io.Writer) (Options, error) {
	name := "flashdesk"
	if len(argv) > 0 {
		argv = stripFinderArgs(argv, goos)
		argv = argv[1:]
	}

	var opts Options
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [OPTIONS] [file to import]\n", name)
		fs.PrintDefaults()
	}
	fs.StringVarP(&opts.Base, "base", "b", "", "path to base folder")
	fs.StringVarP(&opts.Profile, "profile", "p", "", "profile name to load")
	fs.StringVarP(&opts.Lang, "lang", "l", "", "interface language (en, de, etc)")
	fs.StringVar(&opts.ConfigPath, "config", "", "path to config file")
	fs.BoolVarP(&opts.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(argv); err != nil {
		return Options{}, err
	}

	opts.Positional = fs.Args()
	if len(opts.Positional) > 1 {
		return Options{}, fmt.Errorf("expected at most one file, got %d", len(opts.Positional))
	}

	if opts.Lang != "" {
		tag, err := language.Parse(opts.Lang)
		if err != nil {
			return Options{}, fmt.Errorf("invalid --lang %q: %w", opts.Lang, err)
		}
		opts.Lang = tag.String()
	}

	return opts, nil
}

// stripFinderArgs drops the -psn_* process serial number Finder used to
// append when launching an app bundle.
func stripFinderArgs(argv []string, goos string) []string {
	if goos == "darwin" && len(argv) > 1 && strings.HasPrefix(argv[1], "-psn") {
		return argv[:1]
	}
	return argv
}

// IsHelp reports whether err came from -h/--help.
func IsHelp(err error) bool {
	return errors.Is(err, ErrHelp)
}
