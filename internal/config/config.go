// Package config binds ruloc's CLI flags, an optional .ruloc.yaml file,
// and RULOC_* environment variables into a single Options value, using
// viper the way huangsam-hotspot pairs it with cobra.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrFatalConfig marks a configuration error that must abort the run
// before any analysis begins (spec §7 FatalConfigError).
var ErrFatalConfig = errors.New("fatal configuration error")

// Options is the fully resolved configuration for one run.
type Options struct {
	// FilePath and DirPath are mutually exclusive input selectors.
	FilePath string
	DirPath  string

	// JSON selects JSON output instead of the default text report.
	JSON bool
	// OutPath, if set together with JSON, writes the JSON report to a
	// file instead of stdout; the text report always goes to stdout.
	OutPath string

	// MaxFileSize is the size cap in bytes; zero means unbounded.
	MaxFileSize int64

	// Workers is the worker-pool size; zero means "implementation
	// chooses" (the scanner defaults to GOMAXPROCS).
	Workers int

	Verbose bool
	Debug   bool
	NoColor bool

	// Spill forces the spill-backed accumulator instead of the
	// memory-resident one, regardless of tree size.
	Spill bool
}

// Load resolves Options from already-parsed flags, an optional
// .ruloc.yaml in the working directory (parent directories are not
// searched), and RULOC_*-prefixed environment variables. Flags set on
// the command line take precedence over environment variables, which
// take precedence over the config file, which takes precedence over
// flag defaults — viper's standard layering.
func Load(flags *pflag.FlagSet) (Options, error) {
	v := viper.New()
	v.SetEnvPrefix("RULOC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetConfigName(".ruloc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.BindPFlags(flags); err != nil {
		return Options{}, fmt.Errorf("config: bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Options{}, fmt.Errorf("config: read .ruloc.yaml: %w", err)
		}
	}

	maxSize, err := ParseByteSize(v.GetString("max-file-size"))
	if err != nil {
		return Options{}, fmt.Errorf("config: max-file-size: %w", err)
	}

	opts := Options{
		FilePath:    v.GetString("file"),
		DirPath:     v.GetString("dir"),
		JSON:        v.GetBool("json"),
		OutPath:     v.GetString("out"),
		MaxFileSize: maxSize,
		Workers:     v.GetInt("workers"),
		Verbose:     v.GetBool("verbose"),
		Debug:       v.GetBool("debug"),
		NoColor:     v.GetBool("no-color"),
		Spill:       v.GetBool("spill"),
	}

	if opts.FilePath != "" && opts.DirPath != "" {
		return Options{}, fmt.Errorf("config: %w: --file and --dir are mutually exclusive", ErrFatalConfig)
	}
	if opts.FilePath == "" && opts.DirPath == "" {
		return Options{}, fmt.Errorf("config: %w: one of --file or --dir is required", ErrFatalConfig)
	}

	return opts, nil
}

var byteUnits = map[string]int64{
	"":   1,
	"b":  1,
	"kb": 1024,
	"mb": 1024 * 1024,
	"gb": 1024 * 1024 * 1024,
}

// ParseByteSize parses a size like "1000", "3.5KB", "10MB", "1.1GB"
// (case-insensitive, fractional values rounded down to bytes) into a
// byte count, mirroring ruloc's original parse_file_size. An empty
// string means "no limit" and returns 0.
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	numPart, unitPart := s[:i], strings.ToLower(strings.TrimSpace(s[i:]))

	if numPart == "" {
		return 0, fmt.Errorf("no numeric value in %q", s)
	}
	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %w", numPart, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}

	multiplier, ok := byteUnits[unitPart]
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q", unitPart)
	}

	return int64(value * float64(multiplier)), nil
}
