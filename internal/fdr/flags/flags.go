// Package flags holds the runtime options read from the environment once
// at process start. The variable format follows the usual runtime-tuning
// convention: FDRTRACER_OPTIONS="fdr_log=1 verbosity=1 logfile_base=my."
// with pairs separated by spaces or colons.
package flags

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// EnvVar is the environment variable the options are read from.
const EnvVar = "FDRTRACER_OPTIONS"

// Flags is the parsed option set.
type Flags struct {
	// FDRLog gates self-registration of the tracing runtime at process
	// start. Off by default: linking the library must cost nothing
	// unless the environment asks for tracing.
	FDRLog bool

	// LogfileBase prefixes default trace file names.
	LogfileBase string

	// Verbosity enables informational logging when > 0.
	Verbosity int

	// BufferSize and BufferMax configure the environment-driven
	// bootstrap. Explicit driver calls carry their own dimensions and
	// ignore these.
	BufferSize int
	BufferMax  int
}

// Defaults returns the option set used when the environment specifies
// nothing.
func Defaults() Flags {
	return Flags{
		LogfileBase: "fdrtracer-log.",
		BufferSize:  16384,
		BufferMax:   16,
	}
}

// Parse reads "key=value" pairs separated by spaces or colons, starting
// from Defaults. Unknown keys and unparseable values are ignored rather
// than rejected; a typo in a tuning variable must never break the host
// program.
func Parse(s string) Flags {
	f := Defaults()
	pairs := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ':'
	})
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		switch key {
		case "fdr_log":
			if v, err := strconv.ParseBool(value); err == nil {
				f.FDRLog = v
			}
		case "logfile_base":
			if value != "" {
				f.LogfileBase = value
			}
		case "verbosity":
			if v, err := strconv.Atoi(value); err == nil {
				f.Verbosity = v
			}
		case "buffer_size":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				f.BufferSize = v
			}
		case "buffer_max":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				f.BufferMax = v
			}
		}
	}
	return f
}

var (
	loadOnce sync.Once
	loaded   Flags
)

// Load parses the environment exactly once and returns the cached result.
func Load() Flags {
	loadOnce.Do(func() {
		loaded = Parse(os.Getenv(EnvVar))
	})
	return loaded
}
