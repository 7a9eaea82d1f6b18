// Package logger owns the process-wide zerolog instance.
//
// main calls Init once with the configured level, every other package
// receives a zerolog.Logger (or a component child from With) by injection.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the root logger is built.
type Options struct {
	// Level is the minimum level to emit: trace, debug, info, warn, error.
	// Anything else falls back to info.
	Level string
	// Pretty switches to colourised console output for local development.
	// Production keeps the default single-line JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	root zerolog.Logger
	once sync.Once
	done bool
)

// Init builds the root logger. Only the first call takes effect; later calls
// return the already-built instance.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		root = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
		done = true
	})
	return root
}

// Get returns the root logger. Panics when called before Init so a missing
// bootstrap fails at startup rather than logging into the void.
func Get() zerolog.Logger {
	if !done {
		panic("logger: Get called before Init")
	}
	return root
}

// With returns a child logger tagged with the component name.
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// Reset discards the singleton so tests can rebuild it with different options.
func Reset() {
	once = sync.Once{}
	root = zerolog.Logger{}
	done = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
