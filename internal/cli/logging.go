package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"rgehrsitz/fuzzy/internal/runtime"
)

// newLogger builds the diagnostic logger. --verbose forces debug level.
func newLogger(opts *RootOptions, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
	}
	if opts.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	if opts.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// systemOptions wires the logger, and the rule trace when verbose, into a system.
func systemOptions(opts *RootOptions, logger zerolog.Logger, extra ...runtime.Observer) []runtime.Option {
	observers := runtime.Observers(extra)
	if opts.Verbose {
		observers = append(observers, runtime.LogObserver{Logger: logger})
	}
	return []runtime.Option{
		runtime.WithLogger(logger),
		runtime.WithObserver(observers),
	}
}
