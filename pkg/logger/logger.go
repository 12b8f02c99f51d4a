package logger

import (
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Options controls the process-wide logger. Zero values fall back to
// stdout at info level with a short time format.
type Options struct {
	Level      slog.Leveler
	Writer     *os.File
	TimeFormat string
}

// Init configures the default slog logger. Safe to call more than once;
// only the first call takes effect.
func Init(opts *Options) {
	once.Do(func() {
		if opts == nil {
			opts = &Options{}
		}
		writer := opts.Writer
		if writer == nil {
			writer = os.Stdout
		}
		timeFormat := opts.TimeFormat
		if timeFormat == "" {
			timeFormat = "15:04:05"
		}

		handler := tint.NewHandler(writer, &tint.Options{
			Level:      opts.Level,
			TimeFormat: timeFormat,
		})

		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

// L returns the configured logger, or the slog default if Init was never called.
func L() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
