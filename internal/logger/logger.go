// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where and how the global logger writes.
type Options struct {
	Level      string
	Format     string // console or json
	File       string // optional; rotated daily
	MaxAgeDays int
}

// Init configures the global zerolog logger.
func Init(opts Options) error {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		return fmt.Errorf("invalid log level %q", opts.Level)
	}

	var out io.Writer = os.Stderr
	if opts.Format != "json" {
		// Use ConsoleWriter for human-readable, colorized output in development
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if opts.File != "" {
		rotator, err := newRotator(opts.File, opts.MaxAgeDays)
		if err != nil {
			return err
		}
		out = zerolog.MultiLevelWriter(out, rotator)
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
	return nil
}

func newRotator(path string, maxAgeDays int) (io.Writer, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	w, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(time.Duration(maxAgeDays)*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return w, nil
}
