// Package logger builds the zap loggers used by the condkit CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/condkit/internal/errors"
)

// Options selects the encoding and level of a logger.
type Options struct {
	// JSON selects structured JSON output for machine consumption.
	JSON bool
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

// New returns a logger for opts. JSON output uses zap's production encoder
// config; otherwise lines are written by a console encoder without caller
// or stack information.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.CallerKey = zapcore.OmitKey
		cfg.StacktraceKey = zapcore.OmitKey
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), level)), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel resolves a level name. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	switch s {
	case "debug", "info", "warn", "error":
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(s)); err != nil {
			return zapcore.InfoLevel, errors.Wrapf(err, "log level %q", s)
		}
		return lvl, nil
	}
	return zapcore.InfoLevel, errors.Newf("unknown log level %q (want debug, info, warn or error)", s)
}
