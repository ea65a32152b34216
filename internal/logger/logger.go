package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls how the process logger is built.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // json or console
	File   string    // optional path; rotated with lumberjack
	MaxAge int       // days to keep rotated files
	Output io.Writer // console sink; stderr when nil
}

// New builds a zap logger writing to stderr (or opts.Output), and to a
// rotating file when opts.File is set. Stdout is left to command output.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "json":
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	var out zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if opts.Output != nil {
		out = zapcore.AddSync(opts.Output)
	}
	sinks := []zapcore.WriteSyncer{out}
	if opts.File != "" {
		maxAge := opts.MaxAge
		if maxAge <= 0 {
			maxAge = 14
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename: opts.File,
			MaxAge:   maxAge,
			MaxSize:  100,
			Compress: true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller()), nil
}
