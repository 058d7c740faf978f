// Package log builds the process logger: a zap tee over the console, an
// optional JSON log file and, for the server UI, the message panes.
package log

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultServerFile = "latsweep-server.log"
	DefaultClientFile = "latsweep-client.log"
)

// Panes receives human readable log lines, split by severity.
type Panes interface {
	AddInfoMsg(string)
	AddErrorMsg(string)
}

type Config struct {
	Debug     bool
	File      string // empty disables the file core
	NoConsole bool
	Console   io.Writer // defaults to os.Stdout
	Panes     Panes
}

func (c Config) level() zapcore.Level {
	if c.Debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// New returns the logger and a closer that flushes and releases the log
// file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	level := zap.NewAtomicLevelAt(cfg.level())

	var (
		cores   []zapcore.Core
		closers []func() error
	)

	if !cfg.NoConsole {
		out := cfg.Console
		if out == nil {
			out = os.Stdout
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.AddSync(out),
			level,
		))
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f.Close)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig()),
			zapcore.Lock(f),
			level,
		))
	}

	if cfg.Panes != nil {
		cores = append(cores, paneCores(cfg.Panes, level)...)
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closer := func() error {
		_ = logger.Sync()
		var firstErr error
		for _, c := range closers {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return logger, closer, nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.CallerKey = ""
	ec.StacktraceKey = ""
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return ec
}

func fileEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return ec
}

func paneEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	ec.LevelKey = ""
	ec.CallerKey = ""
	ec.NameKey = ""
	ec.StacktraceKey = ""
	return ec
}

type paneWriter func(string)

func (w paneWriter) Write(p []byte) (int, error) {
	w(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func paneCores(p Panes, level zap.AtomicLevel) []zapcore.Core {
	enc := zapcore.NewConsoleEncoder(paneEncoderConfig())
	info := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.WarnLevel
	})
	errs := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l >= zapcore.WarnLevel
	})
	return []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(paneWriter(p.AddInfoMsg)), info),
		zapcore.NewCore(enc.Clone(), zapcore.AddSync(paneWriter(p.AddErrorMsg)), errs),
	}
}
