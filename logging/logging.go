/*
Package logging builds the process logger. Records are written by zap,
either to stderr or to a rotating file, and exposed through the tendermint
log.Logger interface that the rest of the code base consumes.
*/
package logging

import (
	"os"
	"path/filepath"

	"github.com/iov-one/escrowswap/errors"
	"github.com/tendermint/tendermint/libs/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the log file created inside of Config.LogDir.
const FileName = "escrowswap.log"

// Config describes where and how to write logs.
type Config struct {
	Format   string `yaml:"format"`   // "console" or "json"
	LogDir   string `yaml:"log_dir"`  // empty writes to stderr
	Level    string `yaml:"level"`    // debug / info / warn / error
	Compress bool   `yaml:"compress"` // gzip rotated files
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{Format: "console", Level: "info"}
}

// New returns a logger configured as described. The returned function
// flushes buffered records and releases the log file, call it on shutdown.
func New(conf Config) (log.Logger, func() error, error) {
	level := zapcore.InfoLevel
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrInput, "log level %q", conf.Level)
		}
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch conf.Format {
	case "", "console":
		enc = zapcore.NewConsoleEncoder(encConf)
	case "json":
		enc = zapcore.NewJSONEncoder(encConf)
	default:
		return nil, nil, errors.Wrapf(errors.ErrInput, "log format %q", conf.Format)
	}

	var (
		out    zapcore.WriteSyncer
		closer = func() error { return nil }
	)
	if conf.LogDir == "" {
		out = zapcore.Lock(os.Stderr)
	} else {
		if err := os.MkdirAll(conf.LogDir, 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "log dir")
		}
		lj := &lumberjack.Logger{
			Filename:   filepath.Join(conf.LogDir, FileName),
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   conf.Compress,
		}
		out = zapcore.AddSync(lj)
		closer = lj.Close
	}

	z := zap.New(zapcore.NewCore(enc, out, level))
	return NewLogger(z), func() error {
		_ = z.Sync()
		return closer()
	}, nil
}

// NewLogger adapts a zap logger to the tendermint logger interface.
func NewLogger(z *zap.Logger) log.Logger {
	return &zapLogger{s: z.Sugar()}
}

type zapLogger struct {
	s *zap.SugaredLogger
}

var _ log.Logger = (*zapLogger)(nil)

func (l *zapLogger) Debug(msg string, keyvals ...interface{}) {
	l.s.Debugw(msg, keyvals...)
}

func (l *zapLogger) Info(msg string, keyvals ...interface{}) {
	l.s.Infow(msg, keyvals...)
}

func (l *zapLogger) Error(msg string, keyvals ...interface{}) {
	l.s.Errorw(msg, keyvals...)
}

func (l *zapLogger) With(keyvals ...interface{}) log.Logger {
	return &zapLogger{s: l.s.With(keyvals...)}
}
