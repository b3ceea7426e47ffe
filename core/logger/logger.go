package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is shared by every Logger so a single SetLevel call retunes the whole process.
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

type Logger struct {
	logger *zap.SugaredLogger
}

func NewLogger() *Logger {
	return newLogger(zapcore.Lock(os.Stdout), true)
}

func newLogger(out zapcore.WriteSyncer, color bool) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encCfg.EncodeLevel = bracketLevelEncoder(color)
	encCfg.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, level)
	return &Logger{
		logger: zap.New(core).Sugar(),
	}
}

// SetLevel parses one of debug|info|warn|error. Unknown values fall back to info.
func SetLevel(s string) {
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		l = zapcore.InfoLevel
	}
	level.SetLevel(l)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logger.Debugf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.logger.Infoln(v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.logger.Infof(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.logger.Warnln(v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logger.Warnf(format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.logger.Errorln(v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logger.Errorf(format, v...)
}

func (l *Logger) Sync() error {
	return l.logger.Sync()
}

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	gray   = "\033[90m"
)

func bracketLevelEncoder(color bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		tag := "[" + l.CapitalString() + "]"
		if !color {
			enc.AppendString(tag)
			return
		}
		switch l {
		case zapcore.DebugLevel:
			enc.AppendString(gray + tag + reset)
		case zapcore.InfoLevel:
			enc.AppendString(blue + tag + reset)
		case zapcore.WarnLevel:
			enc.AppendString(yellow + tag + reset)
		default:
			enc.AppendString(red + tag + reset)
		}
	}
}
