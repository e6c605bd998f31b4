// Copyright 2022 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log is a small leveled, key/value logger in the go-ethereum calling
// style, backed by zap.
//
//	log.Info("decoded value", "type", t, "size", len(b))
//
// Context is passed as alternating keys and values. The root logger discards
// everything until Setup or SetupTerminal installs an output.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Lvl is a log level, ordered from most to least severe.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// String returns the name of a Lvl.
func (l Lvl) String() string {
	switch l {
	case LvlTrace:
		return "trce"
	case LvlDebug:
		return "dbug"
	case LvlInfo:
		return "info"
	case LvlWarn:
		return "warn"
	case LvlError:
		return "eror"
	case LvlCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// LvlFromString returns the appropriate Lvl from a string name.
// Useful for parsing command line args and configuration files.
func LvlFromString(lvlString string) (Lvl, error) {
	switch strings.ToLower(lvlString) {
	case "trace", "trce":
		return LvlTrace, nil
	case "debug", "dbug":
		return LvlDebug, nil
	case "info":
		return LvlInfo, nil
	case "warn":
		return LvlWarn, nil
	case "error", "eror":
		return LvlError, nil
	case "crit":
		return LvlCrit, nil
	default:
		return LvlDebug, errors.Errorf("unknown level: %v", lvlString)
	}
}

// zapLevel maps a Lvl onto zap's levels. zap has no trace level, trace
// records go out one step below debug.
func (l Lvl) zapLevel() zapcore.Level {
	switch l {
	case LvlTrace:
		return zapcore.DebugLevel - 1
	case LvlDebug:
		return zapcore.DebugLevel
	case LvlInfo:
		return zapcore.InfoLevel
	case LvlWarn:
		return zapcore.WarnLevel
	case LvlError:
		return zapcore.ErrorLevel
	default:
		return zapcore.DPanicLevel
	}
}

// A Logger writes key/value pairs to a zap core.
type Logger interface {
	// New returns a new Logger that has this logger's context plus the given context
	New(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	sugar *zap.SugaredLogger
}

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{sugar: l.sugar.With(ctx...)}
}

// skipLevel is the number of frames between the call site and write.
const skipLevel = 2

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LvlTrace, msg, ctx, skipLevel) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx, skipLevel) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx, skipLevel) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx, skipLevel) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx, skipLevel) }

// Crit logs at the highest severity and exits the process, as go-ethereum does.
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(LvlCrit, msg, ctx, skipLevel)
	l.sugar.Sync()
	os.Exit(1)
}

// write converts ctx into zap fields and emits the record.
func (l *logger) write(lvl Lvl, msg string, ctx []interface{}, skip int) {
	ce := l.sugar.Desugar().Check(lvl.zapLevel(), msg)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, len(ctx)/2+1)
	for i := 0; i < len(ctx); i += 2 {
		if i+1 == len(ctx) {
			fields = append(fields, zap.Any("LOG_ERROR", ctx[i]))
			break
		}
		key, ok := ctx[i].(string)
		if !ok {
			key = "LOG_ERROR"
		}
		fields = append(fields, zap.Any(key, ctx[i+1]))
	}
	if origins.Load() {
		fields = append(fields, zap.String("caller", fmt.Sprintf("%v", stack.Caller(skip))))
	}
	ce.Write(fields...)
}

var (
	root    atomic.Value // *logger
	level   = zap.NewAtomicLevelAt(LvlInfo.zapLevel())
	origins atomic.Bool
)

func init() {
	root.Store(&logger{sugar: zap.NewNop().Sugar()})
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// New returns a new logger with the given context.
// New is a convenient alias for Root().New
func New(ctx ...interface{}) Logger {
	return Root().New(ctx...)
}

// SetLevel changes the verbosity of every logger created from the root.
func SetLevel(lvl Lvl) {
	level.SetLevel(lvl.zapLevel())
}

// Setup points the root logger at w with the given level. Records are
// rendered in zap's console layout, with coloured level names when color is set.
func Setup(w io.Writer, lvl Lvl, color bool) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("01-02|15:04:05.000")
	encCfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if l < zapcore.DebugLevel {
			enc.AppendString("TRACE")
			return
		}
		if color {
			zapcore.CapitalColorLevelEncoder(l, enc)
			return
		}
		zapcore.CapitalLevelEncoder(l, enc)
	}
	// 不输出调用位置，和geth终端格式保持一致
	encCfg.CallerKey = zapcore.OmitKey

	SetLevel(lvl)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	root.Store(&logger{sugar: zap.New(core).Sugar()})
}

// SetupTerminal installs a stderr logger, coloured when stderr is a terminal.
func SetupTerminal(lvl Lvl) {
	usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	var output io.Writer = os.Stderr
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	Setup(output, lvl, usecolor)
}

// PrintOrigins sets whether records carry the file:line of their call site.
func PrintOrigins(enabled bool) {
	origins.Store(enabled)
}

func rootLogger() *logger { return root.Load().(*logger) }

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...interface{}) { rootLogger().write(LvlTrace, msg, ctx, skipLevel) }

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...interface{}) { rootLogger().write(LvlDebug, msg, ctx, skipLevel) }

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...interface{}) { rootLogger().write(LvlInfo, msg, ctx, skipLevel) }

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...interface{}) { rootLogger().write(LvlWarn, msg, ctx, skipLevel) }

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...interface{}) { rootLogger().write(LvlError, msg, ctx, skipLevel) }

// Crit is a convenient alias for Root().Crit
func Crit(msg string, ctx ...interface{}) {
	l := rootLogger()
	l.write(LvlCrit, msg, ctx, skipLevel)
	l.sugar.Sync()
	os.Exit(1)
}
