// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DefaultLogger writes info and above to os.Stdout
	DefaultLogger = NewZap(InfoLevel, os.Stdout)
	// DebugLogger writes every level to os.Stdout
	DebugLogger = NewZap(DebugLevel, os.Stdout)
)

// Zap is a Logger writing JSON lines through go.uber.org/zap
type Zap struct {
	sugar *zap.SugaredLogger
	level Level
}

var _ Logger = (*Zap)(nil)

// NewZap creates a Zap writing entries at level and above to writers.
// An unknown level writes every entry.
func NewZap(level Level, writers ...io.Writer) *Zap {
	if _, ok := levelNames[level]; !ok {
		level = DebugLevel
	}

	syncers := make([]zapcore.WriteSyncer, len(writers))
	for i, writer := range writers {
		syncers[i] = zapcore.AddSync(writer)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}),
		zap.CombineWriteSyncers(syncers...),
		zapLevels[level])

	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Zap{sugar: logger.Sugar(), level: level}
}

var zapLevels = map[Level]zapcore.Level{
	DebugLevel:   zapcore.DebugLevel,
	InfoLevel:    zapcore.InfoLevel,
	WarningLevel: zapcore.WarnLevel,
	ErrorLevel:   zapcore.ErrorLevel,
}

func (z *Zap) Debug(v ...any)                 { z.sugar.Debug(v...) }
func (z *Zap) Debugf(format string, v ...any) { z.sugar.Debugf(format, v...) }
func (z *Zap) Info(v ...any)                  { z.sugar.Info(v...) }
func (z *Zap) Infof(format string, v ...any)  { z.sugar.Infof(format, v...) }
func (z *Zap) Warn(v ...any)                  { z.sugar.Warn(v...) }
func (z *Zap) Warnf(format string, v ...any)  { z.sugar.Warnf(format, v...) }
func (z *Zap) Error(v ...any)                 { z.sugar.Error(v...) }
func (z *Zap) Errorf(format string, v ...any) { z.sugar.Errorf(format, v...) }

// With returns a Logger adding the key-value pairs to every entry.
// Pairs follow the zap sugared logger conventions.
func (z *Zap) With(keyValues ...any) Logger {
	if len(keyValues) == 0 {
		return z
	}
	return &Zap{sugar: z.sugar.With(keyValues...), level: z.level}
}

// LogLevel implements Logger
func (z *Zap) LogLevel() Level {
	return z.level
}

// Flush writes buffered entries to the outputs
func (z *Zap) Flush() error {
	return z.sugar.Sync()
}
