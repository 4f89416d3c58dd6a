package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger is a module scoped wrapper around slog. It is passed by value and
// narrowed with File and Function as it flows down the call stack.
type Logger struct {
	slog     *slog.Logger
	module   string
	file     string
	function string
}

func New(module string) Logger {
	return Logger{slog: slog.Default(), module: module}
}

// Setup installs the process wide handler used by every Logger created
// afterwards. Level is one of debug, info, warn or error.
func Setup(level string, json bool) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) attrs(args []any) []any {
	base := []any{"module", l.module}
	if l.file != "" {
		base = append(base, "file", l.file)
	}
	if l.function != "" {
		base = append(base, "function", l.function)
	}
	return append(base, args...)
}

func (l Logger) handler() *slog.Logger {
	if l.slog == nil {
		return slog.Default()
	}
	return l.slog
}

func (l Logger) Debug(msg string, args ...any) {
	l.handler().Debug(msg, l.attrs(args)...)
}

func (l Logger) Info(msg string, args ...any) {
	l.handler().Info(msg, l.attrs(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.handler().Warn(msg, l.attrs(args)...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.handler().Error(msg, l.attrs(append(args, "error", err))...)
}

// ErMsg logs an error message without returning anything.
func (l Logger) ErMsg(msg string, args ...any) {
	l.handler().Error(msg, l.attrs(args)...)
}

// Err logs err and returns it wrapped with msg. errors.Is and errors.As see
// through the wrapping.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg at error level and returns it as an error.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

// ErrMsg is Error without structured arguments.
func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

// Ctx logs with the request context so handlers that carry trace values can
// pick them up.
func (l Logger) Ctx(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.handler().Log(ctx, level, msg, l.attrs(args)...)
}
