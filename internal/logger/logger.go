package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance with the specified level and format.
// Format is either "text" or "json"; anything else falls back to text.
func New(level int, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates Logger writing to w.
func NewWithWriter(w io.Writer, level int, format string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}

// LogError logs err at error level. Coded errors get their code and
// context attached as separate attributes.
func (l *Logger) LogError(msg string, err error, args ...any) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := append(args, "error", oopsErr.Error())
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		l.Logger.Error(msg, attrs...)
		return
	}

	l.Logger.Error(msg, append(args, "error", err)...)
}
