package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const redacted = "[redacted]"

// Attribute keys that carry credentials and never reach the output
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret_key":    {},
	"authorization": {},
}

type slogLogger struct {
	logger *slog.Logger
}

// Frames to skip so that source points to the caller of Debug/Info/Warn/Error
const callerSkip = 3

func (l *slogLogger) log(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(callerSkip, pcs[:])

	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = l.logger.Handler().Handle(ctx, record)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

func (l *slogLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

func (l *slogLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

func (l *slogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{logger: l.logger.WithGroup(name)}
}

// replaceAttr trims source to file name and hides credentials
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
		}
		return a
	}

	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}

	return a
}
