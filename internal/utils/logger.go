package utils

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the structured logging facade used by handlers and middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Slog() *slog.Logger
}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. A nil l falls back to slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogLogger) Slog() *slog.Logger            { return s.l }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

const loggerKey = "logger"

type ctxLoggerKey struct{}

// ContextLogger stores a logger carrying the request id on the gin context and
// on the request context.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := logger.With("request_id", c.GetString("request_id"))
		c.Set(loggerKey, l)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxLoggerKey{}, l))
		c.Next()
	}
}

// FromGin returns the request logger, or fallback when none was attached.
func FromGin(c *gin.Context, fallback Logger) Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(Logger); ok {
			return l
		}
	}
	return fallback
}

// FromContext returns the request logger stored by ContextLogger.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxLoggerKey{}).(Logger); ok {
		return l
	}
	return fallback
}

// LoggerMiddleware emits one access line per request.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if id, ok := c.Get("user_id"); ok {
			args = append(args, "user_id", id)
		}

		l := FromGin(c, logger)
		switch {
		case c.Writer.Status() >= 500:
			l.Error("request completed", args...)
		case c.Writer.Status() >= 400:
			l.Warn("request completed", args...)
		default:
			l.Info("request completed", args...)
		}
	}
}
