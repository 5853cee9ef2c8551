package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log = slog.Default()

type Config struct {
	Dev       bool
	SentryDSN string
	// LogFile enables a rotating JSON log file in addition to stdout.
	LogFile string
}

// Init builds the global logger.
// Development: colored console output at Debug level.
// Production: JSON at Info level.
// Errors are forwarded to Sentry when a DSN is configured.
func Init(cfg Config) io.Closer {
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if cfg.Dev {
		handlers = append(handlers, charmlog.NewWithOptions(os.Stdout, charmlog.Options{
			Level:           charmlog.DebugLevel,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          "studyflow",
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if cfg.LogFile != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		closer = fileWriter
		handlers = append(handlers, slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
	return closer
}

// Flush waits for buffered Sentry events.
func Flush() {
	sentry.Flush(2 * time.Second)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
