package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

var log = slog.Default()

// multiHandler forwards log records to multiple handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Setup initializes the package logger and returns a cleanup function.
// Records always go to stderr; when SEQ_URL is set they are additionally
// shipped to a Seq server.
func Setup() func() {
	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	seqURL := os.Getenv("SEQ_URL")
	if seqURL == "" {
		log = slog.New(console)
		return func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		seqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{
			Level: slog.LevelDebug,
		}),
	)
	if seqHandler == nil {
		log = slog.New(console)
		return func() {}
	}

	log = slog.New(&multiHandler{handlers: []slog.Handler{console, seqHandler}})
	return func() { seqHandler.Close() }
}

// Fatal logs at error level and exits.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	log.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Error prints at error level.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	log.Error(fmt.Sprintf(format, args...))
}

// Warn prints at warn level.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// Info prints at info level.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...interface{}) {
	log.Info(fmt.Sprintf(format, args...))
}

// Debug prints at debug level.
// Arguments are handled in the manner of [fmt.Printf].
func Debug(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}
