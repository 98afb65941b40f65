package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/config"
)

// New builds the process logger. Empty fields fall back to JSON at info level on stdout.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stdout":
	case "stderr":
		out = os.Stderr
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	default:
		return nil, nil, fmt.Errorf("unknown logging.output %q", cfg.Output)
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: closer != nil}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &logger, closer, nil
}

func parseLevel(raw string) (zerolog.Level, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(raw)
}

// Component returns a child logger tagged with the subsystem name.
func Component(base *zerolog.Logger, name string) *zerolog.Logger {
	l := base.With().Str("component", name).Logger()
	return &l
}

// StdLogger bridges packages that want a *log.Logger, such as http.Server.ErrorLog.
func StdLogger(base *zerolog.Logger, level zerolog.Level) *log.Logger {
	return log.New(levelWriter{logger: base, level: level}, "", 0)
}

type levelWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// GooseLogger satisfies goose.Logger.
type GooseLogger struct {
	Logger *zerolog.Logger
}

func (g GooseLogger) Printf(format string, v ...interface{}) {
	g.Logger.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g GooseLogger) Fatalf(format string, v ...interface{}) {
	g.Logger.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
