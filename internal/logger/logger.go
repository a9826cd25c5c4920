package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Init makes slog.Default write through a charmbracelet logger.
func Init(service, level, format string) *slog.Logger {
	l := slog.New(NewHandler(os.Stderr, service, level, format))
	slog.SetDefault(l)
	return l
}

func NewHandler(w io.Writer, service, level, format string) slog.Handler {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}

	formatter := charmlog.TextFormatter
	switch format {
	case "json":
		formatter = charmlog.JSONFormatter
	case "logfmt":
		formatter = charmlog.LogfmtFormatter
	}

	return charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          service,
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}
