package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	app "github.com/rocketscienceinc/tictactoe-history/internal"
	"github.com/rocketscienceinc/tictactoe-history/internal/config"
)

type ServeCmd struct {
	Config string `short:"c" type:"path" default:"config.yml" help:"Path to the YAML config file; missing means defaults and environment"`
}

func (that *ServeCmd) Run() error {
	conf, err := config.Load(that.Config)
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	logger := initLogger(conf, os.Stdout)

	if err = app.RunApp(logger, conf); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	if conf.LogFormat == config.LogFormatText {
		return slog.New(newTextHandler(w, conf.LogLevel))
	}

	var level slog.Level

	switch strings.ToLower(conf.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newTextHandler - human readable slog handler.
func newTextHandler(w io.Writer, levelName string) *log.Logger {
	level, err := log.ParseLevel(levelName)
	if err != nil {
		level = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}
