package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe-history/internal/tui"
)

type PlayCmd struct {
	Theme    string `short:"t" type:"path" help:"HCL theme file"`
	LogFile  string `type:"path" help:"Write debug logs to this file"`
	LogLevel string `default:"debug" enum:"debug,info,warn,error" help:"Level for --log-file"`
	NoColor  bool   `help:"Disable colours"`
}

func (that *PlayCmd) Run() error {
	if that.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	theme, err := tui.LoadTheme(that.Theme)
	if err != nil {
		return fmt.Errorf("unable to load theme: %w", err)
	}

	// the terminal belongs to the UI, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if that.LogFile != "" {
		logFile, openErr := os.OpenFile(that.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if openErr != nil {
			return fmt.Errorf("failed to open log file: %w", openErr)
		}
		defer func() { _ = logFile.Close() }()

		out = logFile
	}

	logger := slog.New(newTextHandler(out, that.LogLevel))
	logger.Info("Starting terminal game")

	if _, err = tea.NewProgram(tui.New(logger, theme), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	return nil
}
