package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/loglens/internal/config"
	"github.com/user/loglens/internal/ui"
)

func main() {
	debugFlag := flag.String("d", "", "Write debug logs to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: loglens [-d debug.log] <file>\n")
		fmt.Fprintf(os.Stderr, "  -d\tWrite debug logs to a file\n")
		fmt.Fprintf(os.Stderr, "Config file: %s\n", config.GetConfigPath())
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := setupLogging(*debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model, err := ui.NewModel(flag.Arg(0), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	slog.Info("starting pager", "file", flag.Arg(0))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes slog to a debug file when requested, otherwise
// suppresses it entirely so nothing writes over the terminal UI.
func setupLogging(path string) error {
	if path == "" {
		// Nothing may write over the alt screen.
		handler := slog.NewTextHandler(io.Discard, nil)
		slog.SetDefault(slog.New(handler))
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))
	return nil
}
