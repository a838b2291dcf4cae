// Package ui provides the interactive task shell.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/config"
)

// TUIOption configures the shell.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	logger *log.Logger
	output io.Writer
}

// WithTUILogger sets the logger passed to the model and watcher.
func WithTUILogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithOutput overrides the terminal the shell draws to.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// Run starts the shell over st and blocks until the user quits or ctx ends.
func Run(ctx context.Context, cfg *config.Config, st TaskStore, opts ...TUIOption) error {
	c := &tuiConfig{
		logger: log.New(io.Discard),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	modelOpts := []ModelOption{
		WithLogger(c.logger),
		WithMouse(cfg.Mouse),
	}

	if cfg.Watch {
		if err := os.MkdirAll(filepath.Dir(cfg.StoreFile), 0755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
		w, err := NewWatcher(cfg.StoreFile, c.logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.StoreFile, err)
		}
		defer w.Close()
		modelOpts = append(modelOpts, WithChanges(w.Changes()))
	}

	model := NewModel(st, modelOpts...)

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(c.output),
	}
	if cfg.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	return runProgram(model, programOpts...)
}

func runProgram(model *Model, opts ...tea.ProgramOption) error {
	program := tea.NewProgram(model, opts...)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
