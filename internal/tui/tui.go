// Package tui is the terminal explorer: a character map of capability regions
// and landmarks with a side panel, driven entirely by the view-state store.
package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for m on the alternate screen.
func NewProgram(m Model, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{tea.WithAltScreen()}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(m, allOpts...)
}

// Run runs the explorer, blocking until the user quits.
func Run(m Model, opts ...tea.ProgramOption) error {
	if _, err := NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}

// WithInput returns a program option that reads keys from r.
func WithInput(r io.Reader) tea.ProgramOption {
	return tea.WithInput(r)
}

// WithContext returns a program option that stops the explorer when ctx is
// done.
func WithContext(ctx context.Context) tea.ProgramOption {
	return tea.WithContext(ctx)
}
