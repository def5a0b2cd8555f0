// Package tui provides the Bubble Tea screens for the Mölkky score tracker,
// both for a local terminal and for SSH sessions served through Wish.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts a local game and blocks until the user quits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
