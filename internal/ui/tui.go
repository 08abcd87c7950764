// ABOUTME: TUI initialization for the demo player
// ABOUTME: Wraps the bubbletea program around a player controller
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits
func Run(player Controller) error {
	p := tea.NewProgram(NewModel(player), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
