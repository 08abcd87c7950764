// ABOUTME: Bubbletea model for the demo player TUI
// ABOUTME: Maps key presses to player actions and renders the crossfade state
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/internal/app"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the player surface the TUI drives
type Controller interface {
	Press(now time.Time) error
	Tick(now time.Time) error
	Reload() error
	AdjustTrackVolume(delta float64)
	AdjustSoundVolume(delta float64)
	Status(now time.Time) app.Status
}

// volumeStep is the category volume change per key press
const volumeStep = 0.1

type tickMsg time.Time

// Model represents the TUI state
type Model struct {
	player   Controller
	status   app.Status
	notice   string
	quitting bool
	width    int
}

// NewModel creates a TUI model for player
func NewModel(player Controller) Model {
	return Model{player: player}
}

// Init starts the frame ticker
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(app.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		now := time.Time(msg)
		if err := m.player.Tick(now); err != nil {
			m.notice = err.Error()
		}
		m.status = m.player.Status(now)
		return m, tickEvery()
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		if err := m.player.Reload(); err != nil {
			m.notice = fmt.Sprintf("Reload failed: %v", err)
		} else {
			m.notice = "Assets reloaded"
		}
	case "up":
		m.player.AdjustTrackVolume(volumeStep)
	case "down":
		m.player.AdjustTrackVolume(-volumeStep)
	case "right":
		m.player.AdjustSoundVolume(volumeStep)
	case "left":
		m.player.AdjustSoundVolume(-volumeStep)
	default:
		wasInitialized := m.status.Initialized
		if err := m.player.Press(now); err != nil {
			m.notice = fmt.Sprintf("Audio error: %v", err)
		} else if !wasInitialized {
			m.notice = "Audio started"
		}
	}

	m.status = m.player.Status(now)
	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Jamjar Mixer"))
	b.WriteString("\n\n")

	if !m.status.Initialized {
		b.WriteString(activeStyle.Render("Press any key to start audio"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTrack(m.status.TrackA, m.status.LevelA, !m.status.Toggled))
	b.WriteString(m.renderTrack(m.status.TrackB, m.status.LevelB, m.status.Toggled))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Track volume: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f", m.status.TrackVolume)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Sound volume: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f", m.status.SoundVolume)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Assets: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d (reloads: %d, chimes: %d)",
		m.status.Assets, m.status.Reloads, m.status.Chimes)))
	b.WriteString("\n\n")

	if m.status.LastError != "" {
		b.WriteString(errorStyle.Render(m.status.LastError))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(valueStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("any key: crossfade  ↑/↓: tracks  ←/→: sounds  r: reload  q: quit"))

	return b.String()
}

// renderTrack renders one crossfade slot with a level bar
func (m Model) renderTrack(key string, level float64, target bool) string {
	marker := "  "
	name := valueStyle.Render(fmt.Sprintf("%-12s", key))
	if target {
		marker = "▶ "
		name = activeStyle.Render(fmt.Sprintf("%-12s", key))
	}
	return fmt.Sprintf("%s%s [%s] %3.0f%%\n", marker, name, renderBar(level, 20), level*100)
}

func renderBar(level float64, width int) string {
	filled := int(level*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
