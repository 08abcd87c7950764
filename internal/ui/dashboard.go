// ABOUTME: Status dashboard for the mixer daemon
// ABOUTME: Shows server identity, uptime, assets and connected control clients
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/pkg/remote"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ServerStatus holds daemon state for the dashboard
type ServerStatus struct {
	Name    string
	Port    int
	Keys    []string
	Clients []remote.ClientInfo
}

// Dashboard manages the daemon TUI
type Dashboard struct {
	mu       sync.Mutex
	program  *tea.Program
	updates  chan ServerStatus
	quitChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type dashboardModel struct {
	status    ServerStatus
	startTime time.Time
	quitting  bool
	quitChan  chan struct{}
}

type statusMsg ServerStatus

type uptimeMsg time.Time

func (m dashboardModel) Init() tea.Cmd {
	return uptimeEvery()
}

func uptimeEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return uptimeMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
			return m, tea.Quit
		}

	case uptimeMsg:
		return m, uptimeEvery()

	case statusMsg:
		m.status = ServerStatus(msg)
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.quitting {
		return "Shutting down server...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Jamjar Server"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Server: "))
	b.WriteString(valueStyle.Render(m.status.Name))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Port: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.status.Port)))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Uptime: "))
	b.WriteString(valueStyle.Render(time.Since(m.startTime).Round(time.Second).String()))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Assets: "))
	b.WriteString(valueStyle.Render(truncate(strings.Join(m.status.Keys, ", "), 60)))
	b.WriteString("\n\n")

	b.WriteString(activeStyle.Render(fmt.Sprintf("Control Clients (%d)", len(m.status.Clients))))
	b.WriteString("\n\n")

	if len(m.status.Clients) == 0 {
		b.WriteString(valueStyle.Render("  No clients connected"))
		b.WriteString("\n")
	} else {
		for _, c := range m.status.Clients {
			b.WriteString(fmt.Sprintf("  • %s", c.Name))
			b.WriteString(valueStyle.Render(fmt.Sprintf(" (%s)", c.ID)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press 'q' or Ctrl+C to quit"))

	return b.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

// NewDashboard creates a daemon dashboard
func NewDashboard() *Dashboard {
	return &Dashboard{
		updates:  make(chan ServerStatus, 10),
		quitChan: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start runs the dashboard until Stop or the user quits
func (d *Dashboard) Start(initial ServerStatus) error {
	m := dashboardModel{
		status:    initial,
		startTime: time.Now(),
		quitChan:  d.quitChan,
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	d.mu.Lock()
	d.program = program
	d.mu.Unlock()

	go func() {
		for {
			select {
			case status := <-d.updates:
				program.Send(statusMsg(status))
			case <-d.done:
				return
			}
		}
	}()

	_, err := program.Run()
	return err
}

// Update sends a status update without blocking
func (d *Dashboard) Update(status ServerStatus) {
	select {
	case <-d.done:
	case d.updates <- status:
	default:
	}
}

// Stop quits the dashboard
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.program != nil {
			d.program.Quit()
		}
	})
}

// QuitChan signals when the user asks to quit
func (d *Dashboard) QuitChan() <-chan struct{} {
	return d.quitChan
}
