// ABOUTME: Tests for the daemon dashboard
// ABOUTME: Tests status updates, quit signalling and rendering
package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/pkg/remote"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDashboardStatusUpdate(t *testing.T) {
	m := dashboardModel{startTime: time.Now(), quitChan: make(chan struct{}, 1)}

	updated, _ := m.Update(statusMsg(ServerStatus{
		Name:    "studio",
		Port:    8930,
		Keys:    []string{"chime", "groove"},
		Clients: []remote.ClientInfo{{ID: "c1", Name: "laptop"}},
	}))

	view := updated.(dashboardModel).View()
	for _, want := range []string{"studio", "8930", "chime, groove", "Control Clients (1)", "laptop"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestDashboardEmpty(t *testing.T) {
	m := dashboardModel{startTime: time.Now()}
	if !strings.Contains(m.View(), "No clients connected") {
		t.Error("expected empty client message")
	}
}

func TestDashboardQuit(t *testing.T) {
	quit := make(chan struct{}, 1)
	m := dashboardModel{startTime: time.Now(), quitChan: quit}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !updated.(dashboardModel).quitting {
		t.Error("expected model to be quitting")
	}

	select {
	case <-quit:
	default:
		t.Error("expected quit signal")
	}
}

func TestDashboardUpdateAfterStop(t *testing.T) {
	d := NewDashboard()
	d.Stop()
	d.Stop()

	// Must not block or panic
	for i := 0; i < 20; i++ {
		d.Update(ServerStatus{Name: "late"})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		length   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.length); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}
