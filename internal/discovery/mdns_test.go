// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager defaults, TXT records and server addresses
package discovery

import (
	"testing"
	"time"
)

func TestNewManagerDefaults(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "Test Mixer", Port: 8930})
	defer mgr.Stop()

	if mgr.config.Path != "/jamjar" {
		t.Errorf("expected path /jamjar, got %s", mgr.config.Path)
	}
	if mgr.config.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", mgr.config.Timeout)
	}
}

func TestTXTRecords(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "Test Mixer", Port: 8930, Path: "/custom"})
	defer mgr.Stop()

	records := mgr.txtRecords()
	if len(records) != 1 || records[0] != "path=/custom" {
		t.Errorf("expected [path=/custom], got %v", records)
	}
}

func TestServerInfoAddr(t *testing.T) {
	tests := []struct {
		name     string
		info     ServerInfo
		expected string
	}{
		{"ipv4", ServerInfo{Host: "192.168.1.20", Port: 8930}, "192.168.1.20:8930"},
		{"hostname", ServerInfo{Host: "mixer.local", Port: 9000}, "mixer.local:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Addr(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLocalIPsExcludeLoopback(t *testing.T) {
	ips, err := getLocalIPs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ip := range ips {
		if ip.IsLoopback() {
			t.Errorf("unexpected loopback address %s", ip)
		}
		if ip.To4() == nil {
			t.Errorf("expected IPv4 address, got %s", ip)
		}
	}
}
