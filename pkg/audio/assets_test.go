// ABOUTME: Tests for shared asset types
// ABOUTME: Tests Bytes identity, map cloning and volume resolution
package audio

import (
	"io"
	"testing"
)

func TestBytesIdentity(t *testing.T) {
	src := []byte{1, 2, 3}
	a := NewBytes(src)
	b := a
	c := NewBytes(src)

	if !a.Same(b) {
		t.Error("expected copies of a handle to be the same")
	}
	if a.Same(c) {
		t.Error("expected separately created buffers to differ")
	}
	if a != b {
		t.Error("expected copied handles to compare equal")
	}
	if a == c {
		t.Error("expected buffers with equal content to compare unequal")
	}
}

func TestBytesCopiesInput(t *testing.T) {
	src := []byte{1, 2, 3}
	b := NewBytes(src)
	src[0] = 9

	if b.Bytes()[0] != 1 {
		t.Errorf("expected buffer to be isolated from caller, got %d", b.Bytes()[0])
	}
	if b.Len() != 3 {
		t.Errorf("expected length 3, got %d", b.Len())
	}

	data, err := io.ReadAll(b.Reader())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 3 {
		t.Errorf("expected reader to yield 3 bytes, got %d", len(data))
	}
}

func TestZeroBytes(t *testing.T) {
	var b Bytes
	if !b.IsZero() {
		t.Error("expected zero value to report IsZero")
	}
	if b.Len() != 0 || b.Bytes() != nil {
		t.Error("expected zero value to be empty")
	}
}

func TestLibraryClone(t *testing.T) {
	lib := Library[string]{"a": NewBytes([]byte{1})}
	clone := lib.Clone()
	clone["b"] = NewBytes([]byte{2})

	if _, ok := lib["b"]; ok {
		t.Error("expected clone to be independent of original")
	}
	if !clone["a"].Same(lib["a"]) {
		t.Error("expected clone to share buffers")
	}
}

func TestResolveVolume(t *testing.T) {
	volumes := Volumes[string]{"loud": 2.0, "muted": 0}

	tests := []struct {
		name     string
		key      string
		category float64
		instance float64
		expected float64
	}{
		{"missing key defaults to unity", "other", 0.5, 0.5, 0.25},
		{"per-asset multiplier", "loud", 0.5, 0.5, 0.5},
		{"zero asset volume", "muted", 1.0, 1.0, 0},
		{"no clamping above one", "loud", 2.0, 1.5, 6.0},
		{"negative passes through", "other", -1.0, 0.5, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveVolume(volumes, tt.key, tt.category, tt.instance)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVolumesOfNilTable(t *testing.T) {
	var volumes Volumes[int]
	if volumes.Of(3) != 1.0 {
		t.Errorf("expected 1.0 from nil table, got %v", volumes.Of(3))
	}
	if len(volumes.Clone()) != 0 {
		t.Error("expected empty clone")
	}
}
