// ABOUTME: Tests for audio resampler
// ABOUTME: Tests interpolation, speed scaling, looping and chunked rendering
package resample

import (
	"testing"
)

func TestNewResampler(t *testing.T) {
	r := New(44100, 48000, 2)

	if r == nil {
		t.Fatal("expected resampler to be created")
	}

	if r.inputRate != 44100 {
		t.Errorf("expected inputRate 44100, got %d", r.inputRate)
	}

	if r.outputRate != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.outputRate)
	}

	if r.channels != 2 {
		t.Errorf("expected channels 2, got %d", r.channels)
	}

	if r.Speed() != 1.0 {
		t.Errorf("expected speed 1.0, got %v", r.Speed())
	}
}

func TestNonPositiveSpeedPlaysNormally(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
	}{
		{"zero", 0},
		{"negative", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWithSpeed(48000, 48000, 1, tt.speed)
			if r.Speed() != 1.0 {
				t.Errorf("expected speed 1.0, got %v", r.Speed())
			}
		})
	}
}

func TestResampleSameRate(t *testing.T) {
	r := New(48000, 48000, 2)

	input := make([]int32, 200)
	for i := range input {
		input[i] = int32(i * 100)
	}

	output := make([]int32, len(input))
	n, done := r.Resample(input, output, false)

	if n != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), n)
	}
	if done {
		t.Error("expected clip not to be finished while output was full")
	}
	for i := range input {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %d, got %d", i, input[i], output[i])
		}
	}

	n, done = r.Resample(input, output, false)
	if n != 0 || !done {
		t.Errorf("expected (0, true) after the end, got (%d, %v)", n, done)
	}
}

func TestResampleUpsampling(t *testing.T) {
	// 44100 -> 48000 (upsampling by factor of ~1.088)
	r := New(44100, 48000, 2)

	input := make([]int32, 200)
	for i := range input {
		input[i] = int32(i * 100)
	}

	expectedSize := r.OutputSamplesNeeded(len(input))
	output := make([]int32, expectedSize+20)

	n, done := r.Resample(input, output, false)

	if !done {
		t.Error("expected clip to finish inside the output buffer")
	}
	if n != expectedSize {
		t.Errorf("expected %d samples, got %d", expectedSize, n)
	}
}

func TestResampleDownsampling(t *testing.T) {
	r := New(48000, 44100, 2)

	input := make([]int32, 200)
	for i := range input {
		input[i] = int32(i * 100)
	}

	output := make([]int32, 400)
	n, _ := r.Resample(input, output, false)

	if n >= len(input) {
		t.Errorf("expected fewer than %d samples after downsampling, got %d", len(input), n)
	}
	if n == 0 {
		t.Fatal("resampler produced no output")
	}
}

func TestResampleInterpolates(t *testing.T) {
	// Doubling the rate inserts midpoints; the last frame is held
	r := New(1, 2, 1)

	input := []int32{0, 100}
	output := make([]int32, 8)

	n, done := r.Resample(input, output, false)
	if !done {
		t.Error("expected clip to finish")
	}

	expected := []int32{0, 50, 100, 100}
	if n != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), n)
	}
	for i, want := range expected {
		if output[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, output[i])
		}
	}
}

func TestResampleSpeed(t *testing.T) {
	r := NewWithSpeed(48000, 48000, 1, 2.0)

	input := []int32{0, 10, 20, 30, 40, 50}
	output := make([]int32, 10)

	n, done := r.Resample(input, output, false)
	if !done {
		t.Error("expected clip to finish")
	}

	expected := []int32{0, 20, 40}
	if n != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), n)
	}
	for i, want := range expected {
		if output[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, output[i])
		}
	}
}

func TestResampleLoop(t *testing.T) {
	r := New(48000, 48000, 1)

	input := []int32{0, 100}
	output := make([]int32, 5)

	n, done := r.Resample(input, output, true)
	if done {
		t.Error("expected looping clip never to finish")
	}

	expected := []int32{0, 100, 0, 100, 0}
	if n != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), n)
	}
	for i, want := range expected {
		if output[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, output[i])
		}
	}
}

func TestResampleChunks(t *testing.T) {
	r := New(48000, 48000, 1)

	input := make([]int32, 10)
	for i := range input {
		input[i] = int32(i)
	}

	output := make([]int32, 4)
	sizes := []int{4, 4, 2}
	for i, want := range sizes {
		n, _ := r.Resample(input, output, false)
		if n != want {
			t.Fatalf("chunk %d: expected %d samples, got %d", i, want, n)
		}
		if output[0] != int32(i*4) {
			t.Errorf("chunk %d: expected first sample %d, got %d", i, i*4, output[0])
		}
	}

	if r.Position() != 10 {
		t.Errorf("expected position 10, got %v", r.Position())
	}

	r.Reset()
	if r.Position() != 0 {
		t.Errorf("expected position 0 after reset, got %v", r.Position())
	}
}

func TestResampleStereo(t *testing.T) {
	r := New(44100, 48000, 2)

	input := make([]int32, 20) // 10 stereo frames
	for i := 0; i < 10; i++ {
		input[i*2] = 1000    // Left channel
		input[i*2+1] = -1000 // Right channel
	}

	output := make([]int32, 30)
	n, _ := r.Resample(input, output, false)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}

	for i := 0; i < n/2; i++ {
		// Allow truncation of the interpolated value
		if abs(int(output[i*2])-1000) > 1 {
			t.Errorf("frame %d: expected left ~1000, got %d", i, output[i*2])
		}
		if abs(int(output[i*2+1])+1000) > 1 {
			t.Errorf("frame %d: expected right ~-1000, got %d", i, output[i*2+1])
		}
	}
}

func TestResampleEmptyInput(t *testing.T) {
	r := New(44100, 48000, 2)

	n, done := r.Resample([]int32{}, make([]int32, 100), false)

	if n != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", n)
	}
	if !done {
		t.Error("expected empty input to be done")
	}
}

// Helper function
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
