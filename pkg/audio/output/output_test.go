// ABOUTME: Audio output tests
// ABOUTME: Verifies interface implementation and PCM stream rendering
package output

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
)

func TestOtoImplementsDevice(t *testing.T) {
	var _ Device = (*Oto)(nil)
	var _ Sink = (*otoSink)(nil)
	var _ OpenFunc = OpenOto
}

func monoClip(values ...int16) *audio.Clip {
	samples := make([]int32, len(values))
	for i, v := range values {
		samples[i] = audio.SampleFromInt16(v)
	}
	return &audio.Clip{
		Format:  audio.Format{SampleRate: 48000, Channels: 1},
		Samples: samples,
	}
}

func decodePCM(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}

func TestStreamMonoToStereo(t *testing.T) {
	stream := NewStream(monoClip(100, -200), audio.Format{SampleRate: 48000, Channels: 2}, 1.0, false)

	buf := make([]byte, 16)
	n, err := stream.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes, got %d", n)
	}

	expected := []int16{100, 100, -200, -200}
	got := decodePCM(buf[:n])
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got[i])
		}
	}

	n, err = stream.Read(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("expected (0, EOF), got (%d, %v)", n, err)
	}
}

func TestStreamLoops(t *testing.T) {
	stream := NewStream(monoClip(7, 9), audio.Format{SampleRate: 48000, Channels: 1}, 1.0, true)

	buf := make([]byte, 10)
	for round := 0; round < 3; round++ {
		n, err := stream.Read(buf)
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		if n != 10 {
			t.Fatalf("round %d: expected 10 bytes, got %d", round, n)
		}
	}
}

func TestStreamDropsExtraChannels(t *testing.T) {
	clip := &audio.Clip{
		Format: audio.Format{SampleRate: 48000, Channels: 2},
		Samples: []int32{
			audio.SampleFromInt16(1), audio.SampleFromInt16(2),
			audio.SampleFromInt16(3), audio.SampleFromInt16(4),
		},
	}
	stream := NewStream(clip, audio.Format{SampleRate: 48000, Channels: 1}, 1.0, false)

	buf := make([]byte, 4)
	n, err := stream.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := decodePCM(buf[:n])
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("expected left channel [1 3], got %v", got)
	}
}

func TestStreamSpeed(t *testing.T) {
	stream := NewStream(monoClip(1, 2, 3, 4), audio.Format{SampleRate: 48000, Channels: 1}, 2.0, false)

	buf := make([]byte, 16)
	n, _ := stream.Read(buf)

	got := decodePCM(buf[:n])
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("expected [1 3] at double speed, got %v", got)
	}
}

func TestStreamShortBuffer(t *testing.T) {
	stream := NewStream(monoClip(1), audio.Format{SampleRate: 48000, Channels: 2}, 1.0, false)

	n, err := stream.Read(make([]byte, 3))
	if n != 0 || err != nil {
		t.Errorf("expected (0, nil) for a buffer smaller than a frame, got (%d, %v)", n, err)
	}
}

func TestStreamEmptyClip(t *testing.T) {
	stream := NewStream(monoClip(), audio.Format{SampleRate: 48000, Channels: 2}, 1.0, true)

	n, err := stream.Read(make([]byte, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("expected (0, EOF) for an empty looping clip, got (%d, %v)", n, err)
	}
}
