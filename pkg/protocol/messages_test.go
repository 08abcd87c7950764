// ABOUTME: Tests for jamjar protocol message types
// ABOUTME: Verifies wire field names and conversion to mixer types
package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
)

func TestWireFieldNames(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
		fields  []string
	}{
		{
			name:    "client hello",
			payload: ClientHello{ClientID: "c1", Name: "ctl", Version: ProtocolVersion},
			fields:  []string{`"client_id":"c1"`, `"version":1`},
		},
		{
			name:    "server hello",
			payload: ServerHello{ServerID: "s1", Keys: []string{"chime"}, MaxTracks: audio.MaxTracks},
			fields:  []string{`"server_id":"s1"`, `"keys":["chime"]`, `"max_tracks":16`},
		},
		{
			name:    "mixer state",
			payload: MixerState{SoundVolume: 0.5, Tracks: []TrackState{{Key: "A", Volume: 1, Playing: true}}},
			fields:  []string{`"sound_volume":0.5`, `"playing":true`},
		},
		{
			name:    "reload",
			payload: MixerReload{RestartTracks: true},
			fields:  []string{`"restart_tracks":true`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("failed to marshal: %v", err)
			}
			for _, field := range tt.fields {
				if !strings.Contains(string(data), field) {
					t.Errorf("expected %s in %s", field, data)
				}
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	raw := `{"type":"mixer/sound","payload":{"key":"chime","volume":0.8,"speed":1.5}}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if msg.Type != TypeMixerSound {
		t.Errorf("expected type %s, got %s", TypeMixerSound, msg.Type)
	}

	var sound MixerSound
	if err := DecodePayload(msg.Payload, &sound); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := sound.ToAudio()
	if got.Key != "chime" || got.Volume != 0.8 || got.Speed != 1.5 {
		t.Errorf("expected chime at 0.8 speed 1.5, got %+v", got)
	}
}

func TestDecodePayloadTypeMismatch(t *testing.T) {
	var sound MixerSound
	err := DecodePayload(map[string]interface{}{"key": 42}, &sound)
	if err == nil {
		t.Error("expected error for numeric key")
	}
}

func TestMixerStateConversion(t *testing.T) {
	state := audio.State[string]{
		SoundVolume: 0.25,
		TrackVolume: 0.75,
		Tracks: []audio.Track[string]{
			{Key: "A", Volume: 1, Playing: true},
			{Key: "B", Volume: 0.5, Playing: false},
		},
	}

	msg := NewMixerState(state)
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded MixerState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	got := decoded.ToAudio()
	if got.SoundVolume != 0.25 || got.TrackVolume != 0.75 {
		t.Errorf("expected category volumes 0.25/0.75, got %v/%v", got.SoundVolume, got.TrackVolume)
	}
	if len(got.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(got.Tracks))
	}
	for i := range state.Tracks {
		if got.Tracks[i] != state.Tracks[i] {
			t.Errorf("slot %d: expected %+v, got %+v", i, state.Tracks[i], got.Tracks[i])
		}
	}
}

func TestMixerVolumesCopies(t *testing.T) {
	msg := MixerVolumes{Volumes: map[string]float64{"A": 0.5}}
	volumes := msg.ToAudio()

	msg.Volumes["A"] = 0.9
	if volumes.Of("A") != 0.5 {
		t.Errorf("expected 0.5, got %v", volumes.Of("A"))
	}
	if volumes.Of("missing") != 1.0 {
		t.Errorf("expected default 1.0, got %v", volumes.Of("missing"))
	}
}
