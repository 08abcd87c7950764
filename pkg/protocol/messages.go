// ABOUTME: Jamjar remote control message type definitions
// ABOUTME: Defines the JSON envelope and payloads exchanged over the control websocket
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
)

// ProtocolVersion is bumped on incompatible message changes
const ProtocolVersion = 1

// Message types
const (
	TypeClientHello   = "client/hello"
	TypeClientGoodbye = "client/goodbye"
	TypeServerHello   = "server/hello"
	TypeServerError   = "server/error"
	TypeMixerState    = "mixer/state"
	TypeMixerSound    = "mixer/sound"
	TypeMixerVolumes  = "mixer/volumes"
	TypeMixerReload   = "mixer/reload"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID   string      `json:"client_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// DeviceInfo contains software identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID   string      `json:"server_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
	Keys       []string    `json:"keys"`       // Assets available to play
	MaxTracks  int         `json:"max_tracks"` // Number of track slots
}

// ClientGoodbye is sent before graceful disconnect
type ClientGoodbye struct {
	Reason string `json:"reason"` // "shutdown", "user_request"
}

// ServerError reports a rejected message
type ServerError struct {
	Message string `json:"message"`
}

// TrackState is one slot of a mixer/state message
type TrackState struct {
	Key     string  `json:"key"`
	Volume  float64 `json:"volume"`
	Playing bool    `json:"playing"`
}

// MixerState replaces the full desired track state
type MixerState struct {
	SoundVolume float64      `json:"sound_volume"`
	TrackVolume float64      `json:"track_volume"`
	Tracks      []TrackState `json:"tracks"` // Index is the slot
}

// MixerSound plays a one-shot
type MixerSound struct {
	Key    string  `json:"key"`
	Volume float64 `json:"volume"`
	Speed  float64 `json:"speed"`
}

// MixerVolumes replaces the per-asset volume table
type MixerVolumes struct {
	Volumes map[string]float64 `json:"volumes"`
}

// MixerReload asks the server to reread its assets
type MixerReload struct {
	RestartTracks bool `json:"restart_tracks"`
}

// ToAudio converts the message to a mixer state
func (m MixerState) ToAudio() audio.State[string] {
	tracks := make([]audio.Track[string], len(m.Tracks))
	for i, t := range m.Tracks {
		tracks[i] = audio.Track[string]{Key: t.Key, Volume: t.Volume, Playing: t.Playing}
	}
	return audio.State[string]{
		SoundVolume: m.SoundVolume,
		TrackVolume: m.TrackVolume,
		Tracks:      tracks,
	}
}

// NewMixerState converts a mixer state to a message
func NewMixerState(state audio.State[string]) MixerState {
	tracks := make([]TrackState, len(state.Tracks))
	for i, t := range state.Tracks {
		tracks[i] = TrackState{Key: t.Key, Volume: t.Volume, Playing: t.Playing}
	}
	return MixerState{
		SoundVolume: state.SoundVolume,
		TrackVolume: state.TrackVolume,
		Tracks:      tracks,
	}
}

// ToAudio converts the message to a sound request
func (m MixerSound) ToAudio() audio.Sound[string] {
	return audio.Sound[string]{Key: m.Key, Volume: m.Volume, Speed: m.Speed}
}

// ToAudio converts the message to a volume table
func (m MixerVolumes) ToAudio() audio.Volumes[string] {
	return audio.Volumes[string](m.Volumes).Clone()
}

// DecodePayload converts a generically decoded payload into v
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
