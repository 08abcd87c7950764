// ABOUTME: Audio output interface definition
// ABOUTME: Device and Sink capabilities used by the mixer's speaker
package output

import "github.com/Resonate-Protocol/jamjar-go/pkg/audio"

// Device represents an opened audio output
type Device interface {
	// NewSink starts a looping playback handle for clip.
	// The sink begins paused unless playing is set.
	NewSink(clip *audio.Clip, volume float64, playing bool) (Sink, error)

	// PlayOnce plays clip to the end without returning a handle
	PlayOnce(clip *audio.Clip, volume, speed float64) error

	// Close stops all playback and releases the device
	Close() error
}

// Sink is a live playback handle for one track slot
type Sink interface {
	Play()
	Pause()

	// SetVolume sets the gain. Values are not clamped.
	SetVolume(volume float64)

	Close() error
}

// OpenFunc opens the default output with the given format
type OpenFunc func(format audio.Format) (Device, error)
