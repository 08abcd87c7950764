// ABOUTME: Asynchronous audio mixer package
// ABOUTME: Mixer facade plus the speaker goroutine that owns the device
// Package mixer plays one-shot sounds and up to audio.MaxTracks looping
// tracks on a dedicated goroutine.
//
// Callers describe what should be heard and the speaker works out what to
// change. Tracks are identified by slot index: a slot that keeps its key
// across updates keeps playing without a restart, so a crossfade is just
// two slots whose volumes change every frame.
//
// The audio device is opened by Init, typically after a user gesture.
// Nothing is replayed at that point; only later updates are heard.
//
// Example:
//
//	m := mixer.New(mixer.Config{}, library, nil)
//	defer m.Close()
//
//	if err := m.Init(); err != nil {
//	    log.Printf("No audio: %v", err)
//	}
//	m.UpdateState(audio.State[string]{
//	    SoundVolume: 1,
//	    TrackVolume: 0.8,
//	    Tracks:      []audio.Track[string]{{Key: "theme", Volume: 1, Playing: true}},
//	})
//	m.PlaySound(audio.Sound[string]{Key: "chime", Volume: 1, Speed: 1})
package mixer
