// ABOUTME: Asset maps and playback requests shared by the mixer and its callers
// ABOUTME: Defines Library, Volumes, Sound, Track, State and volume resolution
package audio

// MaxTracks is the number of positional track slots
const MaxTracks = 16

// Library maps asset keys to encoded audio
type Library[K comparable] map[K]Bytes

// Clone returns a shallow copy. The buffers themselves are shared.
func (l Library[K]) Clone() Library[K] {
	out := make(Library[K], len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Volumes maps asset keys to a gain multiplier. Missing keys mean 1.0.
type Volumes[K comparable] map[K]float64

// Of returns the multiplier for key
func (v Volumes[K]) Of(key K) float64 {
	if vol, ok := v[key]; ok {
		return vol
	}
	return 1.0
}

// Clone returns a copy of the table
func (v Volumes[K]) Clone() Volumes[K] {
	out := make(Volumes[K], len(v))
	for k, vol := range v {
		out[k] = vol
	}
	return out
}

// Sound is a one-shot play request
type Sound[K comparable] struct {
	Key    K
	Volume float64
	Speed  float64
}

// Track is the desired state of one looping slot
type Track[K comparable] struct {
	Key     K
	Volume  float64
	Playing bool
}

// State is a complete snapshot of what should be heard.
// Tracks[i] is the desired contents of slot i; slots past the end are empty.
type State[K comparable] struct {
	SoundVolume float64
	TrackVolume float64
	Tracks      []Track[K]
}

// ResolveVolume combines per-asset, category and instance gain.
// The result is not clamped.
func ResolveVolume[K comparable](volumes Volumes[K], key K, category, instance float64) float64 {
	return volumes.Of(key) * category * instance
}
