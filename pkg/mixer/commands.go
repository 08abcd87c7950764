// ABOUTME: Command protocol carried from the mixer to its speaker
// ABOUTME: Defines the command variants and slot snapshots
package mixer

import "github.com/Resonate-Protocol/jamjar-go/pkg/audio"

type commandKind int

const (
	cmdQuit commandKind = iota
	cmdPrewarm
	cmdState
	cmdSound
	cmdLibrary
	cmdVolumes
)

func (k commandKind) String() string {
	switch k {
	case cmdQuit:
		return "quit"
	case cmdPrewarm:
		return "prewarm"
	case cmdState:
		return "state"
	case cmdSound:
		return "sound"
	case cmdLibrary:
		return "library"
	case cmdVolumes:
		return "volumes"
	default:
		return "unknown"
	}
}

// slots holds the desired track for each position; nil means empty
type slots[K comparable] [audio.MaxTracks]*audio.Track[K]

// stateUpdate is a State with its track list fixed to MaxTracks slots
type stateUpdate[K comparable] struct {
	soundVolume float64
	trackVolume float64
	tracks      slots[K]
}

// newStateUpdate copies state into slots. Tracks past MaxTracks are dropped.
func newStateUpdate[K comparable](state audio.State[K]) stateUpdate[K] {
	update := stateUpdate[K]{
		soundVolume: state.SoundVolume,
		trackVolume: state.TrackVolume,
	}
	for i := 0; i < audio.MaxTracks && i < len(state.Tracks); i++ {
		track := state.Tracks[i]
		update.tracks[i] = &track
	}
	return update
}

// command is one message for the speaker. Only the fields for kind are set.
type command[K comparable] struct {
	kind    commandKind
	state   stateUpdate[K]
	sound   audio.Sound[K]
	library audio.Library[K]
	restart bool
	volumes audio.Volumes[K]

	// reply receives the warm-up result for prewarm
	reply chan error
}
