// ABOUTME: Demo player orchestration for the mixer
// ABOUTME: Crossfades two looping tracks, plays a chime and hot-reloads assets
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/internal/resources"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/mixer"
)

// FrameInterval is how often the demo submits a fresh state
const FrameInterval = 16 * time.Millisecond

// Config holds player configuration
type Config struct {
	AssetDir    string
	VolumesPath string

	// Asset keys for the two crossfaded tracks and the one-shot
	TrackA string
	TrackB string
	Chime  string

	// Fade is the crossfade length (default: 1s)
	Fade time.Duration

	Mixer mixer.Config
}

func (c *Config) applyDefaults() {
	if c.TrackA == "" {
		c.TrackA = "groove"
	}
	if c.TrackB == "" {
		c.TrackB = "duelling"
	}
	if c.Chime == "" {
		c.Chime = "chime"
	}
	if c.Fade == 0 {
		c.Fade = time.Second
	}
}

// Mixer is the part of *mixer.Mixer[string] the player drives
type Mixer interface {
	Init() error
	Initialized() bool
	UpdateState(state audio.State[string]) error
	PlaySound(sound audio.Sound[string]) error
	UpdateLibrary(library audio.Library[string], restartTracks bool) error
	UpdateVolumes(volumes audio.Volumes[string]) error
	Close() error
}

// Status is a snapshot for display
type Status struct {
	Initialized bool
	Toggled     bool
	TrackA      string
	TrackB      string
	LevelA      float64
	LevelB      float64
	TrackVolume float64
	SoundVolume float64
	Assets      int
	Reloads     int
	Chimes      int
	LastError   string
}

// Player drives the crossfade demo
type Player struct {
	config Config
	mixer  Mixer

	mu          sync.Mutex
	toggled     bool
	changedAt   time.Time
	trackVolume float64
	soundVolume float64
	assets      int
	reloads     int
	chimes      int
	lastErr     error
}

// Open loads assets from disk and creates a mixer for them
func Open(config Config) (*Player, error) {
	config.applyDefaults()

	library, err := resources.LoadLibrary(config.AssetDir)
	if err != nil {
		return nil, err
	}
	volumes, err := resources.LoadVolumes(config.VolumesPath)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{config.TrackA, config.TrackB, config.Chime} {
		if _, ok := library[key]; !ok {
			log.Printf("Asset %q not found in %s", key, config.AssetDir)
		}
	}

	p := New(config, mixer.New(config.Mixer, library, volumes))
	p.assets = len(library)
	return p, nil
}

// New creates a player around an existing mixer
func New(config Config, m Mixer) *Player {
	config.applyDefaults()

	return &Player{
		config:      config,
		mixer:       m,
		trackVolume: 1.0,
		soundVolume: 1.0,
	}
}

// Press handles a key press. The first press opens the audio device;
// later presses swap the crossfade direction and play the chime.
func (p *Player) Press(now time.Time) error {
	if !p.mixer.Initialized() {
		log.Printf("Initializing audio output")
		err := p.mixer.Init()
		p.setError(err)
		return err
	}

	p.mu.Lock()
	p.toggled = !p.toggled
	p.changedAt = now
	p.chimes++
	p.mu.Unlock()

	return p.mixer.PlaySound(audio.Sound[string]{Key: p.config.Chime, Volume: 1.0, Speed: 1.0})
}

// levels returns the volumes of track A and B at now. Caller holds mu.
func (p *Player) levels(now time.Time) (float64, float64) {
	fadeIn := float64(now.Sub(p.changedAt)) / float64(p.config.Fade)
	if fadeIn > 1 {
		fadeIn = 1
	}
	if fadeIn < 0 {
		fadeIn = 0
	}
	fadeOut := 1 - fadeIn

	if p.toggled {
		return fadeOut, fadeIn
	}
	return fadeIn, fadeOut
}

// State builds the mixer state for now
func (p *Player) State(now time.Time) audio.State[string] {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, b := p.levels(now)
	return audio.State[string]{
		SoundVolume: p.soundVolume,
		TrackVolume: p.trackVolume,
		Tracks: []audio.Track[string]{
			{Key: p.config.TrackA, Volume: a, Playing: a > 0},
			{Key: p.config.TrackB, Volume: b, Playing: b > 0},
		},
	}
}

// Tick submits the current state once the mixer is initialized
func (p *Player) Tick(now time.Time) error {
	if !p.mixer.Initialized() {
		return nil
	}
	return p.mixer.UpdateState(p.State(now))
}

// Reload rereads assets and volumes and restarts the tracks on the new data
func (p *Player) Reload() error {
	library, err := resources.LoadLibrary(p.config.AssetDir)
	if err != nil {
		p.setError(err)
		return err
	}
	volumes, err := resources.LoadVolumes(p.config.VolumesPath)
	if err != nil {
		p.setError(err)
		return err
	}

	if err := p.mixer.UpdateLibrary(library, true); err != nil {
		return fmt.Errorf("failed to update library: %w", err)
	}
	if err := p.mixer.UpdateVolumes(volumes); err != nil {
		return fmt.Errorf("failed to update volumes: %w", err)
	}

	p.mu.Lock()
	p.assets = len(library)
	p.reloads++
	p.lastErr = nil
	p.mu.Unlock()

	log.Printf("Reloaded %d assets", len(library))
	return nil
}

// AdjustTrackVolume changes the track category volume, floored at zero
func (p *Player) AdjustTrackVolume(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trackVolume = adjust(p.trackVolume, delta)
}

// AdjustSoundVolume changes the sound category volume, floored at zero
func (p *Player) AdjustSoundVolume(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.soundVolume = adjust(p.soundVolume, delta)
}

func adjust(v, delta float64) float64 {
	v += delta
	if v < 0 {
		return 0
	}
	return v
}

func (p *Player) setError(err error) {
	if err == nil {
		return
	}
	log.Printf("Player error: %v", err)
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// Status returns a snapshot for display
func (p *Player) Status(now time.Time) Status {
	initialized := p.mixer.Initialized()

	p.mu.Lock()
	defer p.mu.Unlock()

	a, b := p.levels(now)
	s := Status{
		Initialized: initialized,
		Toggled:     p.toggled,
		TrackA:      p.config.TrackA,
		TrackB:      p.config.TrackB,
		LevelA:      a,
		LevelB:      b,
		TrackVolume: p.trackVolume,
		SoundVolume: p.soundVolume,
		Assets:      p.assets,
		Reloads:     p.reloads,
		Chimes:      p.chimes,
	}
	if p.lastErr != nil {
		s.LastError = p.lastErr.Error()
	}
	return s
}

// Run drives the demo without a UI. Audio starts immediately and the
// crossfade swaps every toggleEvery until ctx is cancelled.
func (p *Player) Run(ctx context.Context, toggleEvery time.Duration) error {
	if err := p.Press(time.Now()); err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}

	frames := time.NewTicker(FrameInterval)
	defer frames.Stop()

	toggles := time.NewTicker(toggleEvery)
	defer toggles.Stop()

	for {
		select {
		case now := <-frames.C:
			if err := p.Tick(now); err != nil {
				return err
			}
		case now := <-toggles.C:
			log.Printf("Crossfading")
			if err := p.Press(now); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Close shuts the mixer down
func (p *Player) Close() error {
	return p.mixer.Close()
}
